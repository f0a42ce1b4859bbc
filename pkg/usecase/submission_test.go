package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/usecase"
)

func fillForm(t *testing.T, c *usecase.SubmissionController) {
	t.Helper()
	gt.NoError(t, c.Edit(model.FieldName, "Alice"))
	gt.NoError(t, c.Edit(model.FieldEmail, "alice@example.com"))
	gt.NoError(t, c.Edit(model.FieldMessage, "Hello!"))
}

// statusRecorder collects every status a controller reports
type statusRecorder struct {
	mu       sync.Mutex
	statuses []model.SubmissionStatus
}

func (r *statusRecorder) record(s model.SubmissionSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s.Status)
}

func (r *statusRecorder) get() []model.SubmissionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.SubmissionStatus{}, r.statuses...)
}

func TestSubmissionController_Success(t *testing.T) {
	ctx := context.Background()
	relay := &MockRelay{}
	c := usecase.NewSubmissionController(ctx, relay, "Site Owner")
	defer c.Close()

	rec := &statusRecorder{}
	c.Subscribe(rec.record)

	gt.Equal(t, c.Snapshot().Status, model.SubmissionIdle)
	fillForm(t, c)

	snapshot, err := c.Submit(ctx)
	gt.NoError(t, err)

	gt.Equal(t, snapshot.Status, model.SubmissionSuccess)
	gt.Equal(t, snapshot.Record, model.SubmissionRecord{})
	gt.Equal(t, c.Snapshot().Record, model.SubmissionRecord{Name: "", Email: "", Message: ""})
	gt.Equal(t, rec.get(), []model.SubmissionStatus{model.SubmissionSubmitting, model.SubmissionSuccess})

	gt.Equal(t, relay.Calls(), []model.RelayMessage{
		{FromName: "Alice", FromEmail: "alice@example.com", Message: "Hello!", ToName: "Site Owner"},
	})
}

func TestSubmissionController_RelayFailure(t *testing.T) {
	ctx := context.Background()
	relay := &MockRelay{
		sendFunc: func(ctx context.Context, msg *model.RelayMessage) error {
			return errors.New("status 500")
		},
	}
	c := usecase.NewSubmissionController(ctx, relay, "Site Owner")
	defer c.Close()

	rec := &statusRecorder{}
	c.Subscribe(rec.record)
	fillForm(t, c)

	snapshot, err := c.Submit(ctx)
	gt.NoError(t, err)

	want := model.SubmissionRecord{Name: "Alice", Email: "alice@example.com", Message: "Hello!"}
	gt.Equal(t, snapshot.Status, model.SubmissionError)
	gt.Equal(t, snapshot.Record, want)
	gt.Equal(t, rec.get(), []model.SubmissionStatus{model.SubmissionSubmitting, model.SubmissionError})

	t.Run("retry from error is allowed", func(t *testing.T) {
		snapshot, err := c.Submit(ctx)
		gt.NoError(t, err)
		gt.Equal(t, snapshot.Status, model.SubmissionError)
		gt.Equal(t, len(relay.Calls()), 2)
	})
}

func TestSubmissionController_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		record model.SubmissionRecord
	}{
		{name: "all empty", record: model.SubmissionRecord{}},
		{name: "name empty", record: model.SubmissionRecord{Email: "a@example.com", Message: "m"}},
		{name: "email empty", record: model.SubmissionRecord{Name: "a", Message: "m"}},
		{name: "message empty", record: model.SubmissionRecord{Name: "a", Email: "a@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			relay := &MockRelay{}
			c := usecase.NewSubmissionController(ctx, relay, "Site Owner")
			defer c.Close()

			for _, f := range []model.Field{model.FieldName, model.FieldEmail, model.FieldMessage} {
				gt.NoError(t, c.Edit(f, tt.record.Get(f)))
			}

			_, err := c.Submit(ctx)
			gt.True(t, errors.Is(err, usecase.ErrMissingField))
			gt.Equal(t, c.Snapshot().Status, model.SubmissionIdle)
			gt.Equal(t, c.Snapshot().Record, tt.record)
			gt.Equal(t, len(relay.Calls()), 0)
		})
	}

	t.Run("error status is kept when rejected", func(t *testing.T) {
		ctx := context.Background()
		relay := &MockRelay{
			sendFunc: func(ctx context.Context, msg *model.RelayMessage) error {
				return errors.New("boom")
			},
		}
		c := usecase.NewSubmissionController(ctx, relay, "Site Owner")
		defer c.Close()

		fillForm(t, c)
		_, err := c.Submit(ctx)
		gt.NoError(t, err)

		gt.NoError(t, c.Edit(model.FieldMessage, ""))
		_, err = c.Submit(ctx)
		gt.True(t, errors.Is(err, usecase.ErrMissingField))
		gt.Equal(t, c.Snapshot().Status, model.SubmissionError)
		gt.Equal(t, len(relay.Calls()), 1)
	})
}

func TestSubmissionController_UnknownField(t *testing.T) {
	c := usecase.NewSubmissionController(context.Background(), &MockRelay{}, "Site Owner")
	defer c.Close()

	err := c.Edit(model.Field("subject"), "x")
	gt.True(t, errors.Is(err, usecase.ErrUnknownField))
}

func TestSubmissionController_SubmitInProgress(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	relay := &MockRelay{
		sendFunc: func(ctx context.Context, msg *model.RelayMessage) error {
			close(started)
			<-release
			return nil
		},
	}
	c := usecase.NewSubmissionController(ctx, relay, "Site Owner")
	defer c.Close()
	fillForm(t, c)

	done := make(chan model.SubmissionSnapshot)
	go func() {
		snapshot, _ := c.Submit(ctx)
		done <- snapshot
	}()
	<-started

	gt.Equal(t, c.Snapshot().Status, model.SubmissionSubmitting)

	_, err := c.Submit(ctx)
	gt.True(t, errors.Is(err, usecase.ErrSubmitInProgress))

	// edits stay responsive while submitting
	gt.NoError(t, c.Edit(model.FieldName, "Bob"))

	close(release)
	snapshot := <-done
	gt.Equal(t, snapshot.Status, model.SubmissionSuccess)
	gt.Equal(t, snapshot.Record, model.SubmissionRecord{})
	gt.Equal(t, len(relay.Calls()), 1)
}

func TestSubmissionController_Dismiss(t *testing.T) {
	ctx := context.Background()
	c := usecase.NewSubmissionController(ctx, &MockRelay{}, "Site Owner")
	defer c.Close()

	gt.Equal(t, c.Dismiss().Status, model.SubmissionIdle)

	fillForm(t, c)
	_, err := c.Submit(ctx)
	gt.NoError(t, err)
	gt.Equal(t, c.Snapshot().Status, model.SubmissionSuccess)

	gt.Equal(t, c.Dismiss().Status, model.SubmissionIdle)
}

func TestSubmissionController_Close(t *testing.T) {
	t.Run("close cancels in-flight relay call and ignores result", func(t *testing.T) {
		ctx := context.Background()
		started := make(chan struct{})
		relay := &MockRelay{
			sendFunc: func(ctx context.Context, msg *model.RelayMessage) error {
				close(started)
				<-ctx.Done()
				return ctx.Err()
			},
		}
		c := usecase.NewSubmissionController(ctx, relay, "Site Owner")
		fillForm(t, c)

		errCh := make(chan error)
		go func() {
			_, err := c.Submit(ctx)
			errCh <- err
		}()
		<-started
		c.Close()

		err := <-errCh
		gt.True(t, errors.Is(err, usecase.ErrControllerClosed))
		gt.Equal(t, c.Snapshot().Status, model.SubmissionSubmitting)
	})

	t.Run("parent cancellation aborts relay call", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		relay := &MockRelay{
			sendFunc: func(ctx context.Context, msg *model.RelayMessage) error {
				cancel()
				<-ctx.Done()
				return ctx.Err()
			},
		}
		c := usecase.NewSubmissionController(parent, relay, "Site Owner")
		defer c.Close()
		fillForm(t, c)

		snapshot, err := c.Submit(context.Background())
		gt.NoError(t, err)
		gt.Equal(t, snapshot.Status, model.SubmissionError)
	})

	t.Run("closed controller refuses operations", func(t *testing.T) {
		c := usecase.NewSubmissionController(context.Background(), &MockRelay{}, "Site Owner")
		c.Close()

		gt.True(t, errors.Is(c.Edit(model.FieldName, "a"), usecase.ErrControllerClosed))
		_, err := c.Submit(context.Background())
		gt.True(t, errors.Is(err, usecase.ErrControllerClosed))
	})
}

func TestSubmissionController_RelayTimeout(t *testing.T) {
	ctx := context.Background()
	relay := &MockRelay{
		sendFunc: func(ctx context.Context, msg *model.RelayMessage) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	c := usecase.NewSubmissionController(ctx, relay, "Site Owner", usecase.WithRelayTimeout(10*time.Millisecond))
	defer c.Close()
	fillForm(t, c)

	snapshot, err := c.Submit(ctx)
	gt.NoError(t, err)
	gt.Equal(t, snapshot.Status, model.SubmissionError)
	gt.Equal(t, snapshot.Record.Name, "Alice")
}
