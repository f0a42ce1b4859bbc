package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ncn914491/folio/pkg/domain/interfaces"
	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/utils/errs"
)

// SubmissionController drives one contact form: field state, validation, a single
// relay call per submit and the Idle/Submitting/Success/Error indicator.
type SubmissionController struct {
	relay   interfaces.Relay
	toName  string
	timeout time.Duration

	// lifetime of the owning session; cancelling it aborts the in-flight relay call
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	record    model.SubmissionRecord
	status    model.SubmissionStatus
	closed    bool
	listeners map[int]func(model.SubmissionSnapshot)
	nextID    int
}

// SubmissionOption is a functional option for SubmissionController
type SubmissionOption func(*SubmissionController)

// WithRelayTimeout bounds each relay call. Zero disables the bound.
func WithRelayTimeout(d time.Duration) SubmissionOption {
	return func(c *SubmissionController) {
		c.timeout = d
	}
}

// NewSubmissionController creates an Idle controller with an empty record. The
// controller lives until ctx is cancelled or Close is called.
func NewSubmissionController(ctx context.Context, relay interfaces.Relay, toName string, opts ...SubmissionOption) *SubmissionController {
	lifeCtx, cancel := context.WithCancel(ctx)
	c := &SubmissionController{
		relay:     relay,
		toName:    toName,
		ctx:       lifeCtx,
		cancel:    cancel,
		status:    model.SubmissionIdle,
		listeners: make(map[int]func(model.SubmissionSnapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Edit updates one field. Edits are accepted in every state, including Submitting.
func (c *SubmissionController) Edit(field model.Field, value string) error {
	if !field.IsValid() {
		return goerr.Wrap(ErrUnknownField, "cannot edit field", goerr.V("field", field))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	c.record.Set(field, value)
	return nil
}

// Submit validates the record and performs exactly one relay call. A relay failure
// is not returned as an error: it moves the controller to Error and keeps the
// record. Errors are returned only when the submit is refused before any call.
func (c *SubmissionController) Submit(ctx context.Context) (model.SubmissionSnapshot, error) {
	logger := ctxlog.From(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.SubmissionSnapshot{}, ErrControllerClosed
	}
	if c.status == model.SubmissionSubmitting {
		c.mu.Unlock()
		return model.SubmissionSnapshot{}, ErrSubmitInProgress
	}
	if missing := c.record.MissingFields(); len(missing) > 0 {
		c.mu.Unlock()
		return model.SubmissionSnapshot{}, goerr.Wrap(ErrMissingField, "cannot submit contact form",
			goerr.V("fields", missing))
	}

	msg := &model.RelayMessage{
		FromName:  c.record.Name,
		FromEmail: c.record.Email,
		Message:   c.record.Message,
		ToName:    c.toName,
	}
	c.status = model.SubmissionSubmitting
	c.mu.Unlock()
	c.notify()

	callCtx := ctxlog.With(c.ctx, logger)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, c.timeout)
		defer cancel()
	}

	sendErr := c.relay.Send(callCtx, msg)

	c.mu.Lock()
	if c.closed {
		// the owner is gone; the late result is ignored
		c.mu.Unlock()
		logger.Debug("Discarding relay result of closed controller", "error", sendErr)
		return model.SubmissionSnapshot{}, ErrControllerClosed
	}
	if sendErr != nil {
		c.status = model.SubmissionError
	} else {
		c.status = model.SubmissionSuccess
		c.record = model.SubmissionRecord{}
	}
	snapshot := c.snapshot()
	c.mu.Unlock()
	c.notify()

	if sendErr != nil {
		errs.Handle(ctx, goerr.Wrap(sendErr, "failed to relay contact message"))
	} else {
		logger.Info("Contact message relayed", "message", msg)
	}

	return snapshot, nil
}

// Dismiss hides the Success/Error notice by returning to Idle
func (c *SubmissionController) Dismiss() model.SubmissionSnapshot {
	c.mu.Lock()
	changed := c.status == model.SubmissionSuccess || c.status == model.SubmissionError
	if changed {
		c.status = model.SubmissionIdle
	}
	snapshot := c.snapshot()
	c.mu.Unlock()

	if changed {
		c.notify()
	}
	return snapshot
}

// Snapshot returns the current status and record
func (c *SubmissionController) Snapshot() model.SubmissionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *SubmissionController) snapshot() model.SubmissionSnapshot {
	return model.SubmissionSnapshot{
		Status: c.status,
		Record: c.record,
	}
}

// Subscribe registers fn to be called on every status change. The returned
// function removes the subscription.
func (c *SubmissionController) Subscribe(fn func(model.SubmissionSnapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *SubmissionController) notify() {
	c.mu.Lock()
	snapshot := c.snapshot()
	listeners := make([]func(model.SubmissionSnapshot), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Close tears the controller down and cancels an in-flight relay call
func (c *SubmissionController) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}
