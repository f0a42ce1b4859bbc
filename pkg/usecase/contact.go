package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ncn914491/folio/pkg/domain/interfaces"
	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/domain/types"
)

const (
	defaultSessionTTL  = 30 * time.Minute
	defaultMaxSessions = 1000
)

type contactSession struct {
	id         types.SessionID
	controller *SubmissionController
	updatedAt  time.Time
}

// ContactSessions keeps one SubmissionController per visitor session
type ContactSessions struct {
	ctx          context.Context
	relay        interfaces.Relay
	toName       string
	ttl          time.Duration
	maxSessions  int
	relayTimeout time.Duration
	now          func() time.Time

	mu       sync.Mutex
	sessions map[types.SessionID]*contactSession
}

var _ interfaces.ContactUseCase = (*ContactSessions)(nil)

// ContactOption is a functional option for ContactSessions
type ContactOption func(*ContactSessions)

// WithSessionTTL sets how long an untouched session is kept
func WithSessionTTL(ttl time.Duration) ContactOption {
	return func(s *ContactSessions) {
		s.ttl = ttl
	}
}

// WithMaxSessions caps the number of live sessions; the least recently used one is
// evicted when the cap is reached
func WithMaxSessions(n int) ContactOption {
	return func(s *ContactSessions) {
		s.maxSessions = n
	}
}

// WithSessionRelayTimeout bounds relay calls of every session controller
func WithSessionRelayTimeout(d time.Duration) ContactOption {
	return func(s *ContactSessions) {
		s.relayTimeout = d
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) ContactOption {
	return func(s *ContactSessions) {
		s.now = now
	}
}

// NewContactSessions creates a session registry. Every controller lifetime is bound
// to ctx, so cancelling it tears all sessions down.
func NewContactSessions(ctx context.Context, relay interfaces.Relay, toName string, opts ...ContactOption) *ContactSessions {
	s := &ContactSessions{
		ctx:         ctx,
		relay:       relay,
		toName:      toName,
		ttl:         defaultSessionTTL,
		maxSessions: defaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[types.SessionID]*contactSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new session with an Idle controller and an empty record
func (s *ContactSessions) Create(ctx context.Context) (*model.ContactSession, error) {
	id := types.SessionID(uuid.NewString())

	var opts []SubmissionOption
	if s.relayTimeout > 0 {
		opts = append(opts, WithRelayTimeout(s.relayTimeout))
	}

	sess := &contactSession{
		id:         id,
		controller: NewSubmissionController(s.ctx, s.relay, s.toName, opts...),
		updatedAt:  s.now(),
	}

	s.mu.Lock()
	s.evictLocked(ctx)
	s.sessions[id] = sess
	s.mu.Unlock()

	ctxlog.From(ctx).Debug("Contact session created", "session_id", id)
	return s.view(sess), nil
}

// evictLocked drops expired sessions and, if still at capacity, the least recently
// used one
func (s *ContactSessions) evictLocked(ctx context.Context) {
	logger := ctxlog.From(ctx)
	now := s.now()

	for id, sess := range s.sessions {
		if s.ttl > 0 && now.Sub(sess.updatedAt) > s.ttl && sess.controller.Snapshot().Status != model.SubmissionSubmitting {
			sess.controller.Close()
			delete(s.sessions, id)
			logger.Debug("Contact session expired", "session_id", id)
		}
	}

	for s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		var oldest *contactSession
		for _, sess := range s.sessions {
			if oldest == nil || sess.updatedAt.Before(oldest.updatedAt) {
				oldest = sess
			}
		}
		oldest.controller.Close()
		delete(s.sessions, oldest.id)
		logger.Debug("Contact session evicted", "session_id", oldest.id)
	}
}

func (s *ContactSessions) lookup(id types.SessionID) (*contactSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, goerr.Wrap(ErrSessionNotFound, "lookup failed", goerr.V("session_id", id))
	}
	if s.ttl > 0 && s.now().Sub(sess.updatedAt) > s.ttl && sess.controller.Snapshot().Status != model.SubmissionSubmitting {
		sess.controller.Close()
		delete(s.sessions, id)
		return nil, goerr.Wrap(ErrSessionNotFound, "session expired", goerr.V("session_id", id))
	}
	sess.updatedAt = s.now()
	return sess, nil
}

func (s *ContactSessions) view(sess *contactSession) *model.ContactSession {
	snapshot := sess.controller.Snapshot()

	s.mu.Lock()
	updatedAt := sess.updatedAt
	s.mu.Unlock()

	return &model.ContactSession{
		ID:        sess.id.String(),
		Status:    snapshot.Status,
		Record:    snapshot.Record,
		UpdatedAt: updatedAt,
	}
}

// Get returns the current state of a session
func (s *ContactSessions) Get(ctx context.Context, id types.SessionID) (*model.ContactSession, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Edit updates one form field of a session
func (s *ContactSessions) Edit(ctx context.Context, id types.SessionID, field model.Field, value string) (*model.ContactSession, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := sess.controller.Edit(field, value); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Submit runs one submission for a session and returns the resulting state
func (s *ContactSessions) Submit(ctx context.Context, id types.SessionID) (*model.ContactSession, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	ctx = ctxlog.With(ctx, ctxlog.From(ctx).With("session_id", id))
	if _, err := sess.controller.Submit(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess.updatedAt = s.now()
	s.mu.Unlock()

	return s.view(sess), nil
}

// Dismiss clears the Success/Error notice of a session
func (s *ContactSessions) Dismiss(ctx context.Context, id types.SessionID) (*model.ContactSession, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.controller.Dismiss()
	return s.view(sess), nil
}

// Close tears a session down, cancelling its in-flight relay call
func (s *ContactSessions) Close(ctx context.Context, id types.SessionID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return goerr.Wrap(ErrSessionNotFound, "close failed", goerr.V("session_id", id))
	}

	sess.controller.Close()
	ctxlog.From(ctx).Debug("Contact session closed", "session_id", id)
	return nil
}

// Shutdown closes every session
func (s *ContactSessions) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		sess.controller.Close()
		delete(s.sessions, id)
	}
}

// Len returns the number of live sessions
func (s *ContactSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
