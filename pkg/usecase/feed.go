package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ncn914491/folio/pkg/domain/interfaces"
	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/domain/types"
	"github.com/ncn914491/folio/pkg/utils/async"
	"github.com/ncn914491/folio/pkg/utils/errs"
	"golang.org/x/sync/singleflight"
)

// FeedLoader owns the displayed project list. It tries the primary source first and
// falls back to the secondary one; when both fail the list is left untouched.
type FeedLoader struct {
	account   types.AccountID
	primary   interfaces.FeedSource
	secondary interfaces.FeedSource
	timeout   time.Duration

	group singleflight.Group

	mu        sync.RWMutex
	feed      model.Feed
	listeners map[int]func(*model.Feed)
	nextID    int
	cancel    context.CancelFunc
	closed    bool

	mountOnce sync.Once
	mounted   chan struct{}
}

// FeedLoaderOption is a functional option for FeedLoader
type FeedLoaderOption func(*FeedLoader)

// WithFetchTimeout bounds each source call. Zero disables the bound.
func WithFetchTimeout(d time.Duration) FeedLoaderOption {
	return func(l *FeedLoader) {
		l.timeout = d
	}
}

// NewFeedLoader creates a FeedLoader with an empty feed
func NewFeedLoader(account types.AccountID, primary, secondary interfaces.FeedSource, opts ...FeedLoaderOption) *FeedLoader {
	l := &FeedLoader{
		account:   account,
		primary:   primary,
		secondary: secondary,
		feed: model.Feed{
			Source: model.FeedSourceNone,
			Items:  []model.FeedItem{},
		},
		listeners: make(map[int]func(*model.Feed)),
		mounted:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mount starts the initial load in the background. Only the first call has an
// effect; the load is bound to ctx and to the loader lifetime (see Close). The
// returned channel is closed when the initial load has finished.
func (l *FeedLoader) Mount(ctx context.Context) <-chan struct{} {
	l.mountOnce.Do(func() {
		l.mu.Lock()
		if l.closed {
			l.mu.Unlock()
			close(l.mounted)
			return
		}
		lifeCtx, cancel := context.WithCancel(ctx)
		l.cancel = cancel
		l.mu.Unlock()

		finished := async.Dispatch(lifeCtx, "feed-load", func(ctx context.Context) error {
			l.Load(ctx)
			return nil
		})
		go func() {
			<-finished
			close(l.mounted)
		}()
	})

	return l.mounted
}

// Load fetches the feed once. It never fails: source errors go to the diagnostic
// sink and the returned name tells which source, if any, replaced the feed.
// Concurrent calls share a single in-flight load.
func (l *FeedLoader) Load(ctx context.Context) model.FeedSourceName {
	v, _, _ := l.group.Do("load", func() (any, error) {
		return l.load(ctx), nil
	})
	return v.(model.FeedSourceName)
}

func (l *FeedLoader) load(ctx context.Context) model.FeedSourceName {
	logger := ctxlog.From(ctx)

	if l.isClosed() {
		return model.FeedSourceNone
	}

	items, err := l.fetch(ctx, l.primary)
	if err == nil {
		if l.replace(ctx, model.FeedSourcePrimary, items) {
			logger.Info("Feed loaded", "source", model.FeedSourcePrimary, "count", len(items))
			return model.FeedSourcePrimary
		}
		return model.FeedSourceNone
	}
	errs.Handle(ctx, goerr.Wrap(err, "primary feed source failed", goerr.V("account", l.account)))

	items, err = l.fetch(ctx, l.secondary)
	if err == nil {
		if l.replace(ctx, model.FeedSourceSecondary, items) {
			logger.Info("Feed loaded", "source", model.FeedSourceSecondary, "count", len(items))
			return model.FeedSourceSecondary
		}
		return model.FeedSourceNone
	}
	errs.Handle(ctx, goerr.Wrap(err, "secondary feed source failed", goerr.V("account", l.account)))

	logger.Warn("All feed sources failed, keeping current feed", "account", l.account)
	return model.FeedSourceNone
}

func (l *FeedLoader) fetch(ctx context.Context, src interfaces.FeedSource) ([]model.FeedItem, error) {
	if src == nil {
		return nil, goerr.New("feed source is not configured")
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	return src.Fetch(ctx, l.account)
}

// replace swaps the whole feed in one step. Results arriving after Close or after
// ctx was cancelled are discarded.
func (l *FeedLoader) replace(ctx context.Context, source model.FeedSourceName, items []model.FeedItem) bool {
	if ctx.Err() != nil {
		return false
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.feed = model.Feed{
		Source: source,
		Items:  model.CloneFeedItems(items),
	}
	listeners := make([]func(*model.Feed), 0, len(l.listeners))
	for _, fn := range l.listeners {
		listeners = append(listeners, fn)
	}
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(l.Feed())
	}
	return true
}

// Feed returns a copy of the current feed
func (l *FeedLoader) Feed() *model.Feed {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &model.Feed{
		Source: l.feed.Source,
		Items:  model.CloneFeedItems(l.feed.Items),
	}
}

// Items returns a copy of the current feed items
func (l *FeedLoader) Items() []model.FeedItem {
	return l.Feed().Items
}

// Subscribe registers fn to be called after every feed replacement. The returned
// function removes the subscription.
func (l *FeedLoader) Subscribe(fn func(*model.Feed)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.listeners[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.listeners, id)
	}
}

// Close cancels an in-flight load and stops further replacements
func (l *FeedLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.cancel != nil {
		l.cancel()
	}
}

func (l *FeedLoader) isClosed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}
