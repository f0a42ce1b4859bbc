package interfaces

import (
	"context"

	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/domain/types"
)

// FeedUseCase exposes the project feed to the presentation layer
type FeedUseCase interface {
	// Feed returns a copy of the current feed
	Feed() *model.Feed
}

// ContactUseCase manages per-visitor contact form sessions
type ContactUseCase interface {
	Create(ctx context.Context) (*model.ContactSession, error)
	Get(ctx context.Context, id types.SessionID) (*model.ContactSession, error)
	Edit(ctx context.Context, id types.SessionID, field model.Field, value string) (*model.ContactSession, error)
	Submit(ctx context.Context, id types.SessionID) (*model.ContactSession, error)
	Dismiss(ctx context.Context, id types.SessionID) (*model.ContactSession, error)
	Close(ctx context.Context, id types.SessionID) error
}
