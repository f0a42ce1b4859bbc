package interfaces

import (
	"context"

	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/domain/types"
)

// FeedSource fetches the showcased repositories of an account from one external source
type FeedSource interface {
	// Fetch performs exactly one request. It returns either the full normalized list
	// (possibly empty) or an error; partial results are never returned.
	Fetch(ctx context.Context, account types.AccountID) ([]model.FeedItem, error)
}
