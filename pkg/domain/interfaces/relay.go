package interfaces

import (
	"context"

	"github.com/ncn914491/folio/pkg/domain/model"
)

// Relay delivers a visitor message to the site owner through a third-party service
type Relay interface {
	// Send returns nil only when the relay accepted the message
	Send(ctx context.Context, msg *model.RelayMessage) error
}
