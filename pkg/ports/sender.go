package ports

import (
	"context"

	"github.com/aretw0/shopbot/pkg/domain"
)

// Sender delivers outbound actions to the channel a turn arrived on.
type Sender interface {
	Send(ctx context.Context, conversationID string, actions ...domain.ActionRequest) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, conversationID string, actions ...domain.ActionRequest) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, conversationID string, actions ...domain.ActionRequest) error {
	return f(ctx, conversationID, actions...)
}
