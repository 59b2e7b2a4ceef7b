package bot

import (
	"context"
	"log/slog"

	"github.com/aretw0/shopbot/pkg/domain"
)

// DefaultWelcome greets users who join a conversation.
const DefaultWelcome = "Hello and welcome! Say hi whenever you are ready to shop."

// StateObserver is notified after a turn changed a session.
type StateObserver func(ctx context.Context, diff *domain.StateDiff)

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithWelcome overrides DefaultWelcome.
func WithWelcome(text string) Option {
	return func(d *Dispatcher) {
		if text != "" {
			d.welcome = text
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithLifecycleHooks registers turn-level hooks. Step and flow hooks belong
// to the engine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// WithStateObserver adds an observer. Observers run synchronously after the
// state was saved.
func WithStateObserver(obs StateObserver) Option {
	return func(d *Dispatcher) {
		if obs != nil {
			d.observers = append(d.observers, obs)
		}
	}
}
