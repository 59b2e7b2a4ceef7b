package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/shopbot/internal/logging"
	"github.com/aretw0/shopbot/internal/runtime"
	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/aretw0/shopbot/pkg/ports"
	"github.com/aretw0/shopbot/pkg/session"
	"github.com/mitchellh/mapstructure"
)

// Dispatcher handles one inbound activity at a time per conversation.
// Safe for concurrent use across conversations.
type Dispatcher struct {
	engine    *runtime.Engine
	sessions  *session.Manager
	welcome   string
	hooks     domain.LifecycleHooks
	observers []StateObserver
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher over an engine and a session manager.
func NewDispatcher(engine *runtime.Engine, sessions *session.Manager, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		engine:   engine,
		sessions: sessions,
		welcome:  DefaultWelcome,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HandleActivity processes a single activity and sends the replies through sender.
// It returns domain.ErrMissingTurnContext when the activity cannot be answered.
func (d *Dispatcher) HandleActivity(ctx context.Context, act domain.Activity, sender ports.Sender) error {
	if sender == nil {
		return fmt.Errorf("%w: no sender", domain.ErrMissingTurnContext)
	}
	if act.Conversation.ID == "" {
		return fmt.Errorf("%w: no conversation id", domain.ErrMissingTurnContext)
	}

	if d.hooks.OnTurn != nil {
		d.hooks.OnTurn(ctx, &domain.TurnEvent{
			Timestamp:    time.Now(),
			SessionID:    act.Conversation.ID,
			ActivityType: act.Type,
		})
	}
	d.logger.Debug("activity received",
		"session_id", act.Conversation.ID,
		"type", act.Type,
		"channel", act.ChannelID)

	switch act.Type {
	case domain.ActivityMessage:
		return d.onMessage(ctx, act, sender)
	case domain.ActivityConversationUpdate:
		return d.onMembersAdded(ctx, act, sender)
	default:
		return sender.Send(ctx, act.Conversation.ID, domain.Content(fmt.Sprintf("%s event detected", act.Type)))
	}
}

func (d *Dispatcher) onMessage(ctx context.Context, act domain.Activity, sender ports.Sender) error {
	sessionID := act.Conversation.ID
	input := MessageInput(act)

	diff, err := d.sessions.Update(ctx, sessionID, func(ctx context.Context, current *domain.State) (*domain.State, error) {
		var (
			next    *domain.State
			actions []domain.ActionRequest
			err     error
		)
		if current == nil || current.Terminated() {
			// The message only triggers the flow; it is not an answer to anything.
			next, actions, err = d.engine.Start(ctx, sessionID, act.From.ID)
		} else {
			next, actions, err = d.engine.Navigate(ctx, current, input)
		}
		if err != nil {
			return nil, err
		}
		// Delivery failures abort the turn so the state is not advanced past
		// a question the user never saw.
		if err := sender.Send(ctx, sessionID, actions...); err != nil {
			return nil, fmt.Errorf("failed to send reply: %w", err)
		}
		return next, nil
	})
	if err != nil {
		d.logger.Error("turn failed", "session_id", sessionID, "err", err)
		return err
	}

	if diff != nil {
		for _, obs := range d.observers {
			obs(ctx, diff)
		}
	}
	return nil
}

func (d *Dispatcher) onMembersAdded(ctx context.Context, act domain.Activity, sender ports.Sender) error {
	for _, member := range act.MembersAdded {
		if member.ID == act.Recipient.ID {
			continue
		}
		if err := sender.Send(ctx, act.Conversation.ID, domain.Content(d.welcome)); err != nil {
			return fmt.Errorf("failed to send welcome: %w", err)
		}
	}
	return nil
}

// submission is the card payload a channel may put in Activity.Value.
type submission struct {
	Choice  string `mapstructure:"choice"`
	Text    string `mapstructure:"text"`
	Confirm *bool  `mapstructure:"confirm"`
}

// MessageInput extracts the user's reply from a message activity.
// Text wins; otherwise a card submission in Value is used.
func MessageInput(act domain.Activity) string {
	if act.Text != "" || len(act.Value) == 0 {
		return act.Text
	}

	var sub submission
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &sub,
	})
	if err != nil {
		return ""
	}
	if err := dec.Decode(act.Value); err != nil {
		return ""
	}

	switch {
	case sub.Choice != "":
		return sub.Choice
	case sub.Text != "":
		return sub.Text
	case sub.Confirm != nil && *sub.Confirm:
		return "yes"
	case sub.Confirm != nil:
		return "no"
	}
	return ""
}
