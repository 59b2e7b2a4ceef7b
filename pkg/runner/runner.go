package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/shopbot/internal/logging"
	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/aretw0/shopbot/pkg/ports"
)

// ChannelID tags activities produced by the console.
const ChannelID = "console"

// DefaultBotID is the account the console addresses when none is configured.
const DefaultBotID = "shopbot"

// Runner drives a conversation from a line-oriented stream.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler over Input/Output is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	ConversationID string
	UserID         string
	BotID          string

	// Banner is written to Output before the welcome unless Headless is set.
	Banner string

	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner reading Stdin and writing Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		BotID:  DefaultBotID,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.ConversationID == "" {
		r.ConversationID = "console-" + uuid.NewString()
	}
	if r.UserID == "" {
		r.UserID = "user-" + r.ConversationID
	}
	return r
}

// Run announces the user to the bot and then relays lines until the user
// types exit or quit, the input ends, or ctx is cancelled (Ctrl+C included).
func (r *Runner) Run(ctx context.Context, bot ActivityHandler) error {
	handler := r.resolveHandler()
	if !r.Headless && r.Output != nil && r.Banner != "" {
		fmt.Fprint(r.Output, r.Banner)
		if !strings.HasSuffix(r.Banner, "\n") {
			fmt.Fprintln(r.Output)
		}
	}
	sender := ports.SenderFunc(func(ctx context.Context, _ string, actions ...domain.ActionRequest) error {
		_, err := handler.Output(ctx, actions)
		return err
	})

	signals := NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	join := r.activity(domain.ActivityConversationUpdate, "")
	join.MembersAdded = []domain.Account{{ID: r.UserID}, {ID: r.BotID}}
	if err := bot.HandleActivity(ctx, join, sender); err != nil {
		return fmt.Errorf("welcome: %w", err)
	}

	for {
		text, err := handler.Input(ctx)
		if err != nil {
			signals.AwaitInterrupt()
			if ctx.Err() != nil {
				r.Logger.Debug("console interrupted", "err", ctx.Err())
				return r.goodbye(handler)
			}
			if errors.Is(err, io.EOF) {
				return r.goodbye(handler)
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(text)) {
		case "":
			continue
		case "exit", "quit":
			return r.goodbye(handler)
		}

		msg := r.activity(domain.ActivityMessage, text)
		if err := bot.HandleActivity(ctx, msg, sender); err != nil {
			if ctx.Err() != nil {
				return r.goodbye(handler)
			}
			r.Logger.Error("turn failed", "conversation_id", r.ConversationID, "err", err)
			if sysErr := handler.SystemOutput(ctx, err.Error()); sysErr != nil {
				return sysErr
			}
		}
	}
}

func (r *Runner) activity(typ domain.ActivityType, text string) domain.Activity {
	return domain.Activity{
		ID:           uuid.NewString(),
		Type:         typ,
		ChannelID:    ChannelID,
		Conversation: domain.ConversationRef{ID: r.ConversationID},
		From:         domain.Account{ID: r.UserID},
		Recipient:    domain.Account{ID: r.BotID},
		Text:         text,
		Timestamp:    time.Now().UTC(),
	}
}

func (r *Runner) goodbye(handler IOHandler) error {
	if r.Headless {
		return nil
	}
	return handler.SystemOutput(context.Background(), "Session "+r.ConversationID+" closed.")
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	th := NewTextHandler(r.Output, WithInputReader(r.Input), WithTextHandlerRenderer(r.Renderer))
	// Memoize to prevent creating new pumps on subsequent Run() calls
	r.Handler = th
	return th
}
