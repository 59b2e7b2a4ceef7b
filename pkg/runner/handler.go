package runner

import (
	"context"

	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/aretw0/shopbot/pkg/ports"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the actions to the user.
	// Returns true if the actions ask the user for a reply.
	Output(ctx context.Context, actions []domain.ActionRequest) (bool, error)

	// Input reads a response from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message to the user (e.g. errors, status updates).
	// This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ActivityHandler is the bot side of the console channel.
// *shopbot.Bot and *bot.Dispatcher both satisfy it.
type ActivityHandler interface {
	HandleActivity(ctx context.Context, act domain.Activity, sender ports.Sender) error
}
