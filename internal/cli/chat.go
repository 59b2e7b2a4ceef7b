package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/shopbot/internal/config"
	"github.com/aretw0/shopbot/internal/presentation/tui"
	"github.com/aretw0/shopbot/pkg/runner"
)

// ChatOptions configures a console session.
type ChatOptions struct {
	SessionID string
	UserID    string
	JSON      bool
	Headless  bool

	// Input and Output default to os.Stdin and os.Stdout.
	Input  io.Reader
	Output io.Writer
}

// RunChat runs one console conversation until the user leaves.
func RunChat(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ChatOptions) error {
	in, out := opts.Input, opts.Output
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	quiet := opts.JSON || opts.Headless

	bot, p, err := NewBot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("closing store", "err", err)
		}
	}()

	runOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithHeadless(quiet),
		runner.WithConversation(opts.SessionID, opts.UserID),
		runner.WithBotID(cfg.Bot.ID),
	}

	var art string
	switch {
	case opts.JSON:
		h := runner.NewJSONHandler(in, out)
		h.MaxInput = cfg.Input.MaxSize
		runOpts = append(runOpts, runner.WithInputHandler(h))
	default:
		textOpts := []runner.TextHandlerOption{
			runner.WithInputReader(in),
			runner.WithMaxInput(cfg.Input.MaxSize),
		}
		if !quiet && out == os.Stdout && tui.IsTerminal(os.Stdout) {
			art = tui.Banner()
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}
		runOpts = append(runOpts, runner.WithInputHandler(runner.NewTextHandler(out, textOpts...)))
	}

	r := runner.NewRunner(runOpts...)
	r.Input, r.Output = in, out
	// Headless runs do not print the banner.
	r.Banner = art + fmt.Sprintf(">>> Session '%s' active. Type exit to leave.\n", r.ConversationID)
	logger.Info("console session", "session_id", r.ConversationID, "store", cfg.Store.Driver)

	return r.Run(ctx, bot)
}
