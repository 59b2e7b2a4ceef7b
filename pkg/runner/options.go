package runner

import (
	"log/slog"
)

// DefaultInputBufferSize is the default number of lines to buffer for input handlers.
const DefaultInputBufferSize = 64

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithHeadless suppresses the banner and the goodbye line.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithRenderer configures the content renderer (e.g. TUI, Markdown).
// It applies to the default TextHandler only.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithConversation sets the conversation and user the console speaks for.
// The conversation ID is also the session ID.
func WithConversation(conversationID, userID string) Option {
	return func(r *Runner) {
		r.ConversationID = conversationID
		r.UserID = userID
	}
}

// WithBotID sets the account the bot answers as.
func WithBotID(id string) Option {
	return func(r *Runner) {
		r.BotID = id
	}
}

// WithBanner sets the line printed before the conversation starts.
func WithBanner(banner string) Option {
	return func(r *Runner) {
		r.Banner = banner
	}
}
