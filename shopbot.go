package shopbot

import (
	"context"
	_ "embed"
	"log/slog"

	"github.com/aretw0/shopbot/internal/logging"
	"github.com/aretw0/shopbot/internal/runtime"
	"github.com/aretw0/shopbot/pkg/adapters/memory"
	"github.com/aretw0/shopbot/pkg/bot"
	"github.com/aretw0/shopbot/pkg/catalog"
	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/aretw0/shopbot/pkg/ports"
	"github.com/aretw0/shopbot/pkg/session"
)

// Version is the release of this module. It may carry a trailing newline.
//
//go:embed VERSION
var Version string

// Bot is the high-level entry point of the library.
// It wires the conversation engine, the session manager and the dispatcher.
type Bot struct {
	engine     *runtime.Engine
	sessions   *session.Manager
	dispatcher *bot.Dispatcher

	store     ports.StateStore
	locker    ports.SessionLocker
	catalog   *catalog.Catalog
	hooks     domain.LifecycleHooks
	observers []bot.StateObserver
	welcome   string
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithStore sets the session store (default: in memory).
func WithStore(store ports.StateStore) Option {
	return func(b *Bot) {
		b.store = store
	}
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.SessionLocker) Option {
	return func(b *Bot) {
		b.locker = locker
	}
}

// WithCatalog replaces the embedded menus.
func WithCatalog(c *catalog.Catalog) Option {
	return func(b *Bot) {
		b.catalog = c
	}
}

// WithLifecycleHooks registers observability hooks. Hooks added by several
// calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bot) {
		b.hooks = b.hooks.Merge(hooks)
	}
}

// WithStateObserver is notified with the diff of every turn that changed a session.
func WithStateObserver(obs bot.StateObserver) Option {
	return func(b *Bot) {
		b.observers = append(b.observers, obs)
	}
}

// WithWelcome overrides the text sent to members joining a conversation.
func WithWelcome(text string) Option {
	return func(b *Bot) {
		b.welcome = text
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// New builds a Bot.
func New(opts ...Option) *Bot {
	b := &Bot{}
	for _, opt := range opts {
		opt(b)
	}

	if b.store == nil {
		b.store = memory.NewStore()
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}

	b.engine = runtime.NewEngine(
		runtime.WithCatalog(b.catalog),
		runtime.WithLifecycleHooks(b.hooks),
		runtime.WithLogger(b.logger.With("component", "engine")),
	)

	sessOpts := []session.Option{session.WithLogger(b.logger.With("component", "session"))}
	if b.locker != nil {
		sessOpts = append(sessOpts, session.WithLocker(b.locker))
	}
	b.sessions = session.NewManager(b.store, sessOpts...)

	dispOpts := []bot.Option{
		bot.WithWelcome(b.welcome),
		bot.WithLifecycleHooks(b.hooks),
		bot.WithLogger(b.logger.With("component", "dispatcher")),
	}
	for _, obs := range b.observers {
		dispOpts = append(dispOpts, bot.WithStateObserver(obs))
	}
	b.dispatcher = bot.NewDispatcher(b.engine, b.sessions, dispOpts...)

	return b
}

// HandleActivity processes one inbound activity and sends the replies through sender.
func (b *Bot) HandleActivity(ctx context.Context, act domain.Activity, sender ports.Sender) error {
	return b.dispatcher.HandleActivity(ctx, act, sender)
}

// Inspect describes the conversation steps in order.
func (b *Bot) Inspect() []domain.StepInfo {
	return b.engine.Inspect()
}

// Catalog returns the menus offered by the bot.
func (b *Bot) Catalog() *catalog.Catalog {
	return b.engine.Catalog()
}

// Sessions gives access to stored conversations.
func (b *Bot) Sessions() *session.Manager {
	return b.sessions
}
