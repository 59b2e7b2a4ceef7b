package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/shopbot/internal/logging"
	"github.com/aretw0/shopbot/pkg/catalog"
	"github.com/aretw0/shopbot/pkg/domain"
)

// Engine runs the shopping conversation. It is stateless between calls:
// every turn takes the current State and returns the next one.
type Engine struct {
	catalog *catalog.Catalog
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
	steps   map[domain.StepID]step
}

// Option configures the Engine.
type Option func(*Engine)

// WithCatalog replaces the embedded menu catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog.Default(),
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.steps = e.table()
	return e
}

// Catalog returns the menus the engine offers.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Start creates a fresh state for the session and runs the first step.
func (e *Engine) Start(ctx context.Context, sessionID, userID string) (*domain.State, []domain.ActionRequest, error) {
	state := domain.NewState(sessionID, domain.StepAskName)
	state.UserID = userID

	if e.hooks.OnFlowStart != nil {
		e.hooks.OnFlowStart(ctx, &domain.FlowEvent{
			Timestamp: e.now(),
			Type:      domain.EventFlowStart,
			SessionID: sessionID,
		})
	}
	e.logger.Debug("flow started", "session_id", sessionID, "user_id", userID)

	return e.execute(ctx, state, "")
}

// Navigate feeds a reply to the active step.
//
// The reply is first checked against the pending prompt. A reply that does not
// satisfy it re-asks the question and returns the state unchanged.
func (e *Engine) Navigate(ctx context.Context, current *domain.State, input string) (*domain.State, []domain.ActionRequest, error) {
	if current == nil {
		return nil, nil, fmt.Errorf("navigate: %w", domain.ErrSessionNotFound)
	}
	if current.Terminated() {
		return current.Snapshot(), nil, domain.ErrFlowTerminated
	}
	if _, ok := e.steps[current.Step]; !ok {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownStep, current.Step)
	}

	value, ok := accept(current.Prompt, input)
	if !ok {
		if e.hooks.OnReprompt != nil {
			e.hooks.OnReprompt(ctx, &domain.StepEvent{
				Timestamp: e.now(),
				Type:      domain.EventReprompt,
				SessionID: current.SessionID,
				StepID:    current.Step,
			})
		}
		e.logger.Debug("reply rejected",
			"session_id", current.SessionID,
			"step", current.Step,
			"prompt_type", current.Prompt.Type)
		return current.Snapshot(), []domain.ActionRequest{domain.Ask(reask(*current.Prompt))}, nil
	}

	return e.execute(ctx, current.Snapshot(), value)
}

// Inspect describes the step table in execution order.
func (e *Engine) Inspect() []domain.StepInfo {
	infos := make([]domain.StepInfo, 0, len(order))
	for _, id := range order {
		infos = append(infos, e.steps[id].info)
	}
	return infos
}

// execute runs the active step of next (a private copy) with an accepted reply.
func (e *Engine) execute(ctx context.Context, next *domain.State, reply string) (*domain.State, []domain.ActionRequest, error) {
	s, ok := e.steps[next.Step]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownStep, next.Step)
	}

	if e.hooks.OnStepEnter != nil {
		e.hooks.OnStepEnter(ctx, &domain.StepEvent{
			Timestamp: e.now(),
			Type:      domain.EventStepEnter,
			SessionID: next.SessionID,
			StepID:    s.info.ID,
		})
	}

	out := s.run(&next.Profile, reply)

	next.History = append(next.History, s.info.ID)
	next.UpdatedAt = e.now()

	if out.end != "" {
		next.Status = domain.StatusTerminated
		next.EndReason = out.end
		next.Prompt = nil

		if e.hooks.OnFlowEnd != nil {
			e.hooks.OnFlowEnd(ctx, &domain.FlowEvent{
				Timestamp: e.now(),
				Type:      domain.EventFlowEnd,
				SessionID: next.SessionID,
				Reason:    out.end,
			})
		}
		e.logger.Debug("flow ended", "session_id", next.SessionID, "step", s.info.ID, "reason", out.end)
		return next, out.actions, nil
	}

	next.Step = s.info.Next
	next.Prompt = out.prompt
	e.logger.Debug("step executed", "session_id", next.SessionID, "step", s.info.ID, "next", next.Step)
	return next, out.actions, nil
}
