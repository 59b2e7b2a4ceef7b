package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/shopbot/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			logger.DebugContext(ctx, "Turn", "session_id", e.SessionID, "activity_type", e.ActivityType)
		},
		OnFlowStart: func(ctx context.Context, e *domain.FlowEvent) {
			logger.DebugContext(ctx, "Flow Start", "session_id", e.SessionID)
		},
		OnFlowEnd: func(ctx context.Context, e *domain.FlowEvent) {
			logger.DebugContext(ctx, "Flow End", "session_id", e.SessionID, "reason", e.Reason)
		},
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "Enter Step", "session_id", e.SessionID, "step", e.StepID)
		},
		OnReprompt: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "Reprompt", "session_id", e.SessionID, "step", e.StepID)
		},
	}
}
