package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter EventType = "step_enter"
	EventReprompt  EventType = "reprompt"
	EventFlowStart EventType = "flow_start"
	EventFlowEnd   EventType = "flow_end"
)

// StepEvent represents the execution of a step (or a re-ask of its prompt).
type StepEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	StepID    StepID    `json:"step_id"`
}

// FlowEvent represents the start or end of a conversation flow.
type FlowEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Reason    EndReason `json:"reason,omitempty"`
}

// TurnEvent represents an inbound activity handled by the dispatcher.
type TurnEvent struct {
	Timestamp    time.Time    `json:"timestamp"`
	SessionID    string       `json:"session_id"`
	ActivityType ActivityType `json:"activity_type"`
}

// LifecycleHooks defines callbacks for observability.
type LifecycleHooks struct {
	OnStepEnter func(context.Context, *StepEvent)
	OnReprompt  func(context.Context, *StepEvent)
	OnFlowStart func(context.Context, *FlowEvent)
	OnFlowEnd   func(context.Context, *FlowEvent)
	OnTurn      func(context.Context, *TurnEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepEnter: chain(h.OnStepEnter, other.OnStepEnter),
		OnReprompt:  chain(h.OnReprompt, other.OnReprompt),
		OnFlowStart: chain(h.OnFlowStart, other.OnFlowStart),
		OnFlowEnd:   chain(h.OnFlowEnd, other.OnFlowEnd),
		OnTurn:      chain(h.OnTurn, other.OnTurn),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
