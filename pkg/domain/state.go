package domain

import "time"

// ExecutionStatus defines the current mode of the conversation flow.
type ExecutionStatus string

const (
	StatusActive     ExecutionStatus = "active"     // Waiting for the next reply
	StatusTerminated ExecutionStatus = "terminated" // Sink state reached
)

// EndReason explains why a flow reached its terminal state.
type EndReason string

const (
	EndCompleted    EndReason = "completed"
	EndDeclined     EndReason = "declined"
	EndUnparsedName EndReason = "unparsed_name"
)

// State represents the persisted snapshot of one conversation.
type State struct {
	// SessionID identifies the conversation this state belongs to.
	SessionID string `json:"session_id"`

	// UserID is the account that started the flow.
	UserID string `json:"user_id,omitempty"`

	// Step is the step that will consume the next reply.
	Step StepID `json:"step"`

	// Status indicates if the flow is waiting for input or done.
	Status ExecutionStatus `json:"status"`

	// EndReason is set once Status is StatusTerminated.
	EndReason EndReason `json:"end_reason,omitempty"`

	// Profile accumulates the user's answers.
	Profile Profile `json:"profile"`

	// Prompt is the last input request sent to the user.
	// Replies are validated against it before Step runs.
	Prompt *InputRequest `json:"prompt,omitempty"`

	// History tracks the steps executed so far (append-only).
	History []StepID `json:"history,omitempty"`

	// Sealed carries an encrypted snapshot when the store is wrapped by the
	// encryption middleware. Empty otherwise.
	Sealed string `json:"sealed,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a clean state positioned at the given step.
func NewState(sessionID string, start StepID) *State {
	return &State{
		SessionID: sessionID,
		Step:      start,
		Status:    StatusActive,
		History:   []StepID{},
	}
}

// Terminated reports whether the flow has ended.
func (s *State) Terminated() bool {
	return s.Status == StatusTerminated
}

// Snapshot returns a deep copy of the state, safe for mutation.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	next := *s
	if s.Prompt != nil {
		p := *s.Prompt
		p.Options = append([]string(nil), s.Prompt.Options...)
		next.Prompt = &p
	}
	next.History = append([]StepID{}, s.History...)
	return &next
}
