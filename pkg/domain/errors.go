package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrFlowTerminated is returned when input is sent to a flow that already ended.
var ErrFlowTerminated = errors.New("flow already terminated")

// ErrUnknownStep is returned when a state points at a step the engine does not know.
var ErrUnknownStep = errors.New("unknown step")

// ErrMissingTurnContext is returned when a turn arrives without the data needed to reply.
var ErrMissingTurnContext = errors.New("missing turn context")
