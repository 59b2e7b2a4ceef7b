package domain

// ActionRequest represents a side-effect that the engine requests the host to perform.
type ActionRequest struct {
	Type    string `json:"type"`    // e.g., "RENDER_CONTENT", "REQUEST_INPUT"
	Payload any    `json:"payload"` // The data needed to perform the action
}

// Standard Action Types
const (
	// ActionRenderContent requests the host to display content to the user.
	// Payload: string (the content)
	ActionRenderContent = "RENDER_CONTENT"

	// ActionRequestInput requests the host to collect input from the user.
	// Payload: InputRequest
	ActionRequestInput = "REQUEST_INPUT"
)

// InputType defines the kind of input requested.
type InputType string

const (
	InputText    InputType = "text"
	InputConfirm InputType = "confirm"
	InputChoice  InputType = "choice"
)

// InputRequest describes the constraints and type of input needed.
type InputRequest struct {
	Type        InputType `json:"type"`
	Prompt      string    `json:"prompt"`
	Options     []string  `json:"options,omitempty"`
	RetryPrompt string    `json:"retry_prompt,omitempty"`
}

// Content builds a RENDER_CONTENT action.
func Content(text string) ActionRequest {
	return ActionRequest{Type: ActionRenderContent, Payload: text}
}

// Ask builds a REQUEST_INPUT action.
func Ask(req InputRequest) ActionRequest {
	return ActionRequest{Type: ActionRequestInput, Payload: req}
}
