package domain

// StepID names a step of the shopping conversation.
type StepID string

const (
	StepAskName       StepID = "ask_name"
	StepConfirmName   StepID = "confirm_name"
	StepOfferHelp     StepID = "offer_help"
	StepItemSubtype   StepID = "item_subtype"
	StepProductChoice StepID = "product_choice"
	StepFinalize      StepID = "finalize"
)

// StepInfo describes a step for introspection (graphs, MCP, HTTP).
type StepInfo struct {
	ID       StepID    `json:"id"`
	Input    InputType `json:"input,omitempty"` // kind of reply the step consumes
	Next     StepID    `json:"next,omitempty"`
	Terminal bool      `json:"terminal,omitempty"` // the step may end the flow
}
