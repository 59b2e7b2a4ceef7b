package domain

import "reflect"

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Step      *StepID          `json:"step,omitempty"`
	Status    *ExecutionStatus `json:"status,omitempty"`
	EndReason *EndReason       `json:"end_reason,omitempty"`

	// Profile contains only changed fields, keyed by their JSON name.
	// A cleared field is present with an empty value.
	Profile map[string]string `json:"profile,omitempty"`

	// Prompt is set when a different input request is pending.
	Prompt *InputRequest `json:"prompt,omitempty"`

	// HistoryParams contains *new* items appended to history.
	HistoryParams *HistoryDelta `json:"history,omitempty"`
}

// HistoryDelta represents changes to the history stack.
type HistoryDelta struct {
	Appended []StepID `json:"appended"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.Step != newState.Step {
		diff.Step = &newState.Step
	}
	if oldState == nil || oldState.Status != newState.Status {
		diff.Status = &newState.Status
	}
	if (oldState == nil && newState.EndReason != "") ||
		(oldState != nil && oldState.EndReason != newState.EndReason) {
		diff.EndReason = &newState.EndReason
	}
	if newState.Prompt != nil && (oldState == nil || !reflect.DeepEqual(oldState.Prompt, newState.Prompt)) {
		diff.Prompt = newState.Prompt
	}

	diff.Profile = diffProfile(oldState, newState)
	diff.HistoryParams = diffHistory(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func profileFields(p Profile) map[string]string {
	return map[string]string{
		"name":             p.Name,
		"shopping_item":    p.ShoppingItem,
		"shopping_product": p.ShoppingProduct,
		"shopping_mall":    p.ShoppingMall,
	}
}

func diffProfile(old *State, new *State) map[string]string {
	delta := make(map[string]string)
	newFields := profileFields(new.Profile)

	if old == nil {
		for k, v := range newFields {
			if v != "" {
				delta[k] = v
			}
		}
	} else {
		oldFields := profileFields(old.Profile)
		for k, v := range newFields {
			if oldFields[k] != v {
				delta[k] = v
			}
		}
	}

	// Return nil if delta is empty so omitempty can remove the key
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// diffHistory assumes standard append-only behavior for History.
func diffHistory(old *State, new *State) *HistoryDelta {
	if len(new.History) == 0 {
		return nil
	}
	if old == nil {
		return &HistoryDelta{Appended: new.History}
	}
	if len(new.History) > len(old.History) {
		return &HistoryDelta{
			Appended: new.History[len(old.History):],
		}
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Step == nil &&
		d.Status == nil &&
		d.EndReason == nil &&
		d.Prompt == nil &&
		len(d.Profile) == 0 &&
		d.HistoryParams == nil
}
