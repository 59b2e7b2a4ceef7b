package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	active := StatusActive
	term := StatusTerminated
	declined := EndDeclined

	tests := []struct {
		name     string
		old      *State
		new      *State
		wantDiff *StateDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new: &State{
				SessionID: "sess-1",
				Step:      StepConfirmName,
				Status:    StatusActive,
				History:   []StepID{StepAskName},
			},
			wantDiff: &StateDiff{
				SessionID:     "sess-1",
				Step:          &[]StepID{StepConfirmName}[0],
				Status:        &active,
				HistoryParams: &HistoryDelta{Appended: []StepID{StepAskName}},
			},
		},
		{
			name: "No Changes",
			old: &State{
				SessionID: "sess-1",
				Step:      StepOfferHelp,
				Status:    StatusActive,
				Profile:   Profile{Name: "Sam"},
				History:   []StepID{StepAskName, StepConfirmName},
			},
			new: &State{
				SessionID: "sess-1",
				Step:      StepOfferHelp,
				Status:    StatusActive,
				Profile:   Profile{Name: "Sam"},
				History:   []StepID{StepAskName, StepConfirmName},
			},
			wantDiff: nil,
		},
		{
			name: "Declined",
			old: &State{
				SessionID: "sess-1",
				Step:      StepOfferHelp,
				Status:    StatusActive,
			},
			new: &State{
				SessionID: "sess-1",
				Step:      StepOfferHelp,
				Status:    StatusTerminated,
				EndReason: EndDeclined,
			},
			wantDiff: &StateDiff{
				SessionID: "sess-1",
				Status:    &term,
				EndReason: &declined,
			},
		},
		{
			name: "Profile Field Set",
			old: &State{
				SessionID: "sess-1",
				Step:      StepItemSubtype,
				Profile:   Profile{Name: "Sam"},
			},
			new: &State{
				SessionID: "sess-1",
				Step:      StepItemSubtype,
				Profile:   Profile{Name: "Sam", ShoppingItem: "Watches"},
			},
			wantDiff: &StateDiff{
				SessionID: "sess-1",
				Profile:   map[string]string{"shopping_item": "Watches"},
			},
		},
		{
			name: "History Append",
			old: &State{
				SessionID: "sess-1",
				Step:      StepConfirmName,
				History:   []StepID{StepAskName},
			},
			new: &State{
				SessionID: "sess-1",
				Step:      StepOfferHelp,
				History:   []StepID{StepAskName, StepConfirmName},
			},
			wantDiff: &StateDiff{
				SessionID:     "sess-1",
				Step:          &[]StepID{StepOfferHelp}[0],
				HistoryParams: &HistoryDelta{Appended: []StepID{StepConfirmName}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)

			if tt.wantDiff == nil {
				if got != nil {
					t.Errorf("Diff() = %+v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Diff() = nil, want %+v", tt.wantDiff)
			}

			if got.SessionID != tt.wantDiff.SessionID {
				t.Errorf("Diff().SessionID = %v, want %v", got.SessionID, tt.wantDiff.SessionID)
			}
			if !reflect.DeepEqual(got.Profile, tt.wantDiff.Profile) {
				t.Errorf("Diff().Profile = %v, want %v", got.Profile, tt.wantDiff.Profile)
			}
			if !reflect.DeepEqual(got.HistoryParams, tt.wantDiff.HistoryParams) {
				t.Errorf("Diff().HistoryParams = %v, want %v", got.HistoryParams, tt.wantDiff.HistoryParams)
			}
			if !equalPtr(got.Step, tt.wantDiff.Step) {
				t.Errorf("Diff().Step = %v, want %v", got.Step, tt.wantDiff.Step)
			}
			if !equalPtr(got.Status, tt.wantDiff.Status) {
				t.Errorf("Diff().Status = %v, want %v", got.Status, tt.wantDiff.Status)
			}
			if !equalPtr(got.EndReason, tt.wantDiff.EndReason) {
				t.Errorf("Diff().EndReason = %v, want %v", got.EndReason, tt.wantDiff.EndReason)
			}
		})
	}
}

func TestDiff_PromptChange(t *testing.T) {
	old := &State{SessionID: "s", Prompt: &InputRequest{Type: InputText, Prompt: "a"}}
	same := old.Snapshot()
	if Diff(old, same) != nil {
		t.Fatal("identical prompts should not produce a diff")
	}

	changed := old.Snapshot()
	changed.Prompt = &InputRequest{Type: InputChoice, Prompt: "b", Options: []string{"x"}}
	diff := Diff(old, changed)
	if diff == nil || diff.Prompt == nil || diff.Prompt.Prompt != "b" {
		t.Fatalf("expected prompt diff, got %+v", diff)
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Empty Profile Omitted", func(t *testing.T) {
		s1 := &State{SessionID: "s", Step: StepConfirmName}
		s2 := &State{SessionID: "s", Step: StepOfferHelp}
		diff := Diff(s1, s2)
		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}
		bytes, _ := json.Marshal(diff)
		if strings.Contains(string(bytes), `"profile"`) {
			t.Errorf("JSON should not contain 'profile' when unchanged, got: %s", string(bytes))
		}
	})

	t.Run("Cleared Field as Empty String", func(t *testing.T) {
		s1 := &State{Profile: Profile{Name: "Sam"}}
		s2 := &State{}
		diff := Diff(s1, s2)
		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}
		bytes, _ := json.Marshal(diff)
		if !strings.Contains(string(bytes), `"name":""`) {
			t.Errorf("JSON should contain 'name':\"\" for a cleared field, got: %s", string(bytes))
		}
	})
}

func TestSnapshot_IsDeep(t *testing.T) {
	s := NewState("s", StepAskName)
	s.History = append(s.History, StepAskName)
	s.Prompt = &InputRequest{Type: InputChoice, Options: []string{"a", "b"}}

	c := s.Snapshot()
	c.History[0] = StepFinalize
	c.Prompt.Options[0] = "z"

	if s.History[0] != StepAskName {
		t.Error("Snapshot shares history with the source")
	}
	if s.Prompt.Options[0] != "a" {
		t.Error("Snapshot shares prompt options with the source")
	}
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
