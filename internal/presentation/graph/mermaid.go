package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/shopbot/pkg/domain"
)

// EndNode is the node terminal steps point to.
const EndNode = "end"

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromState builds the overlay of a stored session.
// A terminated session is "at" the end node.
func OverlayFromState(s *domain.State) *GraphOverlay {
	if s == nil {
		return nil
	}
	o := &GraphOverlay{CurrentNode: string(s.Step)}
	for _, id := range s.History {
		o.VisitedNodes = append(o.VisitedNodes, string(id))
	}
	if s.Terminated() {
		o.CurrentNode = EndNode
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart syntax string from the step table.
// It applies semantic styling:
// - First step: ((Circle))
// - Text input: [/Parallelogram/]
// - Confirm: {Rhombus}
// - Choice: [Rectangle]
// Steps that may end the conversation get a dotted edge to the end node.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(steps []domain.StepInfo, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	hasEnd := false
	for i, st := range steps {
		id := string(st.ID)
		safeID := sanitizeMermaidID(id)

		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case st.Input == domain.InputText:
			opener, closer = "[/", "/]"
		case st.Input == domain.InputConfirm:
			opener, closer = "{", "}"
		}

		label := id
		if st.Input != "" {
			label = fmt.Sprintf("%s <br/> %s", id, st.Input)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		if st.Next != "" {
			fmt.Fprintf(&sb, "    %s --> %s\n", safeID, sanitizeMermaidID(string(st.Next)))
		}
		if st.Terminal {
			hasEnd = true
			arrow := "-. ends .->"
			if st.Next == "" {
				arrow = "-->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, EndNode)
		}
	}
	if hasEnd {
		fmt.Fprintf(&sb, "    %s(((\"%s\")))\n", EndNode, EndNode)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
