package runtime

import "strings"

// ParseName extracts the user's name from a reply of the form "It is NAME".
//
// Longer replies must start with "it is" (any case) and yield the remaining
// words joined by single spaces. A three-word reply yields its last word as
// is, without checking the first two. Anything shorter fails.
func ParseName(reply string) (string, bool) {
	tokens := strings.Fields(reply)
	switch {
	case len(tokens) > 3:
		if strings.EqualFold(tokens[0], "it") && strings.EqualFold(tokens[1], "is") {
			return strings.Join(tokens[2:], " "), true
		}
		return "", false
	case len(tokens) == 3:
		return tokens[2], true
	default:
		return "", false
	}
}
