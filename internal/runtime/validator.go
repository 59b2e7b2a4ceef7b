package runtime

import (
	"strconv"
	"strings"

	"github.com/aretw0/shopbot/pkg/domain"
)

// accept checks a reply against the pending prompt and returns the value the
// step should see. Choices resolve to their canonical label, confirmations to
// "yes" or "no". Text is passed through untouched.
func accept(req *domain.InputRequest, reply string) (string, bool) {
	if req == nil {
		return reply, true
	}

	switch req.Type {
	case domain.InputChoice:
		return matchOption(req.Options, reply)
	case domain.InputConfirm:
		clean := strings.ToLower(strings.TrimSpace(reply))
		switch {
		case isYes(clean):
			return "yes", true
		case isNo(clean):
			return "no", true
		}
		return "", false
	default:
		return reply, true
	}
}

func matchOption(options []string, reply string) (string, bool) {
	clean := strings.TrimSpace(reply)
	if clean == "" {
		return "", false
	}
	for _, opt := range options {
		if strings.EqualFold(opt, clean) {
			return opt, true
		}
	}
	if n, err := strconv.Atoi(clean); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	return "", false
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

func isNo(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "no", "false", "0":
		return true
	}
	return false
}

// reask builds the follow-up question for a rejected reply.
func reask(req domain.InputRequest) domain.InputRequest {
	if req.RetryPrompt != "" {
		req.Prompt = req.RetryPrompt
	}
	req.Options = append([]string(nil), req.Options...)
	return req
}
