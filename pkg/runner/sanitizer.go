package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize bounds one reply when nothing else is configured.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the variable behind the input.max_size config key.
	EnvMaxInputSize = "SHOPBOT_INPUT_MAX_SIZE"
)

// Reasons a reply is rejected before it reaches the bot.
var (
	ErrInputTooLarge = errors.New("reply is too long")
	ErrInvalidUTF8   = errors.New("reply is not valid UTF-8")
)

// SanitizeInput checks one shopper reply against MaxInputSize and strips
// terminal control characters from it.
func SanitizeInput(input string) (string, error) {
	return SanitizeInputLimit(input, MaxInputSize())
}

// SanitizeInputLimit is SanitizeInput with an explicit size limit.
// A limit <= 0 falls back to MaxInputSize.
func SanitizeInputLimit(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = MaxInputSize()
	}
	// Rejected rather than truncated: a cut name or choice would be a different answer.
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Newline, tab and carriage return survive. ESC, NULL, BEL and the
	// rest of the control range are removed so replies cannot poison
	// logs or repaint the terminal.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// isSafeControl keeps the whitespace a pasted multi-line reply needs.
func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

// MaxInputSize reads SHOPBOT_INPUT_MAX_SIZE, ignoring values that are not
// positive integers.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
