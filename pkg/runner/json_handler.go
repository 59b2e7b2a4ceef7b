package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/shopbot/pkg/domain"
)

// JSONHandler drives the chat over JSON Lines, for scripts and other programs.
// Each Output writes the turn's actions as one array. A reply line may be a
// JSON string, a {"text": ...} object or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
	// MaxInput bounds a single reply. Zero uses the SHOPBOT_INPUT_MAX_SIZE default.
	MaxInput int
}

// NewJSONHandler falls back to stdin and stdout for nil streams.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, actions []domain.ActionRequest) (bool, error) {
	if len(actions) == 0 {
		return false, nil
	}

	if err := h.Encoder.Encode(actions); err != nil {
		return false, err
	}

	needsInput := false
	for _, act := range actions {
		if act.Type == domain.ActionRequestInput {
			needsInput = true
		}
	}
	return needsInput, nil
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	return SanitizeInputLimit(replyText(strings.TrimSpace(text)), h.MaxInput)
}

// replyText unwraps the reply forms a JSON client may send.
func replyText(line string) string {
	var s string
	if json.Unmarshal([]byte(line), &s) == nil {
		return s
	}
	var msg struct {
		Text string `json:"text"`
	}
	if json.Unmarshal([]byte(line), &msg) == nil {
		return msg.Text
	}
	return line
}

// SystemOutput emits the message as a {"system": "..."} line.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(map[string]string{"system": msg})
}
