package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/shopbot/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Writer   io.Writer
	Renderer ContentRenderer
	// MaxInput bounds a single reply. Zero uses the SHOPBOT_INPUT_MAX_SIZE default.
	MaxInput int

	reader    *bufio.Reader
	inputChan chan inputResult
	startOnce sync.Once
	chanOnce  sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithStdin reads replies from os.Stdin.
func WithStdin() TextHandlerOption {
	return WithInputReader(os.Stdin)
}

// WithInputReader reads replies line by line from r.
func WithInputReader(r io.Reader) TextHandlerOption {
	return func(h *TextHandler) {
		h.reader = bufio.NewReader(r)
	}
}

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithMaxInput bounds the size of a single reply.
func WithMaxInput(limit int) TextHandlerOption {
	return func(h *TextHandler) {
		h.MaxInput = limit
	}
}

// NewTextHandler creates a handler for standard text IO.
// Without WithStdin or WithInputReader, lines must be pushed with FeedInput.
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{Writer: w}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initChan() {
	h.chanOnce.Do(func() {
		h.inputChan = make(chan inputResult, DefaultInputBufferSize)
	})
}

func (h *TextHandler) initPump() {
	h.initChan()
	if h.reader == nil {
		return
	}
	h.startOnce.Do(func() {
		go h.pump()
	})
}

// pump moves lines from the reader to the input channel so that Input can
// give up on a cancelled context while a read is still blocked.
func (h *TextHandler) pump() {
	for {
		text, err := h.reader.ReadString('\n')

		// A final line without newline still counts.
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff so a persistent read failure does not spin.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// FeedInput pushes a line (or an error) as if it had been read.
func (h *TextHandler) FeedInput(text string, err error) {
	h.initChan()
	h.inputChan <- inputResult{text: text, err: err}
}

func (h *TextHandler) Output(ctx context.Context, actions []domain.ActionRequest) (bool, error) {
	needsInput := false
	for _, act := range actions {
		switch act.Type {
		case domain.ActionRenderContent:
			if msg, ok := act.Payload.(string); ok {
				h.println(h.render(msg))
			}
		case domain.ActionRequestInput:
			needsInput = true
			if req, ok := act.Payload.(domain.InputRequest); ok {
				h.printPrompt(req)
			}
		}
	}
	return needsInput, nil
}

func (h *TextHandler) printPrompt(req domain.InputRequest) {
	if req.Prompt != "" {
		h.println(h.render(req.Prompt))
	}
	switch req.Type {
	case domain.InputChoice:
		for i, opt := range req.Options {
			fmt.Fprintf(h.Writer, "  %d. %s\n", i+1, opt)
		}
	case domain.InputConfirm:
		fmt.Fprintln(h.Writer, "  (yes/no)")
	}
}

func (h *TextHandler) render(msg string) string {
	if h.Renderer == nil {
		return msg
	}
	rendered, err := h.Renderer(msg)
	if err != nil {
		return msg
	}
	return rendered
}

func (h *TextHandler) println(s string) {
	fmt.Fprintln(h.Writer, strings.TrimSpace(s))
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInputLimit(strings.TrimSpace(res.text), h.MaxInput)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}
