package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/shopbot"
	"github.com/aretw0/shopbot/internal/logging"
	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/aretw0/shopbot/pkg/ports"
	"github.com/aretw0/shopbot/pkg/runner"
)

// Bot is the conversation core served over HTTP. *shopbot.Bot satisfies it.
type Bot interface {
	HandleActivity(ctx context.Context, act domain.Activity, sender ports.Sender) error
	Inspect() []domain.StepInfo
}

// Sessions gives read and delete access to stored conversations.
// *session.Manager satisfies it.
type Sessions interface {
	Load(ctx context.Context, sessionID string) (*domain.State, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}

// Server holds the dependencies of the HTTP channel.
type Server struct {
	Bot      Bot
	Sessions Sessions
	Streams  *StreamManager
	Metrics  http.Handler
	MaxInput int
	Logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams shares a StreamManager, usually the one registered as the
// bot's state observer.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics mounts a Prometheus handler on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithMaxInput bounds the size of a message text.
func WithMaxInput(limit int) Option {
	return func(s *Server) {
		s.MaxInput = limit
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates the HTTP handler of the bot.
func NewHandler(bot Bot, sessions Sessions, opts ...Option) http.Handler {
	s := &Server{
		Bot:      bot,
		Sessions: sessions,
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.Logger)
	}
	return s.Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/api/messages", s.PostMessage)
	r.Get("/graph", s.GetGraph)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Get("/{id}", s.GetSession)
		r.Delete("/{id}", s.DeleteSession)
		r.Get("/{id}/events", s.SubscribeEvents)
	})

	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// PostMessage handles POST /api/messages: one inbound activity, the bot's
// replies in the response body.
func (s *Server) PostMessage(w http.ResponseWriter, r *http.Request) {
	var act domain.Activity
	if err := json.NewDecoder(r.Body).Decode(&act); err != nil {
		writeError(w, http.StatusBadRequest, "invalid activity: "+err.Error())
		s.Logger.Warn("PostMessage: invalid body", "err", err)
		return
	}
	if act.Type == "" {
		act.Type = domain.ActivityMessage
	}

	if act.Text != "" {
		clean, err := runner.SanitizeInputLimit(act.Text, s.MaxInput)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid input: %v", err))
			s.Logger.Warn("PostMessage: input rejected", "err", err, "size", len(act.Text))
			return
		}
		act.Text = clean
	}

	collector := &replyCollector{act: act}
	if err := s.Bot.HandleActivity(r.Context(), act, collector); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrMissingTurnContext) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		if status == http.StatusInternalServerError {
			s.Logger.Error("PostMessage failed", "conversation_id", act.Conversation.ID, "err", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, ActivityResponse{Activities: collector.replies})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		s.Logger.Error("ListSessions failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		s.Logger.Error("GetSession failed", "session_id", id, "err", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		s.Logger.Error("DeleteSession failed", "session_id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Bot.Inspect())
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "shopbot-http",
		"version": strings.TrimSpace(shopbot.Version),
	})
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE).
// Each event carries the JSON StateDiff of a turn that changed the session.
// The optional watch query (comma separated: step, status, profile, history,
// prompt) filters events by the fields they change.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		s.Logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	var watch []string
	if q := r.URL.Query().Get("watch"); q != "" {
		watch = strings.Split(q, ",")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	s.Logger.Info("SSE: subscribed", "session_id", sessionID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: client disconnected", "session_id", sessionID)
			return
		case diff, ok := <-ch:
			if !ok {
				return
			}
			if !matchesWatch(diff, watch) {
				continue
			}
			payload, err := json.Marshal(diff)
			if err != nil {
				s.Logger.Error("SSE: encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func matchesWatch(diff *domain.StateDiff, watch []string) bool {
	if len(watch) == 0 {
		return true
	}
	for _, field := range watch {
		switch strings.TrimSpace(field) {
		case "step":
			if diff.Step != nil {
				return true
			}
		case "status":
			if diff.Status != nil || diff.EndReason != nil {
				return true
			}
		case "profile":
			if len(diff.Profile) > 0 {
				return true
			}
		case "history":
			if diff.HistoryParams != nil {
				return true
			}
		case "prompt":
			if diff.Prompt != nil {
				return true
			}
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
