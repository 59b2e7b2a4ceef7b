package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/shopbot"
	"github.com/aretw0/shopbot/internal/logging"
	"github.com/aretw0/shopbot/pkg/catalog"
	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/aretw0/shopbot/pkg/ports"
	"github.com/aretw0/shopbot/pkg/runner"
)

const (
	// ChannelID tags activities produced by MCP tool calls.
	ChannelID = "mcp"

	CatalogURI = "shopbot://catalog"
	StepsURI   = "shopbot://steps"
)

// Bot is the conversation core exposed over MCP. *shopbot.Bot satisfies it.
type Bot interface {
	HandleActivity(ctx context.Context, act domain.Activity, sender ports.Sender) error
	Inspect() []domain.StepInfo
	Catalog() *catalog.Catalog
}

// Sessions gives read and delete access to stored conversations.
type Sessions interface {
	Load(ctx context.Context, sessionID string) (*domain.State, error)
	Delete(ctx context.Context, sessionID string) error
}

// TurnResponse is the structured result of send_message.
type TurnResponse struct {
	SessionID string                 `json:"session_id" jsonschema_description:"The conversation the message was sent to"`
	Replies   []domain.ActionRequest `json:"replies" jsonschema_description:"What the bot said, in order"`
	State     *domain.State          `json:"state,omitempty" jsonschema_description:"The session after the turn"`
	Terminal  bool                   `json:"terminal" jsonschema_description:"True once the conversation has ended"`
}

// SendMessageArgs are the arguments of send_message.
type SendMessageArgs struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	UserID    string `json:"user_id,omitempty"`
}

// Server exposes the bot as an MCP server.
type Server struct {
	bot       Bot
	sessions  Sessions
	logger    *slog.Logger
	maxInput  int
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInput bounds the text of send_message. Zero keeps the runner default.
func WithMaxInput(limit int) Option {
	return func(s *Server) {
		s.maxInput = limit
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(bot Bot, sessions Sessions, opts ...Option) *Server {
	s := &Server{
		bot:       bot,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("shopbot-mcp", strings.TrimSpace(shopbot.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("MCP server shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send a user message to a shopping conversation and get the bot's replies. "+
			"Send any message (e.g. \"hi\") to start a new conversation."),
		mcp.WithString("session_id", mcp.Description("Conversation ID. A new one is generated when omitted.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithString("user_id", mcp.Description("The user's account ID (optional)")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get the stored state of a conversation."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation ID")),
	), s.handleGetSession)

	s.mcpServer.AddTool(mcp.NewTool("delete_session",
		mcp.WithDescription("Forget a conversation. The next message starts over."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation ID")),
	), s.handleDeleteSession)

	s.mcpServer.AddTool(mcp.NewTool("get_steps",
		mcp.WithDescription("List the conversation steps in order, for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.bot.Inspect())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleSendMessage(ctx context.Context, _ mcp.CallToolRequest, args SendMessageArgs) (TurnResponse, error) {
	if args.SessionID == "" {
		args.SessionID = "mcp-" + uuid.NewString()
	}
	if args.UserID == "" {
		args.UserID = args.SessionID
	}

	clean, err := runner.SanitizeInputLimit(args.Text, s.maxInput)
	if err != nil {
		s.logger.Warn("MCP send_message: input rejected", "err", err, "size", len(args.Text))
		return TurnResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	act := domain.Message(args.SessionID, args.UserID, clean)
	act.ID = uuid.NewString()
	act.ChannelID = ChannelID
	act.Recipient = domain.Account{ID: runner.DefaultBotID}

	resp := TurnResponse{SessionID: args.SessionID, Replies: []domain.ActionRequest{}}
	collect := ports.SenderFunc(func(_ context.Context, _ string, actions ...domain.ActionRequest) error {
		resp.Replies = append(resp.Replies, actions...)
		return nil
	})
	if err := s.bot.HandleActivity(ctx, act, collect); err != nil {
		return TurnResponse{}, fmt.Errorf("send_message failed: %w", err)
	}

	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		// The replies were delivered; a failed read-back only loses the snapshot.
		s.logger.Error("MCP send_message: load after turn failed", "session_id", args.SessionID, "err", err)
		return resp, nil
	}
	resp.State = state
	resp.Terminal = state.Terminated()
	return resp, nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state, err := s.sessions.Load(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get_session %s: %v", id, err)), nil
	}
	jsonBytes, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete_session %s: %v", id, err)), nil
	}
	return mcp.NewToolResultText("deleted " + id), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Shopping Catalog",
		mcp.WithResourceDescription("Items, subtypes and malls offered by the bot"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(CatalogURI, s.bot.Catalog().Document())
	})

	s.mcpServer.AddResource(mcp.NewResource(StepsURI, "Conversation Steps",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(StepsURI, s.bot.Inspect())
	})
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
