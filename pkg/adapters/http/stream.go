package http

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/shopbot/internal/logging"
	"github.com/aretw0/shopbot/pkg/domain"
)

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *domain.StateDiff]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager. A nil logger discards output.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan *domain.StateDiff]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a listener for one session. The returned func
// unregisters it and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan *domain.StateDiff, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan *domain.StateDiff, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan *domain.StateDiff]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[sessionID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, sessionID)
				}
			}
		})
	}
}

// Subscribers returns the number of listeners of a session.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast delivers diff to every listener of its session.
func (sm *StreamManager) Broadcast(diff *domain.StateDiff) {
	if diff == nil {
		return
	}
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	subs, ok := sm.subscribers[diff.SessionID]
	if !ok {
		return
	}
	sm.logger.Debug("StreamManager: broadcasting", "session_id", diff.SessionID, "subscribers", len(subs))
	for ch := range subs {
		select {
		case ch <- diff:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: client buffer full, dropping diff", "session_id", diff.SessionID)
		}
	}
}

// Observe matches bot.StateObserver so the manager can be passed to
// shopbot.WithStateObserver.
func (sm *StreamManager) Observe(_ context.Context, diff *domain.StateDiff) {
	sm.Broadcast(diff)
}
