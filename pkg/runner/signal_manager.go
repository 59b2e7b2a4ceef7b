package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// interruptGrace is how long a failed read waits for a pending Ctrl+C.
// Some terminals close stdin a moment before SIGINT arrives.
const interruptGrace = 100 * time.Millisecond

// SignalManager cancels a console chat on SIGINT or SIGTERM, or when the
// parent context ends.
type SignalManager struct {
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager starts listening straight away. Call Stop when done.
func NewSignalManager(parent context.Context) *SignalManager {
	if parent == nil {
		parent = context.Background()
	}
	sm := &SignalManager{parent: parent}
	sm.Reset()
	return sm
}

func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Reset drops the current context and listens again, for a chat that
// survives an interrupt.
func (sm *SignalManager) Reset() {
	if sm.cancel != nil {
		sm.cancel()
	}
	sm.ctx, sm.cancel = signal.NotifyContext(sm.parent, os.Interrupt, syscall.SIGTERM)
}

func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}

// AwaitInterrupt gives a pending signal interruptGrace to land after an
// input error, so Run can tell Ctrl+C apart from a closed stdin.
func (sm *SignalManager) AwaitInterrupt() {
	if sm.ctx.Err() != nil {
		return
	}
	t := time.NewTimer(interruptGrace)
	defer t.Stop()
	select {
	case <-sm.ctx.Done():
	case <-t.C:
	}
}
