package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a session lock taken by SessionLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// SessionLocker serialises turns on one conversation across shopbot replicas.
// The in-process mutex of the session manager only covers a single process.
type SessionLocker interface {
	// Lock waits until key (a session ID) is free or ctx is done. The lock
	// expires after ttl if the holder dies without calling the UnlockFunc.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
