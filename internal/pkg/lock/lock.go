// Package lock provides per-player locking. Every XP-earning action is a
// read-snapshot, compute, persist-patch sequence; the lock serializes those
// sequences for the same player so counter increments are never lost.
package lock

import (
	"context"
	"sync"
	"time"
)

// playerMutex wraps a mutex with reference counting for cleanup.
type playerMutex struct {
	mu       sync.Mutex
	refCount int
}

// PlayerLock provides per-player locking keyed by the opaque player id.
type PlayerLock struct {
	locks sync.Map // map[string]*playerMutex
	pool  sync.Pool
}

// NewPlayerLock creates a new PlayerLock instance.
func NewPlayerLock() *PlayerLock {
	return &PlayerLock{
		pool: sync.Pool{
			New: func() any {
				return &playerMutex{}
			},
		},
	}
}

// getLock retrieves or creates a mutex for the given player.
func (pl *PlayerLock) getLock(playerID string) *playerMutex {
	if v, ok := pl.locks.Load(playerID); ok {
		return v.(*playerMutex)
	}

	newLock := pl.pool.Get().(*playerMutex)
	newLock.refCount = 0

	actual, loaded := pl.locks.LoadOrStore(playerID, newLock)
	if loaded {
		// Another goroutine created the lock first, return ours to pool
		pl.pool.Put(newLock)
	}
	return actual.(*playerMutex)
}

// Lock acquires the lock for a player. Call before any balance- or
// counter-modifying operation.
func (pl *PlayerLock) Lock(playerID string) {
	lock := pl.getLock(playerID)
	lock.mu.Lock()
	lock.refCount++
}

// Unlock releases the lock for a player.
func (pl *PlayerLock) Unlock(playerID string) {
	if v, ok := pl.locks.Load(playerID); ok {
		lock := v.(*playerMutex)
		lock.refCount--
		lock.mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired, false otherwise.
func (pl *PlayerLock) TryLock(playerID string) bool {
	lock := pl.getLock(playerID)
	if lock.mu.TryLock() {
		lock.refCount++
		return true
	}
	return false
}

// LockWithTimeout attempts to acquire the lock with a timeout.
// Returns true if the lock was acquired, false if the timeout fired first.
func (pl *PlayerLock) LockWithTimeout(ctx context.Context, playerID string, timeout time.Duration) bool {
	lock := pl.getLock(playerID)

	done := make(chan struct{})

	go func() {
		lock.mu.Lock()
		close(done)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-done:
		lock.refCount++
		return true
	case <-timeoutCtx.Done():
		// The helper goroutine will still acquire the mutex eventually;
		// release it as soon as it does.
		go func() {
			<-done
			lock.mu.Unlock()
		}()
		return false
	}
}

// WithLock executes fn while holding the player's lock.
func (pl *PlayerLock) WithLock(playerID string, fn func() error) error {
	pl.Lock(playerID)
	defer pl.Unlock(playerID)
	return fn()
}

// WithLockContext executes fn while holding the player's lock, with
// context support for cancellation.
func (pl *PlayerLock) WithLockContext(ctx context.Context, playerID string, timeout time.Duration, fn func() error) error {
	if !pl.LockWithTimeout(ctx, playerID, timeout) {
		return ErrLockTimeout
	}
	defer pl.Unlock(playerID)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fn()
	}
}

// IsLocked checks if a player currently has an active lock.
// Point-in-time check; may change immediately after.
func (pl *PlayerLock) IsLocked(playerID string) bool {
	if v, ok := pl.locks.Load(playerID); ok {
		lock := v.(*playerMutex)
		if lock.mu.TryLock() {
			lock.mu.Unlock()
			return false
		}
		return true
	}
	return false
}
