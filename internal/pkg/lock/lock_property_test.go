package lock

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"pgregory.net/rapid"
)

// TestConcurrentBalanceSafetyProperty checks that concurrent XP updates on
// the same player, serialized by the lock, always match the sequential sum.
func TestConcurrentBalanceSafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialXP := rapid.Int64Range(1000, 100000).Draw(t, "initialXP")
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")

		amounts := make([]int64, numOps)
		expected := initialXP
		for i := 0; i < numOps; i++ {
			amounts[i] = rapid.Int64Range(-500, 500).Draw(t, "amount")
			expected += amounts[i]
		}

		playerID := fmt.Sprintf("player-%d", rapid.Int64Range(1, 1000000).Draw(t, "playerID"))

		pl := NewPlayerLock()
		balance := initialXP

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, amount := range amounts {
			go func(delta int64) {
				defer wg.Done()
				pl.Lock(playerID)
				defer pl.Unlock(playerID)
				balance += delta
			}(amount)
		}
		wg.Wait()

		if balance != expected {
			t.Fatalf("balance mismatch with locking: expected %d, got %d (initial=%d, numOps=%d)",
				expected, balance, initialXP, numOps)
		}
	})
}

// TestWithLockFunctionProperty checks that WithLock serializes the callback.
func TestWithLockFunctionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialXP := rapid.Int64Range(1000, 100000).Draw(t, "initialXP")
		numOps := rapid.IntRange(5, 30).Draw(t, "numOps")
		perOp := rapid.Int64Range(1, 100).Draw(t, "perOp")
		expected := initialXP + int64(numOps)*perOp

		playerID := fmt.Sprintf("player-%d", rapid.Int64Range(1, 1000000).Draw(t, "playerID"))

		pl := NewPlayerLock()
		balance := initialXP

		var wg sync.WaitGroup
		wg.Add(numOps)
		for i := 0; i < numOps; i++ {
			go func() {
				defer wg.Done()
				_ = pl.WithLock(playerID, func() error {
					balance += perOp
					return nil
				})
			}()
		}
		wg.Wait()

		if balance != expected {
			t.Fatalf("balance mismatch with WithLock: expected %d, got %d", expected, balance)
		}
	})
}

// TestMultiplePlayersIndependentLocksProperty checks that locks for different
// players never interfere with each other's updates.
func TestMultiplePlayersIndependentLocksProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numPlayers := rapid.IntRange(2, 10).Draw(t, "numPlayers")
		opsPerPlayer := rapid.IntRange(5, 20).Draw(t, "opsPerPlayer")

		balances := make(map[string]*int64, numPlayers)
		expected := make(map[string]int64, numPlayers)
		for i := 0; i < numPlayers; i++ {
			id := fmt.Sprintf("player-%d", i+1)
			initial := rapid.Int64Range(1000, 10000).Draw(t, "initialXP")
			b := initial
			balances[id] = &b
			expected[id] = initial + int64(opsPerPlayer)*10
		}

		pl := NewPlayerLock()

		var wg sync.WaitGroup
		wg.Add(numPlayers * opsPerPlayer)
		for id := range balances {
			for j := 0; j < opsPerPlayer; j++ {
				go func(pid string) {
					defer wg.Done()
					pl.Lock(pid)
					defer pl.Unlock(pid)
					*balances[pid] += 10
				}(id)
			}
		}
		wg.Wait()

		for id, want := range expected {
			if *balances[id] != want {
				t.Fatalf("player %s balance mismatch: expected %d, got %d", id, want, *balances[id])
			}
		}
	})
}

// TestTryLockPreventsConcurrentSessionsProperty checks that TryLock admits at
// least one contender and leaves the lock free afterwards.
func TestTryLockPreventsConcurrentSessionsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		playerID := fmt.Sprintf("player-%d", rapid.Int64Range(1, 1000000).Draw(t, "playerID"))
		numAttempts := rapid.IntRange(5, 20).Draw(t, "numAttempts")

		pl := NewPlayerLock()

		var successCount atomic.Int32
		var wg sync.WaitGroup
		wg.Add(numAttempts)
		startCh := make(chan struct{})

		for i := 0; i < numAttempts; i++ {
			go func() {
				defer wg.Done()
				<-startCh

				if pl.TryLock(playerID) {
					successCount.Add(1)
					pl.Unlock(playerID)
				}
			}()
		}

		close(startCh)
		wg.Wait()

		if successCount.Load() < 1 {
			t.Fatalf("at least one TryLock should succeed, got %d successes", successCount.Load())
		}

		if !pl.TryLock(playerID) {
			t.Fatal("lock should be available after all attempts complete")
		}
		pl.Unlock(playerID)
	})
}

// TestLockUnlockSymmetryProperty checks lock/unlock cycles leave the lock free.
func TestLockUnlockSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		playerID := fmt.Sprintf("player-%d", rapid.Int64Range(1, 1000000).Draw(t, "playerID"))
		numCycles := rapid.IntRange(1, 50).Draw(t, "numCycles")

		pl := NewPlayerLock()
		for i := 0; i < numCycles; i++ {
			pl.Lock(playerID)
			pl.Unlock(playerID)
		}

		if !pl.TryLock(playerID) {
			t.Fatal("lock should be available after symmetric lock/unlock cycles")
		}
		pl.Unlock(playerID)
	})
}
