package lock

import (
	"sync"
	"testing"

	"go.uber.org/goleak"
)

// TestMutualExclusionStress hammers one lock from many goroutines and
// verifies that critical sections never overlap: an unsynchronized counter
// incremented only under the lock must end up exact.
//
// goleak verifies that no waiter goroutines are left parked when the test
// finishes (no lost wake-ups at scale). IgnoreCurrent excludes goroutines
// abandoned by earlier tests in this package, in particular the
// intentionally deadlocked one from TestSelfDeadlock.
func TestMutualExclusionStress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	const (
		goroutines = 32
		increments = 500
	)

	l := newInitialized(t)

	var (
		counter int // deliberately unsynchronized; the lock is the only protection
		inside  int
		overlap bool
		wg      sync.WaitGroup
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				l.Acquire()
				inside++
				if inside != 1 {
					overlap = true
				}
				counter++
				inside--
				l.Release()
			}
		}()
	}
	wg.Wait()

	if overlap {
		t.Error("two goroutines were inside the critical section simultaneously")
	}
	if want := goroutines * increments; counter != want {
		t.Errorf("counter = %d, want %d (lost updates under the lock)", counter, want)
	}

	stats := l.Stats()
	if stats.Acquires != uint64(goroutines*increments) {
		t.Errorf("Acquires = %d, want %d", stats.Acquires, goroutines*increments)
	}
	if stats.Releases != stats.Acquires {
		t.Errorf("Releases = %d, Acquires = %d; pairs must match", stats.Releases, stats.Acquires)
	}
}

// TestMixedTryAndBlockingStress interleaves TryAcquire with blocking
// Acquire under contention. Every successful entry, by either path, must
// still be exclusive.
func TestMixedTryAndBlockingStress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	const (
		goroutines = 16
		attempts   = 300
	)

	l := newInitialized(t)

	var (
		counter int
		wg      sync.WaitGroup
	)

	for i := 0; i < goroutines; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < attempts; j++ {
				if i%2 == 0 {
					l.Acquire()
				} else if !l.TryAcquire() {
					continue
				}
				counter++
				l.Release()
			}
		}()
	}
	wg.Wait()

	// Blocking acquirers always succeed; try acquirers may not. The floor
	// is the blocking half's work, the ceiling every attempt.
	floor := (goroutines / 2) * attempts
	ceil := goroutines * attempts
	if counter < floor || counter > ceil {
		t.Errorf("counter = %d, want between %d and %d", counter, floor, ceil)
	}

	stats := l.Stats()
	entries := stats.Acquires + stats.TryAcquires
	if entries != uint64(counter) {
		t.Errorf("successful entries %d != counter %d", entries, counter)
	}
	if stats.Releases != entries {
		t.Errorf("Releases = %d, entries = %d; pairs must match", stats.Releases, entries)
	}
}
