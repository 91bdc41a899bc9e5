package guard

import "github.com/kolkov/stateguard/internal/guard/lock"

// Lock is the raw state lock for hosts that embed the lock in their own
// state layout (the analogue of placing the lock in the state's extra
// space) instead of using the typed [State] wrapper.
//
// The three-operation contract applies: Init exactly once before the
// owning state is published, then Acquire/Release in matched pairs around
// every operation, Destroy exactly once at the end. With a raw Lock the
// init-before-use ordering is checked at runtime rather than by the type
// system; prefer [New] and [State] where possible.
type Lock = lock.StateLock

// NewLock returns an uninitialized state lock. Init must run exactly once
// before any other operation, and before publication to other goroutines.
func NewLock() *Lock {
	return lock.New()
}

// Violation is a state lock contract violation, delivered by panic from
// any guard operation that detects one. See the Code constants for the
// taxonomy. Violations indicate bugs in the embedding host and are not
// meant to be recovered in production code.
type Violation = lock.Violation

// Code classifies contract violations.
type Code = lock.Code

// Violation codes. Each marks an unrecoverable lifecycle-ordering bug in
// the embedding host.
const (
	// UninitializedLock: a lock operation ran before Init.
	UninitializedLock = lock.UninitializedLock

	// DoubleInitialize: Init ran more than once on the same lock.
	DoubleInitialize = lock.DoubleInitialize

	// ReleaseWithoutHold: Release by a goroutine that is not the holder.
	ReleaseWithoutHold = lock.ReleaseWithoutHold

	// UseAfterDestroy: any lock operation after Destroy.
	UseAfterDestroy = lock.UseAfterDestroy

	// DestroyWhileContended: Destroy while held by another goroutine or
	// with queued waiters.
	DestroyWhileContended = lock.DestroyWhileContended
)

// Stats is a snapshot of a lock's contention counters.
type Stats = lock.Stats
