package guard

import "github.com/kolkov/stateguard/internal/guard/lock"

// State is a shared runtime state of type T guarded by its own state lock.
//
// The lock is created, initialized, and destroyed with the State: exactly
// one lock per state, never shared, never outliving it. Every access to
// the payload must happen between Acquire and Release (or inside Do); the
// payload pointer returned by Acquire is invalid once the lock is
// released.
//
// A *State returned by New is always initialized. There is no way to
// obtain an uninitialized State through this type, which removes the
// use-before-init error class at compile time. See NewLock for the
// runtime-checked alternative.
type State[T any] struct {
	lk      lock.StateLock
	payload T
}

// New creates a guarded state holding payload.
//
// The state lock is initialized here, before the handle is returned, so
// publication to other goroutines is always safe. Create the State once
// per underlying runtime object; never recreate it in place.
func New[T any](payload T) *State[T] {
	s := &State[T]{payload: payload}
	s.lk.Init()
	return s
}

// Acquire blocks until the calling goroutine is the sole holder, then
// returns the guarded payload.
//
// The pointer is only valid until the matching Release. Acquire is not
// reentrant: calling it again from the same goroutine without releasing
// blocks forever.
func (s *State[T]) Acquire() *T {
	s.lk.Acquire()
	return &s.payload
}

// TryAcquire attempts to take the state without blocking.
//
// On success the caller is the holder and the payload is returned; the
// pointer is nil and ok is false if the state was busy. Queued waiters
// have priority over TryAcquire.
func (s *State[T]) TryAcquire() (payload *T, ok bool) {
	if !s.lk.TryAcquire() {
		return nil, false
	}
	return &s.payload, true
}

// Release relinquishes the state. The caller must be the current holder;
// releasing without holding panics with a ReleaseWithoutHold violation.
func (s *State[T]) Release() {
	s.lk.Release()
}

// Do runs fn with exclusive access to the payload.
//
// The lock is acquired on entry and released on every exit path,
// including a panic inside fn. This is the preferred bracketing form for
// host entry points: early returns and error unwinding cannot leak a
// held lock.
func (s *State[T]) Do(fn func(*T)) {
	s.lk.Acquire()
	defer s.lk.Release()
	fn(&s.payload)
}

// Destroy tears the state down together with its lock. Terminal.
//
// Call it exactly once, when the host destroys the underlying runtime
// object, either while holding the state or with the state idle.
// Destroying a state held by another goroutine or with queued waiters
// panics with DestroyWhileContended.
func (s *State[T]) Destroy() {
	s.lk.Destroy()
}

// Holder returns the goroutine ID currently holding the state, or 0 if it
// is unheld. Diagnostic snapshot only.
func (s *State[T]) Holder() int64 {
	return s.lk.Holder()
}

// Waiters returns the number of goroutines blocked acquiring the state.
// Diagnostic snapshot only.
func (s *State[T]) Waiters() int {
	return s.lk.Waiters()
}

// Stats returns the state lock's contention counters. Valid in every
// lifecycle state, including after Destroy.
func (s *State[T]) Stats() Stats {
	return s.lk.Stats()
}
