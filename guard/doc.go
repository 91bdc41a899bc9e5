// Package guard serializes access to one shared, mutable runtime state.
//
// An embedded runtime object (an interpreter state, a VM handle, any
// stateful engine that is not safe for concurrent use) needs exactly one
// lock, created with it, initialized before it is visible to any other
// goroutine, and bracketing every operation on it for the rest of its
// life. This package is that discipline as an API: it is deliberately not
// a general-purpose mutex library. One lock per state, same lifetime, no
// sharing of a lock across states.
//
// # Quick Start
//
// Wrap the state in a typed guard and bracket every use with Do:
//
//	type Interp struct {
//		globals map[string]any
//	}
//
//	st := guard.New(Interp{globals: map[string]any{}})
//
//	st.Do(func(in *Interp) {
//		in.globals["answer"] = 42
//	})
//
// Do acquires on entry and releases on every exit path, including panics.
// For call sites that cannot use a closure, Acquire/Release are explicit:
//
//	in := st.Acquire()
//	defer st.Release()
//	in.globals["answer"] = 42
//
// # Lifecycle
//
// guard.New initializes the state lock before returning, so a *State in
// your hands is always past initialization: use-before-init is
// unrepresentable through this type. Hosts that embed the lock in their
// own state layout instead use [NewLock] and must call Init exactly once
// before publication; there the ordering is checked at runtime.
//
// Destroy is terminal. It matches the host destroying the underlying
// state: after Destroy, every operation panics with a [UseAfterDestroy]
// violation.
//
// # Locking policy
//
// The lock is NOT reentrant (a plain-mutex contract): an entry point that
// re-enters the guarded state while already holding it blocks forever.
// Structure host call sites so that public entry points acquire and
// internal helpers assume the lock is held, the same shape interpreter
// embeddings use for their state lock.
//
// Waiters are woken in FIFO order; a release hands the lock directly to
// the oldest waiter, so queued goroutines cannot be starved by fresh
// arrivals.
//
// # Violations
//
// Acquire before Init, double Init, release without holding, any use
// after Destroy, and destroying a contended state are contract bugs in
// the embedding host, not runtime errors. They panic with a [*Violation];
// nothing in this package returns them as recoverable errors. Blocking in
// Acquire under contention is not an error at all.
//
// # Tooling
//
// The stateguard CLI (cmd/stateguard) statically checks that exported
// entry points of a host package bracket their guarded-state access:
//
//	stateguard check ./...
package guard
