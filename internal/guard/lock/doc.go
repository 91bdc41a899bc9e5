// Package lock implements the state lock protecting one shared runtime state.
//
// A StateLock is bound 1:1 to a single guarded state for that state's whole
// lifetime. It serializes every operation that touches the state across an
// arbitrary number of goroutines, with well-defined initialization,
// acquisition, release, and destruction semantics.
//
// Lifecycle (per lock):
//
//	Uninitialized --Init--> Idle --Acquire--> Held --Release--> Idle
//	Idle/Held --Destroy--> Destroyed (terminal)
//
// Init must run exactly once, before the owning state is published to any
// other goroutine. Acquire and Release run in matched pairs for every
// operation on the state for the remainder of its life. After Destroy, any
// further operation is a contract violation.
//
// Policy: the lock is NOT reentrant. A second Acquire by the holding
// goroutine queues behind itself and blocks forever, exactly like a plain
// sync.Mutex. Hosts whose entry points can re-enter the guarded state must
// restructure the call sites; the lock does not count nested holds.
//
// Fairness: release hands the lock directly to the oldest waiter (FIFO),
// so a continuous stream of fresh acquirers cannot starve a queued one.
// Direct handoff also keeps the holder identity accurate at all times.
//
// Contract violations (acquire before init, double init, release without
// hold, any use after destroy, destroy under contention) are programming
// errors in the embedding host, not runtime conditions. They are surfaced
// by panicking with a *Violation and are never silently ignored. Contention
// itself is not an error; blocking in Acquire is normal behavior.
//
// Memory model: all effects of a critical section are visible to the next
// holder. The internal mutex and the handoff channel both establish the
// required happens-before edges across the Release→Acquire boundary.
package lock
