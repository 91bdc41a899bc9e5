package lock

import "fmt"

// Code classifies state lock contract violations.
//
// Every Code is a lifecycle-ordering bug in the embedding host. None of
// them is a transient condition that could be caught and retried, which is
// why the lock surfaces them as panics rather than error returns.
type Code int

const (
	// UninitializedLock: Acquire, TryAcquire, Release, or Destroy was
	// invoked before Init completed.
	UninitializedLock Code = iota

	// DoubleInitialize: Init was invoked more than once on the same lock.
	DoubleInitialize

	// ReleaseWithoutHold: Release was invoked by a goroutine that does not
	// currently hold the lock.
	ReleaseWithoutHold

	// UseAfterDestroy: any lock operation was invoked after Destroy.
	UseAfterDestroy

	// DestroyWhileContended: Destroy was invoked while another goroutine
	// held the lock or waiters were queued on it.
	DestroyWhileContended
)

// String returns the violation name as it appears in panic messages.
func (c Code) String() string {
	switch c {
	case UninitializedLock:
		return "UninitializedLock"
	case DoubleInitialize:
		return "DoubleInitialize"
	case ReleaseWithoutHold:
		return "ReleaseWithoutHold"
	case UseAfterDestroy:
		return "UseAfterDestroy"
	case DestroyWhileContended:
		return "DestroyWhileContended"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Violation describes a state lock contract violation.
//
// Violations are raised via panic(*Violation). They implement error so
// that test helpers and crash reporters can format them uniformly, but
// they are not meant to be returned or recovered from in production code.
type Violation struct {
	// Code identifies the violated contract rule.
	Code Code

	// Op is the lock operation that detected the violation
	// ("acquire", "try-acquire", "release", "init", "destroy").
	Op string

	// Caller is the goroutine ID that performed the violating operation,
	// or 0 if identity was not relevant to the check.
	Caller int64

	// Holder is the goroutine ID holding the lock when the violation was
	// detected, or 0 if the lock was unheld.
	Holder int64
}

// Error formats the violation for panic output.
//
// Example:
//
//	stateguard: ReleaseWithoutHold: release by goroutine 24 (holder: goroutine 17)
func (v *Violation) Error() string {
	msg := fmt.Sprintf("stateguard: %s: %s", v.Code, v.Op)
	if v.Caller != 0 {
		msg += fmt.Sprintf(" by goroutine %d", v.Caller)
	}
	if v.Holder != 0 {
		msg += fmt.Sprintf(" (holder: goroutine %d)", v.Holder)
	}
	return msg
}
