package lock

// Stats is a snapshot of a lock's contention counters.
//
// All counters are monotonic over the lock's lifetime. The snapshot is
// taken field by field from atomics, so a concurrently mutating lock can
// yield a snapshot that straddles an operation (e.g. an Acquire counted
// but its Release not yet). Quiesce the lock first when exact accounting
// matters.
type Stats struct {
	// Acquires counts successful Acquire calls, contended or not.
	Acquires uint64

	// Contended counts Acquire calls that had to queue behind a holder.
	// Always <= Acquires.
	Contended uint64

	// Releases counts successful Release calls.
	Releases uint64

	// TryAcquires counts successful TryAcquire calls.
	TryAcquires uint64

	// TryFailures counts TryAcquire calls that found the lock busy.
	TryFailures uint64
}

// Stats returns a snapshot of the lock's contention counters.
//
// Unlike the other operations, Stats is valid in every lifecycle state,
// including before Init and after Destroy: a crash reporter inspecting a
// destroyed state must still be able to read its counters.
func (l *StateLock) Stats() Stats {
	return Stats{
		Acquires:    l.acquires.Load(),
		Contended:   l.contended.Load(),
		Releases:    l.releases.Load(),
		TryAcquires: l.tryAcquires.Load(),
		TryFailures: l.tryFailures.Load(),
	}
}
