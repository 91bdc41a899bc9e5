package lock

import (
	"sync"
	"sync/atomic"

	"github.com/kolkov/stateguard/internal/guard/goid"
)

// StateLock is the mutual-exclusion primitive bound to one guarded state.
//
// The zero value is an uninitialized lock: Init must run before any other
// operation, and before the owning state is published to another goroutine.
// A StateLock must not be copied after first use.
//
// All methods are safe for concurrent use once Init has completed. Acquire
// is the only operation that blocks; Init, TryAcquire, Release, and Destroy
// never do.
type StateLock struct {
	// mu guards the fields below. It is only held for short, non-blocking
	// critical sections; a goroutine waiting for the state lock parks on
	// its waiter channel, never on mu.
	mu sync.Mutex

	// initialized is set exactly once by Init.
	initialized bool

	// destroyed is set exactly once by Destroy. Terminal.
	destroyed bool

	// holder is the goroutine ID of the current holder, 0 if unheld.
	holder int64

	// waiters is the FIFO queue of goroutines blocked in Acquire.
	// Release hands the lock to waiters[0].
	waiters []*waiter

	// Contention counters, exported via Stats. Atomic so Stats can be
	// read without touching mu.
	acquires    atomic.Uint64
	contended   atomic.Uint64
	releases    atomic.Uint64
	tryAcquires atomic.Uint64
	tryFailures atomic.Uint64
}

// waiter is one goroutine parked in Acquire.
type waiter struct {
	// gid identifies the waiting goroutine. On handoff the releaser
	// installs this as the new holder before waking the waiter.
	gid int64

	// ready is closed by the releaser once ownership has transferred.
	// Closing (rather than sending) keeps Release non-blocking.
	ready chan struct{}
}

// New returns an uninitialized StateLock.
//
// The caller must invoke Init exactly once before the lock (or the state
// that owns it) becomes visible to any other goroutine.
func New() *StateLock {
	return &StateLock{}
}

// Init constructs the lock's mutual-exclusion state.
//
// Preconditions: called exactly once per lock, before publication. Calling
// Init twice panics with DoubleInitialize; calling it after Destroy panics
// with UseAfterDestroy.
//
// Init never blocks: no contention is possible before publication.
func (l *StateLock) Init() {
	l.mu.Lock()
	if l.destroyed {
		l.violate(&Violation{Code: UseAfterDestroy, Op: "init"})
	}
	if l.initialized {
		l.violate(&Violation{Code: DoubleInitialize, Op: "init"})
	}
	l.initialized = true
	l.mu.Unlock()
}

// Acquire blocks the calling goroutine until it is the sole holder.
//
// If the lock is idle, Acquire succeeds immediately. Otherwise the caller
// joins the FIFO wait queue and parks until a Release hands it the lock.
// Success implies exclusive ownership: no two goroutines ever observe
// themselves as holder simultaneously.
//
// Acquire is not reentrant. The holding goroutine calling Acquire again
// queues behind itself and blocks forever (see package doc).
//
// Panics with UninitializedLock before Init, UseAfterDestroy after Destroy.
func (l *StateLock) Acquire() {
	gid := goid.Current()

	l.mu.Lock()
	l.check("acquire", gid)

	if l.holder == 0 {
		// Uncontended fast path.
		l.holder = gid
		l.mu.Unlock()
		l.acquires.Add(1)
		return
	}

	w := &waiter{gid: gid, ready: make(chan struct{})}
	l.waiters = append(l.waiters, w)
	l.mu.Unlock()
	l.contended.Add(1)

	// Park until a releaser transfers ownership. The holder field has
	// already been set to gid by the time ready is closed.
	<-w.ready
	l.acquires.Add(1)
}

// TryAcquire attempts to take the lock without blocking.
//
// It returns true and makes the caller the holder only if the lock is idle
// with no queued waiters (waiters have priority; barging past the queue
// would break FIFO fairness). It never blocks and never joins the queue.
//
// Panics with UninitializedLock before Init, UseAfterDestroy after Destroy.
func (l *StateLock) TryAcquire() bool {
	gid := goid.Current()

	l.mu.Lock()
	l.check("try-acquire", gid)

	if l.holder == 0 && len(l.waiters) == 0 {
		l.holder = gid
		l.mu.Unlock()
		l.tryAcquires.Add(1)
		return true
	}
	l.mu.Unlock()
	l.tryFailures.Add(1)
	return false
}

// Release relinquishes ownership previously obtained by the same goroutine.
//
// If waiters are queued, ownership transfers directly to the oldest one
// and it is woken; otherwise the lock returns to idle. Release never
// blocks.
//
// Panics with ReleaseWithoutHold if the caller is not the current holder,
// UninitializedLock before Init, UseAfterDestroy after Destroy.
func (l *StateLock) Release() {
	gid := goid.Current()

	l.mu.Lock()
	l.check("release", gid)

	if l.holder != gid {
		l.violate(&Violation{
			Code:   ReleaseWithoutHold,
			Op:     "release",
			Caller: gid,
			Holder: l.holder,
		})
	}

	if len(l.waiters) > 0 {
		// Direct handoff: the oldest waiter becomes the holder before it
		// wakes, so the lock is never observably idle in between and a
		// racing TryAcquire cannot barge past the queue.
		w := l.waiters[0]
		l.waiters = l.waiters[1:]
		l.holder = w.gid
		l.mu.Unlock()
		close(w.ready)
	} else {
		l.holder = 0
		l.mu.Unlock()
	}
	l.releases.Add(1)
}

// Destroy tears the lock down. Terminal: every subsequent operation panics
// with UseAfterDestroy.
//
// The caller must either hold the lock itself (teardown from the final
// critical section) or the lock must be idle. Destroying a lock that is
// held by another goroutine or has queued waiters panics with
// DestroyWhileContended; a host that can reach that state has a lifetime
// bug between the state and its users.
//
// Panics with UninitializedLock if Init never ran, UseAfterDestroy if
// already destroyed.
func (l *StateLock) Destroy() {
	gid := goid.Current()

	l.mu.Lock()
	l.check("destroy", gid)

	if (l.holder != 0 && l.holder != gid) || len(l.waiters) > 0 {
		l.violate(&Violation{
			Code:   DestroyWhileContended,
			Op:     "destroy",
			Caller: gid,
			Holder: l.holder,
		})
	}
	l.destroyed = true
	l.holder = 0
	l.mu.Unlock()
}

// Holder returns the goroutine ID of the current holder, or 0 if the lock
// is unheld. The snapshot is instantly stale; it exists for diagnostics
// and tests, not for synchronization decisions.
func (l *StateLock) Holder() int64 {
	l.mu.Lock()
	h := l.holder
	l.mu.Unlock()
	return h
}

// Waiters returns the number of goroutines currently queued in Acquire.
// Like Holder, this is a diagnostic snapshot only.
func (l *StateLock) Waiters() int {
	l.mu.Lock()
	n := len(l.waiters)
	l.mu.Unlock()
	return n
}

// HeldByCaller reports whether the calling goroutine is the current holder.
func (l *StateLock) HeldByCaller() bool {
	gid := goid.Current()
	l.mu.Lock()
	held := l.holder == gid
	l.mu.Unlock()
	return held
}

// check enforces the lifecycle preconditions shared by every operation.
// Caller must hold l.mu.
func (l *StateLock) check(op string, gid int64) {
	if l.destroyed {
		l.violate(&Violation{Code: UseAfterDestroy, Op: op, Caller: gid, Holder: l.holder})
	}
	if !l.initialized {
		l.violate(&Violation{Code: UninitializedLock, Op: op, Caller: gid})
	}
}

// violate releases l.mu and panics with v.
//
// Violations are fatal host bugs, but tests recover them; unlocking first
// keeps a recovered lock instance inspectable instead of wedging mu.
func (l *StateLock) violate(v *Violation) {
	l.mu.Unlock()
	panic(v)
}
