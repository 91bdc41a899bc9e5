package bracket

import (
	"fmt"
	"go/token"
)

// Kind classifies bracketing findings.
type Kind int

const (
	// MissingRelease: a function acquires a guarded state but has no
	// release for it on any path.
	MissingRelease Kind = iota

	// MissingAcquire: a function releases a guarded state it never
	// acquired. At runtime this is a ReleaseWithoutHold violation waiting
	// to happen (or a helper relying on a caller's hold, which should be
	// unexported and named accordingly).
	MissingAcquire

	// ReleaseNotDeferred: acquire and release are present, but the
	// release is not deferred and the function has multiple exit points.
	// An early return or panic between them leaks a held lock.
	ReleaseNotDeferred

	// UnguardedEntry: an exported function receives a guarded state but
	// performs no bracketing on it at all.
	UnguardedEntry
)

// String returns the finding kind as printed in reports.
func (k Kind) String() string {
	switch k {
	case MissingRelease:
		return "missing-release"
	case MissingAcquire:
		return "missing-acquire"
	case ReleaseNotDeferred:
		return "release-not-deferred"
	case UnguardedEntry:
		return "unguarded-entry"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Finding is one bracketing problem located in a source file.
type Finding struct {
	// Pos is the source position of the offending function.
	Pos token.Position

	// Kind classifies the problem.
	Kind Kind

	// Func is the name of the function or method.
	Func string

	// Target is the guarded expression involved, as written in source
	// (e.g. "st" or "r.state").
	Target string
}

// String formats the finding for CLI output.
//
// Example:
//
//	interp.go:42:1: missing-release: Eval acquires "r.state" but never releases it
func (f Finding) String() string {
	var detail string
	switch f.Kind {
	case MissingRelease:
		detail = fmt.Sprintf("%s acquires %q but never releases it", f.Func, f.Target)
	case MissingAcquire:
		detail = fmt.Sprintf("%s releases %q it never acquired", f.Func, f.Target)
	case ReleaseNotDeferred:
		detail = fmt.Sprintf("%s releases %q without defer and has multiple exit points", f.Func, f.Target)
	case UnguardedEntry:
		detail = fmt.Sprintf("exported %s takes guarded state %q but never brackets it", f.Func, f.Target)
	default:
		detail = fmt.Sprintf("%s: %q", f.Func, f.Target)
	}
	return fmt.Sprintf("%s: %s: %s", f.Pos, f.Kind, detail)
}

// Stats tracks what a check run covered, reported with -v.
type Stats struct {
	FilesChecked   int // files parsed and analyzed
	FilesSkipped   int // files that never import the guard package
	FuncsChecked   int // functions and methods inspected
	GuardedFuncs   int // functions that touch a guarded state
	FindingsByKind [4]int
}

// Findings returns the total number of findings.
func (s *Stats) Findings() int {
	total := 0
	for _, n := range s.FindingsByKind {
		total += n
	}
	return total
}
