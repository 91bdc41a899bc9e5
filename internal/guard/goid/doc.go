// Package goid extracts the identity of the calling goroutine.
//
// The state lock records which goroutine currently holds it (the "holder").
// That identity is what makes release-without-hold and destroy-while-held
// violations detectable, so the lock package calls goid.Current() on every
// acquire and release.
//
// Implementation: the goroutine ID is parsed from the first line of
// runtime.Stack output ("goroutine 123 [running]:"). An unsafe fast path
// reading runtime.g directly is possible (~1-2ns vs ~1500ns) but is
// deliberately not shipped: the g struct layout shifts between Go releases
// and a wrong offset silently corrupts holder tracking. Stack parsing is
// slow but correct on every platform and Go version.
//
// Goroutine IDs are positive and never reused within a process, which is
// exactly the property holder tracking needs: a stale holder value can
// never be mistaken for a live goroutine's ID.
package goid
