package goid

import (
	"sync"
	"testing"
)

// TestParse tests goroutine ID extraction from stack trace headers.
func TestParse(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		want int64
	}{
		{
			name: "typical header",
			buf:  "goroutine 123 [running]:\nmain.main()\n",
			want: 123,
		},
		{
			name: "main goroutine",
			buf:  "goroutine 1 [running]:\n",
			want: 1,
		},
		{
			name: "large id",
			buf:  "goroutine 18446744073 [chan receive]:\n",
			want: 18446744073,
		},
		{
			name: "truncated after id",
			buf:  "goroutine 42",
			want: 42,
		},
		{
			name: "missing prefix",
			buf:  "gorutine 123 [running]:\n",
			want: 0,
		},
		{
			name: "no digits",
			buf:  "goroutine [running]:\n",
			want: 0,
		},
		{
			name: "empty buffer",
			buf:  "",
			want: 0,
		},
		{
			name: "shorter than prefix",
			buf:  "goroutine",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse([]byte(tt.buf))
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.buf, got, tt.want)
			}
		})
	}
}

// TestCurrentPositive verifies that Current returns a valid ID.
func TestCurrentPositive(t *testing.T) {
	id := Current()
	if id <= 0 {
		t.Fatalf("Current() = %d, want positive", id)
	}
}

// TestCurrentStable verifies that the ID does not change between calls
// within the same goroutine.
func TestCurrentStable(t *testing.T) {
	first := Current()
	for i := 0; i < 100; i++ {
		if got := Current(); got != first {
			t.Fatalf("Current() changed within goroutine: %d then %d", first, got)
		}
	}
}

// TestCurrentDistinct verifies that concurrent goroutines observe
// distinct IDs.
func TestCurrentDistinct(t *testing.T) {
	const n = 50

	var (
		mu  sync.Mutex
		ids = make(map[int64]int, n)
		wg  sync.WaitGroup
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := Current()
			mu.Lock()
			ids[id]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(ids) != n {
		t.Fatalf("got %d distinct IDs across %d goroutines", len(ids), n)
	}
	for id, count := range ids {
		if id <= 0 {
			t.Errorf("goroutine observed non-positive ID %d", id)
		}
		if count != 1 {
			t.Errorf("ID %d observed by %d goroutines", id, count)
		}
	}
}

// BenchmarkCurrent measures the cost of goroutine ID extraction.
func BenchmarkCurrent(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Current()
	}
}
