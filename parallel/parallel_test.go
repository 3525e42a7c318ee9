package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestChunksCoverRangeExactlyOnce(t *testing.T) {
	chunks := Chunks(17, 4)
	covered := make([]bool, 17)
	for _, c := range chunks {
		for i := c[0]; i < c[1]; i++ {
			if covered[i] {
				t.Fatalf("index %d covered twice", i)
			}
			covered[i] = true
		}
	}
	for i, ok := range covered {
		if !ok {
			t.Fatalf("index %d never covered", i)
		}
	}
}

func TestChunksNeverExceedsThreadsOrWork(t *testing.T) {
	if got := len(Chunks(3, 8)); got > 3 {
		t.Fatalf("Chunks(3, 8) produced %d chunks, want at most 3", got)
	}
	if got := len(Chunks(0, 4)); got != 0 {
		t.Fatalf("Chunks(0, 4) produced %d chunks, want 0", got)
	}
}

func TestChunksHandlesNonPositiveThreads(t *testing.T) {
	chunks := Chunks(5, 0)
	if len(chunks) != 1 || chunks[0] != [2]int{0, 5} {
		t.Fatalf("Chunks(5, 0) = %v, want a single [0,5) chunk", chunks)
	}
}

func TestNumThreadsUsesRequestedWhenPositive(t *testing.T) {
	if got := NumThreads(6); got != 6 {
		t.Fatalf("NumThreads(6) = %d, want 6", got)
	}
}

func TestNumThreadsFallsBackWhenNonPositive(t *testing.T) {
	if got := NumThreads(0); got < 1 {
		t.Fatalf("NumThreads(0) = %d, want >= 1", got)
	}
	if got := NumThreads(-3); got < 1 {
		t.Fatalf("NumThreads(-3) = %d, want >= 1", got)
	}
}

func TestForVisitsEveryIndexExactlyOnce(t *testing.T) {
	const n = 997
	var seen [n]int32
	err := For(n, 8, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	for i, v := range seen {
		if v != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, v)
		}
	}
}

func TestForSurfacesFirstError(t *testing.T) {
	want := errors.New("boom")
	err := For(10, 4, func(lo, hi int) error {
		if lo == 0 {
			return want
		}
		return nil
	})
	if !errors.Is(err, want) {
		t.Fatalf("For did not surface the chunk error: %v", err)
	}
}

func TestForReduceCombinesAllChunks(t *testing.T) {
	const n = 1000
	sum := ForReduce(n, 6,
		func(lo, hi int) int {
			s := 0
			for i := lo; i < hi; i++ {
				s += i
			}
			return s
		},
		func(a, b int) int { return a + b },
	)
	want := n * (n - 1) / 2
	if sum != want {
		t.Fatalf("ForReduce sum = %d, want %d", sum, want)
	}
}

func TestForReduceSingleChunkMatchesDirectCall(t *testing.T) {
	got := ForReduce(5, 1,
		func(lo, hi int) int { return hi - lo },
		func(a, b int) int { return a + b },
	)
	if got != 5 {
		t.Fatalf("ForReduce(5, 1) = %d, want 5", got)
	}
}
