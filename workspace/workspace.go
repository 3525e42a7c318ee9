// Package workspace holds per-thread scratch buffers reused across
// iterations instead of being allocated per-nonzero or per-iteration. See
// original_source/src/completion/completion.c's tc_ws_alloc/thd_init call
// sequence, which this package's Pool generalizes: one scratch-buffer-count
// table per algorithm kind (1 buffer for GD and SGD, 3 for ALS: a
// prediction buffer, a contraction buffer, and a rank x rank normal-equations
// buffer), reconstructed whenever rank changes.
package workspace

import "github.com/tensorkit/sparsecore/types"

// Kind selects which per-thread buffer layout a Pool allocates.
type Kind int

const (
	// KindGD allocates one rank-length buffer per thread.
	KindGD Kind = iota
	// KindSGD allocates one rank-length buffer per thread.
	KindSGD
	// KindALS allocates three buffers per thread: prediction (rank),
	// contraction (rank), and normal equations (rank*rank).
	KindALS
)

// Thread is one thread's scratch buffers. Unused fields for a given Kind
// stay nil.
type Thread struct {
	Predict     []types.Value // length rank
	Contraction []types.Value // length rank
	NormalEqs   []types.Value // length rank*rank, row-major
}

// Pool holds one Thread per worker, sized for a given rank and Kind.
type Pool struct {
	Kind     Kind
	Rank     int
	Nthreads int
	Threads  []Thread
}

// NewPool allocates a Pool of nthreads Thread scratch areas sized for rank
// under kind.
func NewPool(kind Kind, rank, nthreads int) *Pool {
	p := &Pool{Kind: kind, Rank: rank, Nthreads: nthreads}
	p.Threads = make([]Thread, nthreads)
	for i := range p.Threads {
		p.Threads[i] = newThread(kind, rank)
	}
	return p
}

func newThread(kind Kind, rank int) Thread {
	switch kind {
	case KindGD, KindSGD:
		return Thread{Predict: make([]types.Value, rank)}
	case KindALS:
		return Thread{
			Predict:     make([]types.Value, rank),
			Contraction: make([]types.Value, rank),
			NormalEqs:   make([]types.Value, rank*rank),
		}
	default:
		return Thread{}
	}
}

// Resize reallocates the pool in place if rank or nthreads has changed,
// leaving it untouched (and its buffers' contents intact) otherwise.
func (p *Pool) Resize(rank, nthreads int) {
	if rank == p.Rank && nthreads == p.Nthreads {
		return
	}
	p.Rank = rank
	p.Nthreads = nthreads
	p.Threads = make([]Thread, nthreads)
	for i := range p.Threads {
		p.Threads[i] = newThread(p.Kind, rank)
	}
}

// For returns the scratch Thread owned by worker id (0 <= id < Nthreads).
func (p *Pool) For(id int) *Thread {
	return &p.Threads[id]
}

// Zero clears every buffer in t, reused across iterations so stale values
// from a previous mode's computation never leak into the next.
func (t *Thread) Zero() {
	for i := range t.Predict {
		t.Predict[i] = 0
	}
	for i := range t.Contraction {
		t.Contraction[i] = 0
	}
	for i := range t.NormalEqs {
		t.NormalEqs[i] = 0
	}
}
