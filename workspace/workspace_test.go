package workspace

import "testing"

func TestNewPoolSizesBuffersByKind(t *testing.T) {
	rank := 4
	p := NewPool(KindALS, rank, 3)
	if len(p.Threads) != 3 {
		t.Fatalf("Nthreads = %d, want 3", len(p.Threads))
	}
	for i, th := range p.Threads {
		if len(th.Predict) != rank {
			t.Fatalf("thread %d Predict len = %d, want %d", i, len(th.Predict), rank)
		}
		if len(th.Contraction) != rank {
			t.Fatalf("thread %d Contraction len = %d, want %d", i, len(th.Contraction), rank)
		}
		if len(th.NormalEqs) != rank*rank {
			t.Fatalf("thread %d NormalEqs len = %d, want %d", i, len(th.NormalEqs), rank*rank)
		}
	}
}

func TestNewPoolGDHasOnlyPredictBuffer(t *testing.T) {
	p := NewPool(KindGD, 5, 2)
	for _, th := range p.Threads {
		if len(th.Predict) != 5 {
			t.Fatalf("Predict len = %d, want 5", len(th.Predict))
		}
		if th.Contraction != nil || th.NormalEqs != nil {
			t.Fatalf("GD thread should not allocate contraction/normal-eqns buffers")
		}
	}
}

func TestResizeReallocatesOnRankChange(t *testing.T) {
	p := NewPool(KindALS, 4, 2)
	p.Threads[0].Predict[0] = 99

	p.Resize(4, 2) // no-op, same dims
	if p.Threads[0].Predict[0] != 99 {
		t.Fatalf("Resize with unchanged dims should not reallocate")
	}

	p.Resize(6, 2)
	if p.Rank != 6 || len(p.Threads[0].Predict) != 6 {
		t.Fatalf("Resize should reallocate buffers for new rank")
	}
	if p.Threads[0].Predict[0] != 0 {
		t.Fatalf("fresh allocation should be zeroed")
	}
}

func TestThreadZeroClearsAllBuffers(t *testing.T) {
	p := NewPool(KindALS, 3, 1)
	th := p.For(0)
	for i := range th.Predict {
		th.Predict[i] = 1
	}
	for i := range th.NormalEqs {
		th.NormalEqs[i] = 1
	}
	th.Zero()
	for _, v := range th.Predict {
		if v != 0 {
			t.Fatalf("Predict not zeroed")
		}
	}
	for _, v := range th.NormalEqs {
		if v != 0 {
			t.Fatalf("NormalEqs not zeroed")
		}
	}
}
