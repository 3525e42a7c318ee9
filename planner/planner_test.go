package planner

import (
	"testing"

	"github.com/tensorkit/sparsecore/config"
	"github.com/tensorkit/sparsecore/types"
)

func checkCoversEveryModeOnce(t *testing.T, nmodes int, perms [][]int, modeToTree []int) {
	t.Helper()
	if len(modeToTree) != nmodes {
		t.Fatalf("modeToTree length = %d, want %d", len(modeToTree), nmodes)
	}
	for m, ti := range modeToTree {
		if ti < 0 || ti >= len(perms) {
			t.Fatalf("mode %d maps to out-of-range tree %d", m, ti)
		}
	}
	for i, p := range perms {
		seen := make([]bool, nmodes)
		if len(p) != nmodes {
			t.Fatalf("tree %d perm length = %d, want %d", i, len(p), nmodes)
		}
		for _, m := range p {
			if seen[m] {
				t.Fatalf("tree %d perm repeats mode %d", i, m)
			}
			seen[m] = true
		}
	}
}

func TestPlanSimpleAssignsLongestDimsToRoots(t *testing.T) {
	dims := []types.Index{3, 10, 5}
	ranks := []int{2, 2, 2}

	perms, modeToTree, err := Plan(dims, 100, ranks, 2, config.AllocSimple)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	checkCoversEveryModeOnce(t, 3, perms, modeToTree)

	if perms[0][0] != 1 {
		t.Fatalf("tree 0 root = %d, want mode 1 (longest dim)", perms[0][0])
	}
	if len(perms) != 2 || perms[1][0] != 2 {
		t.Fatalf("tree 1 root = %v, want mode 2 (next longest)", perms)
	}
	if modeToTree[2] != 1 {
		t.Fatalf("mode 2 (tree 1's root) should map to tree 1")
	}
	if modeToTree[0] != 0 || modeToTree[1] != 0 {
		t.Fatalf("modes 0,1 should map to tree 0")
	}
}

func TestPlanSimpleSingleTreeWhenBudgetIsOne(t *testing.T) {
	dims := []types.Index{3, 10, 5}
	ranks := []int{2, 2, 2}

	perms, modeToTree, err := Plan(dims, 100, ranks, 1, config.AllocSimple)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	checkCoversEveryModeOnce(t, 3, perms, modeToTree)
	if len(perms) != 1 {
		t.Fatalf("expected exactly 1 tree, got %d", len(perms))
	}
}

func TestPlanGreedyCoversAllModes(t *testing.T) {
	dims := []types.Index{4, 9, 6, 3}
	ranks := []int{2, 3, 2, 2}

	for maxCSF := 1; maxCSF <= 4; maxCSF++ {
		perms, modeToTree, err := Plan(dims, 500, ranks, maxCSF, config.AllocGreedy)
		if err != nil {
			t.Fatalf("Plan(maxCSF=%d): %v", maxCSF, err)
		}
		checkCoversEveryModeOnce(t, 4, perms, modeToTree)
		if len(perms) > maxCSF {
			t.Fatalf("maxCSF=%d: got %d trees, exceeds budget", maxCSF, len(perms))
		}
	}
}

func TestPlanIterRoundRobinsWithinBudget(t *testing.T) {
	dims := []types.Index{4, 9, 6, 3}
	ranks := []int{2, 3, 2, 2}

	perms, modeToTree, err := Plan(dims, 500, ranks, 2, config.AllocIter)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	checkCoversEveryModeOnce(t, 4, perms, modeToTree)
	if len(perms) != 2 {
		t.Fatalf("expected 2 trees, got %d", len(perms))
	}
	for m, ti := range modeToTree {
		if ti != m%2 {
			t.Fatalf("mode %d mapped to tree %d, want round-robin %d", m, ti, m%2)
		}
	}
}

func TestPermForOrdersRestAscendingByDim(t *testing.T) {
	dims := []types.Index{7, 2, 9, 2}
	perm := PermFor(2, dims)
	if perm[0] != 2 {
		t.Fatalf("perm[0] = %d, want root 2", perm[0])
	}
	// remaining modes 0,1,3 with dims 7,2,2: ascending by dim, ties by
	// mode index, should be [1, 3, 0]
	want := []int{1, 3, 0}
	for i, m := range want {
		if perm[i+1] != m {
			t.Fatalf("perm = %v, want root 2 then %v", perm, want)
		}
	}
}

func TestPlanRejectsBadInput(t *testing.T) {
	dims := []types.Index{3, 3}
	ranks := []int{1, 1}
	if _, _, err := Plan(nil, 10, ranks, 1, config.AllocSimple); err == nil {
		t.Fatalf("expected error for empty dims")
	}
	if _, _, err := Plan(dims, 10, ranks, 0, config.AllocSimple); err == nil {
		t.Fatalf("expected error for non-positive max_csf")
	}
	if _, _, err := Plan(dims, 10, []int{1}, 1, config.AllocSimple); err == nil {
		t.Fatalf("expected error for rank/mode length mismatch")
	}
}
