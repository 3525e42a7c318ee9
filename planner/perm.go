// Package planner implements the allocation planner (spec §4.3): given a
// tensor's shape and a rank target, it chooses which CSF mode permutations
// to materialize under a max_csf tree budget and assigns every mode a tree
// to read from. See original_source/src/cmds/cmd_tucker.c for the
// reference's policy vocabulary (simple/greedy/iter) this package
// implements directly, and spec §4.2 for the root-then-ascending-dimension
// permutation convention used to build a tree for a chosen root mode.
package planner

import (
	"sort"

	"github.com/tensorkit/sparsecore/config"
	"github.com/tensorkit/sparsecore/tcerr"
	"github.com/tensorkit/sparsecore/types"
)

// PermFor builds the mode ordering for a tree rooted at root: root first,
// then the remaining modes ascending by dimension (shortest innermost, to
// maximize reuse at inner levels), ties broken by mode index.
func PermFor(root int, dims []types.Index) []int {
	nmodes := len(dims)
	rest := make([]int, 0, nmodes-1)
	for m := 0; m < nmodes; m++ {
		if m != root {
			rest = append(rest, m)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if dims[rest[i]] != dims[rest[j]] {
			return dims[rest[i]] < dims[rest[j]]
		}
		return rest[i] < rest[j]
	})
	perm := make([]int, 0, nmodes)
	perm = append(perm, root)
	perm = append(perm, rest...)
	return perm
}

// longestDim returns the mode with the greatest dimension, excluding modes
// in skip, ties broken by the smallest mode index.
func longestDim(dims []types.Index, skip map[int]bool) int {
	best := -1
	for m, d := range dims {
		if skip[m] {
			continue
		}
		if best == -1 || d > dims[best] {
			best = m
		}
	}
	return best
}

// Plan chooses a set of CSF permutations and a mode_to_tree assignment for
// dims/nnz/ranks under the given policy and tree budget. It returns the
// ordered permutation list (perms[i] is tree i's root-to-leaf mode order)
// and modeToTree (modeToTree[m] indexes into perms).
func Plan(dims []types.Index, nnz int, ranks []int, maxCSF int, policy config.AllocPolicy) ([][]int, []int, error) {
	const op = "planner.Plan"
	nmodes := len(dims)
	if nmodes == 0 {
		return nil, nil, tcerr.New(tcerr.BadInput, op, "dims must be non-empty")
	}
	if maxCSF <= 0 {
		return nil, nil, tcerr.New(tcerr.BadInput, op, "max_csf must be positive")
	}
	if len(ranks) != nmodes {
		return nil, nil, tcerr.New(tcerr.BadInput, op, "ranks must have one entry per mode")
	}

	switch policy {
	case config.AllocSimple:
		return planSimple(dims, maxCSF)
	case config.AllocGreedy:
		return planGreedy(dims, nnz, ranks, maxCSF)
	case config.AllocIter:
		return planIter(dims, maxCSF)
	default:
		return nil, nil, tcerr.New(tcerr.BadInput, op, "unknown allocation policy")
	}
}

func planSimple(dims []types.Index, maxCSF int) ([][]int, []int, error) {
	nmodes := len(dims)
	root0 := longestDim(dims, nil)
	perms := [][]int{PermFor(root0, dims)}
	modeToTree := make([]int, nmodes)

	if maxCSF >= 2 && nmodes >= 2 {
		root1 := longestDim(dims, map[int]bool{root0: true})
		perms = append(perms, PermFor(root1, dims))
		for m := 0; m < nmodes; m++ {
			if m == root1 {
				modeToTree[m] = 1
			}
		}
	}
	return perms, modeToTree, nil
}

func planIter(dims []types.Index, maxCSF int) ([][]int, []int, error) {
	nmodes := len(dims)
	ntrees := maxCSF
	if ntrees > nmodes {
		ntrees = nmodes
	}

	perms := make([][]int, ntrees)
	for i := 0; i < ntrees; i++ {
		perms[i] = PermFor(i, dims)
	}

	modeToTree := make([]int, nmodes)
	for m := 0; m < nmodes; m++ {
		modeToTree[m] = m % ntrees
	}
	return perms, modeToTree, nil
}
