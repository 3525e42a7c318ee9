// Package csf implements the Compressed Sparse Fiber forest: one or more
// permutation-ordered trees compressing a COO tensor into nested
// index/pointer levels per mode, the data structure the TTMc kernel fuses
// its arithmetic over. See spec §4.2 / §3 (CsfTree entity) for the layout
// contract this package implements.
package csf

import (
	"sort"

	"github.com/tensorkit/sparsecore/coo"
	"github.com/tensorkit/sparsecore/tcerr"
	"github.com/tensorkit/sparsecore/types"
)

// Tree is one canonical sparse representation of a tensor under a specific
// mode permutation (outer -> inner). Level 0 is the root; level NModes-1
// is the leaf level. FIDs[l][i] is the original (global) tensor coordinate
// of node i at level l under mode Perm[l]. FPtr[l][i]..FPtr[l][i+1] gives
// node i's children range into FIDs[l+1] (and, for l == NModes-2, into the
// leaf arrays). Within each parent, children are sorted ascending by
// index, and every FPtr array is monotonically non-decreasing, matching
// the invariants in spec §3.
type Tree struct {
	NModes int
	Perm   []int // Perm[l] is the original mode placed at level l
	Dims   []types.Index

	FIDs []([]types.Index) // length NModes; FIDs[NModes-1] are leaf (per-nonzero) indices
	FPtr []([]types.Index) // length NModes-1; FPtr[l] has len(FIDs[l])+1 entries

	Vals []types.Value // parallel to FIDs[NModes-1]

	NNZ int
}

// NumNodes returns the number of nodes (or, for the leaf level, the number
// of nonzeros) at level.
func (t *Tree) NumNodes(level int) int {
	return len(t.FIDs[level])
}

// Children returns node's child range [lo, hi) into level+1's FIDs array.
// level must be in [0, NModes-2].
func (t *Tree) Children(level, node int) (lo, hi int) {
	return int(t.FPtr[level][node]), int(t.FPtr[level][node+1])
}

// Fid returns the original tensor coordinate of node at level.
func (t *Tree) Fid(level, node int) types.Index {
	return t.FIDs[level][node]
}

// LeafVal returns the nonzero value stored at leaf position n.
func (t *Tree) LeafVal(n int) types.Value {
	return t.Vals[n]
}

// ModeAtLevel returns the original tensor mode placed at level.
func (t *Tree) ModeAtLevel(level int) int {
	return t.Perm[level]
}

// LevelOfMode returns the level at which mode m sits in this tree's
// permutation, or -1 if Perm doesn't contain m (it always does, since Perm
// is a permutation of 0..NModes-1, but the helper is written defensively
// since callers index with the result).
func (t *Tree) LevelOfMode(m int) int {
	for l, pm := range t.Perm {
		if pm == m {
			return l
		}
	}
	return -1
}

// boundaries returns, for each level l, the sorted nnz positions where a
// new node starts: n itself whenever the prefix (perm[0..l]) differs from
// nonzero n-1's, or n == 0. Level NModes-1's boundaries are trivially every
// position (one leaf per nonzero).
func boundaries(t *coo.Tensor, perm []int) [][]int {
	nmodes := t.NModes
	nnz := t.NNZ()

	bounds := make([][]int, nmodes)
	for l := 0; l < nmodes; l++ {
		b := make([]int, 0, nnz)
		for n := 0; n < nnz; n++ {
			isBoundary := n == 0
			if !isBoundary {
				for k := 0; k <= l; k++ {
					m := perm[k]
					if t.Ind[m][n] != t.Ind[m][n-1] {
						isBoundary = true
						break
					}
				}
			}
			if isBoundary {
				b = append(b, n)
			}
		}
		bounds[l] = b
	}
	return bounds
}

// Build constructs a CsfTree for tensor t under permutation perm
// (dim_perm[0] is the outer/root mode). t is sorted in place into
// lexicographic order under perm as a side effect, matching the reference
// tt_sort-then-scan construction.
func Build(t *coo.Tensor, perm []int) (*Tree, error) {
	nmodes := t.NModes
	if len(perm) != nmodes {
		return nil, tcerr.New(tcerr.BadInput, "csf.Build", "permutation length must equal nmodes")
	}
	seen := make([]bool, nmodes)
	for _, m := range perm {
		if m < 0 || m >= nmodes || seen[m] {
			return nil, tcerr.New(tcerr.BadInput, "csf.Build", "permutation must be a bijection on 0..nmodes-1")
		}
		seen[m] = true
	}

	sortByPerm(t, perm)

	bounds := boundaries(t, perm)

	tree := &Tree{
		NModes: nmodes,
		Perm:   append([]int(nil), perm...),
		Dims:   append([]types.Index(nil), t.Dims...),
		FIDs:   make([][]types.Index, nmodes),
		FPtr:   make([][]types.Index, nmodes-1),
		NNZ:    t.NNZ(),
	}

	for l := 0; l < nmodes; l++ {
		b := bounds[l]
		mode := perm[l]
		fids := make([]types.Index, len(b))
		for i, pos := range b {
			fids[i] = t.Ind[mode][pos]
		}
		tree.FIDs[l] = fids
	}

	for l := 0; l < nmodes-1; l++ {
		parent := bounds[l]
		child := bounds[l+1]
		fptr := make([]types.Index, len(parent)+1)
		for i, pos := range parent {
			// index of pos within child (child is a superset of parent's
			// boundary positions since a coarser prefix changes whenever
			// a finer one does).
			idx := sort.SearchInts(child, pos)
			fptr[i] = types.Index(idx)
		}
		fptr[len(parent)] = types.Index(len(child))
		tree.FPtr[l] = fptr
	}

	tree.Vals = append([]types.Value(nil), t.Vals...)

	return tree, nil
}

// sortByPerm stably sorts t's nonzeros into lexicographic order under
// perm (perm[0] major, perm[NModes-1] minor).
func sortByPerm(t *coo.Tensor, perm []int) {
	nnz := t.NNZ()
	idx := make([]int, nnz)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		for _, m := range perm {
			if t.Ind[m][ia] != t.Ind[m][ib] {
				return t.Ind[m][ia] < t.Ind[m][ib]
			}
		}
		return false
	})
	t.ApplyPerm(idx)
}
