// Package coo implements the coordinate-list (COO) sparse tensor: the
// canonical in-memory form nonzeros arrive in before being compressed into
// a CSF forest. See original_source/src/coo.c for the reference algorithms
// this package's RemoveDups/RemoveEmpty/Unfold reproduce.
package coo

import (
	"math"
	"sort"

	"github.com/tensorkit/sparsecore/parallel"
	"github.com/tensorkit/sparsecore/tcerr"
	"github.com/tensorkit/sparsecore/types"
)

// Tensor is a coordinate-list sparse tensor: parallel per-mode index
// vectors and one value vector, nnz entries long.
type Tensor struct {
	NModes int
	Dims   []types.Index
	Ind    [][]types.Index // Ind[m][n] is the mode-m coordinate of nonzero n
	Vals   []types.Value

	// IndMap[m] maps a compacted mode-m index back to its original value,
	// and is non-nil only for modes RemoveEmpty actually compacted.
	IndMap [][]types.Index
}

// Alloc returns a Tensor with nnz uninitialized entries across nmodes
// modes. Dims is left as all-zero; the caller (or Fill) is responsible for
// setting it.
func Alloc(nnz int, nmodes int) (*Tensor, error) {
	if nmodes <= 0 || nmodes > types.MaxModes {
		return nil, tcerr.New(tcerr.BadInput, "coo.Alloc", "nmodes out of range")
	}
	if nnz < 0 {
		return nil, tcerr.New(tcerr.BadInput, "coo.Alloc", "nnz must be non-negative")
	}

	t := &Tensor{
		NModes: nmodes,
		Dims:   make([]types.Index, nmodes),
		Ind:    make([][]types.Index, nmodes),
		Vals:   make([]types.Value, nnz),
		IndMap: make([][]types.Index, nmodes),
	}
	for m := 0; m < nmodes; m++ {
		t.Ind[m] = make([]types.Index, nnz)
	}
	return t, nil
}

// Fill wraps caller-provided index/value slices as a Tensor, inferring Dims
// as one past the maximum coordinate seen in each mode (mirrors tt_fill).
func Fill(nmodes int, ind [][]types.Index, vals []types.Value) (*Tensor, error) {
	if nmodes <= 0 || nmodes > types.MaxModes {
		return nil, tcerr.New(tcerr.BadInput, "coo.Fill", "nmodes out of range")
	}
	if len(ind) != nmodes {
		return nil, tcerr.New(tcerr.BadInput, "coo.Fill", "ind must have nmodes entries")
	}
	nnz := len(vals)
	for m := range ind {
		if len(ind[m]) != nnz {
			return nil, tcerr.New(tcerr.BadInput, "coo.Fill", "ind[m] length must equal len(vals)")
		}
	}

	t := &Tensor{
		NModes: nmodes,
		Dims:   make([]types.Index, nmodes),
		Ind:    ind,
		Vals:   vals,
		IndMap: make([][]types.Index, nmodes),
	}
	for m := 0; m < nmodes; m++ {
		var max types.Index
		for i, v := range ind[m] {
			if i == 0 || v > max {
				max = v
			}
		}
		if nnz > 0 {
			t.Dims[m] = max + 1
		}
	}
	return t, nil
}

// NNZ returns the number of stored nonzeros.
func (t *Tensor) NNZ() int { return len(t.Vals) }

// Clone returns a deep copy of t, so that operations sorting a tensor in
// place (csf.Build in particular, which must re-sort the same logical
// tensor under a different permutation per tree) can work from independent
// copies.
func (t *Tensor) Clone() *Tensor {
	out := &Tensor{
		NModes: t.NModes,
		Dims:   append([]types.Index(nil), t.Dims...),
		Ind:    make([][]types.Index, t.NModes),
		Vals:   append([]types.Value(nil), t.Vals...),
		IndMap: make([][]types.Index, t.NModes),
	}
	for m := 0; m < t.NModes; m++ {
		out.Ind[m] = append([]types.Index(nil), t.Ind[m]...)
		if t.IndMap[m] != nil {
			out.IndMap[m] = append([]types.Index(nil), t.IndMap[m]...)
		}
	}
	return out
}

// lexLess reports whether nonzero i sorts before nonzero j under the
// natural mode-0-major coordinate order.
func (t *Tensor) lexLess(i, j int) bool {
	for m := 0; m < t.NModes; m++ {
		if t.Ind[m][i] != t.Ind[m][j] {
			return t.Ind[m][i] < t.Ind[m][j]
		}
	}
	return false
}

// coordsSame reports whether nonzero i and nonzero j share every mode's
// coordinate.
func (t *Tensor) coordsSame(i, j int) bool {
	for m := 0; m < t.NModes; m++ {
		if t.Ind[m][i] != t.Ind[m][j] {
			return false
		}
	}
	return true
}

// RemoveDups stably sorts nonzeros into lexicographic coordinate order then
// collapses runs of equal coordinates into a single entry whose value is
// the sum of the run (mirrors tt_remove_dups). It returns the number of
// eliminated entries.
func (t *Tensor) RemoveDups() int {
	t.sortLex()

	nnz := t.NNZ()
	if nnz == 0 {
		return 0
	}

	newnnz := 0
	for n := 1; n < nnz; n++ {
		if t.coordsSame(newnnz, n) {
			t.Vals[newnnz] += t.Vals[n]
		} else {
			newnnz++
			for m := 0; m < t.NModes; m++ {
				t.Ind[m][newnnz] = t.Ind[m][n]
			}
			t.Vals[newnnz] = t.Vals[n]
		}
	}
	newnnz++

	diff := nnz - newnnz
	t.truncate(newnnz)
	return diff
}

func (t *Tensor) truncate(n int) {
	for m := 0; m < t.NModes; m++ {
		t.Ind[m] = t.Ind[m][:n]
	}
	t.Vals = t.Vals[:n]
}

// sortLex is the stable lexicographic sort used by RemoveDups (Unfold
// uses its own sortByMode). It sorts the parallel index/value slices in
// place via an index permutation. The sort itself runs on a single
// goroutine: stability across the whole nnz range is simplest to reason
// about there, and for RemoveDups the sort dominates cost, not the
// per-element work a parallel-for would help with.
func (t *Tensor) sortLex() {
	nnz := t.NNZ()
	idx := make([]int, nnz)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return t.lexLess(idx[a], idx[b])
	})
	t.ApplyPerm(idx)
}

// ApplyPerm reorders every parallel slice so that slice[k] becomes what it
// was at perm[k], using a cycle-following in-place permutation. It is
// exported so the csf package can reorder a Tensor under an arbitrary mode
// permutation before compressing it into a tree.
func (t *Tensor) ApplyPerm(perm []int) {
	visited := make([]bool, len(perm))
	for start := range perm {
		if visited[start] {
			continue
		}
		cur := start
		savedVal := t.Vals[start]
		savedInd := make([]types.Index, t.NModes)
		for m := range savedInd {
			savedInd[m] = t.Ind[m][start]
		}
		for {
			visited[cur] = true
			next := perm[cur]
			if next == start {
				t.Vals[cur] = savedVal
				for m := range savedInd {
					t.Ind[m][cur] = savedInd[m]
				}
				break
			}
			t.Vals[cur] = t.Vals[next]
			for m := 0; m < t.NModes; m++ {
				t.Ind[m][cur] = t.Ind[m][next]
			}
			cur = next
		}
	}
}

// RemoveEmpty compacts every mode whose slice indices don't cover the full
// [0, Dims[m]) range: it builds IndMap[m] (compacted index -> original) and
// rewrites Ind[m] in place, shrinking Dims[m] to the number of distinct
// values that actually occur. Modes that are already fully populated are
// left untouched (IndMap[m] stays nil). Returns the total number of empty
// slices removed across all modes.
func (t *Tensor) RemoveEmpty() int {
	nremoved := 0
	nnz := t.NNZ()

	for m := 0; m < t.NModes; m++ {
		dim := int(t.Dims[m])
		if dim == 0 {
			continue
		}
		present := make([]bool, dim)
		ind := t.Ind[m]
		unique := 0
		for n := 0; n < nnz; n++ {
			i := ind[n]
			if !present[i] {
				present[i] = true
				unique++
			}
		}

		if unique == dim {
			t.IndMap[m] = nil
			continue
		}

		nremoved += dim - unique

		remap := make([]types.Index, dim)
		indmap := make([]types.Index, unique)
		ptr := types.Index(0)
		for i := 0; i < dim; i++ {
			if present[i] {
				remap[i] = ptr
				indmap[ptr] = types.Index(i)
				ptr++
			}
		}

		for n := 0; n < nnz; n++ {
			ind[n] = remap[ind[n]]
		}

		t.Dims[m] = types.Index(unique)
		t.IndMap[m] = indmap
	}

	return nremoved
}

// FrobSq returns the squared Frobenius norm of the tensor, accumulated in
// double precision regardless of the Value build tag to mitigate precision
// loss, computed in parallel over chunks of the nonzero array.
func (t *Tensor) FrobSq(nthreads int) float64 {
	vals := t.Vals
	return parallel.ForReduce(len(vals), nthreads,
		func(lo, hi int) float64 {
			var sum float64
			for n := lo; n < hi; n++ {
				v := float64(vals[n])
				sum += v * v
			}
			return sum
		},
		func(a, b float64) float64 { return a + b },
	)
}

// Density returns the geometric-normalization density heuristic:
// Π_m ( nnz^(1/nmodes) / dims[m] ).
func (t *Tensor) Density() float64 {
	root := math.Pow(float64(t.NNZ()), 1.0/float64(t.NModes))
	density := 1.0
	for _, d := range t.Dims {
		density *= root / float64(d)
	}
	return density
}

// GetSlices returns the sorted, distinct coordinates that occur in mode m.
func (t *Tensor) GetSlices(m int) []types.Index {
	present := make(map[types.Index]bool)
	for _, v := range t.Ind[m] {
		present[v] = true
	}
	out := make([]types.Index, 0, len(present))
	for v := range present {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GetHist returns, for mode m, a Dims[m]-length histogram of how many
// nonzeros touch each slice index, counted in per-chunk local histograms
// across parallel chunks that are then summed (no atomic increments).
func (t *Tensor) GetHist(m, nthreads int) []types.Index {
	hist := make([]types.Index, t.Dims[m])
	ind := t.Ind[m]

	// Per-chunk local histograms avoid contending on a shared atomic
	// counter array and are then summed, which is equivalent to (and
	// cheaper than) per-element atomic increments for this access
	// pattern.
	merged := parallel.ForReduce(len(ind), nthreads,
		func(lo, hi int) []types.Index {
			local := make([]types.Index, len(hist))
			for n := lo; n < hi; n++ {
				local[ind[n]]++
			}
			return local
		},
		func(a, b []types.Index) []types.Index {
			for i := range a {
				a[i] += b[i]
			}
			return a
		},
	)
	if merged != nil {
		copy(hist, merged)
	}
	return hist
}
