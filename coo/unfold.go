package coo

import (
	"sort"

	"github.com/tensorkit/sparsecore/types"
)

// CSR is a compressed-sparse-row matrix: the output shape of Unfold. It
// mirrors the COO-to-CSR idiom (RowPtr cumulative counts, parallel
// ColInd/Vals) common to the sparse-matrix corpus (e.g. the
// compress/cumsum/dedupe helpers backing james-bowman/sparse's
// COO.ToCSR), specialized here to the single unfold use case so it needs
// no general-purpose arithmetic of its own.
type CSR struct {
	Rows   int
	Cols   int
	RowPtr []types.Index // length Rows+1
	ColInd []types.Index
	Vals   []types.Value
}

// Unfold emits the mode-m unfolding of t as a CSR sparse matrix of shape
// Dims[m] x Π_{k != m} Dims[k]. The column index for a nonzero is the
// mixed-radix encoding of its other-mode indices: mode m is skipped, the
// digits are built from mode nmodes-1 down to mode 0, and so the
// highest-numbered remaining mode is the least-significant digit (for a
// 3-mode tensor unfolded along mode 0, col = ind[2] + Dims[2]*ind[1]),
// matching original_source/src/coo.c's tt_unfold column
// computation exactly. Unfold sorts t in place by mode m first, so rows
// come out grouped (and possibly empty, in which case their RowPtr entries
// equal the next populated row's start).
func (t *Tensor) Unfold(mode int) *CSR {
	nmodes := t.NModes
	nrows := int(t.Dims[mode])
	ncols := 1
	for m := 1; m < nmodes; m++ {
		ncols *= int(t.Dims[(mode+m)%nmodes])
	}

	t.sortByMode(mode)

	nnz := t.NNZ()
	mat := &CSR{
		Rows:   nrows,
		Cols:   ncols,
		RowPtr: make([]types.Index, nrows+1),
		ColInd: make([]types.Index, nnz),
		Vals:   make([]types.Value, nnz),
	}

	modeInd := t.Ind[mode]
	row := 0
	for n := 0; n < nnz; n++ {
		for row <= int(modeInd[n]) {
			mat.RowPtr[row] = types.Index(n)
			row++
		}
		mat.Vals[n] = t.Vals[n]

		var col types.Index
		mult := types.Index(1)
		for m := 0; m < nmodes; m++ {
			off := nmodes - 1 - m
			if off == mode {
				continue
			}
			col += t.Ind[off][n] * mult
			mult *= t.Dims[off]
		}
		mat.ColInd[n] = col
	}
	for r := row; r <= nrows; r++ {
		mat.RowPtr[r] = types.Index(nnz)
	}

	return mat
}

// sortByMode stably sorts nonzeros so mode's coordinate is the primary sort
// key, ties broken by the natural mode-0-major order of the remaining
// modes (this is sufficient for Unfold, which only needs rows grouped).
func (t *Tensor) sortByMode(mode int) {
	nnz := t.NNZ()
	idx := make([]int, nnz)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if t.Ind[mode][ia] != t.Ind[mode][ib] {
			return t.Ind[mode][ia] < t.Ind[mode][ib]
		}
		return t.lexLess(ia, ib)
	})
	t.ApplyPerm(idx)
}
