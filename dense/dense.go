// Package dense is the thin façade over gonum.org/v1/gonum/mat that HOOI
// uses for every dense-matrix step: Gram matrix formation, symmetric
// eigendecomposition, and thin SVD. It is this repo's analog of the
// teacher's StdEng-backed MatMul/Sum engine wrapper (mps/engine.go,
// mps/matmul.go): one seam a caller goes through regardless of which
// gonum/BLAS call underlies the shape at hand, generalized here from
// "swap in MPS on Darwin" to "swap in whichever gonum routine the shape
// calls for" (Gram via Mul, eigenvectors via EigenSym, singular vectors
// via SVD). See original_source/src/svd.h for the left_singulars/make_core
// signatures this package's LeftSingulars/MakeCore reproduce the behavior
// of.
package dense

import (
	"math"
	"sort"

	"github.com/tensorkit/sparsecore/tcerr"
	"gonum.org/v1/gonum/mat"
)

// Gram returns Aᵀ·A for an nrows x ncols matrix a (row-major, length
// nrows*ncols), as an ncols x ncols *mat.Dense.
func Gram(a []float64, nrows, ncols int) *mat.Dense {
	m := mat.NewDense(nrows, ncols, a)
	var gram mat.Dense
	gram.Mul(m.T(), m)
	return &gram
}

// LeftSingulars returns the top-rank left singular vectors of an nrows x
// ncols matrix a (row-major), as an nrows x rank *mat.Dense, mirroring
// svd.h's left_singulars. rank must not exceed min(nrows, ncols).
func LeftSingulars(a []float64, nrows, ncols, rank int) (*mat.Dense, error) {
	const op = "dense.LeftSingulars"
	if rank <= 0 || rank > nrows || rank > ncols {
		return nil, tcerr.New(tcerr.BadInput, op, "rank out of range for matrix shape")
	}

	m := mat.NewDense(nrows, ncols, a)
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return nil, tcerr.New(tcerr.NumericalFailure, op, "SVD factorization failed to converge")
	}

	var u mat.Dense
	svd.UTo(&u)

	out := mat.NewDense(nrows, rank, nil)
	out.Copy(u.Slice(0, nrows, 0, rank))
	StabilizeSign(out, nrows, rank)
	return out, nil
}

// EigenvectorsDesc returns the top-rank eigenvectors of symmetric matrix a
// (n x n, row-major), ordered by descending eigenvalue, as an n x rank
// *mat.Dense. Used when a Gram matrix is cheaper to eigendecompose than the
// original tall matrix is to SVD.
func EigenvectorsDesc(a []float64, n, rank int) (*mat.Dense, error) {
	const op = "dense.EigenvectorsDesc"
	if rank <= 0 || rank > n {
		return nil, tcerr.New(tcerr.BadInput, op, "rank out of range")
	}

	sym := mat.NewSymDense(n, a)
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, tcerr.New(tcerr.NumericalFailure, op, "symmetric eigendecomposition failed to converge")
	}

	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return values[order[i]] > values[order[j]] })

	out := mat.NewDense(n, rank, nil)
	for col := 0; col < rank; col++ {
		src := order[col]
		for row := 0; row < n; row++ {
			out.Set(row, col, vectors.At(row, src))
		}
	}
	StabilizeSign(out, n, rank)
	return out, nil
}

// StabilizeSign flips each column of m so its largest-magnitude entry is
// positive, the sign convention documented in SPEC_FULL.md §4.5 as the
// resolution for the otherwise implementation-defined sign of a singular
// or eigen vector. Exported so callers initializing factors outside this
// package's own SVD/eigen paths (e.g. HOOI's QR-orthonormalized random
// init) can apply the same convention.
func StabilizeSign(m *mat.Dense, rows, cols int) {
	for c := 0; c < cols; c++ {
		maxAbs := 0.0
		sign := 1.0
		for r := 0; r < rows; r++ {
			v := m.At(r, c)
			if math.Abs(v) > maxAbs {
				maxAbs = math.Abs(v)
				if v < 0 {
					sign = -1.0
				} else {
					sign = 1.0
				}
			}
		}
		if sign < 0 {
			for r := 0; r < rows; r++ {
				m.Set(r, c, -m.At(r, c))
			}
		}
	}
}

// MakeCore forms the Tucker core tensor's mode-`mode` unfolding by
// multiplying a TTMc result (nlongrows x Π_{k<mode} nfactors[k]) by the
// last remaining factor matrix, mirroring svd.h's make_core: the final
// contraction of HOOI's per-mode sweep, done once after every factor
// matrix has been updated.
func MakeCore(ttmc []float64, ttmcRows, ttmcCols int, lastmat []float64, lastRows, lastCols int) (*mat.Dense, error) {
	const op = "dense.MakeCore"
	if ttmcCols != lastRows {
		return nil, tcerr.New(tcerr.BadInput, op, "ttmc column count must match lastmat row count")
	}
	a := mat.NewDense(ttmcRows, ttmcCols, ttmc)
	b := mat.NewDense(lastRows, lastCols, lastmat)
	var core mat.Dense
	core.Mul(a, b)
	return &core, nil
}
