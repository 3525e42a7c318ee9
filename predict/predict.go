// Package predict implements the per-nonzero prediction formula made
// available to the external completion/ALS trainer, per spec §1 ("its
// only core dependency is the per-nonzero predictor formula reused
// here"). The HOOI driver in package tucker does not use it. See original_source/src/completion/completion.c's
// tc_predict_val / p_predict_val3 for the reference this package
// reproduces: a three-mode specialization plus a general N-mode
// buffer-multiply path.
package predict

import "github.com/tensorkit/sparsecore/types"

// Factors holds the per-mode latent-factor matrices a prediction reads
// rows from: Mats[m] is dims[m] x rank, row-major.
type Factors struct {
	Mats []([]types.Value)
	Rank int
}

// Row returns factor matrix m's row for coordinate idx.
func (f Factors) Row(m int, idx types.Index) []types.Value {
	r := f.Rank
	off := int(idx) * r
	return f.Mats[m][off : off+r]
}

// Val3 predicts the value at coordinate (i, j, k) using the three-mode
// specialization (mirrors p_predict_val3): no scratch buffer needed since
// the running product can be folded into the reduction directly.
func Val3(f Factors, i, j, k types.Index) types.Value {
	a := f.Row(0, i)
	b := f.Row(1, j)
	c := f.Row(2, k)

	var est types.Value
	for x := 0; x < f.Rank; x++ {
		est += a[x] * b[x] * c[x]
	}
	return est
}

// Val predicts the value at an N-mode coordinate, using buffer (length
// rank, caller-owned scratch) to accumulate the running elementwise
// product across modes before summing (mirrors tc_predict_val's general
// path). For nmodes == 3 it dispatches to Val3.
func Val(f Factors, coord []types.Index, buffer []types.Value) types.Value {
	if len(coord) == 3 {
		return Val3(f, coord[0], coord[1], coord[2])
	}

	first := f.Row(0, coord[0])
	copy(buffer[:f.Rank], first)

	for m := 1; m < len(coord); m++ {
		row := f.Row(m, coord[m])
		for x := 0; x < f.Rank; x++ {
			buffer[x] *= row[x]
		}
	}

	var est types.Value
	for x := 0; x < f.Rank; x++ {
		est += buffer[x]
	}
	return est
}
