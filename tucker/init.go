package tucker

import (
	"math/rand"

	"github.com/tensorkit/sparsecore/dense"
	"gonum.org/v1/gonum/mat"
)

// randomOrthonormalFactor fills an nrows x rank matrix with pseudo-random
// values from seed and orthonormalizes its columns via QR (spec §4.5's
// first initialization alternative: "fill with pseudo-random values and
// orthonormalize by QR"), then applies the same sign-stabilization
// convention used for every later SVD update so the initial factors are
// consistent with the rest of the iteration.
func randomOrthonormalFactor(nrows, rank int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewSource(int64(seed)))
	data := make([]float64, nrows*rank)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	raw := mat.NewDense(nrows, rank, data)

	var qr mat.QR
	qr.Factorize(raw)
	var q mat.Dense
	qr.QTo(&q)

	out := mat.NewDense(nrows, rank, nil)
	out.Copy(q.Slice(0, nrows, 0, rank))
	dense.StabilizeSign(out, nrows, rank)
	return out
}
