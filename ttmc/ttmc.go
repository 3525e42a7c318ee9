// Package ttmc implements the Tensor-Times-Matrix-chain kernel (spec §4.4):
// a depth-first fusion over a csf.Tree that contracts every mode but one
// (the target) against its current factor matrix, without ever
// materializing an intermediate dense tensor. See spec §4.4 for the
// algorithm-level description (top-down when the target is the tree's
// root, bottom-up otherwise) this package reproduces; grounded on the
// teacher's fork-join-over-a-fixed-unit-of-work shape (mps/matmul.go
// delegates a whole matmul to one engine call per invocation; here the
// unit is a root-level node or tile) and parallel.For/ForReduce for the
// actual fork-join mechanics.
package ttmc

import (
	"github.com/tensorkit/sparsecore/csf"
	"github.com/tensorkit/sparsecore/parallel"
	"github.com/tensorkit/sparsecore/tcerr"
	"gonum.org/v1/gonum/mat"
)

// Result holds a TTMc contraction's output: Y is dims[target] x RankProd,
// row-major. The RankProd axis is ordered: non-target modes strictly
// above the target's tree level first (root-to-target, root slowest),
// then non-target modes strictly below the target's tree level
// (target-to-leaf order, the level nearest the target slowest and the
// leaf fastest). This is an implementation-defined convention (spec §9
// leaves the exact inner-to-outer layout open); HOOI's reshape/unfold
// logic is written against this same convention.
type Result struct {
	Target   int
	Y        []float64
	RankProd int
}

// TTMc contracts tree against factors for every mode except target, using
// ranks[k] as factors[k]'s column count. tile enables tile-parallel
// scatter-free execution when target is the tree's root mode (the only
// case in which csf tiles own disjoint target-mode row ranges); it is
// silently ignored otherwise, falling back to the private-buffer +
// reduction strategy spec §4.4 describes for the general case.
func TTMc(tree *csf.Tree, target int, ranks []int, factors []*mat.Dense, nthreads int, tile bool, tileBudget int) (*Result, error) {
	const op = "ttmc.TTMc"
	if target < 0 || target >= tree.NModes {
		return nil, tcerr.New(tcerr.BadInput, op, "target mode out of range")
	}
	if len(ranks) != tree.NModes || len(factors) != tree.NModes {
		return nil, tcerr.New(tcerr.BadInput, op, "ranks/factors must have one entry per mode")
	}

	targetLevel := tree.LevelOfMode(target)
	rankProd := 1
	for k, r := range ranks {
		if k != target {
			rankProd *= r
		}
	}
	dimsTarget := int(tree.Dims[target])

	k := &kernel{tree: tree, target: target, targetLevel: targetLevel, ranks: ranks, factors: factors}

	var y []float64
	if tile && targetLevel == 0 {
		y = k.runTiled(dimsTarget, rankProd, nthreads, tileBudget)
	} else {
		y = k.runReduced(dimsTarget, rankProd, nthreads)
	}

	return &Result{Target: target, Y: y, RankProd: rankProd}, nil
}

type kernel struct {
	tree        *csf.Tree
	target      int
	targetLevel int
	ranks       []int
	factors     []*mat.Dense
}

func (k *kernel) runTiled(dimsTarget, rankProd, nthreads, tileBudget int) []float64 {
	y := make([]float64, dimsTarget*rankProd)
	tiles := csf.BuildTiles(k.tree, tileBudget)
	_ = parallel.For(len(tiles), nthreads, func(lo, hi int) error {
		for ti := lo; ti < hi; ti++ {
			t := tiles[ti]
			k.visit(0, t.RootLo, t.RootHi, []float64{1}, y, rankProd)
		}
		return nil
	})
	return y
}

func (k *kernel) runReduced(dimsTarget, rankProd, nthreads int) []float64 {
	nroots := k.tree.NumNodes(0)
	return parallel.ForReduce(nroots, nthreads,
		func(lo, hi int) []float64 {
			local := make([]float64, dimsTarget*rankProd)
			k.visit(0, lo, hi, []float64{1}, local, rankProd)
			return local
		},
		func(a, b []float64) []float64 {
			for i := range a {
				a[i] += b[i]
			}
			return a
		},
	)
}

// visit descends from level through [lo, hi) carrying top, the outer
// product of every non-target ancestor factor row seen so far. Once level
// reaches the target's level, it switches to the bottom-up pass (via
// bottomFor) and scatter-adds the combined block into y.
func (k *kernel) visit(level, lo, hi int, top []float64, y []float64, rankProd int) {
	if level == k.targetLevel {
		for node := lo; node < hi; node++ {
			bottom := k.bottomFor(node, level)
			row := int(k.tree.Fid(level, node))
			block := outerProduct(top, bottom)
			off := row * rankProd
			for i, v := range block {
				y[off+i] += v
			}
		}
		return
	}

	mode := k.tree.ModeAtLevel(level)
	factorRow := func(node int) []float64 {
		return k.factors[mode].RawRowView(int(k.tree.Fid(level, node)))
	}
	for node := lo; node < hi; node++ {
		newTop := outerProduct(top, factorRow(node))
		clo, chi := k.tree.Children(level, node)
		k.visit(level+1, clo, chi, newTop, y, rankProd)
	}
}

// bottomFor computes node's (at level) fused descendant block: the sum
// over children of their own bottom blocks, outer-producted with this
// level's own factor row (skipped when level == targetLevel, since the
// target mode itself is never fused into the contraction). The row goes
// on the slow side of the outer product so that, walking down from the
// target, each successively deeper level lands on a faster axis and the
// leaf ends up fastest. See Result's doc comment.
func (k *kernel) bottomFor(node, level int) []float64 {
	if level == k.tree.NModes-1 {
		val := []float64{float64(k.tree.LeafVal(node))}
		if level == k.targetLevel {
			return val
		}
		mode := k.tree.ModeAtLevel(level)
		row := k.factors[mode].RawRowView(int(k.tree.Fid(level, node)))
		return outerProduct(row, val)
	}

	clo, chi := k.tree.Children(level, node)
	var sum []float64
	for c := clo; c < chi; c++ {
		b := k.bottomFor(c, level+1)
		if sum == nil {
			sum = make([]float64, len(b))
		}
		for i, v := range b {
			sum[i] += v
		}
	}
	if sum == nil {
		sum = []float64{0}
	}

	if level == k.targetLevel {
		return sum
	}

	mode := k.tree.ModeAtLevel(level)
	row := k.factors[mode].RawRowView(int(k.tree.Fid(level, node)))
	return outerProduct(row, sum)
}

// outerProduct flattens a (x) b row-major: out[i*len(b)+j] = a[i]*b[j]. A
// length-1 operand (a rank-1 mode) degenerates this to a scalar multiply
// with no special-casing needed, satisfying spec §4.4's edge case.
func outerProduct(a, b []float64) []float64 {
	out := make([]float64, len(a)*len(b))
	for i, av := range a {
		base := i * len(b)
		for j, bv := range b {
			out[base+j] = av * bv
		}
	}
	return out
}
