package csf

import "github.com/tensorkit/sparsecore/tcerr"

// Forest is an ordered sequence of trees plus a mode_to_tree map assigning,
// for each mode, which tree TTMc should use when that mode is the
// contraction target. The forest exclusively owns its trees; moving a tree
// between forests is not supported.
type Forest struct {
	Trees      []*Tree
	ModeToTree []int // ModeToTree[m] indexes into Trees
}

// NewForest validates and wraps trees/modeToTree into a Forest. Every mode
// in 0..nmodes must map to exactly one tree index in range.
func NewForest(nmodes int, trees []*Tree, modeToTree []int) (*Forest, error) {
	const op = "csf.NewForest"
	if len(trees) == 0 {
		return nil, tcerr.New(tcerr.BadInput, op, "forest needs at least one tree")
	}
	if len(modeToTree) != nmodes {
		return nil, tcerr.New(tcerr.BadInput, op, "mode_to_tree length must equal nmodes")
	}
	for _, ti := range modeToTree {
		if ti < 0 || ti >= len(trees) {
			return nil, tcerr.New(tcerr.BadInput, op, "mode_to_tree entry out of range for mode")
		}
	}
	return &Forest{Trees: trees, ModeToTree: modeToTree}, nil
}

// TreeFor returns the tree assigned to serve mode m as a contraction
// target.
func (f *Forest) TreeFor(m int) *Tree {
	return f.Trees[f.ModeToTree[m]]
}
