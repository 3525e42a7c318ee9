package planner

import "github.com/tensorkit/sparsecore/types"

// flopTable estimates the relative cost of computing the TTMc contraction
// for target_mode using a tree rooted at root_mode, without requiring a
// pre-built tree. The per-nonzero cost of any full contraction is
// proportional to nnz times the product of every contracted mode's rank
// (the per-node multiply-accumulate work at each level below the root);
// rooting the tree at the target mode itself avoids reorganizing that
// mode's fiber structure through an indirect (non-native) traversal, so it
// gets a fixed discount relative to every other root choice, whose penalty
// then scales with how much larger the candidate root's dimension is
// relative to the target's (a proxy for how much extra fanout that root
// introduces above the target's own natural level).
func flopTable(dims []types.Index, nnz int, ranks []int) [][]float64 {
	nmodes := len(dims)

	rankProductExcluding := make([]float64, nmodes)
	total := 1.0
	for _, r := range ranks {
		total *= float64(r)
	}
	for m := 0; m < nmodes; m++ {
		if ranks[m] == 0 {
			rankProductExcluding[m] = total
			continue
		}
		rankProductExcluding[m] = total / float64(ranks[m])
	}

	table := make([][]float64, nmodes)
	for target := 0; target < nmodes; target++ {
		row := make([]float64, nmodes)
		base := float64(nnz) * rankProductExcluding[target]
		for root := 0; root < nmodes; root++ {
			if root == target {
				row[root] = base
				continue
			}
			penalty := 1.0 + float64(dims[root])/float64(dims[target])
			row[root] = base * penalty
		}
		table[target] = row
	}
	return table
}

// planGreedy implements spec §4.3's Greedy policy: repeatedly assign the
// (target, root) pair with the greatest outstanding cost to a tree (newly
// materializing the root's tree if the budget allows), until every mode is
// assigned or max_csf trees have been allocated; any modes left over once
// the tree budget is exhausted fall back to the cheapest already-allocated
// tree.
func planGreedy(dims []types.Index, nnz int, ranks []int, maxCSF int) ([][]int, []int, error) {
	nmodes := len(dims)
	table := flopTable(dims, nnz, ranks)

	assigned := make([]bool, nmodes)
	modeToTree := make([]int, nmodes)
	for m := range modeToTree {
		modeToTree[m] = -1
	}

	var treeRoots []int
	treeIndex := make(map[int]int)

	nAssigned := 0
	for nAssigned < nmodes && len(treeRoots) < maxCSF {
		bestTarget, bestRoot := -1, -1
		bestCost := -1.0
		for target := 0; target < nmodes; target++ {
			if assigned[target] {
				continue
			}
			for root := 0; root < nmodes; root++ {
				cost := table[target][root]
				if cost > bestCost {
					bestCost, bestTarget, bestRoot = cost, target, root
				}
			}
		}

		ti, ok := treeIndex[bestRoot]
		if !ok {
			ti = len(treeRoots)
			treeRoots = append(treeRoots, bestRoot)
			treeIndex[bestRoot] = ti
		}
		modeToTree[bestTarget] = ti
		assigned[bestTarget] = true
		nAssigned++
	}

	for target := 0; target < nmodes; target++ {
		if assigned[target] {
			continue
		}
		bestTi, bestCost := -1, -1.0
		for root, ti := range treeIndex {
			cost := table[target][root]
			if bestTi == -1 || cost < bestCost || (cost == bestCost && ti < bestTi) {
				bestTi, bestCost = ti, cost
			}
		}
		modeToTree[target] = bestTi
		assigned[target] = true
	}

	perms := make([][]int, len(treeRoots))
	for i, root := range treeRoots {
		perms[i] = PermFor(root, dims)
	}
	return perms, modeToTree, nil
}
