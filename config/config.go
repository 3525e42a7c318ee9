// Package config defines the named configuration record consumed by the
// allocation planner and the HOOI driver, replacing the reference
// implementation's opaque options vector and process-global policy
// variables (tucker_alloc_policy, ttmc_max_csf) with explicit fields.
package config

import (
	"time"

	"github.com/tensorkit/sparsecore/tcerr"
)

// AllocPolicy selects how the allocation planner chooses which CSF
// permutations to materialize.
type AllocPolicy int

const (
	// AllocSimple allocates up to two trees: the longest-dimension mode
	// at tree 0's root, the next-longest at tree 1's root.
	AllocSimple AllocPolicy = iota
	// AllocGreedy fills a FLOP-estimate table and greedily assigns modes
	// to trees in decreasing cost order.
	AllocGreedy
	// AllocIter round-robins across a precomputed candidate permutation
	// list, for reproducibility benchmarking.
	AllocIter
)

func (p AllocPolicy) String() string {
	switch p {
	case AllocSimple:
		return "simple"
	case AllocGreedy:
		return "greedy"
	case AllocIter:
		return "iter"
	default:
		return "unknown"
	}
}

// ParseAllocPolicy parses the §6 string vocabulary {simple, greedy, iter}.
func ParseAllocPolicy(s string) (AllocPolicy, error) {
	switch s {
	case "simple":
		return AllocSimple, nil
	case "greedy":
		return AllocGreedy, nil
	case "iter":
		return AllocIter, nil
	default:
		return 0, tcerr.New(tcerr.BadInput, "config.ParseAllocPolicy", "unrecognized alloc policy: "+s)
	}
}

// Verbosity controls progress logging only; it never changes numerical
// behavior.
type Verbosity int

const (
	VerbosityNone Verbosity = iota
	VerbosityLow
	VerbosityHigh
)

// Options is the full configuration record threaded into the allocation
// planner and the HOOI driver. It is the Go-native replacement for the
// reference implementation's `double *opts` vector indexed by integer
// constants (SPLATT_OPTION_*) plus its two process-global policy
// variables.
type Options struct {
	// Iters caps the number of outer HOOI iterations. Default 50.
	Iters int
	// Tol is the relative convergence tolerance on the core-norm delta.
	// Default 1e-5.
	Tol float64
	// Rank gives the per-mode target rank. WithUniformRank fills it
	// uniformly from a single positive value.
	Rank []int
	// Threads is the worker pool size. Zero means "default to the
	// number of cores" and is resolved by ResolveThreads.
	Threads int
	// Seed is the PRNG seed used for factor initialization. Zero means
	// "derive from wall-clock" and is resolved by ResolveSeed.
	Seed uint64
	// MaxCSF bounds the number of CSF trees the planner may materialize.
	// Default 2.
	MaxCSF int
	// AllocPolicy selects the planner's tree-assignment policy. Default
	// AllocSimple.
	AllocPolicy AllocPolicy
	// Tile enables dense tiling of the CSF trees the planner allocates.
	Tile bool
	// Verbosity controls progress logging only.
	Verbosity Verbosity
	// Write indicates whether a caller's driver should persist results;
	// this package and the rest of the core never touch a filesystem
	// path themselves (file I/O is an external collaborator per §1).
	Write bool
}

// Default returns an Options populated with the §6 defaults.
func Default() Options {
	return Options{
		Iters:       50,
		Tol:         1e-5,
		Rank:        nil,
		Threads:     0,
		Seed:        0,
		MaxCSF:      2,
		AllocPolicy: AllocSimple,
		Tile:        false,
		Verbosity:   VerbosityNone,
		Write:       true,
	}
}

// WithUniformRank returns a copy of o with Rank set to a uniform vector of
// length nmodes, each entry equal to rank. Per §6, "rank (positive integer,
// default 10): uniform rank across modes; a vector form must also be
// accepted" — this helper produces that vector form from the scalar one.
func (o Options) WithUniformRank(nmodes, rank int) Options {
	r := make([]int, nmodes)
	for i := range r {
		r[i] = rank
	}
	o.Rank = r
	return o
}

// ResolveThreads returns o.Threads, or the number of logical CPUs if unset.
func (o Options) ResolveThreads(numCPU int) int {
	if o.Threads > 0 {
		return o.Threads
	}
	if numCPU < 1 {
		return 1
	}
	return numCPU
}

// ResolveSeed returns o.Seed, or a wall-clock-derived seed if unset.
func (o Options) ResolveSeed() uint64 {
	if o.Seed != 0 {
		return o.Seed
	}
	return uint64(time.Now().UnixNano())
}

// Validate checks the invariants spec §7 assigns to BadInput/NotImplemented
// and returns a *tcerr.Error describing the first violation found.
func (o Options) Validate(nmodes int) error {
	const op = "config.Validate"

	if o.Iters <= 0 {
		return tcerr.New(tcerr.BadInput, op, "iters must be positive")
	}
	if o.Tol <= 0 {
		return tcerr.New(tcerr.BadInput, op, "tol must be positive")
	}
	if o.MaxCSF <= 0 {
		return tcerr.New(tcerr.BadInput, op, "max_csf must be positive")
	}
	if o.Threads < 0 {
		return tcerr.New(tcerr.BadInput, op, "threads must be non-negative")
	}
	if len(o.Rank) != 0 && len(o.Rank) != nmodes {
		return tcerr.New(tcerr.BadInput, op, "rank vector length must match tensor mode count")
	}
	for _, r := range o.Rank {
		if r <= 0 {
			return tcerr.New(tcerr.BadInput, op, "every rank entry must be positive")
		}
	}
	if o.Tile && o.AllocPolicy == AllocIter {
		return tcerr.New(tcerr.NotImplemented, op, "tiling is not supported with the iter allocation policy")
	}

	return nil
}
