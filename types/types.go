// Package types defines the scalar types shared across the sparse tensor
// core: the index type used for coordinates and pointer arrays, and the
// value type used for nonzero entries.
package types

// Index is the machine index type used for tensor coordinates, dimension
// sizes, and CSF pointer/fid arrays. It must be wide enough to count the
// total number of nonzeros in the largest tensor this module will handle.
type Index = uint64

// MaxModes bounds the number of modes a tensor may have: coo.Alloc and
// coo.Fill reject a mode count above it. The CSF and HOOI code paths use
// slices sized by the actual mode count, not arrays of this width.
const MaxModes = 8

// InvalidIndex marks an absent or not-yet-assigned index (e.g. an unset
// mode-to-tree mapping slot).
const InvalidIndex Index = ^Index(0)
