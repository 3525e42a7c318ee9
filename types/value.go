//go:build !tensorf32

package types

// Value is the scalar type used for tensor nonzero entries and CSF/TTMc
// buffers. This build uses double precision. Build with the tensorf32 tag
// to switch the whole module to single precision instead:
//
//	go build -tags tensorf32 ./...
//
// This replaces the teacher's (and the original C library's) preprocessor
// SPLATT_VAL_T toggle with a compile-time type alias selected per file, the
// same mechanism the teacher uses to pick its darwin/non-darwin MatMul.
type Value = float64
