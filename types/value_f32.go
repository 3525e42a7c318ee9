//go:build tensorf32

package types

// Value is the scalar type used for tensor nonzero entries and CSF/TTMc
// buffers. This build uses single precision (tag: tensorf32).
type Value = float32
