// Package fectel is a satellite-telemetry forward-error-correction
// pipeline: a bit-exact CCSDS-style frame format, a channel impairment
// simulator, and a layered detection/correction stack (Viterbi, Reed-
// Solomon, BCH, Hamming, and LDPC codecs) wired together by an
// orchestration pipeline.
//
// The package exposes only blocking calls; codecs never panic across the
// package boundary, they return a tagged *Error instead (see ErrorKind).
package fectel

import "github.com/satcomm/fectel/internal/codec"

// ErrorKind is the exhaustive set of ways a core operation can fail,
// re-exported from internal/codec so callers outside the module never
// need to import an internal package to switch on it.
type ErrorKind = codec.ErrorKind

const (
	OutOfRange    = codec.OutOfRange
	Truncated     = codec.Truncated
	Uncorrectable = codec.Uncorrectable
	Cancelled     = codec.Cancelled
	Malformed     = codec.Malformed
	SyncLost      = codec.SyncLost
)

// Error is the single error type returned across the package boundary.
type Error = codec.Error

// KindOf returns the ErrorKind carried by err, and false if err is nil or
// not an *Error produced by this package.
func KindOf(err error) (ErrorKind, bool) {
	return codec.KindOf(err)
}
