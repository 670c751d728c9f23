package codec

import (
	"context"
	"sync/atomic"
)

// Codec is the byte-in/byte-out interface for correction algorithms with
// nothing to cancel mid-flight. No type in this module implements it: the
// Hamming and BCH packages expose package-level EncodeBytes/DecodeBytes
// functions instead, and the Orchestrator selects a codec with a switch on
// the link Encoding rather than through this interface.
type Codec interface {
	Encode(in []byte) ([]byte, error)
	Decode(in []byte) ([]byte, error)
}

// CancellableCodec is the interface for algorithms with an iterative
// decode loop that observes cancellation mid-flight. viterbi.Codec
// implements it. reedsolomon.Codec and ldpc.Codec also observe
// cancellation but do not implement it: their Decode methods take an
// erasure list and a vector of soft LLRs respectively, and ldpc.Codec has
// no Encode.
type CancellableCodec interface {
	Encode(in []byte) ([]byte, error)
	Decode(ctx context.Context, in []byte) ([]byte, error)
}

// Counters is the monotonic, per-codec performance counter set embedded in
// the Viterbi, Reed-Solomon and LDPC codecs (the Hamming and BCH packages
// keep no counters). Counters never affect correctness; they are
// safe to update concurrently across goroutines decoding different frames
// through the same shared codec instance.
type Counters struct {
	encoded   atomic.Uint64
	decoded   atomic.Uint64
	corrected atomic.Uint64
	failed    atomic.Uint64
	cancelled atomic.Uint64
}

func (c *Counters) RecordEncode()    { c.encoded.Add(1) }
func (c *Counters) RecordDecodeOK()  { c.decoded.Add(1) }
func (c *Counters) RecordCorrected() { c.corrected.Add(1) }
func (c *Counters) RecordFailed()    { c.failed.Add(1) }
func (c *Counters) RecordCancelled() { c.cancelled.Add(1) }

// Snapshot is a point-in-time read of Counters.
type Snapshot struct {
	Encoded, Decoded, Corrected, Failed, Cancelled uint64
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Encoded:   c.encoded.Load(),
		Decoded:   c.decoded.Load(),
		Corrected: c.corrected.Load(),
		Failed:    c.failed.Load(),
		Cancelled: c.cancelled.Load(),
	}
}
