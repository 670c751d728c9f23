package fectel

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	cache "github.com/patrickmn/go-cache"

	"github.com/satcomm/fectel/internal/analyzer"
	"github.com/satcomm/fectel/internal/bch"
	"github.com/satcomm/fectel/internal/channel"
	"github.com/satcomm/fectel/internal/codec"
	"github.com/satcomm/fectel/internal/config"
	"github.com/satcomm/fectel/internal/hamming"
	"github.com/satcomm/fectel/internal/ldpc"
	"github.com/satcomm/fectel/internal/reedsolomon"
	"github.com/satcomm/fectel/internal/strategy"
	"github.com/satcomm/fectel/internal/viterbi"
)

// resyncHintTTL is how long a stream's last validated sync offset stays in
// the hint cache. The hint is recorded and logged only: Validate runs its
// full sync search on every frame whether or not a hint exists.
const resyncHintTTL = 30 * time.Second

// Encoding identifies the FEC applied to a sealed frame before it
// crosses the channel. The receive side always inverts the link's
// configured encoding: only the code that was actually applied can be
// inverted, so the strategy classifier gates and annotates the decode
// attempt rather than choosing the decoder (see Orchestrator.correct).
// EncodingNone transmits the bare frame; the validator's sync and CRC
// layers are then the only recovery available.
type Encoding int

const (
	EncodingNone Encoding = iota
	EncodingHamming
	EncodingBCH
	EncodingViterbi
	EncodingRS
)

func (e Encoding) String() string {
	switch e {
	case EncodingNone:
		return "NONE"
	case EncodingHamming:
		return "HAMMING"
	case EncodingBCH:
		return "BCH"
	case EncodingViterbi:
		return "VITERBI"
	case EncodingRS:
		return "RS"
	default:
		return "UNKNOWN"
	}
}

// Orchestrator wires the frame builder, link FEC encoders, channel
// injector, validator, analyzer, classifier and decoders into the
// encode-inject-validate-analyze-classify-decode cycle. One Orchestrator
// is constructed per process and reused; its codecs build their tables
// once and are safe to share across goroutines.
type Orchestrator struct {
	log *log.Logger

	builder  *FrameBuilder
	injector *channel.Injector

	rs  *reedsolomon.Codec
	ld  *ldpc.Codec
	vit *viterbi.Codec

	resyncHints *cache.Cache
}

// NewOrchestrator constructs an Orchestrator from cfg, seeding its channel
// injector from seed. logger may be nil, in which case a default
// charmbracelet/log logger writing to stderr at Info level is used.
func NewOrchestrator(cfg config.Pipeline, seed int64, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	// A caller-built, partially- or zero-valued Pipeline is valid per
	// config.go's contract ("a zero-value Pipeline is valid"); backfill it
	// the same way Load does before it reaches codec constructors that
	// reject zero/invalid parameters.
	cfg.FillZeros()
	return &Orchestrator{
		log:         logger,
		builder:     NewFrameBuilder(),
		injector:    channel.New(cfg.Channel, seed),
		rs:          reedsolomon.New(cfg.ReedSolomon.N, cfg.ReedSolomon.K),
		ld:          ldpc.NewWithConfig(cfg.LDPC.N, cfg.LDPC.K, cfg.LDPC.MaxIterations, cfg.LDPC.ConvergenceEps),
		vit:         viterbi.New(),
		resyncHints: cache.New(resyncHintTTL, 2*resyncHintTTL),
	}
}

// CycleResult is the outcome of a single RunOnce pass.
type CycleResult struct {
	Encoding   Encoding
	Frame      *Frame
	Corrupted  []byte // the received (impaired) wire bytes
	Validation ValidationResult
	Analysis   analyzer.Analysis
	Strategy   strategy.Strategy
	Recovered  []byte // frame-sized decode output, nil if decoding failed
	Record     TelemetryRecord
	Err        error
}

// Stats is a point-in-time snapshot of the monotonic counters of every
// codec that keeps them (Reed-Solomon, LDPC, Viterbi).
type Stats struct {
	ReedSolomon codec.Snapshot
	LDPC        codec.Snapshot
	Viterbi     codec.Snapshot
}

// Stats returns the current per-codec counters.
func (o *Orchestrator) Stats() Stats {
	return Stats{
		ReedSolomon: o.rs.Snapshot(),
		LDPC:        o.ld.Snapshot(),
		Viterbi:     o.vit.Snapshot(),
	}
}

// RunOnce executes one encode->inject->validate->analyze->classify->decode
// cycle for rec: the sealed frame is FEC-encoded per enc, impaired with
// kinds scaled by scale, decoded back, and validated. streamID keys the
// resync-offset hint cache; pass "" to skip hinting.
func (o *Orchestrator) RunOnce(ctx context.Context, rec TelemetryRecord, enc Encoding, kinds []channel.Kind, scale float64, streamID string) CycleResult {
	var res CycleResult
	res.Encoding = enc

	frame, err := o.builder.BuildNext(rec)
	if err != nil {
		res.Err = err
		o.log.Error("frame build failed", "err", err)
		return res
	}
	res.Frame = frame

	transmitted, err := o.fecEncode(enc, frame.Bytes())
	if err != nil {
		res.Err = err
		o.log.Error("link encode failed", "encoding", enc, "err", err)
		return res
	}

	corrupted := o.injector.Apply(transmitted, kinds, scale)
	res.Corrupted = corrupted

	if enc == EncodingNone {
		return o.receiveUnencoded(frame, corrupted, streamID, res)
	}

	// Encoded link: characterize the channel damage first, let the
	// classifier veto hopeless frames, then invert the link encoding and
	// run the result through the frame validator.
	res.Analysis = analyzer.Analyze(transmitted, corrupted)
	res.Strategy = strategy.Classify(res.Analysis)
	o.log.Debug("classified channel damage", "primary", res.Analysis.Primary, "strategy", res.Strategy.Primary, "confidence", res.Strategy.Confidence)

	recovered, err := o.correct(ctx, res.Strategy, enc, corrupted)
	if err != nil {
		o.log.Warn("correction failed", "encoding", enc, "strategy", res.Strategy.Primary, "err", err)
		res.Err = err
		return res
	}
	res.Recovered = recovered

	validation := Validate(recovered)
	res.Validation = validation
	if validation.Status != StatusValid && validation.Status != StatusRecovered {
		o.log.Warn("decoded frame still fails validation", "encoding", enc, "status", validation.Status)
		res.Err = codec.NewUncorrectable("Orchestrator.RunOnce", "decoded frame still fails validation")
		return res
	}
	rec2, _ := ParseFrame(frameFromBytes(validation.Corrected))
	res.Record = rec2
	return res
}

// receiveUnencoded handles the EncodingNone receive side: with no
// redundancy on the wire, the validator's sync/resync and CRC layers are
// the only recovery, and a frame they cannot rescue can only be analyzed,
// classified for the operator, and reported for retransmission.
func (o *Orchestrator) receiveUnencoded(frame *Frame, corrupted []byte, streamID string, res CycleResult) CycleResult {
	if hint, ok := o.resyncHints.Get(streamID); ok && streamID != "" {
		o.log.Debug("resync hint available", "stream", streamID, "offset", hint)
	}

	validation := Validate(corrupted)
	res.Validation = validation

	if streamID != "" && (validation.Status == StatusRecovered || validation.Status == StatusValid) {
		o.resyncHints.Set(streamID, validation.SyncOffset, cache.DefaultExpiration)
	}

	switch validation.Status {
	case StatusValid, StatusRecovered:
		o.log.Debug("frame validated", "status", validation.Status, "confidence", validation.Confidence)
		rec2, _ := ParseFrame(frameFromBytes(validation.Corrected))
		res.Record = rec2
		res.Recovered = validation.Corrected
		return res
	case StatusSyncLost, StatusMalformed:
		o.log.Warn("frame unrecoverable at validator layer", "status", validation.Status)
		res.Err = codec.NewSyncLost("Orchestrator.RunOnce", "validator could not locate a usable frame")
		return res
	}

	res.Analysis = analyzer.Analyze(frame.Bytes(), corrupted)
	res.Strategy = strategy.Classify(res.Analysis)
	o.log.Warn("frame damaged on an unencoded link", "primary", res.Analysis.Primary, "suggested", res.Strategy.Primary)
	res.Err = codec.NewUncorrectable("Orchestrator.RunOnce", "no FEC on the wire, retransmission is the only recovery")
	return res
}

// correct consults the classifier's verdict, then inverts the link
// encoding. The classifier cannot choose the decoder, because only the
// code that was actually applied before the channel can be inverted; its
// recommendation gates the attempt (hopeless frames go straight to
// retransmission) and is otherwise advisory, logged when it disagrees
// with what the link carries.
func (o *Orchestrator) correct(ctx context.Context, strat strategy.Strategy, enc Encoding, received []byte) ([]byte, error) {
	if strat.Primary == strategy.AlgoRequestRetransmit {
		return nil, codec.NewUncorrectable("Orchestrator.correct", "channel damage beyond codec capacity, retransmit requested")
	}
	if want := encodingFor(strat.Primary); want != EncodingNone && want != enc {
		o.log.Debug("classifier prefers a different code than the link carries", "preferred", strat.Primary, "link", enc)
	}
	return o.fecDecode(ctx, enc, received)
}

// encodingFor maps a classifier algorithm to the link encoding that
// carries it, EncodingNone when none corresponds.
func encodingFor(a strategy.Algorithm) Encoding {
	switch a {
	case strategy.AlgoHamming:
		return EncodingHamming
	case strategy.AlgoBCH, strategy.AlgoSafeDefault:
		return EncodingBCH
	case strategy.AlgoViterbi:
		return EncodingViterbi
	case strategy.AlgoRS:
		return EncodingRS
	default:
		return EncodingNone
	}
}

// fecEncode applies the link encoding to a sealed frame's bytes.
func (o *Orchestrator) fecEncode(enc Encoding, frame []byte) ([]byte, error) {
	switch enc {
	case EncodingNone:
		out := make([]byte, len(frame))
		copy(out, frame)
		return out, nil
	case EncodingHamming:
		return hamming.EncodeBytes(frame), nil
	case EncodingBCH:
		return bch.EncodeBytes(frame), nil
	case EncodingViterbi:
		return o.vit.Encode(frame)
	case EncodingRS:
		return o.rsEncodeShortened(frame)
	default:
		return nil, codec.NewOutOfRange("Orchestrator.fecEncode", "unknown encoding")
	}
}

// fecDecode inverts fecEncode, always yielding a frame-sized buffer on
// success.
func (o *Orchestrator) fecDecode(ctx context.Context, enc Encoding, received []byte) ([]byte, error) {
	switch enc {
	case EncodingHamming:
		return hamming.DecodeBytes(received)
	case EncodingBCH:
		return bch.DecodeBytes(received, FrameSize)
	case EncodingViterbi:
		return o.vit.Decode(ctx, received)
	case EncodingRS:
		return o.rsDecodeShortened(ctx, received, FrameSize)
	default:
		return nil, codec.NewOutOfRange("Orchestrator.fecDecode", "no decoder for this encoding")
	}
}

// rsEncodeShortened encodes data as a shortened RS codeword: the K-byte
// message is left-padded with zero symbols that are never transmitted, so
// the wire carries len(data) data bytes followed by N-K parity bytes.
func (o *Orchestrator) rsEncodeShortened(data []byte) ([]byte, error) {
	k := o.rs.K()
	if len(data) > k {
		return nil, codec.NewOutOfRange("Orchestrator.rsEncodeShortened", "data longer than K")
	}
	pad := k - len(data)
	msg := make([]byte, k)
	copy(msg[pad:], data)
	cw, err := o.rs.Encode(msg)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data)+o.rs.N()-k)
	copy(out, cw[pad:])
	return out, nil
}

// rsDecodeShortened re-inserts the untransmitted zero pad, decodes the
// full codeword, and strips the pad back off.
func (o *Orchestrator) rsDecodeShortened(ctx context.Context, received []byte, dataLen int) ([]byte, error) {
	k, n := o.rs.K(), o.rs.N()
	pad := k - dataLen
	if pad < 0 || len(received) != dataLen+n-k {
		return nil, codec.NewTruncated("Orchestrator.rsDecodeShortened", "received length does not match shortened codeword")
	}
	cw := make([]byte, n)
	copy(cw[pad:], received)
	msg, err := o.rs.Decode(ctx, cw, nil)
	if err != nil {
		return nil, err
	}
	return msg[pad:], nil
}

// DecodeLDPC runs the soft-decision LDPC decoder over channel LLRs
// (length N, positive favoring bit 0) and returns the K information
// bits. The quasi-cyclic parity-check construction is decode-only -- its
// cyclic two-diagonal parity columns do not form a full-rank system, so
// no matching encoder exists -- which is why soft-input callers reach the
// decoder here rather than through a link Encoding.
func (o *Orchestrator) DecodeLDPC(ctx context.Context, llrs []float64) ([]byte, error) {
	return o.ld.Decode(ctx, llrs)
}

func frameFromBytes(buf []byte) *Frame {
	var f Frame
	copy(f[:], buf)
	return &f
}

// StreamCycle pairs a telemetry record with the link encoding and the
// impairment kinds and scale RunStream should inject for it.
type StreamCycle struct {
	Record   TelemetryRecord
	Encoding Encoding
	Kinds    []channel.Kind
	Scale    float64
	StreamID string
}

// RunStream drains cycles, running RunOnce for each and delivering results
// on the returned channel, closing it once cycles is exhausted or ctx is
// cancelled.
func (o *Orchestrator) RunStream(ctx context.Context, cycles <-chan StreamCycle) <-chan CycleResult {
	out := make(chan CycleResult)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case c, ok := <-cycles:
				if !ok {
					return
				}
				out <- o.RunOnce(ctx, c.Record, c.Encoding, c.Kinds, c.Scale, c.StreamID)
			}
		}
	}()
	return out
}
