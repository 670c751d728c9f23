// Package ccsds implements the bit-exact CCSDS-style telemetry frame
// format: the 128-byte frame layout and builder, and the layered frame
// validator.
package ccsds

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"
)

// Frame layout constants.
const (
	FrameSize = 128

	offSync    = 0
	offSatID   = 4
	offTime    = 6
	offPayLen  = 10
	offSeq     = 12
	offRsvd1   = 14
	offPayload = 16

	PayloadSize = 76

	offReservedPad    = offPayload + PayloadSize // 92
	reservedPadLength = FrameSize - 4 - offReservedPad
	offCRC            = FrameSize - 4 // 124

	// SyncWord is the fixed CCSDS sync marker at offset 0.
	SyncWord uint32 = 0x1ACFFC1D
)

// Payload field offsets within the 76-byte payload.
const (
	pOffLat       = 0
	pOffLon       = 8
	pOffAlt       = 16
	pOffVel       = 20
	pOffFootprint = 24
	pOffDayNum    = 28
	pOffSolarLat  = 32
	pOffSolarLon  = 36
	pOffTimestamp = 40
	pOffVis       = 44
	pOffReserved  = 45
	pReservedLen  = PayloadSize - pOffReserved // 31
)

// Visibility mirrors the wire-level visibility code so ccsds stays
// independent of the root package's richer Visibility type.
type Visibility uint8

const (
	VisUnknown   Visibility = 0x00
	VisDaylight  Visibility = 0x01
	VisEclipsed  Visibility = 0x02
	VisDeepNight Visibility = 0x03
)

// Record is the subset of TelemetryRecord the frame format consumes. It is
// a structural mirror of the root package's TelemetryRecord so that
// internal/ccsds has no import-cycle dependency on the root package.
type Record struct {
	SatelliteID uint16
	Timestamp   int64

	Latitude  float64
	Longitude float64

	Altitude  float64
	Velocity  float64
	Footprint float64
	DayNum    float64
	SolarLat  float64
	SolarLon  float64

	Visibility Visibility
}

// Frame is the immutable 128-byte CCSDS frame, sealed once its CRC has
// been written.
type Frame [FrameSize]byte

// Bytes returns the frame's backing bytes.
func (f *Frame) Bytes() []byte { return f[:] }

// String renders a short hex/field dump for logging and interactive use.
func (f *Frame) String() string {
	return fmt.Sprintf("sync=%08X satID=%d seq=%d payloadLen=%d crc=%08X",
		binary.BigEndian.Uint32(f[offSync:]),
		binary.BigEndian.Uint16(f[offSatID:]),
		binary.BigEndian.Uint16(f[offSeq:]),
		binary.BigEndian.Uint16(f[offPayLen:]),
		binary.BigEndian.Uint32(f[offCRC:]))
}

// Dump returns a multi-line hex dump of the frame, 16 bytes per line.
func (f *Frame) Dump() string {
	s := ""
	for i := 0; i < FrameSize; i += 16 {
		end := i + 16
		if end > FrameSize {
			end = FrameSize
		}
		s += fmt.Sprintf("%04X  % X\n", i, f[i:end])
	}
	return s
}

// Builder constructs frames from telemetry records. One Builder is
// constructed once per process/stream and reused; it never allocates
// beyond the returned Frame itself.
type Builder struct {
	seq uint32 // atomic monotonic sequence counter for BuildNext
}

// NewBuilder returns a Builder with its sequence counter at zero.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build fills a frame from record using the given explicit sequence
// counter. Every Record field already fits its wire slot (SatelliteID is a
// uint16, the timestamp is truncated to 32 bits of seconds, PayloadSize is
// fixed by this package), so the returned error is always nil. A divergent
// payload-length field can only be seen on the decode side (see the
// validator's structure layer).
func (b *Builder) Build(rec Record, seq uint16) (*Frame, error) {
	var f Frame

	binary.BigEndian.PutUint32(f[offSync:], SyncWord)
	binary.BigEndian.PutUint16(f[offSatID:], rec.SatelliteID)
	binary.BigEndian.PutUint32(f[offTime:], truncToU32Seconds(rec.Timestamp))
	binary.BigEndian.PutUint16(f[offPayLen:], PayloadSize)
	binary.BigEndian.PutUint16(f[offSeq:], seq)
	// offRsvd1 and the padding region [offReservedPad, offCRC) are already
	// zero by virtue of the zero-valued Frame.

	payload := f[offPayload : offPayload+PayloadSize]
	putPayload(payload, rec)

	crc := crc32Of(f[:offCRC])
	binary.BigEndian.PutUint32(f[offCRC:], crc)

	return &f, nil
}

// BuildNext is Build using the builder's internal monotonically
// increasing sequence counter, atomically advanced on every call.
func (b *Builder) BuildNext(rec Record) (*Frame, error) {
	seq := atomic.AddUint32(&b.seq, 1) - 1
	return b.Build(rec, uint16(seq))
}

func truncToU32Seconds(ts int64) uint32 {
	return uint32(uint64(ts) & 0xFFFFFFFF)
}

func putPayload(p []byte, rec Record) {
	binary.BigEndian.PutUint64(p[pOffLat:], math.Float64bits(rec.Latitude))
	binary.BigEndian.PutUint64(p[pOffLon:], math.Float64bits(rec.Longitude))
	binary.BigEndian.PutUint32(p[pOffAlt:], math.Float32bits(float32(rec.Altitude)))
	binary.BigEndian.PutUint32(p[pOffVel:], math.Float32bits(float32(rec.Velocity)))
	binary.BigEndian.PutUint32(p[pOffFootprint:], math.Float32bits(float32(rec.Footprint)))
	binary.BigEndian.PutUint32(p[pOffDayNum:], math.Float32bits(float32(rec.DayNum)))
	binary.BigEndian.PutUint32(p[pOffSolarLat:], math.Float32bits(float32(rec.SolarLat)))
	binary.BigEndian.PutUint32(p[pOffSolarLon:], math.Float32bits(float32(rec.SolarLon)))
	binary.BigEndian.PutUint32(p[pOffTimestamp:], truncToU32Seconds(rec.Timestamp))
	p[pOffVis] = byte(rec.Visibility)
	// p[pOffReserved:] is already zero.
}

// ParsePayload decodes a 76-byte payload back into a Record. It is the
// inverse of putPayload and is used both by tests (round-trip property #1)
// and by callers that only have a validated payload slice.
func ParsePayload(p []byte) Record {
	var rec Record
	rec.Latitude = math.Float64frombits(binary.BigEndian.Uint64(p[pOffLat:]))
	rec.Longitude = math.Float64frombits(binary.BigEndian.Uint64(p[pOffLon:]))
	rec.Altitude = float64(math.Float32frombits(binary.BigEndian.Uint32(p[pOffAlt:])))
	rec.Velocity = float64(math.Float32frombits(binary.BigEndian.Uint32(p[pOffVel:])))
	rec.Footprint = float64(math.Float32frombits(binary.BigEndian.Uint32(p[pOffFootprint:])))
	rec.DayNum = float64(math.Float32frombits(binary.BigEndian.Uint32(p[pOffDayNum:])))
	rec.SolarLat = float64(math.Float32frombits(binary.BigEndian.Uint32(p[pOffSolarLat:])))
	rec.SolarLon = float64(math.Float32frombits(binary.BigEndian.Uint32(p[pOffSolarLon:])))
	rec.Timestamp = int64(binary.BigEndian.Uint32(p[pOffTimestamp:]))
	rec.Visibility = Visibility(p[pOffVis])
	return rec
}

// Parse decodes a full, already-validated 128-byte frame back into a
// Record and its satellite ID / sequence counter.
func Parse(f *Frame) (rec Record, satID uint16, seq uint16) {
	satID = binary.BigEndian.Uint16(f[offSatID:])
	seq = binary.BigEndian.Uint16(f[offSeq:])
	rec = ParsePayload(f[offPayload : offPayload+PayloadSize])
	rec.SatelliteID = satID
	return
}
