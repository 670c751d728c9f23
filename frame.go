package fectel

import "github.com/satcomm/fectel/internal/ccsds"

// FrameSize is the fixed wire size of every frame.
const FrameSize = ccsds.FrameSize

// Frame is the sealed, immutable 128-byte CCSDS frame.
type Frame = ccsds.Frame

// FrameBuilder constructs frames from TelemetryRecords. Construct one per
// process/stream and reuse it.
type FrameBuilder struct {
	b *ccsds.Builder
}

// NewFrameBuilder returns a FrameBuilder with its sequence counter at zero.
func NewFrameBuilder() *FrameBuilder {
	return &FrameBuilder{b: ccsds.NewBuilder()}
}

// Build seals rec into a Frame at the given explicit sequence number.
func (fb *FrameBuilder) Build(rec TelemetryRecord, seq uint16) (*Frame, error) {
	return fb.b.Build(toCCSDS(rec), seq)
}

// BuildNext seals rec using the builder's internal, atomically advanced
// sequence counter.
func (fb *FrameBuilder) BuildNext(rec TelemetryRecord) (*Frame, error) {
	return fb.b.BuildNext(toCCSDS(rec))
}

// ParseFrame decodes a sealed Frame back into a TelemetryRecord plus its
// wire sequence number. It does not check the CRC; callers validate first
// (see Validate).
func ParseFrame(f *Frame) (rec TelemetryRecord, seq uint16) {
	r, satID, s := ccsds.Parse(f)
	rec = fromCCSDS(r)
	rec.SatelliteID = satID
	return rec, s
}

func toCCSDS(rec TelemetryRecord) ccsds.Record {
	return ccsds.Record{
		SatelliteID: rec.SatelliteID,
		Timestamp:   rec.Timestamp,
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		Altitude:    rec.Altitude,
		Velocity:    rec.Velocity,
		Footprint:   rec.Footprint,
		DayNum:      rec.DayNum,
		SolarLat:    rec.SolarLat,
		SolarLon:    rec.SolarLon,
		Visibility:  ccsds.Visibility(rec.Visibility.code()),
	}
}

func fromCCSDS(r ccsds.Record) TelemetryRecord {
	return TelemetryRecord{
		SatelliteID: r.SatelliteID,
		Timestamp:   r.Timestamp,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Altitude:    r.Altitude,
		Velocity:    r.Velocity,
		Footprint:   r.Footprint,
		DayNum:      r.DayNum,
		SolarLat:    r.SolarLat,
		SolarLon:    r.SolarLon,
		Visibility:  visibilityFromCode(byte(r.Visibility)),
	}
}
