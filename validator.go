package fectel

import "github.com/satcomm/fectel/internal/ccsds"

// ValidationResult is the combined outcome of the three-layer frame
// validator.
type ValidationResult = ccsds.Result

// ValidationStatus is the combined, priority-ordered validator outcome.
type ValidationStatus = ccsds.Status

const (
	StatusValid         = ccsds.StatusValid
	StatusRecovered     = ccsds.StatusRecovered
	StatusDataCorrupted = ccsds.StatusDataCorrupted
	StatusDegraded      = ccsds.StatusDegraded
	StatusTruncated     = ccsds.StatusTruncated
	StatusMalformed     = ccsds.StatusMalformed
	StatusSyncLost      = ccsds.StatusSyncLost
)

// Validate runs the layered sync/structure/CRC validator over buf.
func Validate(buf []byte) ValidationResult {
	return ccsds.Validate(buf)
}
