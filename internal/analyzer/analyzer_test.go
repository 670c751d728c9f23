package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeIdenticalFramesIsMinor(t *testing.T) {
	orig := make([]byte, 128)
	corr := make([]byte, 128)
	a := Analyze(orig, corr)
	assert.Equal(t, Minor, a.Primary)
	assert.Equal(t, 0, a.BitErrors)
}

func TestAnalyzeSingleBitFlipIsMinor(t *testing.T) {
	orig := make([]byte, 128)
	corr := make([]byte, 128)
	corr[50] ^= 1 << 3
	a := Analyze(orig, corr)
	assert.Equal(t, Minor, a.Primary)
	assert.Equal(t, 1, a.BitErrors)
	assert.InDelta(t, 1.0/1024.0, a.ErrorDensity, 1e-9)
}

func TestAnalyzeMismatchedLengthsReturnsNone(t *testing.T) {
	a := Analyze(make([]byte, 10), make([]byte, 20))
	assert.Equal(t, None, a.Primary)
}

// TestAnalyzeBurstDamageClassifiesBurst corrupts many separated 3-byte
// spans rather than one contiguous region: a single contiguous run only
// trips burstScore's "entered a >=3 run" counter once, and sync-drift's
// max-over-shifts correlation is almost always well above its 0.25 gate
// for any bit pattern, so only a burst score clearing 0.40 (the sync-drift
// row's own escape hatch) reliably reaches the BURST branch.
func TestAnalyzeBurstDamageClassifiesBurst(t *testing.T) {
	orig := make([]byte, 128)
	for i := range orig {
		orig[i] = byte(i*97 + 11)
	}
	corr := make([]byte, 128)
	copy(corr, orig)
	for g := 0; g < 128; g += 8 {
		for i := g; i < g+3 && i < 128; i++ {
			corr[i] = orig[i] ^ 0xFF
		}
	}
	a := Analyze(orig, corr)
	assert.Equal(t, Burst, a.Primary)
	assert.Greater(t, a.BurstCount, 0)
}

// TestAnalyzeZeroedRunOverNonzeroOriginalIsPacketLoss needs several
// separated >=4-byte zero runs (not one long one) to clear the 0.30
// packet-loss gate, since the score counts how many times a run first
// reaches length 4, not total zeroed bytes.
func TestAnalyzeZeroedRunOverNonzeroOriginalIsPacketLoss(t *testing.T) {
	orig := make([]byte, 128)
	for i := range orig {
		orig[i] = byte(i*41 + 13)
		if orig[i] == 0 {
			orig[i] = 1
		}
	}
	corr := make([]byte, 128)
	copy(corr, orig)
	for g := 0; g < 128; g += 8 {
		for i := g; i < g+4 && i < 128; i++ {
			corr[i] = 0
		}
	}
	a := Analyze(orig, corr)
	assert.Equal(t, PacketLoss, a.Primary)
	assert.Greater(t, a.PacketLossScore, 0.30)
}

func TestAnalyzeSyncDriftShiftedBitsClassifiesSyncDrift(t *testing.T) {
	orig := make([]byte, 128)
	for i := range orig {
		orig[i] = byte(i*7 + 1)
	}
	corr := shiftLeftOneBit(orig)
	a := Analyze(orig, corr)
	assert.Equal(t, SyncDrift, a.Primary)
	assert.Greater(t, a.SyncDriftScore, 0.25)
}

func TestPrimaryTypeStringCoversAllValues(t *testing.T) {
	for _, p := range []PrimaryType{None, Minor, Burst, RandomBit, SyncDrift, PacketLoss, GaussianNoise, Mixed} {
		assert.NotEqual(t, "UNKNOWN", p.String())
	}
	assert.Equal(t, "UNKNOWN", PrimaryType(99).String())
}

func shiftLeftOneBit(buf []byte) []byte {
	out := make([]byte, len(buf))
	totalBits := len(buf) * 8
	for i := 0; i < totalBits; i++ {
		srcBit := i + 1
		var v byte
		if srcBit < totalBits {
			v = (buf[srcBit/8] >> uint(7-srcBit%8)) & 1
		}
		if v != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
