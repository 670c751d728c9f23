package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satcomm/fectel/internal/analyzer"
)

func TestClassifyMinorIsNone(t *testing.T) {
	s := Classify(analyzer.Analysis{Primary: analyzer.Minor})
	assert.Equal(t, AlgoNone, s.Primary)
	assert.InDelta(t, 0.95, s.Confidence, 1e-9)
}

func TestClassifySyncDriftLowBurstPicksViterbi(t *testing.T) {
	s := Classify(analyzer.Analysis{Primary: analyzer.SyncDrift, SyncDriftScore: 0.4, BurstScore: 0.1})
	assert.Equal(t, AlgoViterbi, s.Primary)
}

func TestClassifySyncDriftHighBurstFallsBackToBCH(t *testing.T) {
	s := Classify(analyzer.Analysis{Primary: analyzer.SyncDrift, SyncDriftScore: 0.4, BurstScore: 0.5})
	assert.Equal(t, AlgoBCH, s.Primary)
	assert.InDelta(t, 0.75, s.Confidence, 1e-9)
}

func TestClassifyRandomBitPicksBCH(t *testing.T) {
	s := Classify(analyzer.Analysis{Primary: analyzer.RandomBit})
	assert.Equal(t, AlgoBCH, s.Primary)
	assert.InDelta(t, 0.90, s.Confidence, 1e-9)
}

func TestClassifyBurstNeverPicksViterbi(t *testing.T) {
	s := Classify(analyzer.Analysis{Primary: analyzer.Burst})
	assert.Equal(t, AlgoBCH, s.Primary)
	assert.NotEqual(t, AlgoViterbi, s.Primary)
}

func TestClassifyGaussianPicksLDPCWhenAvailable(t *testing.T) {
	LDPCAvailable = true
	s := Classify(analyzer.Analysis{Primary: analyzer.GaussianNoise})
	assert.Equal(t, AlgoLDPC, s.Primary)
}

func TestClassifyGaussianFallsBackToBCHWhenLDPCUnavailable(t *testing.T) {
	LDPCAvailable = false
	defer func() { LDPCAvailable = true }()
	s := Classify(analyzer.Analysis{Primary: analyzer.GaussianNoise})
	assert.Equal(t, AlgoBCH, s.Primary)
}

func TestClassifyPacketLossRequestsRetransmit(t *testing.T) {
	s := Classify(analyzer.Analysis{Primary: analyzer.PacketLoss})
	assert.Equal(t, AlgoRequestRetransmit, s.Primary)
}

func TestClassifyMixedRecursesOnDominantSubScore(t *testing.T) {
	s := Classify(analyzer.Analysis{Primary: analyzer.Mixed, RandomScore: 0.5})
	assert.Equal(t, AlgoBCH, s.Primary)
	assert.True(t, s.HasSecondary)
}

func TestClassifyMixedWithNoDominantSubScoreUsesSafeDefault(t *testing.T) {
	s := Classify(analyzer.Analysis{Primary: analyzer.Mixed})
	assert.Equal(t, AlgoBCH, s.Primary)
	assert.False(t, s.HasSecondary)
	assert.InDelta(t, 0.65, s.Confidence, 1e-9)
}

// TestClassifyMonotonicity: higher sync-drift score (with burst held
// low) never produces lower confidence.
func TestClassifyMonotonicity(t *testing.T) {
	low := Classify(analyzer.Analysis{Primary: analyzer.SyncDrift, SyncDriftScore: 0.35, BurstScore: 0.1})
	high := Classify(analyzer.Analysis{Primary: analyzer.SyncDrift, SyncDriftScore: 0.5, BurstScore: 0.1})
	assert.GreaterOrEqual(t, high.Confidence, low.Confidence)
}

func TestAlgorithmStringCoversAllValues(t *testing.T) {
	for _, a := range []Algorithm{AlgoNone, AlgoViterbi, AlgoBCH, AlgoRS, AlgoLDPC, AlgoHamming,
		AlgoInterleaverOnly, AlgoResync, AlgoSafeDefault, AlgoRequestRetransmit} {
		assert.NotEqual(t, "UNKNOWN", a.String())
	}
	assert.Equal(t, "UNKNOWN", Algorithm(99).String())
}
