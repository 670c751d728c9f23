package ccsds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample(t *testing.T) *Frame {
	t.Helper()
	b := NewBuilder()
	f, err := b.Build(sampleRecord(), 0)
	require.NoError(t, err)
	return f
}

func TestValidateCleanFrameIsValid(t *testing.T) {
	f := buildSample(t)
	res := Validate(f.Bytes())
	assert.Equal(t, StatusValid, res.Status)
	assert.Equal(t, SyncValid, res.Sync)
	assert.True(t, res.CRCOK)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
}

func TestValidateResyncWithinWindowRecovers(t *testing.T) {
	f := buildSample(t)
	shifted := append(make([]byte, 5), f.Bytes()...) // sync now at offset 5
	res := Validate(shifted)
	assert.Equal(t, StatusRecovered, res.Status)
	assert.Equal(t, SyncResynced, res.Sync)
	assert.Equal(t, 5, res.SyncOffset)
	assert.True(t, res.CRCOK)
}

func TestValidateCorruptedCRCIsDataCorrupted(t *testing.T) {
	f := buildSample(t)
	buf := append([]byte{}, f.Bytes()...)
	buf[20] ^= 0xFF // corrupt payload without touching sync/length
	res := Validate(buf)
	assert.Equal(t, StatusDataCorrupted, res.Status)
	assert.False(t, res.CRCOK)
}

func TestValidateGarbageIsSyncLost(t *testing.T) {
	buf := make([]byte, FrameSize)
	for i := range buf {
		buf[i] = 0xAA
	}
	res := Validate(buf)
	assert.Equal(t, StatusSyncLost, res.Status)
}

func TestValidateTruncatedBuffer(t *testing.T) {
	f := buildSample(t)
	buf := f.Bytes()[:50]
	res := Validate(buf)
	assert.Equal(t, StatusTruncated, res.Status)
}

func TestValidateRecoveredConfidenceBounded(t *testing.T) {
	f := buildSample(t)
	shifted := append(make([]byte, 1), f.Bytes()...)
	res := Validate(shifted)
	assert.LessOrEqual(t, res.Confidence, maxRecoveredConfidence)
}
