package reedsolomon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/satcomm/fectel/internal/codec"
)

// small is a lightweight RS code for fast property tests: N=15, K=9,
// t=3, distinct from the CCSDS-default RS(255,223) exercised separately.
func small() *Codec { return New(15, 9) }

func TestEncodeDecodeRoundTripNoErrors(t *testing.T) {
	c := small()
	rapid.Check(t, func(t *rapid.T) {
		msg := make([]byte, c.K())
		for i := range msg {
			msg[i] = byte(rapid.IntRange(0, 255).Draw(t, "b"))
		}
		codeword, err := c.Encode(msg)
		require.NoError(t, err)
		decoded, err := c.Decode(context.Background(), codeword, nil)
		require.NoError(t, err)
		assert.Equal(t, msg, decoded)
	})
}

func TestDecodeCorrectsUpToTErrors(t *testing.T) {
	c := small()
	rapid.Check(t, func(t *rapid.T) {
		msg := make([]byte, c.K())
		for i := range msg {
			msg[i] = byte(rapid.IntRange(0, 255).Draw(t, "b"))
		}
		codeword, err := c.Encode(msg)
		require.NoError(t, err)

		numErrors := rapid.IntRange(0, c.T()).Draw(t, "numErrors")
		used := map[int]bool{}
		corrupted := make([]byte, len(codeword))
		copy(corrupted, codeword)
		for i := 0; i < numErrors; i++ {
			p := rapid.IntRange(0, c.N()-1).Draw(t, "pos")
			for used[p] {
				p = (p + 1) % c.N()
			}
			used[p] = true
			var flip byte
			for flip == 0 {
				flip = byte(rapid.IntRange(1, 255).Draw(t, "flip"))
			}
			corrupted[p] ^= flip
		}

		decoded, err := c.Decode(context.Background(), corrupted, nil)
		require.NoError(t, err)
		assert.Equal(t, msg, decoded)
	})
}

func TestDecodeWithErasuresDoublesCapacity(t *testing.T) {
	c := small()
	msg := make([]byte, c.K())
	for i := range msg {
		msg[i] = byte(i * 17)
	}
	codeword, err := c.Encode(msg)
	require.NoError(t, err)

	// 2*errors + erasures <= 2t: with 4 erasures (t=3, 2t=6), 1 error
	// still leaves headroom (2*1+4=6<=6).
	erasures := []int{0, 1, 2, 3}
	corrupted := make([]byte, len(codeword))
	copy(corrupted, codeword)
	for _, e := range erasures {
		corrupted[e] = 0
	}
	corrupted[10] ^= 0x55

	decoded, err := c.Decode(context.Background(), corrupted, erasures)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestDecodeBeyondCapacityNeverMiscorrectsSilently(t *testing.T) {
	c := small()
	msg := make([]byte, c.K())
	for i := range msg {
		msg[i] = byte(i)
	}
	codeword, err := c.Encode(msg)
	require.NoError(t, err)

	// t+1 errors exceeds correction capability; Decode must either return
	// Uncorrectable or, if it happens to find a consistent-looking
	// locator, must never silently return a message different from a
	// decode that round-trips through Encode again.
	corrupted := make([]byte, len(codeword))
	copy(corrupted, codeword)
	for i := 0; i < c.T()+1; i++ {
		corrupted[i] ^= 0xFF
	}

	decoded, err := c.Decode(context.Background(), corrupted, nil)
	if err == nil {
		reencoded, rerr := c.Encode(decoded)
		require.NoError(t, rerr)
		redecoded, rerr := c.Decode(context.Background(), reencoded, nil)
		require.NoError(t, rerr)
		assert.Equal(t, decoded, redecoded)
		return
	}
	kind, ok := codec.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, codec.Uncorrectable, kind)
}

func TestDecodeObservesCancellation(t *testing.T) {
	c := small()
	msg := make([]byte, c.K())
	codeword, err := c.Encode(msg)
	require.NoError(t, err)
	codeword[0] ^= 0xFF // force the error-correction path to run

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Decode(ctx, codeword, nil)
	require.Error(t, err)
	kind, ok := codec.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, codec.Cancelled, kind)
}
