package ldpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strongLLR is a confident hard-decision LLR: large magnitude, sign
// encodes the bit (positive favors 0).
func strongLLR(bit byte) float64 {
	if bit == 0 {
		return 6.0
	}
	return -6.0
}

func TestDecodeConvergesWithNoNoise(t *testing.T) {
	c := New(14, 7)
	// An all-zero codeword satisfies every parity check trivially.
	llrs := make([]float64, c.N())
	for i := range llrs {
		llrs[i] = strongLLR(0)
	}
	out, err := c.Decode(context.Background(), llrs)
	require.NoError(t, err)
	for _, b := range out {
		assert.Equal(t, byte(0), b)
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	c := New(14, 7)
	_, err := c.Decode(context.Background(), make([]float64, c.N()-1))
	require.Error(t, err)
}

func TestDecodeObservesCancellation(t *testing.T) {
	c := New(14, 7)
	llrs := make([]float64, c.N())
	for i := range llrs {
		llrs[i] = strongLLR(0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Decode(ctx, llrs)
	require.Error(t, err)
}

func TestNAndKAccessors(t *testing.T) {
	c := New(14, 7)
	assert.Equal(t, 14, c.N())
	assert.Equal(t, 7, c.K())
}
