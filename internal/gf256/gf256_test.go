package gf256

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAddIsSelfInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := byte(rapid.IntRange(0, 255).Draw(t, "a"))
		b := byte(rapid.IntRange(0, 255).Draw(t, "b"))
		assert.Equal(t, a, Add(Add(a, b), b))
	})
}

func TestMulDivRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := byte(rapid.IntRange(0, 255).Draw(t, "a"))
		b := byte(rapid.IntRange(1, 255).Draw(t, "b"))
		product := Mul(a, b)
		assert.Equal(t, a, Div(product, b))
	})
}

func TestInvIsMultiplicativeInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := byte(rapid.IntRange(1, 255).Draw(t, "a"))
		assert.Equal(t, byte(1), Mul(a, Inv(a)))
	})
}

func TestExpTableHasPeriod255(t *testing.T) {
	seen := map[byte]bool{}
	for i := 0; i < 255; i++ {
		v := Exp(i)
		require.False(t, seen[v], "exp(%d)=%d repeats before period 255", i, v)
		seen[v] = true
	}
	require.Equal(t, Exp(0), Exp(255))
}

func TestLogExpInverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		assert.Equal(t, byte(a), Exp(Log(byte(a))))
	}
}

func TestPowMatchesRepeatedMul(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := byte(rapid.IntRange(1, 255).Draw(t, "a"))
		n := rapid.IntRange(0, 8).Draw(t, "n")
		want := byte(1)
		for i := 0; i < n; i++ {
			want = Mul(want, a)
		}
		assert.Equal(t, want, Pow(a, n))
	})
}

func TestMulCommutative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := byte(rapid.IntRange(0, 255).Draw(t, "a"))
		b := byte(rapid.IntRange(0, 255).Draw(t, "b"))
		assert.Equal(t, Mul(a, b), Mul(b, a))
	})
}

func TestMulByZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := byte(rapid.IntRange(0, 255).Draw(t, "a"))
		assert.Equal(t, byte(0), Mul(a, 0))
	})
}
