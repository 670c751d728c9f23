package gfpoly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/satcomm/fectel/internal/gf256"
)

func randPoly(t *rapid.T, maxDeg int) Poly {
	n := rapid.IntRange(1, maxDeg+1).Draw(t, "degree")
	coeffs := make([]byte, n)
	for i := range coeffs {
		coeffs[i] = byte(rapid.IntRange(0, 255).Draw(t, "coeff"))
	}
	return New(coeffs...)
}

func TestNormalizeDropsTrailingZeroCoefficients(t *testing.T) {
	p := New(1, 2, 0, 0)
	assert.Equal(t, Poly{1, 2}, p)
}

func TestZeroPolyIsSingleZero(t *testing.T) {
	p := New(0, 0, 0)
	assert.True(t, p.IsZero())
	assert.Equal(t, Poly{0}, p)
}

func TestAddIsSelfInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := randPoly(t, 5)
		q := randPoly(t, 5)
		assert.Equal(t, p, Add(Add(p, q), q))
	})
}

func TestEvalMultiMatchesEval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := randPoly(t, 6)
		n := rapid.IntRange(0, 200).Draw(t, "n")
		xs := make([]byte, n)
		for i := range xs {
			xs[i] = byte(rapid.IntRange(0, 255).Draw(t, "x"))
		}
		got := EvalMulti(p, xs)
		require.Len(t, got, n)
		for i, x := range xs {
			assert.Equal(t, Eval(p, x), got[i])
		}
	})
}

func TestDivModReconstructsDividend(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dividend := randPoly(t, 8)
		divisor := randPoly(t, 4)
		if divisor.IsZero() {
			t.Skip()
		}
		quot, rem := DivMod(dividend, divisor)
		reconstructed := Add(Mul(quot, divisor), rem)
		assert.Equal(t, dividend.normalize(), reconstructed)
		assert.True(t, rem.Degree() < divisor.Degree() || rem.IsZero())
	})
}

func TestDerivativeOfConstantIsZero(t *testing.T) {
	p := New(42)
	assert.True(t, Derivative(p).IsZero())
}

func TestRootsAreActualRoots(t *testing.T) {
	// (x - alpha)(x - alpha^2) has roots alpha, alpha^2.
	a1 := gf256.Exp(1)
	a2 := gf256.Exp(2)
	p := Mul(New(a1, 1), New(a2, 1))
	roots := Roots(p)
	assert.Contains(t, roots, a1)
	assert.Contains(t, roots, a2)
	for _, r := range roots {
		assert.Equal(t, byte(0), Eval(p, r))
	}
}

func TestScaleByOneIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := randPoly(t, 5)
		assert.Equal(t, p.normalize(), Scale(p, 1))
	})
}
