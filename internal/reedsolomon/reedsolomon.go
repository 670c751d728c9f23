// Package reedsolomon implements a CCSDS-shortened Reed-Solomon codec over
// GF(256): systematic encode, syndrome computation, Berlekamp-Massey
// (with optional erasure seeding), Chien search, and Forney correction.
package reedsolomon

import (
	"context"

	"github.com/satcomm/fectel/internal/codec"
	"github.com/satcomm/fectel/internal/gf256"
	"github.com/satcomm/fectel/internal/gfpoly"
)

// Codec is a constructed-once RS(N,K) codec. The generator polynomial is
// precomputed at New and never changes; Codec is safe to share across
// goroutines.
type Codec struct {
	n, k, t int
	gen     gfpoly.Poly
	codec.Counters
}

// DefaultN and DefaultK are the CCSDS default shortened parameters,
// t=(N-K)/2=16.
const (
	DefaultN = 255
	DefaultK = 223
)

// New constructs an RS(n,k) codec and precomputes its generator
// polynomial g(x) = Prod_{i=1..2t} (x - alpha^i).
func New(n, k int) *Codec {
	if n <= k || n > 255 || k <= 0 {
		panic("reedsolomon: invalid (n,k)")
	}
	t := (n - k) / 2
	gen := gfpoly.New(1)
	for i := 1; i <= 2*t; i++ {
		gen = gfpoly.Mul(gen, gfpoly.New(gf256.Exp(i), 1))
	}
	return &Codec{n: n, k: k, t: t, gen: gen}
}

// NewDefault constructs the CCSDS-default RS(255,223) codec.
func NewDefault() *Codec { return New(DefaultN, DefaultK) }

// N, K, T expose the codec's shortened-code parameters.
func (c *Codec) N() int { return c.n }
func (c *Codec) K() int { return c.k }
func (c *Codec) T() int { return c.t }

// Encode systematically encodes a K-byte message into an N-byte
// codeword: r(x) = message(x)*x^(N-K) mod g(x); codeword = [message, r].
// Shortened codes are handled by the caller padding message to K bytes
// with leading zero symbols before calling Encode.
func (c *Codec) Encode(message []byte) ([]byte, error) {
	if len(message) != c.k {
		return nil, codec.NewOutOfRange("reedsolomon.Encode", "message length != K")
	}
	c.RecordEncode()

	// Message coefficients high-to-low in the input slice; gfpoly wants
	// low-to-high, and we need message(x)*x^(N-K), i.e. the parity
	// remainder aligned under the low (N-K) coefficients.
	shifted := make(gfpoly.Poly, c.n)
	for i, b := range message {
		shifted[c.n-1-i] = b
	}
	shifted = gfpoly.New(shifted...)

	_, rem := gfpoly.DivMod(shifted, c.gen)

	codeword := make([]byte, c.n)
	copy(codeword, message)
	parity := make([]byte, c.n-c.k)
	for i, b := range rem {
		if i < len(parity) {
			parity[i] = b
		}
	}
	// rem is low-to-high; parity bytes in the codeword tail are written
	// high-to-low to match the big-endian-ish layout the message itself
	// uses (codeword[K+i] is the coefficient of x^(N-K-1-i)).
	for i := 0; i < len(parity); i++ {
		codeword[c.k+i] = parity[len(parity)-1-i]
	}
	return codeword, nil
}

// Decode corrects up to t symbol errors (or, with erasures supplied,
// t errors plus erasures bounded by 2*errors+erasures <= 2t) and returns
// the K-byte message. erasures holds 0-indexed byte positions within the
// N-byte codeword known to be unreliable.
func (c *Codec) Decode(ctx context.Context, codeword []byte, erasures []int) ([]byte, error) {
	if len(codeword) != c.n {
		return nil, codec.NewOutOfRange("reedsolomon.Decode", "codeword length != N")
	}

	syn := c.syndromes(codeword)
	if allZero(syn) {
		c.RecordDecodeOK()
		return messageOf(codeword, c.k), nil
	}

	select {
	case <-ctxDone(ctx):
		c.RecordCancelled()
		return nil, codec.NewCancelled("reedsolomon.Decode", "cancelled before locator search")
	default:
	}

	// Gamma(x) = Prod (1 - alpha^pos * x): the erasure locator seeds Lambda0
	// so Berlekamp-Massey only has to resolve the remaining, unknown error
	// locations. pos is an array position; its locator value is
	// alpha^(N-1-pos) per the degree convention syndromes() uses.
	var seed gfpoly.Poly
	if len(erasures) > 0 {
		seed = gfpoly.New(1)
		for _, pos := range erasures {
			seed = gfpoly.Mul(seed, gfpoly.New(1, gf256.Exp(c.n-1-pos)))
		}
	} else {
		seed = gfpoly.New(1)
	}

	lambda, ok := c.berlekampMassey(ctx, syn, seed, len(erasures))
	if !ok {
		c.RecordCancelled()
		return nil, codec.NewCancelled("reedsolomon.Decode", "cancelled during Berlekamp-Massey")
	}

	// chienSearch returns every root of the combined locator, i.e. both
	// the seeded erasure positions and any newly located errors.
	positions := c.chienSearch(lambda)
	if len(positions) != lambda.Degree() {
		c.RecordFailed()
		return nil, codec.NewUncorrectable("reedsolomon.Decode", "locator root count does not match its degree")
	}
	foundCount := len(positions) - len(erasures)
	if foundCount > c.t || foundCount < 0 {
		c.RecordFailed()
		return nil, codec.NewUncorrectable("reedsolomon.Decode", "too many error locations found")
	}
	for _, p := range positions {
		if p < 0 || p >= c.n {
			c.RecordFailed()
			return nil, codec.NewUncorrectable("reedsolomon.Decode", "Chien root outside codeword range")
		}
	}

	corrected, err := c.forneyCorrect(codeword, syn, lambda, positions)
	if err != nil {
		c.RecordFailed()
		return nil, err
	}

	c.RecordCorrected()
	return messageOf(corrected, c.k), nil
}

func messageOf(codeword []byte, k int) []byte {
	out := make([]byte, k)
	copy(out, codeword[:k])
	return out
}

// syndromes computes S_i = codeword(alpha^i) for i=1..2t by Horner
// evaluation, treating codeword[0] as the highest-degree coefficient
// (matching the big-endian-ish systematic layout Encode produces).
func (c *Codec) syndromes(codeword []byte) []byte {
	poly := make(gfpoly.Poly, c.n)
	for i, b := range codeword {
		poly[c.n-1-i] = b
	}
	poly = gfpoly.New(poly...)

	syn := make([]byte, 2*c.t)
	for i := 1; i <= 2*c.t; i++ {
		syn[i-1] = gfpoly.Eval(poly, gf256.Exp(i))
	}
	return syn
}

func allZero(s []byte) bool {
	for _, b := range s {
		if b != 0 {
			return false
		}
	}
	return true
}

// berlekampMassey runs the standard Berlekamp-Massey recurrence over the
// syndrome sequence, seeded with Lambda0 = seed (the erasure locator, or
// 1 when there are no erasures), resetting m=1 on every length-changing
// update. With eraseCount erasures the recurrence starts at syndrome
// index eraseCount and the length bookkeeping is offset by it: the seed
// already accounts for eraseCount known locations, and Gamma annihilates
// the syndrome sequence only from that index onward, so earlier
// truncated discrepancies must not perturb it. Returns ok=false only if
// ctx was cancelled mid-loop.
func (c *Codec) berlekampMassey(ctx context.Context, syn []byte, seed gfpoly.Poly, eraseCount int) (gfpoly.Poly, bool) {
	lambda := seed
	b := seed
	l := eraseCount
	m := 1
	bCoeff := byte(1)

	for nn := eraseCount; nn < len(syn); nn++ {
		select {
		case <-ctxDone(ctx):
			return nil, false
		default:
		}

		delta := syn[nn]
		for i := 1; i < len(lambda); i++ {
			if nn-i >= 0 {
				delta = gf256.Add(delta, gf256.Mul(lambda[i], syn[nn-i]))
			}
		}

		if delta == 0 {
			m++
			continue
		}

		t2 := make(gfpoly.Poly, len(lambda))
		copy(t2, lambda)

		coeff := gf256.Div(delta, bCoeff)
		shifted := make(gfpoly.Poly, len(b)+m)
		for i, bc := range b {
			shifted[i+m] = gf256.Mul(coeff, bc)
		}
		lambda = gfpoly.Add(lambda, shifted)

		if 2*l <= nn+eraseCount {
			l = nn + 1 - l + eraseCount
			b = t2
			bCoeff = delta
			m = 1
		} else {
			m++
		}
	}

	return lambda, true
}

// locatorInverseAt returns X_p^-1 for array position p, where X_p =
// alpha^(N-1-p) is the error-locator value for a symbol at codeword
// array index p under syndromes()'s degree convention (array index p
// holds the coefficient of x^(N-1-p)).
func (c *Codec) locatorInverseAt(p int) byte {
	return gf256.Exp(p + 1 - c.n)
}

// chienSearch returns the codeword array positions where lambda has a
// root, i.e. error/erasure locations.
func (c *Codec) chienSearch(lambda gfpoly.Poly) []int {
	var positions []int
	for p := 0; p < c.n; p++ {
		if gfpoly.Eval(lambda, c.locatorInverseAt(p)) == 0 {
			positions = append(positions, p)
		}
	}
	return positions
}

// forneyCorrect computes error magnitudes via the Forney algorithm and
// XORs them into the codeword at the given positions.
func (c *Codec) forneyCorrect(codeword []byte, syn []byte, lambda gfpoly.Poly, positions []int) ([]byte, error) {
	sPoly := make(gfpoly.Poly, len(syn))
	copy(sPoly, syn)
	sPoly = gfpoly.New(sPoly...)

	omega := gfpoly.Mul(sPoly, lambda)
	// Keep only terms below x^(2t): Omega(x) = S(x)Lambda(x) mod x^2t.
	if len(omega) > 2*c.t {
		omega = gfpoly.New(omega[:2*c.t]...)
	}

	lambdaPrime := gfpoly.Derivative(lambda)

	out := make([]byte, len(codeword))
	copy(out, codeword)

	for _, pos := range positions {
		xInv := c.locatorInverseAt(pos)
		denom := gfpoly.Eval(lambdaPrime, xInv)
		if denom == 0 {
			return nil, codec.NewUncorrectable("reedsolomon.forneyCorrect", "Lambda' vanishes at error position")
		}
		numer := gfpoly.Eval(omega, xInv)
		magnitude := gf256.Mul(numer, gf256.Inv(denom))
		// x^pos positions are indexed from the high-degree end in our
		// codeword<->poly convention, so codeword byte index is pos.
		if pos >= len(out) {
			return nil, codec.NewUncorrectable("reedsolomon.forneyCorrect", "position outside codeword")
		}
		out[pos] ^= magnitude
	}

	return out, nil
}

func ctxDone(ctx context.Context) <-chan struct{} {
	if ctx == nil {
		return nil
	}
	return ctx.Done()
}
