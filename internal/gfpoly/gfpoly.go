// Package gfpoly implements polynomials over GF(256), built on top of
// internal/gf256. Coefficients are ordered low-to-high (index 0 is the
// constant term), normalized so the leading (highest-index, non-zero)
// coefficient is non-zero, except for the zero polynomial which is the
// single coefficient [0].
package gfpoly

import (
	"sync"

	"github.com/satcomm/fectel/internal/gf256"
)

// Poly is a GF(256) polynomial, coefficients low-to-high.
type Poly []byte

// New builds a normalized polynomial from the given coefficients.
func New(coeffs ...byte) Poly {
	return Poly(coeffs).normalize()
}

func (p Poly) normalize() Poly {
	i := len(p) - 1
	for i > 0 && p[i] == 0 {
		i--
	}
	return p[:i+1]
}

// Degree returns the polynomial's degree; the zero polynomial has degree 0.
func (p Poly) Degree() int {
	return len(p) - 1
}

// IsZero reports whether p is the zero polynomial.
func (p Poly) IsZero() bool {
	return len(p) == 1 && p[0] == 0
}

// Add returns p+q (XOR of coefficients, characteristic 2).
func Add(p, q Poly) Poly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(Poly, n)
	for i := range out {
		var a, b byte
		if i < len(p) {
			a = p[i]
		}
		if i < len(q) {
			b = q[i]
		}
		out[i] = a ^ b
	}
	return out.normalize()
}

// Scale returns p scaled by a constant a.
func Scale(p Poly, a byte) Poly {
	out := make(Poly, len(p))
	for i, c := range p {
		out[i] = gf256.Mul(c, a)
	}
	return out.normalize()
}

// Mul returns p*q, the full polynomial product.
func Mul(p, q Poly) Poly {
	if p.IsZero() || q.IsZero() {
		return New(0)
	}
	out := make(Poly, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		for j, b := range q {
			if b == 0 {
				continue
			}
			out[i+j] ^= gf256.Mul(a, b)
		}
	}
	return out.normalize()
}

// Eval evaluates p(x) at x via Horner's method, iterating from the
// highest-degree coefficient down.
func Eval(p Poly, x byte) byte {
	var result byte
	for i := len(p) - 1; i >= 0; i-- {
		result = gf256.Mul(result, x) ^ p[i]
	}
	return result
}

// evalParallelThreshold is the minimum point count before EvalMulti
// splits work across goroutines, 64 points per task.
const evalParallelThreshold = 64

// EvalMulti evaluates p at every point in xs, preserving input order.
// Point batches of 64 or more are split across goroutines; the result
// slice is always assembled in the caller's order regardless of how the
// work was scheduled, so the operation stays deterministic.
func EvalMulti(p Poly, xs []byte) []byte {
	out := make([]byte, len(xs))
	if len(xs) < evalParallelThreshold {
		for i, x := range xs {
			out[i] = Eval(p, x)
		}
		return out
	}

	var wg sync.WaitGroup
	for start := 0; start < len(xs); start += evalParallelThreshold {
		end := start + evalParallelThreshold
		if end > len(xs) {
			end = len(xs)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = Eval(p, xs[i])
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// DivMod performs polynomial long division: dividend = quotient*divisor +
// remainder. Dividing by the zero polynomial is a programming error.
func DivMod(dividend, divisor Poly) (quotient, remainder Poly) {
	if divisor.IsZero() {
		panic("gfpoly: division by zero polynomial")
	}
	rem := make(Poly, len(dividend))
	copy(rem, dividend)
	rem = rem.normalize()

	if rem.Degree() < divisor.Degree() {
		return New(0), rem
	}

	quotDeg := rem.Degree() - divisor.Degree()
	quot := make(Poly, quotDeg+1)
	lead := divisor[len(divisor)-1]
	leadInv := gf256.Inv(lead)

	for rem.Degree() >= divisor.Degree() && !rem.IsZero() {
		shift := rem.Degree() - divisor.Degree()
		coeff := gf256.Mul(rem[len(rem)-1], leadInv)
		quot[shift] = coeff

		for i, dc := range divisor {
			rem[i+shift] ^= gf256.Mul(dc, coeff)
		}
		rem = rem.normalize()
	}
	return quot.normalize(), rem.normalize()
}

// Derivative returns the formal derivative of p. In characteristic 2 all
// even-power terms vanish (their coefficient is multiplied by an even
// integer, which is 0 mod 2), so only odd-power terms survive, shifted
// down by one degree.
func Derivative(p Poly) Poly {
	if len(p) <= 1 {
		return New(0)
	}
	out := make(Poly, len(p)-1)
	for i := 1; i < len(p); i++ {
		if i%2 == 1 {
			out[i-1] = p[i]
		}
	}
	return out.normalize()
}

// Roots returns every x in [0,255] for which p(x) == 0, found by
// exhaustive Chien-style search.
func Roots(p Poly) []byte {
	var roots []byte
	for x := 0; x < 256; x++ {
		if Eval(p, byte(x)) == 0 {
			roots = append(roots, byte(x))
		}
	}
	return roots
}
