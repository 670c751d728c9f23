// Package bch implements the binary BCH(15,7,2) code over GF(16):
// generator polynomial x^8+x^7+x^6+x^4+1 (0b111010001), syndromes
// S1..S4 at alpha, alpha^2, alpha^3, alpha^4, Berlekamp-Massey locator,
// Chien search over positions 0..14, correcting up to 2 bit flips.
package bch

import "github.com/satcomm/fectel/internal/codec"

const (
	n              = 15
	k              = 7
	t              = 2
	genPoly uint16 = 0x1D1 // x^8+x^7+x^6+x^4+1
	genDeg         = 8
)

// Encode maps a 7-bit message (low 7 bits of msg significant) to its
// 15-bit systematic codeword: message shifted left by 8, XORed with the
// remainder of (message * x^8) mod g(x).
func Encode(msg uint8) uint16 {
	shifted := uint16(msg&0x7F) << genDeg
	rem := polymod(uint32(shifted), uint32(genPoly), genDeg)
	return shifted | uint16(rem)
}

// polymod reduces a GF(2) polynomial (bits = coefficients, bit i = degree
// i) modulo a generator of degree genDeg, by the same shift-and-XOR
// division any binary CRC uses.
func polymod(data, gen uint32, genDegree int) uint32 {
	for deg := 14; deg >= genDegree; deg-- {
		if data&(1<<uint(deg)) != 0 {
			data ^= gen << uint(deg-genDegree)
		}
	}
	return data
}

// Decode corrects up to t=2 bit errors in a 15-bit BCH codeword and
// returns the 7-bit message. Every pattern of at most 2 flipped bits is
// corrected. A pattern beyond capability either returns an Uncorrectable
// error or, when it lies within distance 2 of a different codeword, decodes
// to that codeword's message without an error.
func Decode(word uint16) (uint8, error) {
	syn := syndromes(word)
	if allZero(syn) {
		return uint8(word>>genDeg) & 0x7F, nil
	}

	lambda := berlekampMassey(syn)
	if len(lambda)-1 > t {
		return 0, codec.NewUncorrectable("bch.Decode", "locator degree exceeds correction capability")
	}

	positions := chienSearch(lambda)
	if len(positions) != len(lambda)-1 {
		return 0, codec.NewUncorrectable("bch.Decode", "Chien search root count mismatch")
	}

	corrected := word
	for _, pos := range positions {
		corrected ^= 1 << uint(pos)
	}

	if !allZero(syndromes(corrected)) {
		return 0, codec.NewUncorrectable("bch.Decode", "re-verification failed after correction")
	}

	return uint8(corrected>>genDeg) & 0x7F, nil
}

// syndromes computes S1..S4 for a received 15-bit word, bit i being the
// coefficient of x^i.
func syndromes(word uint16) [4]byte {
	var s [4]byte
	for j := 1; j <= 4; j++ {
		var acc byte
		for i := 0; i < n; i++ {
			if word&(1<<uint(i)) != 0 {
				acc = gf16Add(acc, gf16ExpOf(i*j))
			}
		}
		s[j-1] = acc
	}
	return s
}

func allZero(s [4]byte) bool {
	return s[0] == 0 && s[1] == 0 && s[2] == 0 && s[3] == 0
}

// berlekampMassey synthesizes the shortest LFSR (the error locator
// polynomial, low-to-high coefficients, Lambda[0] == 1) consistent with
// the syndrome sequence, over GF(16). Standard BM: m resets to 1 on every
// length-changing update.
func berlekampMassey(syn [4]byte) []byte {
	lambda := []byte{1}
	b := []byte{1}
	l := 0
	m := 1
	bCoeff := byte(1)

	for nn := 0; nn < len(syn); nn++ {
		delta := syn[nn]
		for i := 1; i <= l; i++ {
			if i < len(lambda) {
				delta = gf16Add(delta, gf16Mul(lambda[i], syn[nn-i]))
			}
		}

		if delta == 0 {
			m++
			continue
		}

		t2 := make([]byte, len(lambda))
		copy(t2, lambda)

		coeff := gf16Div(delta, bCoeff)
		shifted := make([]byte, len(b)+m)
		for i, bc := range b {
			shifted[i+m] = gf16Mul(coeff, bc)
		}
		lambda = xorPoly(lambda, shifted)

		if 2*l <= nn {
			l = nn + 1 - l
			b = t2
			bCoeff = delta
			m = 1
		} else {
			m++
		}
	}

	return trimPoly(lambda)
}

func xorPoly(a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	for i := range out {
		var av, bv byte
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		out[i] = av ^ bv
	}
	return out
}

func trimPoly(p []byte) []byte {
	i := len(p) - 1
	for i > 0 && p[i] == 0 {
		i--
	}
	return p[:i+1]
}

func evalPoly(p []byte, x byte) byte {
	var result byte
	for i := len(p) - 1; i >= 0; i-- {
		result = gf16Mul(result, x) ^ p[i]
	}
	return result
}

// chienSearch returns every bit position 0..14 whose reciprocal alpha^-pos
// is a root of lambda.
func chienSearch(lambda []byte) []int {
	var positions []int
	for pos := 0; pos < n; pos++ {
		x := gf16ExpOf(-pos)
		if evalPoly(lambda, x) == 0 {
			positions = append(positions, pos)
		}
	}
	return positions
}

// EncodeBytes encodes a byte stream through the (15,7) code: the input
// bit stream is split MSB-first into 7-bit messages (the final group
// zero-padded), and each 15-bit codeword is appended MSB-first to the
// output, which is packed into bytes. The stream length is fully
// determined by the input length, so DecodeBytes can invert it given the
// original byte count.
func EncodeBytes(data []byte) []byte {
	bits := unpackBits(data)
	for len(bits)%k != 0 {
		bits = append(bits, 0)
	}
	outBits := make([]byte, 0, len(bits)/k*n)
	for i := 0; i < len(bits); i += k {
		var msg uint8
		for j := 0; j < k; j++ {
			msg = msg<<1 | bits[i+j]
		}
		word := Encode(msg)
		for j := n - 1; j >= 0; j-- {
			outBits = append(outBits, byte((word>>uint(j))&1))
		}
	}
	return packBits(outBits)
}

// DecodeBytes inverts EncodeBytes for an expected payload of dataLen
// bytes, correcting up to t bit errors per codeword. It fails at the
// first uncorrectable codeword.
func DecodeBytes(data []byte, dataLen int) ([]byte, error) {
	msgCount := (dataLen*8 + k - 1) / k
	need := (msgCount*n + 7) / 8
	if len(data) < need {
		return nil, codec.NewTruncated("bch.DecodeBytes", "codeword stream shorter than expected")
	}
	bits := unpackBits(data)
	outBits := make([]byte, 0, msgCount*k)
	for i := 0; i < msgCount; i++ {
		var word uint16
		for j := 0; j < n; j++ {
			word = word<<1 | uint16(bits[i*n+j])
		}
		msg, err := Decode(word)
		if err != nil {
			return nil, err
		}
		for j := k - 1; j >= 0; j-- {
			outBits = append(outBits, (msg>>uint(j))&1)
		}
	}
	return packBits(outBits[:dataLen*8]), nil
}

func unpackBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1)
		}
	}
	return bits
}

func packBits(bits []byte) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
