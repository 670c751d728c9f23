// Package hamming implements the Hamming(7,4) single-error-correcting
// code. Bit positions are 1..7, MSB-first, laid out as
// [p1, p2, d1, p3, d2, d3, d4]: compute the syndrome, use it to locate
// the bad bit, flip it, re-verify.
package hamming

import "github.com/satcomm/fectel/internal/codec"

// Encode packs 4 data bits (each bits[i] is 0 or 1, in d1,d2,d3,d4 order)
// into the 7-bit Hamming codeword, returned as 7 bits in a byte array for
// symmetry with Decode.
func Encode(bits [4]byte) [7]byte {
	d1, d2, d3, d4 := bits[0]&1, bits[1]&1, bits[2]&1, bits[3]&1

	p1 := d1 ^ d2 ^ d4
	p2 := d1 ^ d3 ^ d4
	p3 := d2 ^ d3 ^ d4

	return [7]byte{p1, p2, d1, p3, d2, d3, d4}
}

// Decode corrects a single-bit error (if any) in a 7-bit Hamming codeword
// and returns the 4 data bits. Every non-zero syndrome names one of the
// seven positions, so flipping that bit always re-verifies clean: a
// two-bit error is not detected and decodes to a wrong nibble with a nil
// error, and no 7-bit input reaches the Uncorrectable branch.
func Decode(word [7]byte) ([4]byte, error) {
	p1, p2, d1, p3, d2, d3, d4 := word[0], word[1], word[2], word[3], word[4], word[5], word[6]

	s1 := p1 ^ d1 ^ d2 ^ d4
	s2 := p2 ^ d1 ^ d3 ^ d4
	s3 := p3 ^ d2 ^ d3 ^ d4

	pos := s1 + 2*s2 + 4*s3 // error position, 0 == no error

	corrected := word
	if pos != 0 {
		corrected[pos-1] ^= 1

		// Re-verify: a genuine single-bit fix makes the syndrome zero.
		rp1, rd1, rd2, rd4 := corrected[0], corrected[2], corrected[4], corrected[6]
		rp2, rd3 := corrected[1], corrected[5]
		rp3 := corrected[3]

		rs1 := rp1 ^ rd1 ^ rd2 ^ rd4
		rs2 := rp2 ^ rd1 ^ rd3 ^ rd4
		rs3 := rp3 ^ rd2 ^ rd3 ^ rd4

		if rs1|rs2|rs3 != 0 {
			return [4]byte{}, codec.NewUncorrectable("hamming.Decode", "double-bit error detected")
		}
	}

	return [4]byte{corrected[2], corrected[4], corrected[5], corrected[6]}, nil
}

// EncodeBytes encodes a nibble-packed byte stream, two Hamming codewords
// per input byte (high nibble then low nibble), into a bit-packed output
// where each 7-bit codeword occupies its own byte's low 7 bits. This is
// the convenience entry point the orchestrator uses when it needs a
// byte-oriented Codec.
func EncodeBytes(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)
	for _, b := range data {
		out = append(out, encodeNibble(b>>4), encodeNibble(b&0x0F))
	}
	return out
}

func encodeNibble(n byte) byte {
	bits := [4]byte{(n >> 3) & 1, (n >> 2) & 1, (n >> 1) & 1, n & 1}
	word := Encode(bits)
	var packed byte
	for _, b := range word {
		packed = (packed << 1) | b
	}
	return packed
}

// DecodeBytes is the inverse of EncodeBytes. Fails at the first
// uncorrectable nibble.
func DecodeBytes(data []byte) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, codec.NewTruncated("hamming.DecodeBytes", "odd number of codewords")
	}
	out := make([]byte, 0, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		hi, err := decodeNibble(data[i])
		if err != nil {
			return nil, err
		}
		lo, err := decodeNibble(data[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, (hi<<4)|lo)
	}
	return out, nil
}

func decodeNibble(packed byte) (byte, error) {
	var word [7]byte
	for i := 0; i < 7; i++ {
		word[6-i] = (packed >> i) & 1
	}
	bits, err := Decode(word)
	if err != nil {
		return 0, err
	}
	return (bits[0] << 3) | (bits[1] << 2) | (bits[2] << 1) | bits[3], nil
}
