package bch

// gf16 arithmetic, built the same way internal/gf256 builds GF(256): one
// exp/log table, constructed once at init, primitive polynomial
// x^4+x+1 (0b10011) and primitive element alpha = 2. BCH(15,7,2)'s roots
// live in this field since 15 == 2^4-1.

const gf16Prime = 0x13
const gf16Size = 16

var gf16Exp [2 * gf16Size]byte
var gf16Log [gf16Size]int

func init() {
	x := 1
	for i := 0; i < gf16Size-1; i++ {
		gf16Exp[i] = byte(x)
		gf16Log[x] = i
		x <<= 1
		if x&gf16Size != 0 {
			x ^= gf16Prime
		}
	}
	for i := gf16Size - 1; i < 2*gf16Size; i++ {
		gf16Exp[i] = gf16Exp[i-(gf16Size-1)]
	}
	gf16Log[0] = -1
}

func gf16Add(a, b byte) byte { return a ^ b }

func gf16Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gf16Exp[int(gf16Log[a])+int(gf16Log[b])]
}

func gf16Div(a, b byte) byte {
	if b == 0 {
		panic("bch: division by zero")
	}
	if a == 0 {
		return 0
	}
	diff := int(gf16Log[a]) - int(gf16Log[b])
	if diff < 0 {
		diff += gf16Size - 1
	}
	return gf16Exp[diff]
}

// gf16ExpOf returns alpha^n, reducing n modulo the table period.
func gf16ExpOf(n int) byte {
	m := n % (gf16Size - 1)
	if m < 0 {
		m += gf16Size - 1
	}
	return gf16Exp[m]
}
