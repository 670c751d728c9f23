package ccsds

import "hash/crc32"

// crcTable is the IEEE 802.3 polynomial table (reflected, initial value
// 0xFFFFFFFF, final XOR 0xFFFFFFFF). The standard library's hash/crc32
// implements this exact polynomial and reflection convention.
var crcTable = crc32.MakeTable(crc32.IEEE)

// crc32Of computes the CRC-32 over b using the IEEE 802.3 polynomial.
func crc32Of(b []byte) uint32 {
	return crc32.Checksum(b, crcTable)
}
