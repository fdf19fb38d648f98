package fec

import (
	"encoding/binary"
	"hash/crc32"
)

// CRC32 computes the CRC-32 checksum using the IEEE polynomial.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// AppendCRC32 appends the 4-byte big-endian CRC-32 to the data.
func AppendCRC32(data []byte) []byte {
	result := make([]byte, len(data)+4)
	copy(result, data)
	binary.BigEndian.PutUint32(result[len(data):], CRC32(data))
	return result
}

// VerifyCRC32 checks the trailing CRC-32 and returns the data without it
// along with the verification result.
func VerifyCRC32(dataWithCRC []byte) ([]byte, bool) {
	if len(dataWithCRC) < 4 {
		return nil, false
	}

	data := dataWithCRC[:len(dataWithCRC)-4]
	expected := binary.BigEndian.Uint32(dataWithCRC[len(dataWithCRC)-4:])

	return data, CRC32(data) == expected
}
