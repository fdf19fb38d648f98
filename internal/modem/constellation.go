package modem

import (
	"fmt"
	"math"
)

// Modulation represents a QAM modulation scheme.
type Modulation int

const (
	ModQPSK   Modulation = 2 // 2 bits per symbol, 4 points
	Mod16QAM  Modulation = 4 // 4 bits per symbol
	Mod64QAM  Modulation = 6 // 6 bits per symbol
	Mod256QAM Modulation = 8 // 8 bits per symbol
)

// BitsPerSymbol returns the number of bits per constellation symbol.
func (m Modulation) BitsPerSymbol() int {
	return int(m)
}

// Order returns the number of constellation points.
func (m Modulation) Order() int {
	return 1 << uint(m)
}

// Valid reports whether m is a supported modulation.
func (m Modulation) Valid() bool {
	switch m {
	case ModQPSK, Mod16QAM, Mod64QAM, Mod256QAM:
		return true
	}
	return false
}

// String returns the modulation name.
func (m Modulation) String() string {
	switch m {
	case ModQPSK:
		return "QPSK"
	case Mod16QAM:
		return "16-QAM"
	case Mod64QAM:
		return "64-QAM"
	case Mod256QAM:
		return "256-QAM"
	default:
		return "Unknown"
	}
}

// Constellation holds the QAM constellation points for one modulation.
// The point table is built once and never mutated, so a Constellation is
// safe for concurrent use.
type Constellation struct {
	Mod    Modulation
	points []complex128
	scale  float64 // normalization factor for unit average power
}

// NewConstellation creates a new constellation for the given modulation.
func NewConstellation(mod Modulation) *Constellation {
	c := &Constellation{Mod: mod}
	side := 1 << uint(mod.BitsPerSymbol()/2) // 2, 4, 8, 16
	c.generateQAM(side)
	c.normalize()
	return c
}

func (c *Constellation) generateQAM(side int) {
	// Square QAM constellation with per-axis Gray coding. The point index
	// is row*side+col; the point position uses the Gray code of each
	// coordinate so that adjacent points differ in one bit per axis.
	size := side * side
	c.points = make([]complex128, size)

	for i := 0; i < size; i++ {
		row := i / side
		col := i % side

		grayRow := row ^ (row >> 1)
		grayCol := col ^ (col >> 1)

		x := float64(2*grayCol - side + 1) // odd values: -3, -1, 1, 3 for side 4
		y := float64(2*grayRow - side + 1)

		c.points[i] = complex(x, y)
	}
}

func (c *Constellation) normalize() {
	var avgPower float64
	for _, p := range c.points {
		avgPower += real(p)*real(p) + imag(p)*imag(p)
	}
	avgPower /= float64(len(c.points))

	c.scale = 1.0 / math.Sqrt(avgPower)
	for i := range c.points {
		c.points[i] = complex(real(c.points[i])*c.scale, imag(c.points[i])*c.scale)
	}
}

// Map maps a bit group of exactly BitsPerSymbol bits (0/1 bytes) to a
// constellation point.
func (c *Constellation) Map(bits []byte) (complex128, error) {
	if len(bits) != c.Mod.BitsPerSymbol() {
		return 0, fmt.Errorf("bit group length %d, want %d: %w",
			len(bits), c.Mod.BitsPerSymbol(), ErrBitGroupLength)
	}
	return c.points[bitsToIndex(bits)], nil
}

// Demap finds the closest constellation point and returns its bits.
// Exact ties go to the lowest point index.
func (c *Constellation) Demap(symbol complex128) []byte {
	minDist := math.MaxFloat64
	minIdx := 0

	for i, p := range c.points {
		d := real(symbol-p)*real(symbol-p) + imag(symbol-p)*imag(symbol-p)
		if d < minDist {
			minDist = d
			minIdx = i
		}
	}

	return indexToBits(minIdx, c.Mod.BitsPerSymbol())
}

func bitsToIndex(bits []byte) int {
	idx := 0
	for _, b := range bits {
		idx = (idx << 1) | int(b&1)
	}
	return idx
}

func indexToBits(idx, numBits int) []byte {
	bits := make([]byte, numBits)
	for i := numBits - 1; i >= 0; i-- {
		bits[i] = byte(idx & 1)
		idx >>= 1
	}
	return bits
}
