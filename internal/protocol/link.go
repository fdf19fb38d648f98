package protocol

import (
	"fmt"

	"github.com/jeongseonghan/soft-modem/internal/modem"
)

// Link carries byte buffers over a run of OFDM symbols. It chunks the
// unpacked bits into DataCapacityBits-sized groups, padding the tail of
// the last symbol with zeros, and runs each group through a
// modulator/demodulator pair. Framing, ACKs and error correction happen
// above it; the link itself only moves bytes.
type Link struct {
	mod *modem.Modulator
	dem *modem.Demodulator
}

// NewLink builds the modulator/demodulator pair for the configuration.
func NewLink(cfg modem.Config) (*Link, error) {
	mod, err := modem.NewModulator(cfg)
	if err != nil {
		return nil, fmt.Errorf("create modulator: %w", err)
	}
	dem, err := modem.NewDemodulator(cfg)
	if err != nil {
		return nil, fmt.Errorf("create demodulator: %w", err)
	}
	return &Link{mod: mod, dem: dem}, nil
}

// SymbolLength returns the time-domain samples per symbol.
func (l *Link) SymbolLength() int { return l.mod.SymbolLength() }

// DataCapacityBits returns the data bits carried by one symbol.
func (l *Link) DataCapacityBits() int { return l.mod.DataCapacityBits() }

// SymbolsFor returns how many symbols a payload of n bytes occupies.
func (l *Link) SymbolsFor(n int) int {
	capacity := l.mod.DataCapacityBits()
	return (n*8 + capacity - 1) / capacity
}

// Send modulates data into a sample buffer of SymbolsFor(len(data))
// symbols.
func (l *Link) Send(data []byte) ([]complex128, error) {
	bits := modem.BytesToBits(data)
	capacity := l.mod.DataCapacityBits()

	numSymbols := l.SymbolsFor(len(data))
	if numSymbols == 0 {
		numSymbols = 1
	}
	padded := make([]byte, numSymbols*capacity)
	copy(padded, bits)

	symLen := l.mod.SymbolLength()
	samples := make([]complex128, numSymbols*symLen)
	for i := 0; i < numSymbols; i++ {
		err := l.mod.Modulate(
			padded[i*capacity:(i+1)*capacity],
			samples[i*symLen:(i+1)*symLen],
		)
		if err != nil {
			return nil, fmt.Errorf("modulate symbol %d: %w", i, err)
		}
	}
	return samples, nil
}

// Receive demodulates a whole number of symbols back into bytes. When
// expectedBytes is positive the result is truncated to that length,
// dropping the padding of the last symbol; 0 keeps everything.
func (l *Link) Receive(samples []complex128, expectedBytes int) ([]byte, error) {
	symLen := l.dem.SymbolLength()
	if len(samples) == 0 || len(samples)%symLen != 0 {
		return nil, fmt.Errorf("sample count %d is not a whole number of %d-sample symbols",
			len(samples), symLen)
	}

	var bits []byte
	for i := 0; i < len(samples); i += symLen {
		symbolBits, err := l.dem.Demodulate(samples[i : i+symLen])
		if err != nil {
			return nil, fmt.Errorf("demodulate symbol %d: %w", i/symLen, err)
		}
		bits = append(bits, symbolBits...)
	}

	data := modem.BitsToBytes(bits)
	if expectedBytes > 0 && expectedBytes < len(data) {
		data = data[:expectedBytes]
	}
	return data, nil
}
