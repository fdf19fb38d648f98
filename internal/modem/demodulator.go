package modem

import (
	"fmt"
	"math"

	"github.com/jeongseonghan/soft-modem/internal/dsp"
)

// Demodulator turns OFDM symbols back into bit buffers, estimating and
// removing the channel response from the pilot subcarriers. Instances are
// immutable after construction; each call derives a fresh channel estimate
// and nothing is carried between calls.
type Demodulator struct {
	cfg           Config
	layout        *layout
	constellation *Constellation
	transform     dsp.Transformer
	scale         complex128
}

// NewDemodulator validates cfg and builds a demodulator for it.
func NewDemodulator(cfg Config) (*Demodulator, error) {
	l, transform, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	return &Demodulator{
		cfg:           cfg,
		layout:        l,
		constellation: NewConstellation(cfg.Modulation),
		transform:     transform,
		scale:         complex(1/math.Sqrt(float64(cfg.NumSubcarriers)), 0),
	}, nil
}

// SymbolLength returns the number of time-domain samples per symbol.
func (d *Demodulator) SymbolLength() int {
	return d.cfg.NumSubcarriers + d.cfg.CyclicPrefixLen
}

// DataCapacityBits returns the number of data bits carried by one symbol.
func (d *Demodulator) DataCapacityBits() int {
	return d.layout.DataCount() * d.cfg.Modulation.BitsPerSymbol()
}

// Config returns the frozen configuration.
func (d *Demodulator) Config() Config { return d.cfg }

// Demodulate recovers the data bits from one symbol. len(symbol) must
// equal SymbolLength(), otherwise ErrBufferSize is returned before any
// work is done. The returned buffer has DataCapacityBits() 0/1 bytes.
//
// With pilots configured, each data subcarrier is zero-forced by the gain
// of its nearest pilot (ties to the lower index); a pilot gain of exactly
// zero falls back to the raw received value for the subcarriers holding
// onto it. Without pilots the channel is assumed ideal and equalization is
// skipped.
func (d *Demodulator) Demodulate(symbol []complex128) ([]byte, error) {
	if len(symbol) != d.SymbolLength() {
		return nil, fmt.Errorf("sample buffer length %d, want %d: %w",
			len(symbol), d.SymbolLength(), ErrBufferSize)
	}

	core := stripCyclicPrefix(symbol, d.cfg.CyclicPrefixLen)

	spectrum := make([]complex128, d.cfg.NumSubcarriers)
	d.transform.Forward(spectrum, core)
	for i := range spectrum {
		spectrum[i] *= d.scale
	}

	d.equalize(spectrum)

	return d.layout.extractBits(spectrum, d.constellation), nil
}

// equalize applies single-tap zero-forcing to the data subcarriers in
// place, using a nearest-pilot-hold channel estimate.
func (d *Demodulator) equalize(spectrum []complex128) {
	if d.layout.PilotCount() == 0 {
		return
	}

	gains := make([]complex128, d.layout.PilotCount())
	for i, p := range d.layout.pilotIdx {
		gains[i] = spectrum[p] / d.layout.pilotRef
	}

	for i, sub := range d.layout.dataIdx {
		g := gains[d.layout.nearestPilt[i]]
		if g == 0 {
			// Corrupted pilot; pass the sample through rather than blow
			// up the whole symbol.
			continue
		}
		spectrum[sub] /= g
	}
}
