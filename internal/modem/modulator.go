package modem

import (
	"fmt"
	"math"

	"github.com/jeongseonghan/soft-modem/internal/dsp"
)

// Config describes one OFDM symbol format. It is validated and frozen when
// a Modulator or Demodulator is constructed; the zero value is not usable.
type Config struct {
	// NumSubcarriers is the transform length. Must be at least 4.
	NumSubcarriers int

	// CyclicPrefixLen is the number of tail samples copied in front of each
	// symbol. Must satisfy 0 <= CyclicPrefixLen < NumSubcarriers.
	CyclicPrefixLen int

	// PilotEvery places a pilot on every PilotEvery-th non-guard subcarrier
	// position, starting with the first. 0 disables pilots (and with them,
	// channel estimation on receive).
	PilotEvery int

	// Modulation selects the constellation for the data subcarriers.
	Modulation Modulation

	// Transform optionally supplies the Fourier transform. When nil, a
	// dsp.NewFFT(NumSubcarriers) is constructed. A shared Transform must be
	// safe for concurrent use if the modem instance is.
	Transform dsp.Transformer

	// PilotReference overrides the pilot symbol. Zero means
	// DefaultPilotReference. Both ends of a link must agree on it.
	PilotReference complex128
}

func (cfg Config) validate() (*layout, dsp.Transformer, error) {
	if cfg.NumSubcarriers < 4 {
		return nil, nil, fmt.Errorf("subcarrier count %d, need at least 4: %w",
			cfg.NumSubcarriers, ErrInvalidConfig)
	}
	if cfg.CyclicPrefixLen < 0 || cfg.CyclicPrefixLen >= cfg.NumSubcarriers {
		return nil, nil, fmt.Errorf("cyclic prefix length %d outside [0, %d): %w",
			cfg.CyclicPrefixLen, cfg.NumSubcarriers, ErrInvalidConfig)
	}
	if cfg.PilotEvery < 0 {
		return nil, nil, fmt.Errorf("pilot spacing %d is negative: %w",
			cfg.PilotEvery, ErrInvalidConfig)
	}
	if !cfg.Modulation.Valid() {
		return nil, nil, fmt.Errorf("unsupported modulation %d: %w",
			int(cfg.Modulation), ErrInvalidConfig)
	}

	ref := cfg.PilotReference
	if ref == 0 {
		ref = DefaultPilotReference
	}

	l := newLayout(cfg.NumSubcarriers, cfg.PilotEvery, ref)
	if l.DataCount() == 0 {
		return nil, nil, fmt.Errorf("layout leaves no data subcarriers: %w",
			ErrInvalidConfig)
	}

	transform := cfg.Transform
	if transform == nil {
		transform = dsp.NewFFT(cfg.NumSubcarriers)
	} else if transform.Len() != cfg.NumSubcarriers {
		return nil, nil, fmt.Errorf("transform length %d, want %d: %w",
			transform.Len(), cfg.NumSubcarriers, ErrInvalidConfig)
	}

	return l, transform, nil
}

// Modulator turns bit buffers into OFDM symbols. Instances are immutable
// after construction and safe for concurrent use on disjoint buffers,
// provided the transform they hold is.
type Modulator struct {
	cfg           Config
	layout        *layout
	constellation *Constellation
	transform     dsp.Transformer
	scale         complex128
}

// NewModulator validates cfg and builds a modulator for it.
func NewModulator(cfg Config) (*Modulator, error) {
	l, transform, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	return &Modulator{
		cfg:           cfg,
		layout:        l,
		constellation: NewConstellation(cfg.Modulation),
		transform:     transform,
		scale:         complex(math.Sqrt(float64(cfg.NumSubcarriers)), 0),
	}, nil
}

// SymbolLength returns the number of time-domain samples per symbol,
// NumSubcarriers + CyclicPrefixLen.
func (m *Modulator) SymbolLength() int {
	return m.cfg.NumSubcarriers + m.cfg.CyclicPrefixLen
}

// DataCapacityBits returns the number of data bits carried by one symbol.
func (m *Modulator) DataCapacityBits() int {
	return m.layout.DataCount() * m.cfg.Modulation.BitsPerSymbol()
}

// Config returns the frozen configuration.
func (m *Modulator) Config() Config { return m.cfg }

// Modulate maps bits onto the subcarriers, transforms to time domain and
// writes the cyclic-prefixed symbol into dst. len(bits) must equal
// DataCapacityBits() and len(dst) must equal SymbolLength(); otherwise
// ErrBufferSize is returned and dst is left untouched. Identical inputs
// always produce identical output.
func (m *Modulator) Modulate(bits []byte, dst []complex128) error {
	if len(bits) != m.DataCapacityBits() {
		return fmt.Errorf("bit buffer length %d, want %d: %w",
			len(bits), m.DataCapacityBits(), ErrBufferSize)
	}
	if len(dst) != m.SymbolLength() {
		return fmt.Errorf("sample buffer length %d, want %d: %w",
			len(dst), m.SymbolLength(), ErrBufferSize)
	}

	n := m.cfg.NumSubcarriers
	spectrum := make([]complex128, n)
	if err := m.layout.assemble(bits, m.constellation, spectrum); err != nil {
		return err
	}

	core := make([]complex128, n)
	m.transform.Inverse(core, spectrum)

	// Symmetric energy normalization: the inverse transform carries 1/N,
	// spreading sqrt(N) onto each side keeps average sample power at the
	// constellation's unit power.
	for i := range core {
		core[i] *= m.scale
	}

	prependCyclicPrefix(dst, core, m.cfg.CyclicPrefixLen)
	return nil
}
