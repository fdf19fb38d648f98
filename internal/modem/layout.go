package modem

import "fmt"

// Role classifies a subcarrier within the OFDM spectrum.
type Role uint8

const (
	RoleGuard Role = iota // carries no energy
	RolePilot             // carries the pilot reference value
	RoleData              // carries one constellation point
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleGuard:
		return "guard"
	case RolePilot:
		return "pilot"
	case RoleData:
		return "data"
	default:
		return "unknown"
	}
}

// DefaultPilotReference is the pilot symbol used when the configuration
// does not override it (BPSK +1, as in common OFDM systems).
const DefaultPilotReference = complex(1, 0)

// layout is the precomputed subcarrier role table for one configuration.
// Index 0 and index N-1 are always guards; among the remaining indices,
// every PilotEvery-th position (counting from the first non-guard index,
// which is itself a pilot) carries the reference value, the rest carry
// data. The table is built once at construction and shared read-only
// between calls.
type layout struct {
	roles       []Role
	dataIdx     []int // ascending subcarrier indices with RoleData
	pilotIdx    []int // ascending subcarrier indices with RolePilot
	nearestPilt []int // per entry of dataIdx: index into pilotIdx, or -1
	pilotRef    complex128
}

func newLayout(numSubcarriers, pilotEvery int, pilotRef complex128) *layout {
	l := &layout{
		roles:    make([]Role, numSubcarriers),
		pilotRef: pilotRef,
	}

	l.roles[0] = RoleGuard
	l.roles[numSubcarriers-1] = RoleGuard

	pos := 0
	for i := 1; i < numSubcarriers-1; i++ {
		if pilotEvery > 0 && pos%pilotEvery == 0 {
			l.roles[i] = RolePilot
			l.pilotIdx = append(l.pilotIdx, i)
		} else {
			l.roles[i] = RoleData
			l.dataIdx = append(l.dataIdx, i)
		}
		pos++
	}

	l.nearestPilt = make([]int, len(l.dataIdx))
	for i, d := range l.dataIdx {
		l.nearestPilt[i] = nearestPilot(l.pilotIdx, d)
	}

	return l
}

// nearestPilot returns the position in pilots of the pilot subcarrier
// closest to data subcarrier d, ties going to the lower index. Returns -1
// when there are no pilots.
func nearestPilot(pilots []int, d int) int {
	best := -1
	bestDist := 0
	for i, p := range pilots {
		dist := p - d
		if dist < 0 {
			dist = -dist
		}
		if best == -1 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

// DataCount returns the number of data subcarriers.
func (l *layout) DataCount() int { return len(l.dataIdx) }

// PilotCount returns the number of pilot subcarriers.
func (l *layout) PilotCount() int { return len(l.pilotIdx) }

// assemble fills spectrum from a bit buffer: data subcarriers get mapped
// constellation points in ascending index order, pilots get the reference
// value, guards stay zero. len(bits) must equal DataCount()*BitsPerSymbol.
func (l *layout) assemble(bits []byte, c *Constellation, spectrum []complex128) error {
	bps := c.Mod.BitsPerSymbol()
	if len(bits) != l.DataCount()*bps {
		return fmt.Errorf("bit buffer length %d, want %d: %w",
			len(bits), l.DataCount()*bps, ErrBufferSize)
	}
	if len(spectrum) != len(l.roles) {
		return fmt.Errorf("spectrum length %d, want %d: %w",
			len(spectrum), len(l.roles), ErrBufferSize)
	}

	for i := range spectrum {
		spectrum[i] = 0
	}
	for _, p := range l.pilotIdx {
		spectrum[p] = l.pilotRef
	}
	for i, d := range l.dataIdx {
		point, err := c.Map(bits[i*bps : (i+1)*bps])
		if err != nil {
			return err
		}
		spectrum[d] = point
	}
	return nil
}

// extractBits demaps the data subcarriers of spectrum in ascending index
// order and returns the concatenated bit groups.
func (l *layout) extractBits(spectrum []complex128, c *Constellation) []byte {
	bps := c.Mod.BitsPerSymbol()
	bits := make([]byte, 0, l.DataCount()*bps)
	for _, d := range l.dataIdx {
		bits = append(bits, c.Demap(spectrum[d])...)
	}
	return bits
}
