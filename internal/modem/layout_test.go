package modem

import "testing"

func TestLayout_EdgesAreGuards(t *testing.T) {
	for _, n := range []int{4, 16, 64, 100} {
		l := newLayout(n, 4, DefaultPilotReference)
		if l.roles[0] != RoleGuard || l.roles[n-1] != RoleGuard {
			t.Errorf("n=%d: edge subcarriers not guards: %s/%s",
				n, l.roles[0], l.roles[n-1])
		}
	}
}

func TestLayout_PilotSpacing(t *testing.T) {
	// 64 subcarriers, guards at 0 and 63, pilots on every 4th of the 62
	// remaining positions: 16 pilots, 46 data.
	l := newLayout(64, 4, DefaultPilotReference)

	if got := l.PilotCount(); got != 16 {
		t.Errorf("pilot count %d, want 16", got)
	}
	if got := l.DataCount(); got != 46 {
		t.Errorf("data count %d, want 46", got)
	}

	// First non-guard position is a pilot, then every 4th.
	for i, p := range l.pilotIdx {
		if want := 1 + 4*i; p != want {
			t.Errorf("pilot %d at subcarrier %d, want %d", i, p, want)
		}
	}
}

func TestLayout_NoPilots(t *testing.T) {
	l := newLayout(16, 0, DefaultPilotReference)

	if l.PilotCount() != 0 {
		t.Errorf("pilot count %d, want 0", l.PilotCount())
	}
	if l.DataCount() != 14 {
		t.Errorf("data count %d, want 14", l.DataCount())
	}
}

func TestLayout_NearestPilotTieGoesLow(t *testing.T) {
	// n=8, pilots every 2nd: pilots at 1,3,5 and data at 2,4,6. Data
	// subcarrier 2 is one step from both pilot 1 and pilot 3; the tie must
	// resolve to the lower pilot.
	l := newLayout(8, 2, DefaultPilotReference)

	if len(l.pilotIdx) != 3 || l.pilotIdx[0] != 1 || l.pilotIdx[1] != 3 || l.pilotIdx[2] != 5 {
		t.Fatalf("unexpected pilot layout: %v", l.pilotIdx)
	}
	if len(l.dataIdx) != 3 {
		t.Fatalf("unexpected data layout: %v", l.dataIdx)
	}

	if l.nearestPilt[0] != 0 {
		t.Errorf("data subcarrier 2: nearest pilot %d, want 0 (tie to lower)",
			l.nearestPilt[0])
	}
	// Data subcarrier 6 is closest to pilot 5.
	if l.nearestPilt[2] != 2 {
		t.Errorf("data subcarrier 6: nearest pilot %d, want 2", l.nearestPilt[2])
	}
}

func TestLayout_AssembleGuardsStayZero(t *testing.T) {
	const n = 64
	l := newLayout(n, 4, DefaultPilotReference)
	c := NewConstellation(Mod16QAM)

	bits := make([]byte, l.DataCount()*4)
	for i := range bits {
		bits[i] = 1 // worst case: all ones, maximum energy
	}

	spectrum := make([]complex128, n)
	if err := l.assemble(bits, c, spectrum); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if spectrum[0] != 0 || spectrum[n-1] != 0 {
		t.Errorf("guard subcarriers carry energy: %v / %v", spectrum[0], spectrum[n-1])
	}
	for _, p := range l.pilotIdx {
		if spectrum[p] != DefaultPilotReference {
			t.Errorf("pilot %d: %v, want %v", p, spectrum[p], DefaultPilotReference)
		}
	}
}

func TestLayout_AssembleExtractRoundTrip(t *testing.T) {
	const n = 32
	l := newLayout(n, 5, DefaultPilotReference)
	c := NewConstellation(Mod64QAM)

	bits := make([]byte, l.DataCount()*6)
	for i := range bits {
		bits[i] = byte((i * 5) % 2)
	}

	spectrum := make([]complex128, n)
	if err := l.assemble(bits, c, spectrum); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	recovered := l.extractBits(spectrum, c)
	if len(recovered) != len(bits) {
		t.Fatalf("extracted %d bits, want %d", len(recovered), len(bits))
	}
	for i := range bits {
		if bits[i] != recovered[i] {
			t.Fatalf("bit %d: %d != %d", i, recovered[i], bits[i])
		}
	}
}
