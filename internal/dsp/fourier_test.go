package dsp

import (
	"math"
	"math/rand"
	"testing"
)

func TestFFT_RoundTrip(t *testing.T) {
	for _, n := range []int{4, 8, 64, 100, 128} {
		fft := NewFFT(n)
		rng := rand.New(rand.NewSource(1))

		src := make([]complex128, n)
		for i := range src {
			src[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
		}

		freq := make([]complex128, n)
		back := make([]complex128, n)
		fft.Forward(freq, src)
		fft.Inverse(back, freq)

		for i := range src {
			if d := cabs(back[i] - src[i]); d > 1e-9 {
				t.Fatalf("n=%d sample %d: round trip error %g", n, i, d)
			}
		}
	}
}

func TestFFT_ImpulseIsFlat(t *testing.T) {
	const n = 16
	fft := NewFFT(n)

	src := make([]complex128, n)
	src[0] = 1

	freq := make([]complex128, n)
	fft.Forward(freq, src)

	// DFT of a unit impulse is 1 in every bin.
	for i, v := range freq {
		if d := cabs(v - 1); d > 1e-12 {
			t.Errorf("bin %d: got %v, want 1", i, v)
		}
	}
}

func TestFFT_SingleTone(t *testing.T) {
	const n = 32
	fft := NewFFT(n)

	// Spectrum with energy only in bin 3 must come back as a complex
	// exponential at that frequency.
	freq := make([]complex128, n)
	freq[3] = complex(float64(n), 0)

	td := make([]complex128, n)
	fft.Inverse(td, freq)

	for i := range td {
		phase := 2 * math.Pi * 3 * float64(i) / n
		want := complex(math.Cos(phase), math.Sin(phase))
		if d := cabs(td[i] - want); d > 1e-9 {
			t.Fatalf("sample %d: got %v, want %v", i, td[i], want)
		}
	}
}

func TestFFT_LengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched vector length")
		}
	}()
	fft := NewFFT(8)
	fft.Forward(make([]complex128, 8), make([]complex128, 7))
}

func cabs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
