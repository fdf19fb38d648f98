package dsp

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Transformer converts fixed-length complex vectors between time and
// frequency domain. Forward is the unnormalized DFT; Inverse includes the
// 1/N factor, so Inverse(Forward(x)) reproduces x up to rounding.
//
// Implementations must be length-preserving over vectors of Len() samples.
// A Transformer shared between goroutines must document its own
// thread-safety; callers should not assume reentrancy.
type Transformer interface {
	Len() int
	Forward(dst, src []complex128)
	Inverse(dst, src []complex128)
}

// FFT is the default Transformer, backed by gonum's FFTPACK-derived
// complex FFT. The underlying plan keeps reusable scratch state, so calls
// are serialized with a mutex; a single FFT instance is safe to share
// across goroutines.
type FFT struct {
	n   int
	mu  sync.Mutex
	fft *fourier.CmplxFFT
}

// NewFFT plans a transform of the given length. Any n >= 1 is supported.
func NewFFT(n int) *FFT {
	return &FFT{
		n:   n,
		fft: fourier.NewCmplxFFT(n),
	}
}

// Len returns the transform length.
func (f *FFT) Len() int { return f.n }

// Forward computes the DFT of src into dst. dst and src must both have
// length Len() and must not alias.
func (f *FFT) Forward(dst, src []complex128) {
	f.check(dst, src)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fft.Coefficients(dst, src)
}

// Inverse computes the inverse DFT of src into dst, scaled by 1/N.
// dst and src must both have length Len() and must not alias.
func (f *FFT) Inverse(dst, src []complex128) {
	f.check(dst, src)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fft.Sequence(dst, src)
	scale := complex(1/float64(f.n), 0)
	for i := range dst {
		dst[i] *= scale
	}
}

func (f *FFT) check(dst, src []complex128) {
	if len(dst) != f.n || len(src) != f.n {
		panic(fmt.Sprintf("dsp: vector length %d/%d, transform planned for %d",
			len(dst), len(src), f.n))
	}
}
