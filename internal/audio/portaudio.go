package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	// DefaultSampleRate is used when the caller does not pick one.
	DefaultSampleRate = 44100

	// NumChannels is fixed at two: left carries I, right carries Q, so one
	// audio frame is one complex baseband sample.
	NumChannels = 2
)

// IQStream wraps PortAudio streams that move interleaved I/Q float32
// buffers, one OFDM symbol per buffer.
type IQStream struct {
	symbolLen    int
	sampleRate   float64
	inputStream  *portaudio.Stream
	outputStream *portaudio.Stream
	inputBuf     []float32
	outputBuf    []float32
	mu           sync.Mutex
}

// Init initializes PortAudio. Call once before any stream use.
func Init() error {
	return portaudio.Initialize()
}

// Terminate cleans up PortAudio.
func Terminate() error {
	return portaudio.Terminate()
}

// NewIQStream creates a stream handler moving symbolLen complex samples
// per buffer.
func NewIQStream(symbolLen int, sampleRate float64) *IQStream {
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}
	return &IQStream{
		symbolLen:  symbolLen,
		sampleRate: sampleRate,
		inputBuf:   make([]float32, NumChannels*symbolLen),
		outputBuf:  make([]float32, NumChannels*symbolLen),
	}
}

// SymbolLength returns the complex samples per buffer.
func (s *IQStream) SymbolLength() int { return s.symbolLen }

// OpenInput opens the default input stream.
func (s *IQStream) OpenInput() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := portaudio.OpenDefaultStream(
		NumChannels, 0, s.sampleRate, s.symbolLen, s.inputBuf,
	)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	s.inputStream = stream
	return nil
}

// OpenOutput opens the default output stream.
func (s *IQStream) OpenOutput() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := portaudio.OpenDefaultStream(
		0, NumChannels, s.sampleRate, s.symbolLen, s.outputBuf,
	)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	s.outputStream = stream
	return nil
}

// StartInput starts the input stream.
func (s *IQStream) StartInput() error {
	if s.inputStream == nil {
		return fmt.Errorf("input stream not opened")
	}
	return s.inputStream.Start()
}

// StartOutput starts the output stream.
func (s *IQStream) StartOutput() error {
	if s.outputStream == nil {
		return fmt.Errorf("output stream not opened")
	}
	return s.outputStream.Start()
}

// ReadSymbol blocks for one symbol worth of interleaved I/Q samples.
func (s *IQStream) ReadSymbol() ([]float32, error) {
	if s.inputStream == nil {
		return nil, fmt.Errorf("input stream not opened")
	}
	if err := s.inputStream.Read(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	out := make([]float32, len(s.inputBuf))
	copy(out, s.inputBuf)
	return out, nil
}

// WriteSymbol plays one symbol worth of interleaved I/Q samples.
func (s *IQStream) WriteSymbol(iq []float32) error {
	if s.outputStream == nil {
		return fmt.Errorf("output stream not opened")
	}
	if len(iq) != len(s.outputBuf) {
		return fmt.Errorf("buffer length %d, want %d", len(iq), len(s.outputBuf))
	}
	copy(s.outputBuf, iq)
	return s.outputStream.Write()
}

// WriteAll plays a larger buffer symbol by symbol, zero padding the tail.
func (s *IQStream) WriteAll(iq []float32) error {
	chunk := NumChannels * s.symbolLen
	for i := 0; i < len(iq); i += chunk {
		end := i + chunk
		if end > len(iq) {
			padded := make([]float32, chunk)
			copy(padded, iq[i:])
			if err := s.WriteSymbol(padded); err != nil {
				return err
			}
			continue
		}
		if err := s.WriteSymbol(iq[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// Close stops and closes any open streams.
func (s *IQStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inputStream != nil {
		s.inputStream.Stop()
		s.inputStream.Close()
		s.inputStream = nil
	}
	if s.outputStream != nil {
		s.outputStream.Stop()
		s.outputStream.Close()
		s.outputStream = nil
	}
}
