package modem

import "errors"

var (
	// ErrInvalidConfig is returned by NewModulator/NewDemodulator when the
	// structural parameters cannot produce a usable subcarrier layout.
	ErrInvalidConfig = errors.New("invalid modem configuration")

	// ErrBufferSize is returned when a caller-supplied buffer does not match
	// the length required by the call. It is raised before any work is done
	// and output buffers are left untouched.
	ErrBufferSize = errors.New("buffer size mismatch")

	// ErrBitGroupLength is returned when a bit group handed to a
	// constellation is not exactly BitsPerSymbol long. Correct frame layout
	// never produces this.
	ErrBitGroupLength = errors.New("invalid bit group length")
)
