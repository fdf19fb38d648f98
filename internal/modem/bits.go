package modem

// BytesToBits unpacks data into one 0/1 byte per bit, MSB first.
func BytesToBits(data []byte) []byte {
	bits := make([]byte, len(data)*8)
	for i, b := range data {
		for j := 7; j >= 0; j-- {
			bits[i*8+(7-j)] = (b >> uint(j)) & 1
		}
	}
	return bits
}

// BitsToBytes packs 0/1 bytes back into bytes, MSB first. Trailing bits
// that do not fill a byte are dropped.
func BitsToBytes(bits []byte) []byte {
	numBytes := len(bits) / 8
	data := make([]byte, numBytes)
	for i := 0; i < numBytes; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			b = (b << 1) | (bits[i*8+j] & 1)
		}
		data[i] = b
	}
	return data
}

// SamplesToFloat32 flattens complex baseband samples into interleaved
// I/Q float32 pairs, the format the audio and streaming layers carry.
func SamplesToFloat32(samples []complex128) []float32 {
	out := make([]float32, 2*len(samples))
	for i, s := range samples {
		out[2*i] = float32(real(s))
		out[2*i+1] = float32(imag(s))
	}
	return out
}

// Float32ToSamples rebuilds complex samples from interleaved I/Q float32
// pairs. A trailing unpaired value is dropped.
func Float32ToSamples(iq []float32) []complex128 {
	out := make([]complex128, len(iq)/2)
	for i := range out {
		out[i] = complex(float64(iq[2*i]), float64(iq[2*i+1]))
	}
	return out
}
