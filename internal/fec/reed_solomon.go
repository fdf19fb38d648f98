package fec

import (
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// Block coding for link frames. The modem core hands bits through
// untouched, so a burst of subcarrier errors surfaces as corrupted frame
// bytes; Reed-Solomon parity lets the link layer repair them before the
// CRC check runs.

const (
	DefaultDataShards   = 223
	DefaultParityShards = 32
)

// Codec wraps a Reed-Solomon encoder for link frames.
type Codec struct {
	enc        reedsolomon.Encoder
	dataShards int
	parShards  int
}

// NewCodec creates a codec with the default RS(255,223) geometry.
func NewCodec() (*Codec, error) {
	return NewCodecCustom(DefaultDataShards, DefaultParityShards)
}

// NewCodecCustom creates a codec with custom shard counts.
func NewCodecCustom(dataShards, parityShards int) (*Codec, error) {
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, fmt.Errorf("create reed-solomon encoder: %w", err)
	}
	return &Codec{
		enc:        enc,
		dataShards: dataShards,
		parShards:  parityShards,
	}, nil
}

// Encode splits data across the data shards, computes parity and returns
// the concatenated shards. The output length is a multiple of the total
// shard count; data short of a shard boundary is zero padded.
func (c *Codec) Encode(data []byte) ([]byte, error) {
	shards := c.split(data)

	if err := c.enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	total := c.dataShards + c.parShards
	out := make([]byte, 0, total*len(shards[0]))
	for _, s := range shards {
		out = append(out, s...)
	}
	return out, nil
}

// Decode verifies an encoded buffer and returns the data portion,
// reconstructing it from parity when shards were lost. Erasures lists
// shard indices known to be bad; it may be nil.
func (c *Codec) Decode(encoded []byte, erasures []int) ([]byte, error) {
	total := c.dataShards + c.parShards
	if len(encoded)%total != 0 {
		return nil, fmt.Errorf("encoded length %d not divisible by %d shards",
			len(encoded), total)
	}
	shardSize := len(encoded) / total

	shards := make([][]byte, total)
	for i := range shards {
		shards[i] = make([]byte, shardSize)
		copy(shards[i], encoded[i*shardSize:(i+1)*shardSize])
	}
	for _, idx := range erasures {
		if idx >= 0 && idx < total {
			shards[idx] = nil
		}
	}

	if err := c.enc.Reconstruct(shards); err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}
	ok, err := c.enc.Verify(shards)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("verification failed: data corrupted beyond repair")
	}

	out := make([]byte, 0, c.dataShards*shardSize)
	for i := 0; i < c.dataShards; i++ {
		out = append(out, shards[i]...)
	}
	return out, nil
}

func (c *Codec) split(data []byte) [][]byte {
	total := c.dataShards + c.parShards
	shardSize := (len(data) + c.dataShards - 1) / c.dataShards
	if shardSize == 0 {
		shardSize = 1
	}

	shards := make([][]byte, total)
	for i := range shards {
		shards[i] = make([]byte, shardSize)
		if i < c.dataShards {
			start := i * shardSize
			if start < len(data) {
				end := min(start+shardSize, len(data))
				copy(shards[i], data[start:end])
			}
		}
	}
	return shards
}

// DataShards returns the number of data shards.
func (c *Codec) DataShards() int { return c.dataShards }

// ParityShards returns the number of parity shards.
func (c *Codec) ParityShards() int { return c.parShards }

// EncodedSize returns the encoded length for a payload of n bytes.
func (c *Codec) EncodedSize(n int) int {
	shardSize := (n + c.dataShards - 1) / c.dataShards
	if shardSize == 0 {
		shardSize = 1
	}
	return (c.dataShards + c.parShards) * shardSize
}
