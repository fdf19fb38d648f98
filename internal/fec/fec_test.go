package fec

import (
	"bytes"
	"testing"
)

func TestCRC32_AppendVerify(t *testing.T) {
	data := []byte("frame payload under test")

	withCRC := AppendCRC32(data)
	if len(withCRC) != len(data)+4 {
		t.Fatalf("expected length %d, got %d", len(data)+4, len(withCRC))
	}

	recovered, valid := VerifyCRC32(withCRC)
	if !valid {
		t.Error("CRC verification failed for valid data")
	}
	if !bytes.Equal(recovered, data) {
		t.Error("recovered data mismatch")
	}

	withCRC[5] ^= 0xFF
	if _, valid = VerifyCRC32(withCRC); valid {
		t.Error("CRC verification should fail for corrupted data")
	}

	if _, valid = VerifyCRC32([]byte{1, 2}); valid {
		t.Error("CRC verification should fail for truncated input")
	}
}

func TestCodec_EncodeDecode(t *testing.T) {
	codec, err := NewCodec()
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	data := []byte("This payload should survive Reed-Solomon encoding and " +
		"decoding without modification.")

	encoded, err := codec.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) != codec.EncodedSize(len(data)) {
		t.Errorf("encoded length %d, want %d", len(encoded), codec.EncodedSize(len(data)))
	}

	decoded, err := codec.Decode(encoded, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded[:len(data)], data) {
		t.Error("decoded payload differs from original")
	}
}

func TestCodec_RecoversErasures(t *testing.T) {
	codec, err := NewCodecCustom(10, 4)
	if err != nil {
		t.Fatalf("NewCodecCustom: %v", err)
	}

	data := []byte("ten bytes!")
	encoded, err := codec.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Wipe two shards and declare them as erasures. With 4 parity shards
	// the codec must reconstruct them.
	shardSize := len(encoded) / (codec.DataShards() + codec.ParityShards())
	corrupted := make([]byte, len(encoded))
	copy(corrupted, encoded)
	erasures := []int{2, 5}
	for _, idx := range erasures {
		for i := 0; i < shardSize; i++ {
			corrupted[idx*shardSize+i] = 0
		}
	}

	decoded, err := codec.Decode(corrupted, erasures)
	if err != nil {
		t.Fatalf("Decode with erasures: %v", err)
	}
	if !bytes.Equal(decoded[:len(data)], data) {
		t.Error("erasure recovery produced wrong payload")
	}
}

func TestCodec_RejectsBadLength(t *testing.T) {
	codec, err := NewCodecCustom(10, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := codec.Decode(make([]byte, 13), nil); err == nil {
		t.Error("expected error for length not divisible by shard count")
	}
}
