package protocol

import (
	"bytes"
	"testing"

	"github.com/jeongseonghan/soft-modem/internal/fec"
)

func TestFrame_EncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		frame *Frame
	}{
		{"DATA frame", NewDataFrame(42, []byte("Hello, World!"))},
		{"ACK frame", NewACKFrame(42)},
		{"NACK frame", NewNACKFrame(7)},
		{"PING frame", NewPingFrame()},
		{"PONG frame", NewPongFrame()},
		{"CONTROL frame", NewControlFrame([]byte{0x01, 0x02})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := tt.frame.Encode()
			decoded, err := DecodeFrame(encoded)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}

			if decoded.Type != tt.frame.Type {
				t.Errorf("Type: 0x%02x != 0x%02x", decoded.Type, tt.frame.Type)
			}
			if decoded.SeqNum != tt.frame.SeqNum {
				t.Errorf("SeqNum: %d != %d", decoded.SeqNum, tt.frame.SeqNum)
			}
			if decoded.PayloadLen != tt.frame.PayloadLen {
				t.Errorf("PayloadLen: %d != %d", decoded.PayloadLen, tt.frame.PayloadLen)
			}
			if tt.frame.PayloadLen > 0 && !bytes.Equal(decoded.Payload, tt.frame.Payload) {
				t.Error("payload mismatch")
			}
		})
	}
}

func TestFrame_CRCDetectsCorruption(t *testing.T) {
	frame := NewDataFrame(1, []byte("Integrity test"))
	encoded := frame.Encode()

	encoded[5] ^= 0xFF

	if _, err := DecodeFrame(encoded); err == nil {
		t.Error("expected CRC error for corrupted frame")
	}
}

func TestFrame_TooShort(t *testing.T) {
	if _, err := DecodeFrame([]byte{0x01, 0x02}); err == nil {
		t.Error("expected error for short frame")
	}
}

func TestFrame_IgnoresTrailingPadding(t *testing.T) {
	frame := NewDataFrame(3, []byte("padded"))
	encoded := frame.Encode()

	// Symbol padding appends zeros beyond the frame.
	padded := append(encoded, make([]byte, 17)...)

	decoded, err := DecodeFrame(padded)
	if err != nil {
		t.Fatalf("Decode with padding: %v", err)
	}
	if !bytes.Equal(decoded.Payload, frame.Payload) {
		t.Error("payload mismatch with trailing padding")
	}
}

func TestFrame_ReedSolomonRoundTrip(t *testing.T) {
	codec, err := fec.NewCodecCustom(16, 4)
	if err != nil {
		t.Fatal(err)
	}

	frame := NewDataFrame(9, []byte("protected by parity"))
	encoded, err := FrameToBytes(frame, codec)
	if err != nil {
		t.Fatalf("FrameToBytes: %v", err)
	}

	decoded, err := BytesToFrame(encoded, codec)
	if err != nil {
		t.Fatalf("BytesToFrame: %v", err)
	}
	if !bytes.Equal(decoded.Payload, frame.Payload) {
		t.Error("payload mismatch through RS coding")
	}
}
