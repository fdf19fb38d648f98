package protocol

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Transport configuration
const (
	ACKTimeout      = 500 * time.Millisecond
	MaxRetries      = 3
	TurnAroundDelay = 50 * time.Millisecond // half-duplex switch delay
)

// TransportState represents the ARQ state machine.
type TransportState int

const (
	StateIdle TransportState = iota
	StateSending
	StateWaitingACK
	StateReceiving
)

// String returns the state name.
func (s TransportState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateSending:
		return "SENDING"
	case StateWaitingACK:
		return "WAITING_ACK"
	case StateReceiving:
		return "RECEIVING"
	default:
		return "UNKNOWN"
	}
}

// FrameSender is a function that modulates and transmits a frame.
type FrameSender func(frame *Frame) error

// FrameReceiver is a function that receives and demodulates a frame.
type FrameReceiver func(timeout time.Duration) (*Frame, error)

// Transport implements Stop-and-Wait ARQ for reliable frame delivery.
// The sender and receiver callbacks carry frames over whatever medium the
// caller wires in (symbol link over audio, loopback, websocket stream).
type Transport struct {
	sender   FrameSender
	receiver FrameReceiver
	state    TransportState
	seqNum   byte
	mu       sync.Mutex

	// Stats
	framesSent     int
	framesReceived int
	retries        int
	errors         int

	// Callbacks
	OnStateChange func(state TransportState)
}

// NewTransport creates a new transport layer.
func NewTransport(sender FrameSender, receiver FrameReceiver) *Transport {
	return &Transport{
		sender:   sender,
		receiver: receiver,
		state:    StateIdle,
	}
}

// SendFrame sends a frame and waits for ACK (Stop-and-Wait ARQ).
func (t *Transport) SendFrame(frame *Frame) error {
	t.mu.Lock()
	frame.SeqNum = t.seqNum
	t.mu.Unlock()

	for retry := 0; retry <= MaxRetries; retry++ {
		if retry > 0 {
			log.Printf("Retry %d/%d for frame seq=%d type=%s",
				retry, MaxRetries, frame.SeqNum, frame.TypeName())
			t.retries++
		}

		t.setState(StateSending)

		if err := t.sender(frame); err != nil {
			t.errors++
			return fmt.Errorf("send frame: %w", err)
		}
		t.framesSent++

		time.Sleep(TurnAroundDelay)
		t.setState(StateWaitingACK)

		ackFrame, err := t.receiver(ACKTimeout)
		if err != nil {
			log.Printf("ACK timeout for seq=%d: %v", frame.SeqNum, err)
			continue
		}

		if ackFrame.Type == TypeACK && ackFrame.SeqNum == frame.SeqNum {
			t.mu.Lock()
			t.seqNum++
			t.mu.Unlock()
			t.setState(StateIdle)
			return nil
		}

		if ackFrame.Type == TypeNACK {
			log.Printf("NACK received for seq=%d", frame.SeqNum)
			continue
		}

		log.Printf("Unexpected response: type=%s seq=%d (expected ACK seq=%d)",
			ackFrame.TypeName(), ackFrame.SeqNum, frame.SeqNum)
	}

	t.errors++
	t.setState(StateIdle)
	return fmt.Errorf("max retries exceeded for frame seq=%d", frame.SeqNum)
}

// ReceiveFrame waits for a data frame and acknowledges it.
func (t *Transport) ReceiveFrame(timeout time.Duration) (*Frame, error) {
	t.setState(StateReceiving)

	frame, err := t.receiver(timeout)
	if err != nil {
		t.setState(StateIdle)
		return nil, fmt.Errorf("receive: %w", err)
	}
	t.framesReceived++

	time.Sleep(TurnAroundDelay)
	t.setState(StateSending)

	ack := NewACKFrame(frame.SeqNum)
	if err := t.sender(ack); err != nil {
		log.Printf("Failed to send ACK for seq=%d: %v", frame.SeqNum, err)
	}

	t.setState(StateIdle)
	return frame, nil
}

// Handshake performs a PING/PONG exchange to verify connectivity.
func (t *Transport) Handshake() error {
	ping := NewPingFrame()
	if err := t.sender(ping); err != nil {
		return fmt.Errorf("send PING: %w", err)
	}

	time.Sleep(TurnAroundDelay)

	pong, err := t.receiver(2 * ACKTimeout)
	if err != nil {
		return fmt.Errorf("PONG timeout: %w", err)
	}

	if pong.Type != TypePong {
		return fmt.Errorf("expected PONG, got %s", pong.TypeName())
	}

	return nil
}

// WaitForHandshake waits for an incoming PING and responds with PONG.
func (t *Transport) WaitForHandshake(timeout time.Duration) error {
	ping, err := t.receiver(timeout)
	if err != nil {
		return fmt.Errorf("waiting for PING: %w", err)
	}

	if ping.Type != TypePing {
		return fmt.Errorf("expected PING, got %s", ping.TypeName())
	}

	time.Sleep(TurnAroundDelay)

	if err := t.sender(NewPongFrame()); err != nil {
		return fmt.Errorf("send PONG: %w", err)
	}

	return nil
}

func (t *Transport) setState(state TransportState) {
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()

	if t.OnStateChange != nil {
		t.OnStateChange(state)
	}
}

// Stats returns transport statistics.
func (t *Transport) Stats() (sent, received, retries, errors int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.framesSent, t.framesReceived, t.retries, t.errors
}

// Reset resets the transport state and sequence number.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateIdle
	t.seqNum = 0
	t.framesSent = 0
	t.framesReceived = 0
	t.retries = 0
	t.errors = 0
}
