package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/jeongseonghan/soft-modem/internal/audio"
	"github.com/jeongseonghan/soft-modem/internal/modem"
	"github.com/jeongseonghan/soft-modem/internal/protocol"
)

// Handlers holds the HTTP API handlers around one configured link.
type Handlers struct {
	cfg   modem.Config
	link  *protocol.Link
	wsHub *WSHub
	mu    sync.Mutex
}

// NewHandlers creates API handlers for the given modem configuration.
func NewHandlers(cfg modem.Config) (*Handlers, error) {
	link, err := protocol.NewLink(cfg)
	if err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}
	return &Handlers{
		cfg:   cfg,
		link:  link,
		wsHub: NewWSHub(),
	}, nil
}

// HandleWebSocket handles WebSocket upgrade requests.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	h.wsHub.AddClient(conn)

	go func() {
		defer h.wsHub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

type sendRequest struct {
	Message string `json:"message"`
}

// HandleSend modulates a text message and reports the resulting symbols
// to WebSocket listeners.
func (h *Handlers) HandleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Parse request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Empty message", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	samples, err := h.link.Send([]byte(req.Message))
	h.mu.Unlock()
	if err != nil {
		http.Error(w, fmt.Sprintf("Modulate: %v", err), http.StatusInternalServerError)
		return
	}

	symLen := h.link.SymbolLength()
	h.wsHub.BroadcastSymbol(SymbolPayload{
		Message:    req.Message,
		Symbols:    len(samples) / symLen,
		Samples:    len(samples),
		IQ:         modem.SamplesToFloat32(samples[:symLen]),
		Modulation: h.cfg.Modulation.String(),
	})

	writeJSON(w, map[string]interface{}{
		"symbols": len(samples) / symLen,
		"samples": len(samples),
	})
}

// HandleLoopback modulates a message, demodulates it again and returns
// the recovered text. Exercises the full pipeline without audio hardware.
func (h *Handlers) HandleLoopback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Parse request: %v", err), http.StatusBadRequest)
		return
	}

	recovered, err := h.roundTrip([]byte(req.Message))
	if err != nil {
		http.Error(w, fmt.Sprintf("Loopback: %v", err), http.StatusInternalServerError)
		return
	}

	match := string(recovered) == req.Message
	h.wsHub.BroadcastLog("info", fmt.Sprintf("loopback %q ok=%v", req.Message, match))
	writeJSON(w, map[string]interface{}{
		"recovered": string(recovered),
		"match":     match,
	})
}

func (h *Handlers) roundTrip(msg []byte) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	samples, err := h.link.Send(msg)
	if err != nil {
		return nil, err
	}
	return h.link.Receive(samples, len(msg))
}

// HandleStatus reports the frozen modem parameters.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"numSubcarriers":   h.cfg.NumSubcarriers,
		"cyclicPrefixLen":  h.cfg.CyclicPrefixLen,
		"pilotEvery":       h.cfg.PilotEvery,
		"modulation":       h.cfg.Modulation.String(),
		"symbolLength":     h.link.SymbolLength(),
		"dataCapacityBits": h.link.DataCapacityBits(),
	})
}

// HandleDevices lists the audio devices.
func (h *Handlers) HandleDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := audio.ListDevices()
	if err != nil {
		http.Error(w, fmt.Sprintf("List devices: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, devices)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
