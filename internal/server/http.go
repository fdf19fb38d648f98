package server

import (
	"fmt"
	"log"
	"net/http"
)

// Server is the HTTP server exposing the modem control API.
type Server struct {
	mux     *http.ServeMux
	handler *Handlers
	addr    string
}

// NewServer creates a new HTTP server.
func NewServer(addr string, handler *Handlers) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		handler: handler,
		addr:    addr,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/send", s.handler.HandleSend)
	s.mux.HandleFunc("/api/loopback", s.handler.HandleLoopback)
	s.mux.HandleFunc("/api/status", s.handler.HandleStatus)
	s.mux.HandleFunc("/api/devices", s.handler.HandleDevices)

	s.mux.HandleFunc("/ws", s.handler.HandleWebSocket)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting server on %s", s.addr)
	fmt.Printf("\n  Soft Modem server running at http://%s\n\n", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}
