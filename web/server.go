package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"markestedt/copyman/overlay"
	"markestedt/copyman/settings"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Served on localhost only
	},
}

// Server represents the web server
type Server struct {
	store   *settings.Store
	overlay *overlay.Overlay
	host    *overlay.Host
	port    int
	hub     *Hub
	http    *http.Server
	unwatch func()
}

// NewServer creates a new web server over the overlay's store. Settings
// changes, slot highlights and visibility changes are pushed to every
// websocket client.
func NewServer(ov *overlay.Overlay, host *overlay.Host, port int) (*Server, error) {
	s := &Server{
		store:   ov.Store,
		overlay: ov,
		host:    host,
		port:    port,
		hub:     NewHub(),
	}

	handler, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.hub.Run()
	s.unwatch = ov.Store.Subscribe(s.BroadcastSettings)
	ov.Highlight.OnChange(func(slot settings.Slot, active bool) {
		if active {
			s.BroadcastFlash(slot)
		}
	})
	host.OnVisibility(s.BroadcastVisibility)

	return s, nil
}

func (s *Server) routes() (http.Handler, error) {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/copy/{slot}", s.handleCopy)
	mux.HandleFunc("/api/key", s.handleKey)
	mux.HandleFunc("/api/overlay", s.handleOverlay)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	return mux, nil
}

// Handler returns the routes served by Start
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves until Shutdown is called. Calling Shutdown first makes
// Start return immediately.
func (s *Server) Start() error {
	slog.Info("Starting web server", "port", s.port, "url", s.URL())

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// URL is the address of the web UI
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Shutdown stops accepting requests and disconnects websocket clients
func (s *Server) Shutdown(ctx context.Context) error {
	s.unwatch()
	s.hub.Stop()
	return s.http.Shutdown(ctx)
}

// BroadcastSettings pushes the canonical settings to all clients
func (s *Server) BroadcastSettings(current settings.Settings) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeSettings,
		Data: current,
	})
}

// BroadcastFlash tells clients to flash slot
func (s *Server) BroadcastFlash(slot settings.Slot) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeKeyFlashed,
		Data: slot.String(),
	})
}

// BroadcastVisibility tells clients whether the overlay is showing
func (s *Server) BroadcastVisibility(visible bool) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeVisibility,
		Data: VisibilityMessage{Visible: visible},
	})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := newClient(s.hub, conn)

	// New clients start from the current state
	for _, msg := range []Message{
		{Type: MessageTypeSettings, Data: s.store.Current()},
		{Type: MessageTypeVisibility, Data: VisibilityMessage{Visible: s.host.Visible()}},
	} {
		if data, err := json.Marshal(msg); err == nil {
			client.send <- data
		}
	}

	if !s.hub.Register(client) {
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}
