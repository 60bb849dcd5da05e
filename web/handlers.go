package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"markestedt/copyman/overlay"
	"markestedt/copyman/settings"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleSettings handles GET and PUT requests for settings
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.Current())
	case http.MethodPut:
		s.handlePutSettings(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePutSettings replaces the settings with a full value. Partial
// patches are not accepted.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme       *json.RawMessage `json:"theme"`
		KeyBindings *json.RawMessage `json:"keyBindings"`
	}
	body := http.MaxBytesReader(w, r.Body, 1<<20)
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := json.Unmarshal(raw, &req); err != nil || req.Theme == nil || req.KeyBindings == nil {
		http.Error(w, "Settings must include theme and keyBindings", http.StatusBadRequest)
		return
	}

	var next settings.Settings
	if err := json.Unmarshal(raw, &next); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.Replace(r.Context(), next); err != nil {
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, s.store.Current())
}

// handleCopy copies the text bound to a slot, like clicking it
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	slot, ok := settings.ParseSlot(r.PathValue("slot"))
	if !ok {
		http.Error(w, "Invalid slot", http.StatusBadRequest)
		return
	}

	text := s.store.Current().KeyBindings.Get(slot)
	if text == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"slot": slot.String(), "copied": false})
		return
	}

	if err := s.overlay.Copier.Copy(r.Context(), text, slot); err != nil {
		http.Error(w, "Failed to copy to clipboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"slot": slot.String(), "copied": true})
}

// handleKey feeds a key press from the web page through the overlay's
// event target and reports whether the dispatcher consumed it
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	prevented := s.overlay.Target.Dispatch(overlay.NewKeyEvent(req.Key))
	writeJSON(w, http.StatusOK, map[string]bool{"prevented": prevented})
}

// handleOverlay shows, hides or toggles the overlay
func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var changed bool
	switch req.Action {
	case "show":
		changed = s.host.Show()
	case "hide":
		changed = s.host.Hide()
	case "toggle":
		changed = s.host.Toggle()
	default:
		slog.Warn("Unknown overlay action", "action", req.Action)
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"visible": s.host.Visible(),
		"changed": changed,
	})
}

// handleStatus returns the overlay status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"visible": s.host.Visible(),
		"loaded":  s.store.Loaded(),
		"view":    s.overlay.View.Current().String(),
	})
}
