package overlay

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultToggleDebounce drops toggles that arrive faster than this
const DefaultToggleDebounce = 300 * time.Millisecond

// Host tracks overlay visibility on behalf of the tray, hotkeys and web UI
type Host struct {
	debounce time.Duration
	now      func() time.Time

	mu         sync.Mutex
	visible    bool
	lastToggle time.Time
	listeners  []func(visible bool)
}

// NewHost creates a hidden overlay host
func NewHost(debounce time.Duration) *Host {
	return &Host{
		debounce: debounce,
		now:      time.Now,
	}
}

// Visible reports whether the overlay is showing
func (h *Host) Visible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible
}

// Show makes the overlay visible and reports whether anything changed
func (h *Host) Show() bool {
	return h.set(true)
}

// Hide hides the overlay and reports whether anything changed
func (h *Host) Hide() bool {
	return h.set(false)
}

// HideOverlay implements Hider
func (h *Host) HideOverlay() {
	h.Hide()
}

// Toggle flips visibility unless the previous toggle was within the
// debounce window. It reports whether a toggle happened.
func (h *Host) Toggle() bool {
	h.mu.Lock()
	now := h.now()
	if !h.lastToggle.IsZero() && now.Sub(h.lastToggle) < h.debounce {
		h.mu.Unlock()
		slog.Info("Toggle ignored - too rapid")
		return false
	}
	h.lastToggle = now
	visible := h.visible
	h.mu.Unlock()

	return h.set(!visible)
}

func (h *Host) set(visible bool) bool {
	h.mu.Lock()
	if h.visible == visible {
		h.mu.Unlock()
		return false
	}
	h.visible = visible
	listeners := append([]func(bool){}, h.listeners...)
	h.mu.Unlock()

	if visible {
		slog.Info("Overlay shown")
	} else {
		slog.Info("Overlay hidden")
	}
	for _, fn := range listeners {
		fn(visible)
	}
	return true
}

// OnVisibility registers fn to run after every visibility change
func (h *Host) OnVisibility(fn func(visible bool)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}
