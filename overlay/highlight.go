package overlay

import (
	"sync"
	"time"

	"markestedt/copyman/settings"
)

// DefaultHighlightDuration is how long a slot stays highlighted
const DefaultHighlightDuration = 200 * time.Millisecond

// Highlighter holds the transient highlighted slot. Each activation bumps
// a generation counter and its timer only clears the highlight if no
// newer activation happened since.
type Highlighter struct {
	duration time.Duration

	mu         sync.Mutex
	slot       settings.Slot
	generation uint64
	timer      *time.Timer
	listeners  []func(slot settings.Slot, active bool)
}

// NewHighlighter creates a highlighter. A non-positive duration uses
// DefaultHighlightDuration.
func NewHighlighter(duration time.Duration) *Highlighter {
	if duration <= 0 {
		duration = DefaultHighlightDuration
	}
	return &Highlighter{duration: duration}
}

// Duration returns the configured highlight duration
func (h *Highlighter) Duration() time.Duration {
	return h.duration
}

// Activate highlights slot and schedules its automatic clear
func (h *Highlighter) Activate(slot settings.Slot) {
	if !slot.Valid() {
		return
	}

	h.mu.Lock()
	h.generation++
	gen := h.generation
	h.slot = slot
	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = time.AfterFunc(h.duration, func() { h.expire(gen) })
	listeners := append([]func(settings.Slot, bool){}, h.listeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(slot, true)
	}
}

func (h *Highlighter) expire(gen uint64) {
	h.mu.Lock()
	if gen != h.generation || h.slot == 0 {
		h.mu.Unlock()
		return
	}
	slot := h.slot
	h.slot = 0
	h.timer = nil
	listeners := append([]func(settings.Slot, bool){}, h.listeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(slot, false)
	}
}

// Current returns the highlighted slot, if any
func (h *Highlighter) Current() (settings.Slot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.slot, h.slot != 0
}

// OnChange registers fn to run whenever a highlight starts or clears
func (h *Highlighter) OnChange(fn func(slot settings.Slot, active bool)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Stop cancels any pending clear without notifying listeners
func (h *Highlighter) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.generation++
	h.slot = 0
}
