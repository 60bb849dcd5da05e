package overlay

import (
	"log/slog"
	"sync"

	"markestedt/copyman/settings"
)

// Hider asks the host to hide the overlay. Fire-and-forget.
type Hider interface {
	HideOverlay()
}

// HiderFunc adapts a function to Hider
type HiderFunc func()

func (f HiderFunc) HideOverlay() { f() }

// BindingSource provides the latest settings on every read
type BindingSource interface {
	Current() settings.Settings
}

// Dispatcher maps key presses to clipboard copies. Default handling is
// suppressed synchronously, before any clipboard work starts, so the
// platform never sees a recognized key as unhandled.
type Dispatcher struct {
	bindings  BindingSource
	copier    *CopyController
	highlight *Highlighter
	hider     Hider
}

// NewDispatcher creates a dispatcher
func NewDispatcher(bindings BindingSource, copier *CopyController, highlight *Highlighter, hider Hider) *Dispatcher {
	return &Dispatcher{
		bindings:  bindings,
		copier:    copier,
		highlight: highlight,
		hider:     hider,
	}
}

// HandleKey classifies ev: Escape hides the overlay, 1-9 copy the bound
// text, anything else is left alone.
func (d *Dispatcher) HandleKey(ev *KeyEvent) {
	if ev.Key == KeyEscape {
		ev.PreventDefault()
		d.hider.HideOverlay()
		ev.StopImmediatePropagation()
		return
	}

	slot, ok := settings.ParseSlot(ev.Key)
	if !ok {
		return
	}
	ev.PreventDefault()
	ev.StopPropagation()

	text := d.bindings.Current().KeyBindings.Get(slot)
	if text == "" {
		slog.Debug("No text bound to slot", "slot", slot.String())
		d.highlight.Activate(slot)
		return
	}
	d.copier.Go(text, slot)
}

// Attach registers the dispatcher as a capture listener on target. The
// returned release func detaches it and may be called more than once.
func (d *Dispatcher) Attach(target *EventTarget) (release func()) {
	remove := target.AddListener(PhaseCapture, d.HandleKey)
	var once sync.Once
	return func() { once.Do(remove) }
}
