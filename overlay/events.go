package overlay

import "sync"

// Phase selects when a listener runs during Dispatch
type Phase int

const (
	// PhaseCapture listeners run first, before any bubble listener
	PhaseCapture Phase = iota
	PhaseBubble
)

// Named keys. Printable keys use their character.
const (
	KeyEscape    = "Escape"
	KeyEnter     = "Enter"
	KeyTab       = "Tab"
	KeyBackspace = "Backspace"
	KeyArrowUp   = "ArrowUp"
	KeyArrowDown = "ArrowDown"
)

// KeyEvent is a single key press travelling through an EventTarget
type KeyEvent struct {
	Key string

	defaultPrevented   bool
	propagationStopped bool
	immediateStopped   bool
}

// NewKeyEvent creates an event for key
func NewKeyEvent(key string) *KeyEvent {
	return &KeyEvent{Key: key}
}

// PreventDefault marks the event so the front end skips its own handling
func (e *KeyEvent) PreventDefault() { e.defaultPrevented = true }

// StopPropagation stops the event before the bubble phase
func (e *KeyEvent) StopPropagation() { e.propagationStopped = true }

// StopImmediatePropagation also skips the remaining listeners of the
// current phase
func (e *KeyEvent) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediateStopped = true
}

func (e *KeyEvent) DefaultPrevented() bool   { return e.defaultPrevented }
func (e *KeyEvent) PropagationStopped() bool { return e.propagationStopped }

// KeyListener handles a key event
type KeyListener func(*KeyEvent)

type listenerEntry struct {
	id int
	fn KeyListener
}

// EventTarget delivers key events to capture listeners, then to bubble
// listeners, in registration order
type EventTarget struct {
	mu      sync.Mutex
	nextID  int
	capture []listenerEntry
	bubble  []listenerEntry
}

// NewEventTarget creates an empty target
func NewEventTarget() *EventTarget {
	return &EventTarget{}
}

// AddListener registers fn for phase. The returned func removes it and
// is safe to call more than once.
func (t *EventTarget) AddListener(phase Phase, fn KeyListener) (remove func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	entry := listenerEntry{id: id, fn: fn}
	if phase == PhaseCapture {
		t.capture = append(t.capture, entry)
	} else {
		t.bubble = append(t.bubble, entry)
	}
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { t.remove(id) })
	}
}

func (t *EventTarget) remove(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.capture = removeEntry(t.capture, id)
	t.bubble = removeEntry(t.bubble, id)
}

func removeEntry(entries []listenerEntry, id int) []listenerEntry {
	out := entries[:0:0]
	for _, e := range entries {
		if e.id != id {
			out = append(out, e)
		}
	}
	return out
}

// ListenerCount returns the number of registered listeners across both phases
func (t *EventTarget) ListenerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.capture) + len(t.bubble)
}

// Dispatch runs ev through the listeners and reports whether a listener
// prevented its default action
func (t *EventTarget) Dispatch(ev *KeyEvent) (prevented bool) {
	t.mu.Lock()
	capture := append([]listenerEntry(nil), t.capture...)
	bubble := append([]listenerEntry(nil), t.bubble...)
	t.mu.Unlock()

	for _, e := range capture {
		e.fn(ev)
		if ev.immediateStopped {
			break
		}
	}

	if !ev.propagationStopped {
		for _, e := range bubble {
			e.fn(ev)
			if ev.immediateStopped {
				break
			}
		}
	}

	return ev.defaultPrevented
}
