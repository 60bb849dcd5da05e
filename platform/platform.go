package platform

import (
	"context"
	"errors"
)

// ErrHotkeyUnsupported is returned by Listen on platforms without a
// global keyboard hook
var ErrHotkeyUnsupported = errors.New("global hotkeys are not supported on this platform")

// KeyCombo represents a keyboard key combination
type KeyCombo struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Win   bool
	Key   int // Virtual key code
}

// EventType represents the type of hotkey event
type EventType int

const (
	Pressed EventType = iota
	Released
)

// Event represents a hotkey event. Combo is the index of the matching
// combo in the slice passed to Listen.
type Event struct {
	Type  EventType
	Combo int
}

// Hotkey provides global hotkey detection
type Hotkey interface {
	Listen(ctx context.Context, combos []KeyCombo) (<-chan Event, error)
}

// Clipboard provides clipboard access
type Clipboard interface {
	Set(text string) error
}
