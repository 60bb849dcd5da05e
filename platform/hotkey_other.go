//go:build !windows

package platform

import "context"

type unsupportedHotkey struct{}

// NewHotkey returns a listener that always fails with ErrHotkeyUnsupported
func NewHotkey() Hotkey {
	return unsupportedHotkey{}
}

func (unsupportedHotkey) Listen(context.Context, []KeyCombo) (<-chan Event, error) {
	return nil, ErrHotkeyUnsupported
}
