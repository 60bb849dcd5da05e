package overlay

import (
	"context"
	"sync"

	"markestedt/copyman/settings"
)

// SettingsStore is the part of settings.Store the editor needs
type SettingsStore interface {
	Current() settings.Settings
	Replace(ctx context.Context, s settings.Settings) error
	Subscribe(fn func(settings.Settings)) (unsubscribe func())
}

// BindingEditor keeps a local draft of the key bindings while the
// Settings view is open. Keystrokes only touch the draft; a blur commits
// the focused slot through the store.
//
// Whenever the canonical bindings change while the editor is open, the
// draft is resynced from them. Unsaved keystrokes in the focused field
// are overwritten by that resync.
type BindingEditor struct {
	store SettingsStore

	mu          sync.Mutex
	open        bool
	draft       settings.KeyBindings
	base        settings.KeyBindings
	focused     settings.Slot
	unsubscribe func()
	listeners   []func()
}

// NewBindingEditor creates a closed editor
func NewBindingEditor(store SettingsStore) *BindingEditor {
	return &BindingEditor{store: store}
}

// Open starts an editing session with a fresh draft
func (e *BindingEditor) Open() {
	e.mu.Lock()
	if e.open {
		e.mu.Unlock()
		return
	}
	current := e.store.Current().KeyBindings
	e.open = true
	e.draft = current
	e.base = current
	e.focused = 0
	e.mu.Unlock()

	unsubscribe := e.store.Subscribe(e.resync)

	e.mu.Lock()
	e.unsubscribe = unsubscribe
	e.mu.Unlock()
	e.changed()
}

// Close ends the session and discards anything not committed
func (e *BindingEditor) Close() {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return
	}
	unsubscribe := e.unsubscribe
	e.open = false
	e.unsubscribe = nil
	e.draft = settings.KeyBindings{}
	e.base = settings.KeyBindings{}
	e.focused = 0
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	e.changed()
}

// IsOpen reports whether an editing session is active
func (e *BindingEditor) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

func (e *BindingEditor) resync(s settings.Settings) {
	e.mu.Lock()
	if !e.open || s.KeyBindings == e.base {
		e.mu.Unlock()
		return
	}
	e.draft = s.KeyBindings
	e.base = s.KeyBindings
	e.mu.Unlock()
	e.changed()
}

// Draft returns the current draft
func (e *BindingEditor) Draft() settings.KeyBindings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// OnChange records a keystroke for slot in the draft only
func (e *BindingEditor) OnChange(slot settings.Slot, value string) {
	e.mu.Lock()
	if !e.open || !slot.Valid() {
		e.mu.Unlock()
		return
	}
	e.draft = e.draft.With(slot, value)
	e.mu.Unlock()
	e.changed()
}

// OnBlur commits the draft value of slot, leaving every other field of
// the canonical settings as it is
func (e *BindingEditor) OnBlur(ctx context.Context, slot settings.Slot) error {
	e.mu.Lock()
	if !e.open || !slot.Valid() {
		e.mu.Unlock()
		return nil
	}
	value := e.draft.Get(slot)
	if e.focused == slot {
		e.focused = 0
	}
	e.mu.Unlock()

	next := e.store.Current().WithBinding(slot, value)
	return e.store.Replace(ctx, next)
}

// Focus moves input focus to slot and returns the slot that lost focus,
// if any. The caller commits the blurred slot with OnBlur.
func (e *BindingEditor) Focus(slot settings.Slot) (blurred settings.Slot, ok bool) {
	e.mu.Lock()
	if !e.open || !slot.Valid() {
		e.mu.Unlock()
		return 0, false
	}
	prev := e.focused
	e.focused = slot
	e.mu.Unlock()
	e.changed()

	if prev == 0 || prev == slot {
		return 0, false
	}
	return prev, true
}

// Focused returns the slot holding input focus, if any
func (e *BindingEditor) Focused() (settings.Slot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused, e.focused != 0
}

// ToggleTheme flips light and dark and persists immediately
func (e *BindingEditor) ToggleTheme(ctx context.Context) error {
	current := e.store.Current()
	return e.store.Replace(ctx, current.WithTheme(current.Theme.Toggle()))
}

// OnDraftChange registers fn to run after the draft or focus changes
func (e *BindingEditor) OnDraftChange(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *BindingEditor) changed() {
	e.mu.Lock()
	listeners := append([]func(){}, e.listeners...)
	e.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
