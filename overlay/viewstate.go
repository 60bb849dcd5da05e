package overlay

import (
	"sync"

	"markestedt/copyman/settings"
)

// View is the visible overlay screen
type View int

const (
	ViewMain View = iota
	ViewSettings
)

func (v View) String() string {
	switch v {
	case ViewMain:
		return "main"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ViewState switches between the Main and Settings views. The key
// dispatcher is attached only while Main is showing, and the binding
// editor is open only while Settings is showing.
type ViewState struct {
	target     *EventTarget
	dispatcher *Dispatcher
	editor     *BindingEditor
	highlight  *Highlighter

	mu        sync.Mutex
	view      View
	release   func()
	closed    bool
	listeners []func(View)
}

// NewViewState creates a view state showing Main
func NewViewState(target *EventTarget, dispatcher *Dispatcher, editor *BindingEditor, highlight *Highlighter) *ViewState {
	v := &ViewState{
		target:     target,
		dispatcher: dispatcher,
		editor:     editor,
		highlight:  highlight,
		view:       ViewMain,
	}
	v.release = dispatcher.Attach(target)
	return v
}

// Current returns the visible view
func (v *ViewState) Current() View {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.view
}

// OpenSettings switches to the Settings view
func (v *ViewState) OpenSettings() {
	v.transition(ViewSettings)
}

// Back returns to the Main view. Draft edits that were never blurred
// are lost.
func (v *ViewState) Back() {
	v.transition(ViewMain)
}

func (v *ViewState) transition(to View) {
	v.mu.Lock()
	if v.closed || v.view == to {
		v.mu.Unlock()
		return
	}

	switch to {
	case ViewSettings:
		if v.release != nil {
			v.release()
			v.release = nil
		}
		v.editor.Open()
	case ViewMain:
		v.editor.Close()
		v.release = v.dispatcher.Attach(v.target)
	}
	v.view = to
	listeners := append([]func(View){}, v.listeners...)
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(to)
	}
}

// Highlighted returns the highlighted slot, if any
func (v *ViewState) Highlighted() (settings.Slot, bool) {
	return v.highlight.Current()
}

// OnViewChange registers fn to run after every transition
func (v *ViewState) OnViewChange(fn func(View)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// Close detaches the dispatcher and closes the editor. No further
// transitions happen afterwards.
func (v *ViewState) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.release != nil {
		v.release()
		v.release = nil
	}
	v.editor.Close()
}
