// Package overlay implements the slot overlay: key dispatch, clipboard
// copies with highlight feedback, the Main/Settings view machine and the
// binding editor. Front ends feed key events into Target and render from
// View, Highlight and Editor.
package overlay

import (
	"time"

	"markestedt/copyman/settings"
)

// Options configures New
type Options struct {
	Store             *settings.Store
	Clipboard         Clipboard
	Hider             Hider
	HighlightDuration time.Duration
}

// Overlay bundles the wired components of one overlay surface
type Overlay struct {
	Store      *settings.Store
	Target     *EventTarget
	Highlight  *Highlighter
	Copier     *CopyController
	Dispatcher *Dispatcher
	Editor     *BindingEditor
	View       *ViewState
}

// New wires an overlay starting in the Main view
func New(opts Options) *Overlay {
	target := NewEventTarget()
	highlight := NewHighlighter(opts.HighlightDuration)
	copier := NewCopyController(opts.Clipboard, highlight)
	dispatcher := NewDispatcher(opts.Store, copier, highlight, opts.Hider)
	editor := NewBindingEditor(opts.Store)

	return &Overlay{
		Store:      opts.Store,
		Target:     target,
		Highlight:  highlight,
		Copier:     copier,
		Dispatcher: dispatcher,
		Editor:     editor,
		View:       NewViewState(target, dispatcher, editor, highlight),
	}
}

// Click copies the text bound to slot, as a pointer click on the slot
// would. Empty slots do nothing.
func (o *Overlay) Click(slot settings.Slot) {
	o.Copier.Go(o.Store.Current().KeyBindings.Get(slot), slot)
}

// Close tears down the view subscription, waits for in-flight copies and
// cancels any pending highlight clear
func (o *Overlay) Close() {
	o.View.Close()
	o.Copier.Wait()
	o.Highlight.Stop()
}
