package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"markestedt/copyman/overlay"
	"markestedt/copyman/settings"
)

// feed carries overlay state changes into the bubbletea loop. Changes
// coalesce into a single pending wake-up, so listeners never block even
// when they fire from inside Update.
type feed struct {
	wake   chan struct{}
	hidden atomic.Bool
}

type feedMsg struct{}

func newFeed() *feed {
	return &feed{wake: make(chan struct{}, 1)}
}

// HideOverlay dismisses the terminal overlay
func (f *feed) HideOverlay() {
	f.hidden.Store(true)
	f.nudge()
}

func (f *feed) nudge() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// watch subscribes the feed to every overlay component that changes
// what is on screen
func (f *feed) watch(ov *overlay.Overlay) (unwatch func()) {
	ov.Highlight.OnChange(func(settings.Slot, bool) { f.nudge() })
	ov.Editor.OnDraftChange(f.nudge)
	ov.View.OnViewChange(func(overlay.View) { f.nudge() })
	return ov.Store.Subscribe(func(settings.Settings) { f.nudge() })
}

// wait blocks until the next change and delivers it as a feedMsg
func (f *feed) wait() tea.Cmd {
	return func() tea.Msg {
		<-f.wake
		return feedMsg{}
	}
}
