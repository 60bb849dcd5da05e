// Package tui is the terminal front end of the overlay. Key presses are
// turned into overlay key events and dispatched through the overlay's
// event target, so the Main view behaves exactly like any other surface.
package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"markestedt/copyman/overlay"
	"markestedt/copyman/settings"
)

type persistResultMsg struct {
	err error
}

// Model is the bubbletea model over one overlay
type Model struct {
	ctx  context.Context
	ov   *overlay.Overlay
	feed *feed
	keys KeyMap

	unwatch func()
	width   int
	height  int
	status  string
}

// NewModel wires an overlay for the terminal. The overlay is dismissed
// by quitting the program; a Hider in opts is also told.
func NewModel(ctx context.Context, opts overlay.Options) Model {
	f := newFeed()
	if next := opts.Hider; next != nil {
		opts.Hider = overlay.HiderFunc(func() {
			next.HideOverlay()
			f.HideOverlay()
		})
	} else {
		opts.Hider = f
	}

	ov := overlay.New(opts)
	return Model{
		ctx:     ctx,
		ov:      ov,
		feed:    f,
		keys:    DefaultKeyMap,
		unwatch: f.watch(ov),
	}
}

// Overlay returns the wired overlay
func (m Model) Overlay() *overlay.Overlay {
	return m.ov
}

// Close releases the overlay. In-flight copies finish first.
func (m Model) Close() {
	m.unwatch()
	m.ov.Close()
}

func (m Model) Init() tea.Cmd {
	return m.feed.wait()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feedMsg:
		if m.feed.hidden.Load() {
			return m, tea.Quit
		}
		return m, m.feed.wait()

	case persistResultMsg:
		m.status = ""
		if msg.err != nil {
			m.status = persistStatus(msg.err)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.ov.View.Current() != overlay.ViewMain {
			return m, nil
		}
		if slot, ok := slotAt(msg.X, msg.Y); ok {
			m.ov.Click(slot)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.ov.View.Current() == overlay.ViewSettings {
			return m.handleSettingsKey(msg)
		}
		return m.handleMainKey(msg)
	}
	return m, nil
}

func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ov.Target.Dispatch(overlay.NewKeyEvent(eventKey(msg))) {
		if m.feed.hidden.Load() {
			return m, tea.Quit
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Settings) {
		m.status = ""
		m.ov.View.OpenSettings()
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ov.Target.Dispatch(overlay.NewKeyEvent(eventKey(msg))) {
		return m, nil
	}

	editor := m.ov.Editor
	focused, hasFocus := editor.Focused()

	switch {
	case key.Matches(msg, m.keys.Back):
		m.ov.View.Back()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m, m.moveFocus(focused, hasFocus, 1)

	case key.Matches(msg, m.keys.Prev):
		return m, m.moveFocus(focused, hasFocus, -1)

	case key.Matches(msg, m.keys.Commit):
		if !hasFocus {
			return m, nil
		}
		return m, m.commit(focused)

	case key.Matches(msg, m.keys.Theme):
		return m, m.toggleTheme()
	}

	if !hasFocus {
		return m, nil
	}

	value := editor.Draft().Get(focused)
	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(value); len(r) > 0 {
			editor.OnChange(focused, string(r[:len(r)-1]))
		}
	case tea.KeySpace:
		editor.OnChange(focused, value+" ")
	case tea.KeyRunes:
		if !msg.Alt {
			editor.OnChange(focused, value+string(msg.Runes))
		}
	}
	return m, nil
}

// moveFocus focuses the neighbouring slot, wrapping around, and commits
// the slot that lost focus
func (m Model) moveFocus(from settings.Slot, hasFocus bool, step int) tea.Cmd {
	next := settings.Slot(1)
	if step < 0 {
		next = settings.SlotCount
	}
	if hasFocus {
		next = settings.Slot((int(from)-1+step+settings.SlotCount)%settings.SlotCount + 1)
	}

	blurred, ok := m.ov.Editor.Focus(next)
	if !ok {
		return nil
	}
	return m.commit(blurred)
}

func (m Model) commit(slot settings.Slot) tea.Cmd {
	ctx, editor := m.ctx, m.ov.Editor
	return func() tea.Msg {
		return persistResultMsg{err: editor.OnBlur(ctx, slot)}
	}
}

func (m Model) toggleTheme() tea.Cmd {
	ctx, editor := m.ctx, m.ov.Editor
	return func() tea.Msg {
		return persistResultMsg{err: editor.ToggleTheme(ctx)}
	}
}

func persistStatus(err error) string {
	if errors.Is(err, settings.ErrPersist) {
		return "Could not save settings"
	}
	return err.Error()
}

// Run shows the overlay in the terminal until it is dismissed or ctx ends
func Run(ctx context.Context, opts overlay.Options) error {
	m := NewModel(ctx, opts)
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	slog.Info("Overlay closed")
	return nil
}
