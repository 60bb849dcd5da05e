package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"markestedt/copyman/overlay"
	"markestedt/copyman/settings"
)

type memPersister struct {
	mu      sync.Mutex
	stored  settings.Settings
	saveErr error
	saves   int
}

func (p *memPersister) GetSettings(context.Context) (settings.Settings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stored, nil
}

func (p *memPersister) SaveSettings(_ context.Context, s settings.Settings) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	if p.saveErr != nil {
		return p.saveErr
	}
	p.stored = s
	return nil
}

type fakeClipboard struct {
	mu     sync.Mutex
	writes []string
}

func (c *fakeClipboard) CopyToClipboard(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, text)
	return nil
}

func (c *fakeClipboard) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

type countingHider struct {
	mu    sync.Mutex
	calls int
}

func (h *countingHider) HideOverlay() {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
}

func (h *countingHider) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

type harness struct {
	t         *testing.T
	model     Model
	persister *memPersister
	clipboard *fakeClipboard
	hider     *countingHider
}

func newHarness(t *testing.T, initial settings.Settings) *harness {
	t.Helper()
	p := &memPersister{stored: initial}
	store := settings.NewStore(p)
	store.Load(context.Background())

	h := &harness{
		t:         t,
		persister: p,
		clipboard: &fakeClipboard{},
		hider:     &countingHider{},
	}
	h.model = NewModel(context.Background(), overlay.Options{
		Store:             store,
		Clipboard:         h.clipboard,
		Hider:             h.hider,
		HighlightDuration: overlay.DefaultHighlightDuration,
	})
	t.Cleanup(h.model.Close)
	return h
}

// send runs msg through Update and executes the returned command,
// except for the feed wait which would block
func (h *harness) send(msg tea.Msg) tea.Msg {
	h.t.Helper()
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	if cmd == nil {
		return nil
	}
	out := cmd()
	if res, ok := out.(persistResultMsg); ok {
		next, _ = h.model.Update(res)
		h.model = next.(Model)
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDigitCopiesBoundText(t *testing.T) {
	h := newHarness(t, settings.Default().WithBinding(3, "hello@example.com"))

	h.send(runes("3"))
	h.model.Overlay().Copier.Wait()

	if got := h.clipboard.Writes(); len(got) != 1 || got[0] != "hello@example.com" {
		t.Fatalf("writes = %q, want [hello@example.com]", got)
	}
	if slot, ok := h.model.Overlay().View.Highlighted(); !ok || slot != 3 {
		t.Errorf("Highlighted() = %v, %v; want 3, true", slot, ok)
	}
}

func TestEscapeHidesAndQuits(t *testing.T) {
	h := newHarness(t, settings.Default())

	out := h.send(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := out.(tea.QuitMsg); !ok {
		t.Errorf("Escape produced %T, want tea.QuitMsg", out)
	}
	if h.hider.Calls() != 1 {
		t.Errorf("hider calls = %d, want 1", h.hider.Calls())
	}
	if got := h.clipboard.Writes(); len(got) != 0 {
		t.Errorf("Escape wrote to clipboard: %q", got)
	}
}

func TestSettingsEditCommitsOnBlur(t *testing.T) {
	h := newHarness(t, settings.Default())
	ov := h.model.Overlay()

	h.send(runes("s"))
	if ov.View.Current() != overlay.ViewSettings {
		t.Fatalf("view = %s, want settings", ov.View.Current())
	}

	h.send(tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "hi 3" {
		if r == ' ' {
			h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		h.send(runes(string(r)))
	}

	if got := ov.Editor.Draft().Get(1); got != "hi 3" {
		t.Fatalf("draft[1] = %q, want %q", got, "hi 3")
	}
	if got := ov.Store.Current().KeyBindings.Get(1); got != "" {
		t.Fatalf("canonical[1] = %q before blur, want empty", got)
	}
	if got := h.clipboard.Writes(); len(got) != 0 {
		t.Fatalf("typing a digit in Settings copied: %q", got)
	}

	// Moving focus blurs slot 1
	h.send(tea.KeyMsg{Type: tea.KeyTab})
	if got := ov.Store.Current().KeyBindings.Get(1); got != "hi 3" {
		t.Errorf("canonical[1] = %q after blur, want %q", got, "hi 3")
	}
	if focused, _ := ov.Editor.Focused(); focused != 2 {
		t.Errorf("focused = %v, want 2", focused)
	}

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	if ov.View.Current() != overlay.ViewMain {
		t.Errorf("Escape in Settings: view = %s, want main", ov.View.Current())
	}
	if h.hider.Calls() != 0 {
		t.Errorf("Escape in Settings hid the overlay")
	}
}

func TestBackDiscardsUnblurredDraft(t *testing.T) {
	h := newHarness(t, settings.Default())
	ov := h.model.Overlay()

	h.send(runes("s"))
	h.send(tea.KeyMsg{Type: tea.KeyTab})
	h.send(runes("x"))
	h.send(tea.KeyMsg{Type: tea.KeyEsc})

	if got := ov.Store.Current().KeyBindings.Get(1); got != "" {
		t.Errorf("canonical[1] = %q, want empty", got)
	}
	if h.persister.saves != 0 {
		t.Errorf("saves = %d, want 0", h.persister.saves)
	}
}

func TestThemeToggle(t *testing.T) {
	initial := settings.Default().WithBinding(7, "seven")
	h := newHarness(t, initial)
	ov := h.model.Overlay()

	h.send(runes("s"))
	h.send(tea.KeyMsg{Type: tea.KeyCtrlT})

	want := initial.WithTheme(settings.ThemeDark)
	if got := ov.Store.Current(); got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
	if h.persister.saves != 1 {
		t.Errorf("saves = %d, want 1", h.persister.saves)
	}
}

func TestPersistFailureShowsStatus(t *testing.T) {
	h := newHarness(t, settings.Default())
	h.persister.saveErr = errors.New("read-only")

	h.send(runes("s"))
	h.send(tea.KeyMsg{Type: tea.KeyCtrlT})

	if got := h.model.Overlay().Store.Current().Theme; got != settings.ThemeLight {
		t.Errorf("theme = %q, want light", got)
	}
	if !strings.Contains(h.model.View(), "Could not save settings") {
		t.Error("view does not report the failed save")
	}
}

func TestClickCopiesSlot(t *testing.T) {
	h := newHarness(t, settings.Default().WithBinding(2, "two"))

	h.send(tea.MouseMsg{
		X:      keyOuterWidth + keyGap,
		Y:      gridTop + 1,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	h.model.Overlay().Copier.Wait()

	if got := h.clipboard.Writes(); len(got) != 1 || got[0] != "two" {
		t.Errorf("writes = %q, want [two]", got)
	}
}

func TestSlotAt(t *testing.T) {
	stride := keyOuterWidth + keyGap
	tests := []struct {
		name   string
		x, y   int
		want   settings.Slot
		wantOK bool
	}{
		{"first key", 0, gridTop, 1, true},
		{"second key", stride, gridTop, 2, true},
		{"gap", keyOuterWidth, gridTop, 0, false},
		{"second row", 0, gridTop + keyHeight, 6, true},
		{"last key", 3 * stride, gridTop + keyHeight, 9, true},
		{"past second row end", 4 * stride, gridTop + keyHeight, 0, false},
		{"title", 0, 0, 0, false},
		{"below grid", 0, gridTop + 2*keyHeight, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := slotAt(tt.x, tt.y)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("slotAt(%d, %d) = %v, %v; want %v, %v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestViewRendersTheme(t *testing.T) {
	h := newHarness(t, settings.Default().WithBinding(1, "alpha"))

	main := h.model.View()
	if !strings.Contains(main, "alpha") || !strings.Contains(main, "empty") {
		t.Errorf("main view missing slot previews:\n%s", main)
	}

	h.send(runes("s"))
	if !strings.Contains(h.model.View(), "Theme: light") {
		t.Errorf("settings view missing theme:\n%s", h.model.View())
	}
}
