package overlay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"markestedt/copyman/settings"
)

type fakeClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (c *fakeClipboard) CopyToClipboard(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
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

type memPersister struct {
	mu      sync.Mutex
	stored  settings.Settings
	saveErr error
	saves   []settings.Settings
}

func (p *memPersister) GetSettings(context.Context) (settings.Settings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stored, nil
}

func (p *memPersister) SaveSettings(_ context.Context, s settings.Settings) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves = append(p.saves, s)
	if p.saveErr != nil {
		return p.saveErr
	}
	p.stored = s
	return nil
}

func (p *memPersister) Saves() []settings.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]settings.Settings(nil), p.saves...)
}

type fixture struct {
	persister *memPersister
	store     *settings.Store
	clipboard *fakeClipboard
	hider     *countingHider
	overlay   *Overlay
}

const testHighlight = 50 * time.Millisecond

func newFixture(t *testing.T, initial settings.Settings) *fixture {
	t.Helper()
	p := &memPersister{stored: initial}
	store := settings.NewStore(p)
	store.Load(context.Background())

	f := &fixture{
		persister: p,
		store:     store,
		clipboard: &fakeClipboard{},
		hider:     &countingHider{},
	}
	f.overlay = New(Options{
		Store:             store,
		Clipboard:         f.clipboard,
		Hider:             f.hider,
		HighlightDuration: testHighlight,
	})
	t.Cleanup(f.overlay.Close)
	return f
}

func (f *fixture) press(key string) *KeyEvent {
	ev := NewKeyEvent(key)
	f.overlay.Target.Dispatch(ev)
	return ev
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

var errBoom = errors.New("boom")
