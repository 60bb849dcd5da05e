package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"markestedt/copyman/config"
	"markestedt/copyman/overlay"
	"markestedt/copyman/platform"
	"markestedt/copyman/settings"
	"markestedt/copyman/storage"
	"markestedt/copyman/tui"
	"markestedt/copyman/web"
)

// Index of the toggle combo in the list handed to the hotkey listener.
// Quick-copy combos for slots 1..9 follow at indexes 1..9.
const toggleCombo = 0

// Agent owns the settings store and coordinates the overlay with
// hotkeys, the web UI and the terminal front end
type Agent struct {
	cfg       *config.Config
	backend   storage.Backend
	store     *settings.Store
	host      *overlay.Host
	clipboard overlay.Clipboard
	hotkey    platform.Hotkey
}

// NewAgent opens the settings backend and loads the stored settings
func NewAgent(ctx context.Context, cfg *config.Config) (*Agent, error) {
	backend, err := storage.OpenBackend(cfg.Storage.Backend, cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings storage: %w", err)
	}

	store := settings.NewStore(backend)
	store.Load(ctx)
	slog.Info("Settings loaded", "backend", backend.Name(), "theme", store.Current().Theme)

	return &Agent{
		cfg:       cfg,
		backend:   backend,
		store:     store,
		host:      overlay.NewHost(cfg.ToggleDebounce()),
		clipboard: platform.NewClipboardWriter(platform.NewClipboard()),
		hotkey:    platform.NewHotkey(),
	}, nil
}

// Host returns the overlay visibility controller
func (a *Agent) Host() *overlay.Host {
	return a.host
}

// WebURL returns the web UI address, or "" when the web UI is disabled
func (a *Agent) WebURL() string {
	if !a.cfg.Web.Enabled {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", a.cfg.Web.Port)
}

func (a *Agent) overlayOptions() overlay.Options {
	return overlay.Options{
		Store:             a.store,
		Clipboard:         a.clipboard,
		Hider:             a.host,
		HighlightDuration: a.cfg.HighlightDuration(),
	}
}

// RunTerminal shows the overlay in the terminal until it is dismissed
func (a *Agent) RunTerminal(ctx context.Context) error {
	defer a.close()

	a.host.Show()
	return tui.Run(ctx, a.overlayOptions())
}

// Run starts the background event loop: global hotkeys and the web UI
func (a *Agent) Run(ctx context.Context) error {
	defer a.close()

	ov := overlay.New(a.overlayOptions())
	defer ov.Close()

	combos, err := a.hotkeyCombos()
	if err != nil {
		return err
	}

	// Start listening for hotkeys
	events, err := a.hotkey.Listen(ctx, combos)
	if errors.Is(err, platform.ErrHotkeyUnsupported) {
		slog.Warn("Global hotkeys unavailable, use the tray or web UI", "error", err)
		events = nil
	} else if err != nil {
		return fmt.Errorf("failed to start hotkey listener: %w", err)
	}

	var server *web.Server
	if a.cfg.Web.Enabled {
		server, err = web.NewServer(ov, a.host, a.cfg.Web.Port)
		if err != nil {
			return fmt.Errorf("failed to create web server: %w", err)
		}
		go func() {
			if err := server.Start(); err != nil {
				slog.Error("Web server failed", "error", err)
			}
		}()
	}

	slog.Info("CopyMan started", "toggle", a.cfg.Hotkey.Toggle, "quick_copy", a.cfg.Hotkey.QuickCopy)

	// Main event loop
	for {
		select {
		case <-ctx.Done():
			if server != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Warn("Web server shutdown failed", "error", err)
				}
				cancel()
			}
			return nil

		case evt, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if evt.Type == platform.Pressed {
				a.handleHotkey(ov, evt.Combo)
			}
		}
	}
}

func (a *Agent) handleHotkey(ov *overlay.Overlay, combo int) {
	if combo == toggleCombo {
		a.host.Toggle()
		return
	}

	slot := settings.Slot(combo)
	if !slot.Valid() {
		return
	}
	// Quick copy only works while the overlay is showing
	if !a.host.Visible() {
		return
	}
	slog.Info("Quick copy triggered", "slot", slot.String())
	ov.Click(slot)
}

// hotkeyCombos returns the toggle combo followed by the quick-copy combo
// for each slot
func (a *Agent) hotkeyCombos() ([]platform.KeyCombo, error) {
	toggle, err := config.ParseHotkey(a.cfg.Hotkey.Toggle)
	if err != nil {
		return nil, fmt.Errorf("failed to parse toggle hotkey: %w", err)
	}
	quick, err := config.ParseHotkey(a.cfg.Hotkey.QuickCopy)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quick copy hotkey: %w", err)
	}

	combos := make([]platform.KeyCombo, 0, 1+settings.SlotCount)
	parsed := []config.KeyCombo{toggle}
	for _, slot := range settings.Slots() {
		parsed = append(parsed, quick.WithKey(slot.String()))
	}

	for _, kc := range parsed {
		// Convert key to VK code (0 means modifier-only combo)
		vkCode, err := platform.VKCode(kc.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to get VK code for %s: %w", kc, err)
		}
		combos = append(combos, platform.KeyCombo{
			Ctrl:  kc.Ctrl,
			Shift: kc.Shift,
			Alt:   kc.Alt,
			Win:   kc.Win,
			Key:   vkCode,
		})
	}
	return combos, nil
}

func (a *Agent) close() {
	if err := a.backend.Close(); err != nil {
		slog.Warn("Failed to close settings storage", "error", err)
	}
}
