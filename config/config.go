package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrUnknownKey is returned by ParseHotkey for key names it cannot map
var ErrUnknownKey = errors.New("unknown key")

type Config struct {
	Hotkey  HotkeyConfig  `toml:"hotkey"`
	Overlay OverlayConfig `toml:"overlay"`
	Storage StorageConfig `toml:"storage"`
	Web     WebConfig     `toml:"web"`
	Log     LogConfig     `toml:"log"`
}

type HotkeyConfig struct {
	Toggle    string `toml:"toggle"`
	QuickCopy string `toml:"quick_copy"`
}

type OverlayConfig struct {
	HighlightMs      int `toml:"highlight_ms"`
	ToggleDebounceMs int `toml:"toggle_debounce_ms"`
}

type StorageConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
}

type WebConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Default configuration
func defaultConfig() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = "."
	}

	return &Config{
		Hotkey: HotkeyConfig{
			Toggle:    "ctrl+shift+space",
			QuickCopy: "ctrl+alt",
		},
		Overlay: OverlayConfig{
			HighlightMs:      200,
			ToggleDebounceMs: 300,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Dir:     dir,
		},
		Web: WebConfig{
			Enabled: true,
			Port:    7428,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "copyman.log"),
		},
	}
}

// ConfigDir returns the per-user application directory
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, "copyman"), nil
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from the TOML file at path, or from
// ConfigPath when path is empty. A missing file is created with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	// If config doesn't exist, create it with defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("invalid storage backend %q (want %q or %q)", c.Storage.Backend, BackendFile, BackendSQLite)
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage dir must not be empty")
	}
	if c.Web.Enabled && (c.Web.Port <= 0 || c.Web.Port > 65535) {
		return fmt.Errorf("invalid web port %d", c.Web.Port)
	}
	if c.Overlay.HighlightMs <= 0 {
		return fmt.Errorf("highlight_ms must be positive, got %d", c.Overlay.HighlightMs)
	}
	if c.Overlay.ToggleDebounceMs < 0 {
		return fmt.Errorf("toggle_debounce_ms must not be negative, got %d", c.Overlay.ToggleDebounceMs)
	}
	return nil
}

// HighlightDuration returns the slot highlight duration
func (c *Config) HighlightDuration() time.Duration {
	return time.Duration(c.Overlay.HighlightMs) * time.Millisecond
}

// ToggleDebounce returns the minimum gap between overlay toggles
func (c *Config) ToggleDebounce() time.Duration {
	return time.Duration(c.Overlay.ToggleDebounceMs) * time.Millisecond
}

// save writes the configuration to the TOML file
func save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// KeyCombo represents a parsed keyboard combination
type KeyCombo struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Win   bool
	Key   string
}

// WithKey returns the modifiers of kc combined with key
func (kc KeyCombo) WithKey(key string) KeyCombo {
	kc.Key = key
	return kc
}

func (kc KeyCombo) String() string {
	var parts []string
	if kc.Ctrl {
		parts = append(parts, "ctrl")
	}
	if kc.Shift {
		parts = append(parts, "shift")
	}
	if kc.Alt {
		parts = append(parts, "alt")
	}
	if kc.Win {
		parts = append(parts, "win")
	}
	if kc.Key != "" {
		parts = append(parts, kc.Key)
	}
	return strings.Join(parts, "+")
}

// ParseHotkey parses a hotkey combo string like "ctrl+shift+space" or "ctrl+alt"
func ParseHotkey(combo string) (KeyCombo, error) {
	var kc KeyCombo
	combo = strings.TrimSpace(combo)
	if combo == "" {
		return kc, fmt.Errorf("empty hotkey combo")
	}
	parts := strings.Split(strings.ToLower(combo), "+")

	for i, part := range parts {
		part = strings.TrimSpace(part)

		isModifier := false
		switch part {
		case "ctrl", "control":
			kc.Ctrl = true
			isModifier = true
		case "shift":
			kc.Shift = true
			isModifier = true
		case "alt", "option":
			kc.Alt = true
			isModifier = true
		case "win", "windows", "cmd", "super":
			kc.Win = true
			isModifier = true
		}

		// If it's not a modifier and it's the last part, it's the key
		if !isModifier {
			if i != len(parts)-1 {
				return kc, fmt.Errorf("unknown modifier: %s", part)
			}
			if !knownKey(part) {
				return kc, fmt.Errorf("%w: %s", ErrUnknownKey, part)
			}
			kc.Key = part
		}
	}

	// Key is optional for modifier-only combos, but at least one
	// modifier is required
	if !kc.Ctrl && !kc.Shift && !kc.Alt && !kc.Win {
		return kc, fmt.Errorf("no modifiers specified in combo %q", combo)
	}

	return kc, nil
}

func knownKey(key string) bool {
	if len(key) == 1 {
		c := key[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	switch key {
	case "space", "enter", "esc", "tab", "backspace",
		"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12":
		return true
	}
	return false
}
