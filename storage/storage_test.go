package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"markestedt/copyman/settings"
)

func openBackends(t *testing.T) []Backend {
	t.Helper()
	var backends []Backend
	for _, name := range []string{"file", "sqlite"} {
		b, err := OpenBackend(name, t.TempDir())
		if err != nil {
			t.Fatalf("OpenBackend(%q): %v", name, err)
		}
		t.Cleanup(func() { b.Close() })
		backends = append(backends, b)
	}
	return backends
}

func TestBackendsReturnDefaultsWhenEmpty(t *testing.T) {
	for _, b := range openBackends(t) {
		t.Run(b.Name(), func(t *testing.T) {
			got, err := b.GetSettings(context.Background())
			if err != nil {
				t.Fatalf("GetSettings: %v", err)
			}
			if got != settings.Default() {
				t.Errorf("got %+v, want default", got)
			}
		})
	}
}

func TestBackendsRoundTrip(t *testing.T) {
	want := settings.Default().WithTheme(settings.ThemeDark).
		WithBinding(1, "first").
		WithBinding(9, "line one\nline two \"quoted\"")

	for _, b := range openBackends(t) {
		t.Run(b.Name(), func(t *testing.T) {
			ctx := context.Background()
			if err := b.SaveSettings(ctx, settings.Default()); err != nil {
				t.Fatalf("SaveSettings: %v", err)
			}
			if err := b.SaveSettings(ctx, want); err != nil {
				t.Fatalf("SaveSettings: %v", err)
			}
			got, err := b.GetSettings(ctx)
			if err != nil {
				t.Fatalf("GetSettings: %v", err)
			}
			if got != want {
				t.Errorf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestStoreRoundTripThroughFile(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(t.TempDir())
	want := settings.Default().WithBinding(3, "hello@example.com")

	store := settings.NewStore(fs)
	store.Load(ctx)
	if err := store.Replace(ctx, want); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	reloaded := settings.NewStore(fs)
	reloaded.Load(ctx)
	if got := reloaded.Current(); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFileStoreWritesBoundaryLayout(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	if err := fs.SaveSettings(context.Background(), settings.Default().WithBinding(2, "two")); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	data, err := os.ReadFile(fs.Path())
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("file is not JSON: %v", err)
	}
	var bindings map[string]string
	if err := json.Unmarshal(raw["keyBindings"], &bindings); err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 9 || bindings["2"] != "two" {
		t.Errorf("keyBindings = %v", bindings)
	}
}

func TestFileStoreMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(dir).GetSettings(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFileStoreRejectsUnknownTheme(t *testing.T) {
	dir := t.TempDir()
	content := `{"theme":"neon","keyBindings":{"1":"x"}}`
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileStore(dir).GetSettings(context.Background())
	if !errors.Is(err, settings.ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}

func TestOpenBackendUnknown(t *testing.T) {
	if _, err := OpenBackend("redis", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
