package overlay

import (
	"context"
	"errors"
	"testing"

	"markestedt/copyman/settings"
)

func TestEditorKeystrokesStayInDraft(t *testing.T) {
	f := newFixture(t, settings.Default())
	f.overlay.View.OpenSettings()
	editor := f.overlay.Editor

	editor.Focus(2)
	editor.OnChange(2, "draft")

	if got := editor.Draft().Get(2); got != "draft" {
		t.Errorf("draft slot 2 = %q", got)
	}
	if got := f.store.Current().KeyBindings.Get(2); got != "" {
		t.Errorf("canonical slot 2 = %q, keystroke leaked", got)
	}
	if saves := f.persister.Saves(); len(saves) != 0 {
		t.Errorf("keystroke persisted: %+v", saves)
	}
}

func TestEditorBlurCommitsOneSlot(t *testing.T) {
	initial := settings.Default().WithTheme(settings.ThemeDark).WithBinding(1, "one")
	f := newFixture(t, initial)
	f.overlay.View.OpenSettings()
	editor := f.overlay.Editor

	editor.Focus(2)
	editor.OnChange(2, "two")
	if err := editor.OnBlur(context.Background(), 2); err != nil {
		t.Fatalf("OnBlur: %v", err)
	}

	want := initial.WithBinding(2, "two")
	if got := f.store.Current(); got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
	if _, ok := editor.Focused(); ok {
		t.Error("focus should be cleared after blur")
	}
}

func TestEditorFocusReportsBlurredSlot(t *testing.T) {
	f := newFixture(t, settings.Default())
	f.overlay.View.OpenSettings()
	editor := f.overlay.Editor

	if _, ok := editor.Focus(1); ok {
		t.Error("first focus should not blur anything")
	}
	if _, ok := editor.Focus(1); ok {
		t.Error("refocusing the same slot should not blur it")
	}
	blurred, ok := editor.Focus(4)
	if !ok || blurred != 1 {
		t.Errorf("Focus(4) blurred %v, %v; want 1, true", blurred, ok)
	}
}

func TestEditorPersistFailureKeepsCanonical(t *testing.T) {
	f := newFixture(t, settings.Default())
	f.overlay.View.OpenSettings()
	editor := f.overlay.Editor
	f.persister.saveErr = errBoom

	editor.OnChange(5, "lost")
	err := editor.OnBlur(context.Background(), 5)
	if !errors.Is(err, settings.ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}
	if got := f.store.Current(); got != settings.Default() {
		t.Errorf("Current() = %+v, want default", got)
	}
}

func TestToggleThemeReplacesOnceWithSameBindings(t *testing.T) {
	initial := settings.Default().WithBinding(8, "eight")
	f := newFixture(t, initial)
	f.overlay.View.OpenSettings()

	if err := f.overlay.Editor.ToggleTheme(context.Background()); err != nil {
		t.Fatalf("ToggleTheme: %v", err)
	}

	saves := f.persister.Saves()
	if len(saves) != 1 {
		t.Fatalf("got %d saves, want 1", len(saves))
	}
	if saves[0].Theme != settings.ThemeDark {
		t.Errorf("theme = %q, want dark", saves[0].Theme)
	}
	if saves[0].KeyBindings != initial.KeyBindings {
		t.Errorf("bindings changed: %q", saves[0].KeyBindings)
	}
}

func TestToggleThemeKeepsUnsavedDraft(t *testing.T) {
	f := newFixture(t, settings.Default())
	f.overlay.View.OpenSettings()
	editor := f.overlay.Editor

	editor.Focus(3)
	editor.OnChange(3, "typing")
	if err := editor.ToggleTheme(context.Background()); err != nil {
		t.Fatalf("ToggleTheme: %v", err)
	}
	if got := editor.Draft().Get(3); got != "typing" {
		t.Errorf("draft slot 3 = %q; a theme-only change must not resync bindings", got)
	}
}

func TestExternalChangeOverwritesUnsavedDraft(t *testing.T) {
	f := newFixture(t, settings.Default())
	f.overlay.View.OpenSettings()
	editor := f.overlay.Editor

	editor.Focus(3)
	editor.OnChange(3, "unsaved keystrokes")

	external := settings.Default().WithBinding(7, "from elsewhere")
	if err := f.store.Replace(context.Background(), external); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	draft := editor.Draft()
	if draft != external.KeyBindings {
		t.Errorf("draft = %q, want resynced %q", draft, external.KeyBindings)
	}
}

func TestClosedEditorIgnoresEdits(t *testing.T) {
	f := newFixture(t, settings.Default())
	editor := f.overlay.Editor

	if editor.IsOpen() {
		t.Fatal("editor open in Main view")
	}
	editor.OnChange(1, "x")
	if err := editor.OnBlur(context.Background(), 1); err != nil {
		t.Fatalf("OnBlur: %v", err)
	}
	if len(f.persister.Saves()) != 0 {
		t.Error("closed editor persisted")
	}
}
