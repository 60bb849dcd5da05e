package platform

import (
	"context"
	"log/slog"

	"markestedt/copyman/overlay"
)

// ClipboardWriter adapts a Clipboard to the overlay's copy collaborator
type ClipboardWriter struct {
	clipboard Clipboard
}

// NewClipboardWriter wraps clipboard
func NewClipboardWriter(clipboard Clipboard) *ClipboardWriter {
	return &ClipboardWriter{clipboard: clipboard}
}

// CopyToClipboard writes text. A context that has already ended stops
// the copy before it starts; once started, the write always runs to
// completion and its result is what the caller sees.
func (w *ClipboardWriter) CopyToClipboard(ctx context.Context, text string) error {
	if text == "" {
		return overlay.ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := w.clipboard.Set(text); err != nil {
		return err
	}
	slog.Info("Text copied to clipboard", "length", len(text))
	return nil
}
