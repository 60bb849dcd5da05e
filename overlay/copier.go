package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"markestedt/copyman/settings"
)

// ErrEmptyText is returned by clipboard backends asked to copy nothing
var ErrEmptyText = errors.New("empty text")

// Clipboard writes plain text to the system clipboard
type Clipboard interface {
	CopyToClipboard(ctx context.Context, text string) error
}

// CopyController copies slot text to the clipboard and flashes the slot
// on success. Every call is one independent clipboard write.
type CopyController struct {
	clipboard Clipboard
	highlight *Highlighter
	wg        sync.WaitGroup
}

// NewCopyController creates a controller writing to clipboard
func NewCopyController(clipboard Clipboard, highlight *Highlighter) *CopyController {
	return &CopyController{
		clipboard: clipboard,
		highlight: highlight,
	}
}

// Copy writes text to the clipboard and highlights slot. Empty text is a
// no-op. A failed write is logged and does not highlight.
func (c *CopyController) Copy(ctx context.Context, text string, slot settings.Slot) error {
	if text == "" {
		return nil
	}

	if err := c.clipboard.CopyToClipboard(ctx, text); err != nil {
		slog.Error("Failed to copy to clipboard", "slot", slot.String(), "error", err)
		return fmt.Errorf("failed to copy slot %s: %w", slot, err)
	}

	slog.Debug("Copied slot to clipboard", "slot", slot.String(), "length", len(text))
	c.highlight.Activate(slot)
	return nil
}

// Go runs Copy in the background. Callers do not wait for it.
func (c *CopyController) Go(text string, slot settings.Slot) {
	if text == "" {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.Copy(context.Background(), text, slot)
	}()
}

// Wait blocks until every copy started with Go has finished
func (c *CopyController) Wait() {
	c.wg.Wait()
}
