//go:build !windows

package platform

import (
	"github.com/atotto/clipboard"
)

var clipboardWriteAll = clipboard.WriteAll

// SystemClipboard writes through the platform clipboard helper
// (pbcopy, xclip, xsel, wl-copy) and falls back to an OSC 52 escape
// sequence when no helper is usable, e.g. over SSH
type SystemClipboard struct{}

// NewClipboard creates the clipboard for this platform
func NewClipboard() Clipboard {
	return &SystemClipboard{}
}

// Name identifies the backend in logs
func (c *SystemClipboard) Name() string {
	return "system"
}

// Set replaces the clipboard contents with text
func (c *SystemClipboard) Set(text string) error {
	err := clipboardWriteAll(text)
	if err == nil {
		return nil
	}
	if oscErr := clipboardWriteOSC52(text); oscErr != nil {
		return combineClipboardErrors(err, oscErr)
	}
	return nil
}
