//go:build windows

package platform

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	kernel32         = windows.NewLazySystemDLL("kernel32.dll")
	openClipboard    = user32.NewProc("OpenClipboard")
	closeClipboard   = user32.NewProc("CloseClipboard")
	emptyClipboard   = user32.NewProc("EmptyClipboard")
	setClipboardData = user32.NewProc("SetClipboardData")
	globalAlloc      = kernel32.NewProc("GlobalAlloc")
	globalFree       = kernel32.NewProc("GlobalFree")
	globalLock       = kernel32.NewProc("GlobalLock")
	globalUnlock     = kernel32.NewProc("GlobalUnlock")
)

const (
	cfUnicodeText = 13
	gmemMoveable  = 0x0002

	openAttempts = 10
	openBackoff  = 10 * time.Millisecond
)

// WindowsClipboard writes CF_UNICODETEXT through the Win32 clipboard API
type WindowsClipboard struct{}

// NewClipboard creates a new Windows clipboard instance
func NewClipboard() Clipboard {
	return &WindowsClipboard{}
}

// Name identifies the backend in logs
func (c *WindowsClipboard) Name() string {
	return "win32"
}

// Set replaces the clipboard contents with text
func (c *WindowsClipboard) Set(text string) error {
	mem, err := allocUTF16(text)
	if err != nil {
		return err
	}

	err = withClipboard(func() error {
		emptyClipboard.Call()
		if r, _, err := setClipboardData.Call(cfUnicodeText, mem); r == 0 {
			return fmt.Errorf("SetClipboardData failed: %w", err)
		}
		return nil
	})
	if err != nil {
		// Ownership only passes to the system on success
		globalFree.Call(mem)
	}
	return err
}

// allocUTF16 copies text into a movable global memory block
func allocUTF16(text string) (uintptr, error) {
	utf16, err := windows.UTF16FromString(text)
	if err != nil {
		return 0, fmt.Errorf("UTF16 conversion failed: %w", err)
	}

	mem, _, err := globalAlloc.Call(gmemMoveable, uintptr(len(utf16)*2))
	if mem == 0 {
		return 0, fmt.Errorf("GlobalAlloc failed: %w", err)
	}

	ptr, _, err := globalLock.Call(mem)
	if ptr == 0 {
		globalFree.Call(mem)
		return 0, fmt.Errorf("GlobalLock failed: %w", err)
	}
	copy(unsafe.Slice((*uint16)(unsafe.Pointer(ptr)), len(utf16)), utf16)
	globalUnlock.Call(mem)

	return mem, nil
}

// withClipboard opens the clipboard, retrying while another process
// holds it, and runs fn before closing it again
func withClipboard(fn func() error) error {
	opened := false
	for i := 0; i < openAttempts; i++ {
		if r, _, _ := openClipboard.Call(0); r != 0 {
			opened = true
			break
		}
		time.Sleep(openBackoff)
	}
	if !opened {
		return fmt.Errorf("failed to open clipboard after %d attempts", openAttempts)
	}
	defer closeClipboard.Call()

	return fn()
}
