//go:build windows

package platform

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	setWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	callNextHookEx      = user32.NewProc("CallNextHookEx")
	unhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	peekMessage         = user32.NewProc("PeekMessageW")
	getAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
)

const (
	whKeyboardLL = 13
	wmKeydown    = 0x0100
	wmSyskeydown = 0x0104
	pmRemove     = 0x0001
)

const (
	vkShift = 0x10
	vkCtrl  = 0x11
	vkAlt   = 0x12
	vkLwin  = 0x5B // Left Windows key
	vkRwin  = 0x5C // Right Windows key
)

type kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// WindowsHotkey implements the Hotkey interface with a low-level
// keyboard hook
type WindowsHotkey struct {
	mu      sync.Mutex
	combos  []KeyCombo
	pressed []bool
	events  chan Event
	hook    uintptr
	done    chan struct{}
}

// NewHotkey creates a new Windows hotkey listener
func NewHotkey() Hotkey {
	return &WindowsHotkey{}
}

// Listen starts listening for the given key combinations until ctx is done
func (h *WindowsHotkey) Listen(ctx context.Context, combos []KeyCombo) (<-chan Event, error) {
	h.mu.Lock()
	h.combos = append([]KeyCombo(nil), combos...)
	h.pressed = make([]bool, len(combos))
	h.events = make(chan Event, 10)
	h.done = make(chan struct{})
	h.mu.Unlock()

	// Start hook in a goroutine
	errCh := make(chan error, 1)
	go h.runHook(errCh)

	// Wait for hook to be installed or error
	select {
	case err := <-errCh:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// Monitor context cancellation
	go func() {
		<-ctx.Done()
		close(h.done)
		h.mu.Lock()
		hook := h.hook
		h.mu.Unlock()
		if hook != 0 {
			unhookWindowsHookEx.Call(hook)
		}
	}()

	return h.events, nil
}

func (h *WindowsHotkey) runHook(errCh chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hookProc := func(nCode int32, wParam uintptr, lParam uintptr) uintptr {
		if nCode >= 0 {
			kbInfo := (*kbdllhookstruct)(unsafe.Pointer(lParam))
			h.handleKeyEvent(wParam, kbInfo)
		}
		r, _, _ := callNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return r
	}

	hook, _, err := setWindowsHookEx.Call(
		whKeyboardLL,
		windows.NewCallback(hookProc),
		0,
		0,
	)

	if hook == 0 {
		errCh <- fmt.Errorf("SetWindowsHookEx failed: %w", err)
		return
	}

	h.mu.Lock()
	h.hook = hook
	h.mu.Unlock()

	errCh <- nil

	// Message loop
	var m msg
	for {
		select {
		case <-h.done:
			return
		default:
			r, _, _ := peekMessage.Call(
				uintptr(unsafe.Pointer(&m)),
				0,
				0,
				0,
				pmRemove,
			)
			if r != 0 {
				continue
			}
			runtime.Gosched()
		}
	}
}

func (h *WindowsHotkey) handleKeyEvent(wParam uintptr, kbInfo *kbdllhookstruct) {
	isKeyDown := wParam == wmKeydown || wParam == wmSyskeydown

	for i, combo := range h.combos {
		if !h.involves(combo, kbInfo.vkCode) {
			continue
		}
		if isKeyDown {
			if h.checkModifiers(combo) {
				h.transition(i, true)
			}
		} else {
			h.transition(i, false)
		}
	}
}

// involves reports whether vk is the combo's key, or one of its
// modifiers for a modifier-only combo
func (h *WindowsHotkey) involves(combo KeyCombo, vk uint32) bool {
	if combo.Key != 0 {
		return vk == uint32(combo.Key)
	}
	switch {
	case combo.Ctrl && vk == vkCtrl:
		return true
	case combo.Shift && vk == vkShift:
		return true
	case combo.Alt && vk == vkAlt:
		return true
	case combo.Win && (vk == vkLwin || vk == vkRwin):
		return true
	}
	return false
}

func (h *WindowsHotkey) transition(combo int, down bool) {
	h.mu.Lock()
	if h.pressed[combo] == down {
		h.mu.Unlock()
		return
	}
	h.pressed[combo] = down
	h.mu.Unlock()

	evt := Event{Type: Released, Combo: combo}
	if down {
		evt.Type = Pressed
	}
	select {
	case h.events <- evt:
	default:
	}
}

func (h *WindowsHotkey) checkModifiers(combo KeyCombo) bool {
	ctrl := h.isKeyPressed(vkCtrl)
	shift := h.isKeyPressed(vkShift)
	alt := h.isKeyPressed(vkAlt)
	win := h.isKeyPressed(vkLwin) || h.isKeyPressed(vkRwin)

	return ctrl == combo.Ctrl &&
		shift == combo.Shift &&
		alt == combo.Alt &&
		win == combo.Win
}

func (h *WindowsHotkey) isKeyPressed(vk int) bool {
	r, _, _ := getAsyncKeyState.Call(uintptr(vk))
	return r&0x8000 != 0
}
