package overlay

import (
	"reflect"
	"testing"
)

func TestDispatchRunsCaptureBeforeBubble(t *testing.T) {
	target := NewEventTarget()
	var order []string
	target.AddListener(PhaseBubble, func(*KeyEvent) { order = append(order, "bubble") })
	target.AddListener(PhaseCapture, func(*KeyEvent) { order = append(order, "capture-1") })
	target.AddListener(PhaseCapture, func(*KeyEvent) { order = append(order, "capture-2") })

	if target.Dispatch(NewKeyEvent("a")) {
		t.Error("no listener prevented default")
	}
	want := []string{"capture-1", "capture-2", "bubble"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestStopPropagationSkipsBubble(t *testing.T) {
	target := NewEventTarget()
	var order []string
	target.AddListener(PhaseCapture, func(ev *KeyEvent) {
		order = append(order, "capture-1")
		ev.PreventDefault()
		ev.StopPropagation()
	})
	target.AddListener(PhaseCapture, func(*KeyEvent) { order = append(order, "capture-2") })
	target.AddListener(PhaseBubble, func(*KeyEvent) { order = append(order, "bubble") })

	if !target.Dispatch(NewKeyEvent("1")) {
		t.Error("expected default prevented")
	}
	want := []string{"capture-1", "capture-2"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestStopImmediatePropagationSkipsRemainingCapture(t *testing.T) {
	target := NewEventTarget()
	var order []string
	target.AddListener(PhaseCapture, func(ev *KeyEvent) {
		order = append(order, "capture-1")
		ev.StopImmediatePropagation()
	})
	target.AddListener(PhaseCapture, func(*KeyEvent) { order = append(order, "capture-2") })
	target.AddListener(PhaseBubble, func(*KeyEvent) { order = append(order, "bubble") })

	target.Dispatch(NewKeyEvent(KeyEscape))
	if !reflect.DeepEqual(order, []string{"capture-1"}) {
		t.Errorf("order = %v", order)
	}
}

func TestRemoveListenerIsIdempotent(t *testing.T) {
	target := NewEventTarget()
	remove := target.AddListener(PhaseCapture, func(*KeyEvent) {})
	target.AddListener(PhaseBubble, func(*KeyEvent) {})

	remove()
	remove()
	if got := target.ListenerCount(); got != 1 {
		t.Errorf("ListenerCount() = %d, want 1", got)
	}
}
