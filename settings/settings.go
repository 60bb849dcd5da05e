package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidTheme is returned when decoding a theme other than light or dark
var ErrInvalidTheme = errors.New("invalid theme")

// Theme is the overlay color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is one of the known themes
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// SlotCount is the number of bindable slots
const SlotCount = 9

// Slot identifies one of the nine bindings, 1 through 9.
// The zero value means "no slot".
type Slot int

// ParseSlot parses the literal keys "1".."9"
func ParseSlot(s string) (Slot, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return Slot(s[0] - '0'), true
}

// Valid reports whether s is within 1..9
func (s Slot) Valid() bool {
	return s >= 1 && s <= SlotCount
}

func (s Slot) String() string {
	return strconv.Itoa(int(s))
}

// Slots returns every slot in order
func Slots() []Slot {
	slots := make([]Slot, SlotCount)
	for i := range slots {
		slots[i] = Slot(i + 1)
	}
	return slots
}

// KeyBindings maps each slot to its bound text. It is a fixed array so
// that all nine slots always exist.
type KeyBindings [SlotCount]string

// Get returns the text bound to slot, or "" for an invalid slot
func (b KeyBindings) Get(slot Slot) string {
	if !slot.Valid() {
		return ""
	}
	return b[slot-1]
}

// With returns a copy of b with slot bound to text
func (b KeyBindings) With(slot Slot, text string) KeyBindings {
	if slot.Valid() {
		b[slot-1] = text
	}
	return b
}

// MarshalJSON writes all nine slots as an object keyed "1".."9"
func (b KeyBindings) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, SlotCount)
	for _, slot := range Slots() {
		m[slot.String()] = b.Get(slot)
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads an object keyed "1".."9". Absent slots become the
// empty string and unknown keys are dropped.
func (b *KeyBindings) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = KeyBindings{}
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to decode key bindings: %w", err)
	}

	var out KeyBindings
	for key, text := range m {
		if slot, ok := ParseSlot(key); ok {
			out[slot-1] = text
		}
	}
	*b = out
	return nil
}

// Settings is the persisted user preference set
type Settings struct {
	Theme       Theme       `json:"theme"`
	KeyBindings KeyBindings `json:"keyBindings"`
}

// Default returns the first-run settings: light theme, every slot empty
func Default() Settings {
	return Settings{Theme: ThemeLight}
}

// WithTheme returns a copy of s using theme
func (s Settings) WithTheme(theme Theme) Settings {
	s.Theme = theme
	return s
}

// WithBinding returns a copy of s with slot bound to text
func (s Settings) WithBinding(slot Slot, text string) Settings {
	s.KeyBindings = s.KeyBindings.With(slot, text)
	return s
}

// UnmarshalJSON decodes the persisted layout. A missing theme falls back
// to light; an unknown one is rejected.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type wire Settings
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	if w.Theme == "" {
		w.Theme = ThemeLight
	}
	if !w.Theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, w.Theme)
	}

	*s = Settings(w)
	return nil
}
