package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"markestedt/copyman/overlay"
	"markestedt/copyman/settings"
)

// Slots per grid row, top to bottom
var gridRows = [][]settings.Slot{
	{1, 2, 3, 4, 5},
	{6, 7, 8, 9},
}

func (m Model) View() string {
	current := m.ov.Store.Current()
	st := newStyles(current.Theme)

	var body string
	if m.ov.View.Current() == overlay.ViewSettings {
		body = m.settingsView(st, current)
	} else {
		body = m.mainView(st, current)
	}
	return st.app.Render(body)
}

func (m Model) mainView(st styles, current settings.Settings) string {
	highlighted, flashing := m.ov.View.Highlighted()

	var rows []string
	for _, row := range gridRows {
		boxes := make([]string, 0, 2*len(row))
		for i, slot := range row {
			if i > 0 {
				boxes = append(boxes, strings.Repeat(" ", keyGap))
			}
			boxes = append(boxes, renderKey(st, slot, current.KeyBindings.Get(slot), flashing && slot == highlighted))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}

	lines := []string{
		st.title.Render("CopyMan"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		st.help.Render("1-9 copy · click copy · s settings · esc hide"),
	}
	if m.status != "" {
		lines = append(lines, st.err.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func renderKey(st styles, slot settings.Slot, text string, flash bool) string {
	preview := st.empty.Render("empty")
	if text != "" {
		preview = st.preview.Render(truncate(singleLine(text), keyInnerWidth-2))
	}
	box := st.key
	if flash {
		box = st.flash
	}
	return box.Render(st.digit.Render(slot.String()) + "\n" + preview)
}

func (m Model) settingsView(st styles, current settings.Settings) string {
	editor := m.ov.Editor
	draft := editor.Draft()
	focused, hasFocus := editor.Focused()

	lines := []string{
		st.title.Render("Settings"),
		"",
		fmt.Sprintf("Theme: %s", current.Theme),
		"",
	}
	for _, slot := range settings.Slots() {
		value := strings.ReplaceAll(draft.Get(slot), "\n", "⏎")
		if hasFocus && slot == focused {
			lines = append(lines, st.focused.Render(fmt.Sprintf("> %s │ %s█", slot, value)))
			continue
		}
		lines = append(lines, st.field.Render(fmt.Sprintf("  %s │ %s", slot, value)))
	}

	lines = append(lines, "", st.help.Render("tab/↓ next · shift+tab/↑ prev · enter save · ctrl+t theme · esc back"))
	if m.status != "" {
		lines = append(lines, st.err.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

// slotAt maps a cell of the Main view to the key box drawn there
func slotAt(x, y int) (settings.Slot, bool) {
	if x < 0 || y < gridTop {
		return 0, false
	}
	row := (y - gridTop) / keyHeight
	if row >= len(gridRows) {
		return 0, false
	}
	stride := keyOuterWidth + keyGap
	col := x / stride
	if x%stride >= keyOuterWidth || col >= len(gridRows[row]) {
		return 0, false
	}
	return gridRows[row][col], true
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most width cells, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) > width-1 {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + "…"
}
