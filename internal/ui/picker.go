package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrPickCancelled is returned when the user leaves the picker without
// choosing.
var ErrPickCancelled = errors.New("selection cancelled")

// PickerItem is one entry shown in the interactive picker.
type PickerItem struct {
	Label    string // primary text (network name)
	SubLabel string // dimmed detail (chain id, url)
	Value    string // returned on selection
}

type pickerModel struct {
	title     string
	items     []PickerItem
	cursor    int
	selected  int // -1 until enter
	cancelled bool
}

func newPickerModel(title string, items []PickerItem, initial string) pickerModel {
	m := pickerModel{title: title, items: items, selected: -1}
	for i, it := range items {
		if it.Value == initial {
			m.cursor = i
		}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.cursor
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.cancelled || m.selected >= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(StyleTitle.Render("  "+m.title) + "\n")

	for i, item := range m.items {
		prefix := "    "
		if i == m.cursor {
			prefix = "  ▸ "
		}
		line := prefix + StyleValue.Render(item.Label)
		if item.SubLabel != "" {
			line += "  " + StyleMeta.Render(item.SubLabel)
		}
		if i == m.cursor {
			line = StyleSelected.Render(line)
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(StyleMeta.Render("  [ ↑↓ / jk ] navigate   [ Enter ] select   [ q ] cancel") + "\n")
	return sb.String()
}

// PickItem runs the picker with the cursor on initial and returns the
// chosen item's Value.
func PickItem(title string, items []PickerItem, initial string) (string, error) {
	if len(items) == 0 {
		return "", errors.New("no items to pick from")
	}

	final, err := tea.NewProgram(newPickerModel(title, items, initial)).Run()
	if err != nil {
		return "", err
	}
	fm := final.(pickerModel)
	if fm.cancelled || fm.selected < 0 {
		return "", ErrPickCancelled
	}
	return fm.items[fm.selected].Value, nil
}
