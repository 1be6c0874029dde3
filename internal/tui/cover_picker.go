package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// CoverOption is one downloadable cover in the picker.
type CoverOption struct {
	Title string
	URL   string
}

type coverPickerModel struct {
	options  []CoverOption
	selected []bool
	cursor   int
	keys     pickerKeys
	aborted  bool
	done     bool
}

func (m coverPickerModel) Init() tea.Cmd {
	return nil
}

func (m coverPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		m.selected[m.cursor] = !m.selected[m.cursor]
	case key.Matches(keyMsg, m.keys.All):
		for i := range m.selected {
			m.selected[i] = true
		}
	case key.Matches(keyMsg, m.keys.None):
		for i := range m.selected {
			m.selected[i] = false
		}
	case key.Matches(keyMsg, m.keys.Confirm):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Quit):
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m coverPickerModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleHeader.Render("Select covers to download"))
	b.WriteString("\n\n")
	for i, opt := range m.options {
		box := "[ ]"
		if m.selected[i] {
			box = StyleChecked.Render("[x]")
		}
		line := fmt.Sprintf("%s %s %s", box, opt.Title, StyleHelp.Render(opt.URL))
		if i == m.cursor {
			b.WriteString(StyleHighlight.Render("› ") + line)
		} else {
			b.WriteString("  " + StyleNormal.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(StyleHelp.Render("space toggle · a all · n none · enter download · q cancel"))
	b.WriteString("\n")
	return b.String()
}

// ErrPickerAborted is returned when the user cancels the picker.
var ErrPickerAborted = fmt.Errorf("selection canceled")

// RunCoverPicker shows an interactive multi-select over the candidate
// covers and returns the indexes the user chose. Everything starts
// selected so enter alone means "download them all".
func RunCoverPicker(options []CoverOption) ([]int, error) {
	if len(options) == 0 {
		return nil, nil
	}

	m := coverPickerModel{
		options:  options,
		selected: make([]bool, len(options)),
		keys:     newPickerKeys(),
	}
	for i := range m.selected {
		m.selected[i] = true
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("running cover picker: %w", err)
	}
	fm, ok := final.(coverPickerModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if fm.aborted {
		return nil, ErrPickerAborted
	}

	var picked []int
	for i, on := range fm.selected {
		if on {
			picked = append(picked, i)
		}
	}
	return picked, nil
}
