// Package tui holds the interactive tab picker.
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user quits without choosing.
var ErrCancelled = errors.New("selection cancelled")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	docStyle      = lipgloss.NewStyle().Margin(1, 2)
)

// Picker is a single-choice list of spreadsheet tabs.
type Picker struct {
	title    string
	tabs     []string
	filter   string
	cursor   int
	chosen   string
	quitting bool
	height   int
}

// NewPicker returns a picker over tabs.
func NewPicker(title string, tabs []string) Picker {
	return Picker{title: title, tabs: tabs}
}

// Choice returns the selected tab, if any.
func (m Picker) Choice() (string, bool) {
	return m.chosen, m.chosen != ""
}

// Init is the first command that will be run. We don't need any.
func (m Picker) Init() tea.Cmd {
	return nil
}

// visible returns the tabs matching the current filter.
func (m Picker) visible() []string {
	if m.filter == "" {
		return m.tabs
	}
	needle := strings.ToLower(m.filter)
	var out []string
	for _, t := range m.tabs {
		if strings.Contains(strings.ToLower(t), needle) {
			out = append(out, t)
		}
	}
	return out
}

// Update handles key presses. Typing filters the list.
func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case tea.KeyMsg:
		items := m.visible()
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown:
			if m.cursor < len(items)-1 {
				m.cursor++
			}
		case tea.KeyEnter:
			if len(items) > 0 {
				m.chosen = items[m.cursor]
				return m, tea.Quit
			}
		case tea.KeyBackspace:
			if m.filter != "" {
				r := []rune(m.filter)
				m.filter = string(r[:len(r)-1])
				m.cursor = 0
			}
		case tea.KeyRunes, tea.KeySpace:
			m.filter += string(msg.Runes)
			if msg.Type == tea.KeySpace {
				m.filter += " "
			}
			m.cursor = 0
		}
	}
	return m, nil
}

// View renders the list.
func (m Picker) View() string {
	if m.quitting || m.chosen != "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n")

	items := m.visible()
	if len(items) == 0 {
		sb.WriteString(itemStyle.Render("No tabs match."))
		sb.WriteString("\n")
	}
	for i, t := range items {
		if i == m.cursor {
			sb.WriteString(selectedStyle.Render(fmt.Sprintf("> %s", t)))
		} else {
			sb.WriteString(itemStyle.Render(fmt.Sprintf("  %s", t)))
		}
		sb.WriteString("\n")
	}

	help := "[↑/↓] Move | [enter] Select | [esc] Quit"
	if m.filter != "" {
		help = fmt.Sprintf("filter: %s | %s", m.filter, help)
	}
	sb.WriteString(helpStyle.Render(help))
	return docStyle.Render(sb.String())
}

// PickTab runs the picker and returns the chosen tab.
func PickTab(title string, tabs []string) (string, error) {
	if len(tabs) == 0 {
		return "", fmt.Errorf("no tabs to choose from")
	}
	final, err := tea.NewProgram(NewPicker(title, tabs)).Run()
	if err != nil {
		return "", fmt.Errorf("error running tab picker: %w", err)
	}
	if choice, ok := final.(Picker).Choice(); ok {
		return choice, nil
	}
	return "", ErrCancelled
}
