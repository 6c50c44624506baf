package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m Picker, msgs ...tea.Msg) Picker {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Picker)
	}
	return m
}

func TestPickerNavigateAndSelect(t *testing.T) {
	m := NewPicker("Tabs", []string{"Janeiro", "Fevereiro", "Março"})
	m = press(m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	got, ok := m.Choice()
	if !ok || got != "Fevereiro" {
		t.Errorf("Choice() = %q, %v, want Fevereiro", got, ok)
	}
}

func TestPickerFilter(t *testing.T) {
	m := NewPicker("Tabs", []string{"Links 2024", "Links 2025", "Arquivo"})
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2025")})
	if v := m.visible(); len(v) != 1 || v[0] != "Links 2025" {
		t.Fatalf("visible = %v", v)
	}
	if !strings.Contains(m.View(), "filter: 2025") {
		t.Error("view should show the filter")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	if len(m.visible()) != 2 {
		t.Errorf("after backspace visible = %v", m.visible())
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zz")}, tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := m.Choice(); ok {
		t.Error("enter on an empty list should not choose")
	}
	if !strings.Contains(m.View(), "No tabs match.") {
		t.Error("view should report no matches")
	}
}

func TestPickerQuit(t *testing.T) {
	m := press(NewPicker("Tabs", []string{"A"}), tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.Choice(); ok {
		t.Error("esc should not choose")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
