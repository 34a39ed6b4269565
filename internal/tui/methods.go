// SPDX-License-Identifier: MIT
//
// Package tui holds the interactive preferences screen: a list of onset
// detection methods the user moves through with the arrow keys and picks
// with enter.
package tui

import (
	"fmt"
	"strings"

	"tempo/internal/onset"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7A7A7A"))
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
}

// MethodModel is the Bubble Tea model for choosing a detection method.
type MethodModel struct {
	methods       []onset.Method
	current       onset.Method
	selectedIndex int
	chosen        bool
	cancelled     bool
}

// NewMethodModel starts with the cursor on current.
func NewMethodModel(current onset.Method) MethodModel {
	m := MethodModel{
		methods: onset.Methods(),
		current: current,
	}
	for i, method := range m.methods {
		if method == current {
			m.selectedIndex = i
			break
		}
	}
	return m
}

func (m MethodModel) Init() tea.Cmd {
	return nil
}

func (m MethodModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		m.cancelled = true
		return m, tea.Quit

	case key.Matches(keyMsg, keys.Up):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}

	case key.Matches(keyMsg, keys.Down):
		if m.selectedIndex < len(m.methods)-1 {
			m.selectedIndex++
		}

	case key.Matches(keyMsg, keys.Select):
		m.chosen = true
		return m, tea.Quit
	}
	return m, nil
}

func (m MethodModel) View() string {
	if m.chosen || m.cancelled {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Onset Detection Method"))
	sb.WriteString("\n\n")

	for i, method := range m.methods {
		cursor := " "
		if i == m.selectedIndex {
			cursor = "▶"
		}
		marker := ""
		if method == m.current {
			marker = " (current)"
		}
		line := fmt.Sprintf("%s %-9s%s", cursor, method, marker)
		if i == m.selectedIndex {
			line = highlightStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("  ")
		sb.WriteString(dimStyle.Render(method.Description()))
		sb.WriteString("\n")
	}

	help := fmt.Sprintf("%s: Navigate • %s: Select • %s: Cancel",
		"↑/↓", keys.Select.Help().Key, keys.Quit.Help().Key)
	sb.WriteString("\n")
	sb.WriteString(infoStyle.Render(help))
	return sb.String()
}

// Selected returns the highlighted method and whether the user confirmed it.
func (m MethodModel) Selected() (onset.Method, bool) {
	if !m.chosen || len(m.methods) == 0 {
		return m.current, false
	}
	return m.methods[m.selectedIndex], true
}

// PickMethod runs the picker on the terminal. ok is false when the user
// cancelled.
func PickMethod(current onset.Method, opts ...tea.ProgramOption) (method onset.Method, ok bool, err error) {
	p := tea.NewProgram(NewMethodModel(current), opts...)
	final, err := p.Run()
	if err != nil {
		return current, false, err
	}
	method, ok = final.(MethodModel).Selected()
	return method, ok, nil
}
