package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	changed   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)

	tableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1).
			Width(48)

	changedStyle = lipgloss.NewStyle().Foreground(changed).Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Background(highlight).
			Foreground(lipgloss.Color("#ffffff"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1).
			Width(30)
)

func (m *Model) renderValueTable() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Search results (%d)\n\n", len(m.rows)))

	limit := len(m.rows)
	if limit > 20 {
		limit = 20
	}
	for i := 0; i < limit; i++ {
		r := m.rows[i]
		line := fmt.Sprintf("$%04X  prev=%-6d cur=%-6d", r.Address, r.Previous.Int(), r.Current.Int())
		if r.Previous.Uint() != r.Current.Uint() {
			line = changedStyle.Render(line)
		}
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.rows) > limit {
		b.WriteString(fmt.Sprintf("... and %d more\n", len(m.rows)-limit))
	}
	return b.String()
}

func (m *Model) renderPointerTable() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Pointer chains (%d)\n\n", len(m.pointerResults)))
	for i, r := range m.pointerResults {
		if i >= 20 {
			b.WriteString(fmt.Sprintf("... and %d more\n", len(m.pointerResults)-i))
			break
		}
		b.WriteString(fmt.Sprintf("$%04X -> $%04X  cur=%d\n", r.AddressInitial, r.AddressFinal, r.ValueCurrent.Int()))
	}
	return b.String()
}

func (m *Model) View() string {
	var body string
	if m.pointerMode {
		body = m.renderPointerTable()
	} else {
		body = m.renderValueTable()
	}

	panel := tableStyle.Render(body)

	status := titleStyle.Render(m.statusMsg)
	help := titleStyle.Render(
		"r: new search • =: equals value • >: increased • <: decreased • !: changed • " +
			"t: pointer search • u: refresh pointers • s: step guest • p: pause/resume • q: quit",
	)

	content := lipgloss.JoinVertical(lipgloss.Left, panel, status, help)

	if m.activeMode != modeNormal {
		dialog := dialogStyle.Render(m.input.View())
		return lipgloss.JoinVertical(lipgloss.Center, content, dialog)
	}
	return content
}
