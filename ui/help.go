package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	modalWidth := 56
	if width < modalWidth+8 {
		modalWidth = width - 8
	}

	rows := []struct{ key, desc string }{
		{"Enter", "Send message"},
		{"Alt+Enter", "Insert newline"},
		{"Esc", "Skip reveal / cancel request"},
		{"Alt+T", "Toggle configure / test mode"},
		{"Alt+P", "Tool setup panel"},
		{"Alt+S", "Session manager"},
		{"Alt+N", "New conversation"},
		{"Alt+Y", "Copy last answer"},
		{"Alt+H", "Toggle this help"},
		{"Alt+Q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, row := range rows {
		key := SelectedStyle.Render(row.key)
		pad := strings.Repeat(" ", 12-len(row.key))
		b.WriteString("  " + key + pad + row.desc + "\n")
	}
	b.WriteString("\n")
	b.WriteString(DimStyle.Render("Press Esc to close"))

	content := lipgloss.NewStyle().Width(modalWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
