package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"wrapchat/backend"
	"wrapchat/tools"
)

// refreshToolFilter recomputes the fuzzy-filtered entry list from the current
// filter query.
func (a *AppView) refreshToolFilter() {
	query := strings.TrimSpace(a.toolFilterInput.Value())
	if query == "" {
		a.filteredEntries = nil
		return
	}

	names := make([]string, len(a.pendingEntries))
	for i, e := range a.pendingEntries {
		names[i] = e.DisplayName()
	}

	matches := fuzzy.Find(query, names)
	filtered := make([]tools.Entry, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, a.pendingEntries[m.Index])
	}
	a.filteredEntries = filtered
}

func (a AppView) handleToolsPanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if a.toolFilterMode {
		switch msg.String() {
		case "esc":
			a.toolFilterMode = false
			a.toolFilterInput.Blur()
			a.toolFilterInput.SetValue("")
			a.filteredEntries = nil
			a.selectedToolIdx = 0
			return a, nil
		case "enter":
			a.toolFilterMode = false
			a.toolFilterInput.Blur()
			return a, nil
		default:
			a.toolFilterInput, cmd = a.toolFilterInput.Update(msg)
			a.refreshToolFilter()
			a.selectedToolIdx = 0
			return a, cmd
		}
	}

	entries := a.toolEntries()

	switch msg.String() {
	case "esc", "alt+p":
		a.closeAllModals()
		return a, nil

	case "j", "down":
		if a.selectedToolIdx < len(entries)-1 {
			a.selectedToolIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedToolIdx > 0 {
			a.selectedToolIdx--
		}
		return a, nil

	case "/":
		a.toolFilterMode = true
		a.toolFilterInput.Focus()
		return a, textinput.Blink

	case "r":
		return a, a.dataModel.FetchIntegrations(context.Background())

	case "enter":
		if a.selectedToolIdx < len(entries) {
			a.openCredForm(entries[a.selectedToolIdx])
			return a, textinput.Blink
		}
		return a, nil
	}

	return a, nil
}

func (a AppView) isConnected(entry tools.Entry) bool {
	return a.connectedIntegrationFor(entry) != nil
}

// connectedIntegrationFor finds the stored integration backing an entry, or
// nil when the entry is still pending.
func (a AppView) connectedIntegrationFor(entry tools.Entry) *backend.Integration {
	for _, member := range entry.Members() {
		for i, integ := range a.connectedList {
			if integ.Connected && (integ.ToolName == member.Name || (member.ToolCode != "" && integ.ToolCode == member.ToolCode)) {
				return &a.connectedList[i]
			}
		}
	}
	return nil
}

func (a AppView) renderToolsPanel() string {
	width := a.width - 8
	if width > 72 {
		width = 72
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Tool Setup"))
	b.WriteString("\n\n")

	if a.toolFilterMode || a.toolFilterInput.Value() != "" {
		b.WriteString(a.toolFilterInput.View())
		b.WriteString("\n\n")
	}

	entries := a.toolEntries()
	if len(entries) == 0 {
		b.WriteString(DimStyle.Render("No tools awaiting setup."))
		b.WriteString("\n")
	}

	for i, entry := range entries {
		marker := "  "
		name := entry.DisplayName()
		if entry.Group != nil {
			name = fmt.Sprintf("%s (%d tools)", name, len(entry.Group.Tools))
		}
		if entry.RequiresOAuth() {
			name += " [OAuth]"
		}

		line := name
		if i == a.selectedToolIdx {
			marker = SelectedStyle.Render("> ")
			line = SelectedStyle.Render(name)
		}
		b.WriteString(marker + line + "\n")
	}

	if len(a.connectedList) > 0 {
		b.WriteString("\n")
		b.WriteString(TitleStyle.Render("Connected"))
		b.WriteString("\n")
		for _, integ := range a.connectedList {
			status := SuccessStyle.Render("✓")
			if !integ.Connected {
				status = DimStyle.Render("·")
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", status, integ.ToolName))
		}
	}

	b.WriteString("\n")
	b.WriteString(FormatFooter("j/k", "Navigate", "Enter", "Configure", "/", "Filter", "r", "Refresh", "Esc", "Close"))

	content := lipgloss.NewStyle().Width(width).Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}
