package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"wrapchat/storage"
)

func (a *AppView) refreshSessionFilter() {
	query := strings.TrimSpace(a.sessionFilterInput.Value())
	if query == "" {
		a.filteredSessionList = nil
		return
	}

	names := make([]string, len(a.sessionList))
	for i, s := range a.sessionList {
		names[i] = s.Name
	}

	matches := fuzzy.Find(query, names)
	filtered := make([]storage.SessionMetadata, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, a.sessionList[m.Index])
	}
	a.filteredSessionList = filtered
}

func (a AppView) handleSessionManagerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Delete confirmation has its own tiny key loop
	if a.confirmDeleteSession != nil {
		switch msg.String() {
		case "y", "enter":
			id := a.confirmDeleteSession.ID
			a.confirmDeleteSession = nil
			return a, a.dataModel.DeleteSessionCmd(id)
		case "n", "esc":
			a.confirmDeleteSession = nil
		}
		return a, nil
	}

	if a.sessionFilterMode {
		switch msg.String() {
		case "esc":
			a.sessionFilterMode = false
			a.sessionFilterInput.Blur()
			a.sessionFilterInput.SetValue("")
			a.filteredSessionList = nil
			a.selectedSessionIdx = 0
			return a, nil
		case "enter":
			a.sessionFilterMode = false
			a.sessionFilterInput.Blur()
			return a, nil
		default:
			a.sessionFilterInput, cmd = a.sessionFilterInput.Update(msg)
			a.refreshSessionFilter()
			a.selectedSessionIdx = 0
			return a, cmd
		}
	}

	sessions := a.sessionEntries()

	switch msg.String() {
	case "esc", "alt+s":
		a.closeAllModals()
		return a, nil

	case "j", "down":
		if a.selectedSessionIdx < len(sessions)-1 {
			a.selectedSessionIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedSessionIdx > 0 {
			a.selectedSessionIdx--
		}
		return a, nil

	case "/":
		a.sessionFilterMode = true
		a.sessionFilterInput.Focus()
		return a, textinput.Blink

	case "d":
		if a.selectedSessionIdx < len(sessions) {
			s := sessions[a.selectedSessionIdx]
			a.confirmDeleteSession = &s
		}
		return a, nil

	case "enter":
		if a.selectedSessionIdx < len(sessions) {
			return a, a.dataModel.LoadSession(sessions[a.selectedSessionIdx].ID)
		}
		return a, nil
	}

	return a, nil
}

func (a AppView) renderSessionManager(currentSessionID string) string {
	width := a.width - 8
	if width > 72 {
		width = 72
	}

	if a.confirmDeleteSession != nil {
		msg := fmt.Sprintf("Delete session %q and its %d message(s)?",
			a.confirmDeleteSession.Name, a.confirmDeleteSession.MessageCount)
		return renderInfoModal("Confirm Delete", msg+"\n\ny: delete    n: keep", a.width, a.height)
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Sessions"))
	b.WriteString("\n\n")

	if a.sessionFilterMode || a.sessionFilterInput.Value() != "" {
		b.WriteString(a.sessionFilterInput.View())
		b.WriteString("\n\n")
	}

	sessions := a.sessionEntries()
	if len(sessions) == 0 {
		b.WriteString(DimStyle.Render("No saved sessions."))
		b.WriteString("\n")
	}

	for i, s := range sessions {
		marker := "  "
		line := fmt.Sprintf("%s  %s", s.Name, DimStyle.Render(s.UpdatedAt.Format("Jan 2 15:04")))
		if s.ID == currentSessionID {
			line += SuccessStyle.Render(" (current)")
		}
		if i == a.selectedSessionIdx {
			marker = SelectedStyle.Render("> ")
		}
		b.WriteString(marker + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(FormatFooter("j/k", "Navigate", "Enter", "Open", "/", "Filter", "d", "Delete", "Esc", "Close"))

	content := lipgloss.NewStyle().Width(width).Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}
