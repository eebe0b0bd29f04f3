package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wrapchat/integration"
	"wrapchat/tools"
)

// openCredForm attaches the credential form to a tool entry. Connected tools
// open read-only; pending tools open straight into editing.
func (a *AppView) openCredForm(entry tools.Entry) {
	connected := a.isConnected(entry)
	a.credForm.Open(entry, connected)

	fields := entry.CredentialFields()
	a.formInputs = make([]textinput.Model, len(fields))
	for i, field := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 48
		ti.Placeholder = field.Placeholder
		if field.Type == tools.FieldPassword {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		a.formInputs[i] = ti
	}
	a.formFocus = 0
	if len(a.formInputs) > 0 {
		a.formInputs[0].Focus()
	}
	a.setupGuide = nil
	a.guideVisible = false
	a.showCredForm = true
	a.showToolsPanel = false
}

func (a AppView) handleCredFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	entry := a.credForm.Entry
	fields := entry.CredentialFields()

	// Setup guide overlay: Enter acknowledges, Esc just closes it
	if a.guideVisible {
		switch msg.String() {
		case "enter":
			a.credForm.AcknowledgeGuide()
			a.guideVisible = false
		case "esc":
			a.guideVisible = false
		}
		return a, nil
	}

	switch msg.String() {
	case "esc":
		if a.credForm.State == integration.StateEditing {
			a.credForm.CancelEdit()
			if a.credForm.State == integration.StateViewing {
				a.syncFormInputs()
				return a, nil
			}
		}
		a.credForm.Close()
		a.showCredForm = false
		a.showToolsPanel = true
		return a, nil

	case "tab", "down":
		a.moveFormFocus(1)
		return a, textinput.Blink

	case "shift+tab", "up":
		a.moveFormFocus(-1)
		return a, textinput.Blink

	case "e":
		if a.credForm.State == integration.StateViewing {
			a.credForm.BeginEdit()
			return a, textinput.Blink
		}

	case "ctrl+d":
		if a.credForm.State == integration.StateViewing {
			if integ := a.connectedIntegrationFor(entry); integ != nil {
				return a, a.dataModel.DeleteIntegrationCmd(context.Background(), integ.ID)
			}
		}
		return a, nil

	case "ctrl+r":
		if a.credForm.State == integration.StateViewing && entry.RequiresOAuth() {
			a.credForm.Banner = integration.Banner{Kind: integration.BannerInfo, Text: "Refreshing tokens..."}
			return a, a.dataModel.RefreshProviderTokens(context.Background(), entry.Members()[0].OAuthProvider)
		}
		return a, nil

	case "ctrl+g":
		if entry.RequiresOAuth() {
			provider := entry.Members()[0].OAuthProvider
			return a, a.dataModel.FetchProviderSetup(context.Background(), provider)
		}
		return a, nil

	case "ctrl+t":
		if err := a.credForm.BeginTest(); err != nil {
			a.credForm.Banner = integration.Banner{Kind: integration.BannerError, Text: err.Error()}
			return a, nil
		}
		toolName := entry.Members()[0].Name
		return a, a.dataModel.TestIntegrationCmd(context.Background(), toolName, a.credForm.Values)

	case "ctrl+o":
		if err := a.credForm.BeginAuthorize(); err != nil {
			a.credForm.Banner = integration.Banner{Kind: integration.BannerError, Text: err.Error()}
			return a, nil
		}
		member := entry.Members()[0]
		scopes := entry.Members()[0].OAuthScopes
		if entry.Group != nil {
			scopes = entry.Group.AggregatedScopes
		}
		return a, a.dataModel.StartAuthorization(
			context.Background(),
			member.OAuthProvider,
			a.credForm.Values["client_id"],
			a.credForm.Values["client_secret"],
			scopes,
		)

	case "enter":
		if err := a.credForm.BeginSave(); err != nil {
			a.credForm.Banner = integration.Banner{Kind: integration.BannerError, Text: err.Error()}
			return a, nil
		}
		requests := a.credForm.SaveRequests(a.dataModel.EndpointID)
		return a, a.dataModel.SaveIntegrationEntry(context.Background(), requests, entry.Key())
	}

	// Editing only: route remaining keys to the focused input
	if a.credForm.State != integration.StateEditing || a.formFocus >= len(a.formInputs) {
		return a, nil
	}

	a.formInputs[a.formFocus], cmd = a.formInputs[a.formFocus].Update(msg)
	if a.formFocus < len(fields) {
		a.credForm.SetValue(fields[a.formFocus].Name, a.formInputs[a.formFocus].Value())
	}
	return a, cmd
}

func (a *AppView) moveFormFocus(delta int) {
	if len(a.formInputs) == 0 {
		return
	}
	a.formInputs[a.formFocus].Blur()
	a.formFocus = (a.formFocus + delta + len(a.formInputs)) % len(a.formInputs)
	a.formInputs[a.formFocus].Focus()
}

// syncFormInputs pushes the controller's values back into the text inputs,
// used after a cancelled edit restores the original values.
func (a *AppView) syncFormInputs() {
	fields := a.credForm.Entry.CredentialFields()
	for i := range a.formInputs {
		if i < len(fields) {
			a.formInputs[i].SetValue(a.credForm.Values[fields[i].Name])
		}
		a.formInputs[i].Blur()
	}
}

func (a AppView) renderCredForm() string {
	if a.guideVisible && a.setupGuide != nil {
		return a.renderSetupGuide()
	}

	entry := a.credForm.Entry
	fields := entry.CredentialFields()

	width := a.width - 8
	if width > 72 {
		width = 72
	}

	var b strings.Builder
	title := entry.DisplayName()
	if entry.Group != nil {
		members := make([]string, 0, len(entry.Group.Tools))
		for _, t := range entry.Group.Tools {
			members = append(members, t.DisplayName)
		}
		title = fmt.Sprintf("%s (%s)", title, strings.Join(members, ", "))
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("  ")
	b.WriteString(DimStyle.Render(fmt.Sprintf("[%s]", a.credForm.State)))
	b.WriteString("\n\n")

	switch a.credForm.Banner.Kind {
	case integration.BannerError:
		b.WriteString(ErrorStyle.Render(a.credForm.Banner.Text) + "\n\n")
	case integration.BannerSuccess:
		b.WriteString(SuccessStyle.Render(a.credForm.Banner.Text) + "\n\n")
	case integration.BannerInfo:
		b.WriteString(DimStyle.Render(a.credForm.Banner.Text) + "\n\n")
	}

	for i, field := range fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		b.WriteString(TitleStyle.Render(label) + "\n")

		if i < len(a.formInputs) {
			b.WriteString("  " + a.formInputs[i].View() + "\n")
		}
		if errMsg, ok := a.credForm.FieldErrors[field.Name]; ok {
			b.WriteString("  " + ErrorStyle.Render(errMsg) + "\n")
		}
		if field.HelpText != "" {
			b.WriteString("  " + DimStyle.Render(field.HelpText) + "\n")
		}
		b.WriteString("\n")
	}

	if entry.RequiresOAuth() && !a.credForm.GuideAcked {
		b.WriteString(DimStyle.Render("Review the setup guide (Ctrl+G) before saving.") + "\n\n")
	}

	footer := FormatFooter("Tab", "Next field", "Ctrl+T", "Test", "Enter", "Save", "Esc", "Back")
	if entry.RequiresOAuth() {
		footer = FormatFooter("Tab", "Next", "Ctrl+G", "Guide", "Ctrl+O", "Authorize", "Ctrl+T", "Test", "Enter", "Save", "Esc", "Back")
	}
	if a.credForm.State == integration.StateViewing {
		footer = FormatFooter("e", "Edit", "Ctrl+D", "Disconnect", "Esc", "Back")
		if entry.RequiresOAuth() {
			footer = FormatFooter("e", "Edit", "Ctrl+R", "Refresh tokens", "Ctrl+D", "Disconnect", "Esc", "Back")
		}
	}
	b.WriteString(footer)

	content := lipgloss.NewStyle().Width(width).Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a AppView) renderSetupGuide() string {
	width := a.width - 8
	if width > 72 {
		width = 72
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%s OAuth Setup", a.setupGuide.Provider)))
	b.WriteString("\n\n")
	b.WriteString(a.setupGuide.Instructions)
	b.WriteString("\n\n")
	if a.setupGuide.RedirectURI != "" {
		b.WriteString(TitleStyle.Render("Redirect URI: ") + a.setupGuide.RedirectURI + "\n")
	}
	if a.setupGuide.ConsoleURL != "" {
		b.WriteString(TitleStyle.Render("Console: ") + a.setupGuide.ConsoleURL + "\n")
	}
	if len(a.setupGuide.Scopes) > 0 {
		b.WriteString(TitleStyle.Render("Scopes: ") + strings.Join(a.setupGuide.Scopes, ", ") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(FormatFooter("Enter", "I've read this", "Esc", "Back"))

	content := lipgloss.NewStyle().Width(width).Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}
