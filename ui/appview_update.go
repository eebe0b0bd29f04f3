package ui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"wrapchat/config"
	"wrapchat/integration"
	appmodel "wrapchat/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Update spinner FIRST to handle TickMsg before anything else
	if a.dataModel.RequestInFlight {
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		cmds = append(cmds, cmd)
		a.updateViewportContent(a.dataModel.Window().AutoScroll)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Reserve space for title (1 line), separator (1 line), textarea
		// (3 lines), and status bar (1 line)
		viewportHeight := a.height - 6
		a.viewport.Width = a.width
		a.viewport.Height = viewportHeight
		a.textarea.SetWidth(a.width)

		a.ready = true
		a.updateViewportContent(true)

		if a.dataModel.NeedsInitialRender {
			a.dataModel.NeedsInitialRender = false
			var renderCmds []tea.Cmd
			for i := len(a.dataModel.Messages) - 1; i >= 0; i-- {
				m := a.dataModel.Messages[i]
				if m.Role != "assistant" && m.Role != "user" {
					continue
				}
				// Skip if already rendered (cached from disk)
				if m.Rendered != "" && m.Rendered != m.Content {
					continue
				}
				renderCmds = append(renderCmds, a.renderMarkdownAsync(i, m.Content))
			}
			return a, tea.Batch(renderCmds...)
		}

		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg, cmds)

	case revealTickMsg:
		return a.handleRevealTick(msg)

	case markdownRenderedMsg:
		if msg.MessageIndex >= 0 && msg.MessageIndex < len(a.dataModel.Messages) {
			a.dataModel.Messages[msg.MessageIndex].Rendered = msg.Rendered
			a.updateViewportContent(a.dataModel.Window().AutoScroll)
		}
		return a, tea.Batch(cmds...)

	case appmodel.ConfigTurnMsg:
		return a.applyTurnResult(msg.Result, nil)

	case appmodel.TestTurnMsg:
		return a.applyTurnResult(msg.Result, msg.Err)

	case appmodel.PendingToolsLoadedMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Pending tools load failed: %v", msg.Err)
			}
			return a, tea.Batch(cmds...)
		}
		if msg.SessionID == a.dataModel.PendingKey() {
			a.pendingEntries = msg.Entries
			a.refreshToolFilter()
			if a.selectedToolIdx >= len(a.toolEntries()) {
				a.selectedToolIdx = 0
			}
		}
		return a, tea.Batch(cmds...)

	case appmodel.PendingToolsChangedMsg:
		// Another panel rewrote the list; reload from the store.
		if msg.SessionID == a.dataModel.PendingKey() {
			cmds = append(cmds, a.dataModel.LoadPendingTools())
		}
		return a, tea.Batch(cmds...)

	case appmodel.IntegrationsListMsg:
		if msg.Err != nil {
			a.showError("Could not load integrations", msg.Err.Error())
			return a, tea.Batch(cmds...)
		}
		a.connectedList = msg.Integrations
		return a, tea.Batch(cmds...)

	case appmodel.IntegrationSavedMsg:
		a.credForm.FinishSave(msg.Err)
		if msg.Err == nil {
			// The pending entry was removed from the store before this
			// message arrived, so the reloads below cannot race it back in.
			cmds = append(cmds,
				a.dataModel.LoadPendingTools(),
				a.dataModel.FetchIntegrations(context.Background()),
			)
		}
		return a, tea.Batch(cmds...)

	case appmodel.IntegrationTestedMsg:
		a.credForm.FinishTest(msg.Result, msg.Err)
		return a, tea.Batch(cmds...)

	case appmodel.IntegrationDeletedMsg:
		if msg.Err != nil {
			a.showError("Could not remove integration", msg.Err.Error())
			return a, tea.Batch(cmds...)
		}
		if a.showCredForm {
			a.credForm.Close()
			a.showCredForm = false
			a.showToolsPanel = true
		}
		cmds = append(cmds, a.dataModel.FetchIntegrations(context.Background()))
		return a, tea.Batch(cmds...)

	case appmodel.ProviderSetupMsg:
		if msg.Err != nil {
			a.showError("Could not load setup guide", msg.Err.Error())
			return a, tea.Batch(cmds...)
		}
		a.setupGuide = msg.Setup
		a.guideVisible = true
		return a, tea.Batch(cmds...)

	case appmodel.AuthorizeStartedMsg:
		a.credForm.FinishAuthorize(msg.Result, msg.Err)
		return a, tea.Batch(cmds...)

	case appmodel.TokensRefreshedMsg:
		if a.showCredForm {
			if msg.Err != nil {
				a.credForm.Banner = integration.Banner{Kind: integration.BannerError, Text: msg.Err.Error()}
			} else {
				a.credForm.Banner = integration.Banner{Kind: integration.BannerSuccess, Text: "Tokens refreshed"}
			}
			return a, tea.Batch(cmds...)
		}
		if msg.Err != nil {
			a.showError("Token refresh failed", msg.Err.Error())
		}
		return a, tea.Batch(cmds...)

	case appmodel.SessionsListMsg:
		if msg.Err != nil {
			a.showError("Could not list sessions", msg.Err.Error())
			return a, tea.Batch(cmds...)
		}
		a.sessionList = msg.Sessions
		if a.selectedSessionIdx >= len(a.sessionList) {
			a.selectedSessionIdx = 0
		}
		return a, tea.Batch(cmds...)

	case appmodel.SessionLoadedMsg:
		if msg.Err != nil {
			a.showError("Could not load session", msg.Err.Error())
			return a, tea.Batch(cmds...)
		}
		a.showSessionManager = false
		a.dataModel.CurrentSession = msg.Session
		a.dataModel.Messages = msg.Session.Messages
		if msg.Session.EndpointID != "" {
			a.dataModel.EndpointID = msg.Session.EndpointID
		}
		a.dataModel.NeedsInitialRender = true
		a.updateViewportContent(true)
		cmds = append(cmds, a.dataModel.LoadPendingTools())
		if a.dataModel.NeedsInitialRender && a.ready {
			a.dataModel.NeedsInitialRender = false
			for i, m := range a.dataModel.Messages {
				if m.Role == "assistant" || m.Role == "user" {
					cmds = append(cmds, a.renderMarkdownAsync(i, m.Content))
				}
			}
		}
		return a, tea.Batch(cmds...)

	case appmodel.SessionSavedMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Session save failed: %v", msg.Err)
		}
		a.dataModel.SessionDirty = msg.Err != nil
		return a, tea.Batch(cmds...)
	}

	// Forward remaining messages to the focused component
	if !a.anyModalOpen() {
		a.textarea, cmd = a.textarea.Update(msg)
		cmds = append(cmds, cmd)
		a.viewport, cmd = a.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a AppView) anyModalOpen() bool {
	return a.showHelp || a.showInfoModal || a.showToolsPanel || a.showCredForm || a.showSessionManager
}

func (a AppView) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// PRIORITY 0: Always-global shortcuts
	switch msg.String() {
	case "alt+q":
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Alt+Q pressed - quitting")
		}
		a.dataModel.Quitting = true
		if a.dataModel.SessionDirty {
			return a, tea.Sequence(a.dataModel.AutoSaveSession(), tea.Quit)
		}
		return a, tea.Quit

	case "alt+h":
		a.showHelp = !a.showHelp
		return a, nil
	}

	// Info modal swallows everything until acknowledged
	if a.showInfoModal {
		switch msg.String() {
		case "enter", "esc":
			a.showInfoModal = false
		}
		return a, nil
	}

	if a.showHelp {
		switch msg.String() {
		case "esc", "alt+h", "q":
			a.showHelp = false
		}
		return a, nil
	}

	if a.showCredForm {
		return a.handleCredFormKey(msg)
	}

	if a.showToolsPanel {
		return a.handleToolsPanelKey(msg)
	}

	if a.showSessionManager {
		return a.handleSessionManagerKey(msg)
	}

	// PRIORITY 1: Modal toggle shortcuts
	switch msg.String() {
	case "alt+s":
		a.closeAllModals()
		a.showSessionManager = true
		return a, a.dataModel.FetchSessionList()

	case "alt+p":
		a.closeAllModals()
		a.showToolsPanel = true
		a.selectedToolIdx = 0
		return a, tea.Batch(
			a.dataModel.LoadPendingTools(),
			a.dataModel.FetchIntegrations(context.Background()),
		)

	case "alt+t":
		a.testMode = !a.testMode
		return a, nil

	case "alt+n":
		a.closeAllModals()
		a.dataModel.CurrentSession = nil
		a.dataModel.Messages = nil
		a.dataModel.SessionDirty = false
		a.cancelReveal()
		a.textarea.Reset()
		a.updateViewportContent(true)
		return a, a.dataModel.LoadPendingTools()

	case "alt+y":
		// Copy the last durable assistant message
		for i := len(a.dataModel.Messages) - 1; i >= 0; i-- {
			m := a.dataModel.Messages[i]
			if m.Role == "assistant" && m.Durable() {
				if err := clipboard.WriteAll(m.Content); err != nil {
					a.showError("Copy failed", err.Error())
				}
				break
			}
		}
		return a, nil

	case "esc":
		if a.revealer != nil {
			// Skip to the full answer
			return a.finishReveal()
		}
		if a.dataModel.RequestInFlight {
			a.cancelTurn()
			a.updateViewportContent(true)
		}
		return a, nil

	case "enter":
		return a.handleSend()
	}

	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}
