package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wrapchat/backend"
	"wrapchat/integration"
	appmodel "wrapchat/model"
	"wrapchat/reveal"
	"wrapchat/storage"
	"wrapchat/tools"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	// Loading spinner (bubbles/spinner)
	loadingSpinner spinner.Model

	// Chat mode: configuration turns by default, test turns when toggled
	testMode bool

	// Typewriter reveal state
	revealer   *reveal.Revealer
	revealGen  int
	revealIdx  int
	turnCancel context.CancelFunc

	showHelp bool

	// Tools panel
	showToolsPanel  bool
	pendingEntries  []tools.Entry
	connectedList   []backend.Integration
	selectedToolIdx int
	toolFilterMode  bool
	toolFilterInput textinput.Model
	filteredEntries []tools.Entry

	// Credential form
	showCredForm bool
	credForm     *integration.Controller
	formInputs   []textinput.Model
	formFocus    int
	setupGuide   *backend.ProviderSetup
	guideVisible bool

	// Session manager
	showSessionManager   bool
	sessionList          []storage.SessionMetadata
	selectedSessionIdx   int
	sessionFilterMode    bool
	sessionFilterInput   textinput.Model
	filteredSessionList  []storage.SessionMetadata
	confirmDeleteSession *storage.SessionMetadata

	// Info modal state (for simple notifications/errors)
	showInfoModal  bool
	infoModalTitle string
	infoModalMsg   string
}

func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Describe how your endpoint should behave..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline, Enter alone sends (handled separately)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	toolFilterInput := textinput.New()
	toolFilterInput.Prompt = "Filter: "
	toolFilterInput.CharLimit = 64

	sessionFilterInput := textinput.New()
	sessionFilterInput.Prompt = "Filter: "
	sessionFilterInput.CharLimit = 64

	return AppView{
		dataModel:          dataModel,
		textarea:           ta,
		viewport:           vp,
		loadingSpinner:     sp,
		credForm:           integration.NewController(),
		toolFilterInput:    toolFilterInput,
		sessionFilterInput: sessionFilterInput,
	}
}

func (a AppView) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		a.dataModel.LoadPendingTools(),
	}
	if len(a.dataModel.Config.MCPToolSources) > 0 {
		cmds = append(cmds, a.dataModel.SyncMCPToolSources(context.Background()))
	}
	return tea.Batch(cmds...)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading wrapchat..."
	}

	// Modal rendering order (top to bottom layers):
	// 1. Info modal
	// 2. Help
	// 3. Credential form (over tools panel)
	// 4. Tools panel
	// 5. Session manager

	if a.showInfoModal {
		return renderInfoModal(a.infoModalTitle, a.infoModalMsg, a.width, a.height)
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showCredForm {
		return a.renderCredForm()
	}

	if a.showToolsPanel {
		return a.renderToolsPanel()
	}

	if a.showSessionManager {
		currentSessionID := ""
		if a.dataModel.CurrentSession != nil {
			currentSessionID = a.dataModel.CurrentSession.ID
		}
		return a.renderSessionManager(currentSessionID)
	}

	// Title bar - "WRAPCHAT - endpoint - session | mode"
	appText := AssistantStyle.Render("WRAPCHAT")
	endpointText := TitleStyle.Render(fmt.Sprintf(" - %s", a.endpointLabel()))
	sessionName := "New Session"
	if a.dataModel.CurrentSession != nil && a.dataModel.CurrentSession.Name != "" {
		sessionName = a.dataModel.CurrentSession.Name
	}
	sessionText := UserStyle.Render(fmt.Sprintf(" - %s", sessionName))

	modeText := DimStyle.Render(" | configure")
	if a.testMode {
		modeText = SelectedStyle.Render(" | test")
	}

	pendingText := ""
	if n := len(a.pendingEntries); n > 0 {
		pendingText = DimStyle.Render(fmt.Sprintf(" | %d tool(s) awaiting setup", n))
	}

	title := appText + endpointText + sessionText + modeText + pendingText

	separator := ""
	viewportView := a.viewport.View()
	inputView := a.textarea.View()

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("Alt+Q %s  Alt+S %s  Alt+P %s  Alt+T %s  Alt+N %s  Alt+Enter %s  Enter %s  Alt+Y %s",
		descStyle.Render("Quit"),
		descStyle.Render("Sessions"),
		descStyle.Render("Tools"),
		descStyle.Render("Test Mode"),
		descStyle.Render("New"),
		descStyle.Render("New Line"),
		descStyle.Render("Send"),
		descStyle.Render("Copy"),
	)
	statusBar = StatusStyle.Render(statusBar)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		separator,
		viewportView,
		inputView,
		statusBar,
	)
}

func (a AppView) endpointLabel() string {
	if a.dataModel.EndpointID == "" {
		return "no endpoint"
	}
	return a.dataModel.EndpointID
}

func (a AppView) toolEntries() []tools.Entry {
	if a.toolFilterMode && a.toolFilterInput.Value() != "" {
		return a.filteredEntries
	}
	return a.pendingEntries
}

func (a AppView) sessionEntries() []storage.SessionMetadata {
	if a.sessionFilterMode && len(a.filteredSessionList) > 0 {
		return a.filteredSessionList
	}
	return a.sessionList
}

func (a *AppView) closeAllModals() {
	a.showInfoModal = false
	a.showHelp = false
	a.showToolsPanel = false
	a.showCredForm = false
	a.showSessionManager = false
	a.guideVisible = false

	a.toolFilterMode = false
	a.sessionFilterMode = false
	a.confirmDeleteSession = nil

	if a.toolFilterInput.Focused() {
		a.toolFilterInput.Blur()
	}
	if a.sessionFilterInput.Focused() {
		a.sessionFilterInput.Blur()
	}
}

func (a *AppView) showError(title, msg string) {
	a.showInfoModal = true
	a.infoModalTitle = title
	a.infoModalMsg = msg
}
