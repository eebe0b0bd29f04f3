package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"wrapchat/config"
)

// SendConfigurationTurn sends one conversational configuration message for
// the active endpoint. The resulting ConfigTurnMsg always carries a usable
// result; failures fold into a confirmation-required result upstream.
func (m *Model) SendConfigurationTurn(ctx context.Context, text string) tea.Cmd {
	client := m.Backend
	endpointID := m.EndpointID
	return func() tea.Msg {
		result := client.ConfigurationTurn(ctx, endpointID, text)
		return ConfigTurnMsg{Result: result}
	}
}

// SendTestTurn sends a test chat turn carrying the history window computed
// from the durable log under the endpoint's chat window policy.
func (m *Model) SendTestTurn(ctx context.Context, text string) tea.Cmd {
	client := m.Backend
	endpointID := m.EndpointID
	window := HistoryWindow(m.Messages, m.Window(), text)

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Model] Test turn: window of %d messages (mode=%s)",
			len(window), m.Window().HistoryMode)
	}

	return func() tea.Msg {
		result, err := client.TestTurn(ctx, endpointID, window)
		return TestTurnMsg{Result: result, Err: err}
	}
}
