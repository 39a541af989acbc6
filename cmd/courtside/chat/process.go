package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"courtside/internal/analysis"
)

// answerMsg carries the pipeline's reply back into the update loop.
type answerMsg struct {
	text string
}

// processTurn runs the pipeline off the UI goroutine. The history
// slice is captured before the current user turn is appended, matching
// what the judge should see as "prior conversation."
func (m Model) processTurn(userText string, history []analysis.Turn) tea.Cmd {
	responder := m.responder
	timeout := m.turnTimeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return answerMsg{text: responder.Respond(ctx, userText, history)}
	}
}
