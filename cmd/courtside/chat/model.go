// Package chat provides the interactive TUI for courtside. The package
// is split by concern:
//   - model.go: Types, Init, Update loop (this file)
//   - process.go: Turn processing
//   - view.go: Rendering
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"courtside/internal/analysis"
	"courtside/internal/logging"
)

// Responder answers one turn. The orchestrator satisfies this; tests
// substitute fakes.
type Responder interface {
	Respond(ctx context.Context, userText string, history []analysis.Turn) string
}

// Model is the main model for the interactive chat interface.
type Model struct {
	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   Styles

	// Conversation state. The history lives here and is passed by
	// value into the pipeline each turn.
	history  []analysis.Turn
	thinking bool

	responder   Responder
	turnTimeout time.Duration

	width  int
	height int
	ready  bool
}

// New builds the chat model.
func New(responder Responder, turnTimeout time.Duration) Model {
	ta := textarea.New()
	ta.Placeholder = `Ask something like "LeBron over 25.5 points"`
	ta.Focus()
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		renderer = nil
	}

	return Model{
		textarea:    ta,
		spinner:     sp,
		renderer:    renderer,
		styles:      DefaultStyles(),
		responder:   responder,
		turnTimeout: turnTimeout,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(msg.Width - 4)
		vpHeight := msg.Height - m.textarea.Height() - 6
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.renderHistory())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+l":
			m.history = nil
			m.viewport.SetContent(m.renderHistory())
			return m, nil
		case "enter":
			input := m.textarea.Value()
			if m.thinking || len(input) == 0 {
				return m, nil
			}
			m.textarea.Reset()
			m.thinking = true
			// The user turn joins the history the pipeline sees only
			// after this turn resolves; the current message travels
			// separately.
			cmd := m.processTurn(input, m.history)
			m.history = append(m.history, analysis.Turn{Role: "user", Content: input})
			m.viewport.SetContent(m.renderHistory())
			m.viewport.GotoBottom()
			return m, tea.Batch(cmd, m.spinner.Tick)
		}

	case answerMsg:
		m.thinking = false
		m.history = append(m.history, analysis.Turn{Role: "assistant", Content: msg.text})
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		logging.Session("turn complete, history_len=%d", len(m.history))
		return m, nil

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
	)
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

// History returns a copy of the conversation so far.
func (m Model) History() []analysis.Turn {
	out := make([]analysis.Turn, len(m.history))
	copy(out, m.history)
	return out
}
