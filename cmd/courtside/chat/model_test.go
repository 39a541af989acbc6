package chat

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"courtside/internal/analysis"
)

// fakeResponder records what the pipeline was asked.
type fakeResponder struct {
	lastText    string
	lastHistory []analysis.Turn
	reply       string
}

func (f *fakeResponder) Respond(ctx context.Context, userText string, history []analysis.Turn) string {
	f.lastText = userText
	f.lastHistory = history
	return f.reply
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func typeAndEnter(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.textarea.SetValue(text)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func TestEnterSendsTurnWithPriorHistory(t *testing.T) {
	responder := &fakeResponder{reply: "the answer"}
	m := sized(New(responder, time.Minute))

	m, cmd := typeAndEnter(t, m, "LeBron over 25.5")
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	if !m.thinking {
		t.Error("model not in thinking state")
	}
	if len(m.history) != 1 || m.history[0].Role != "user" {
		t.Fatalf("history = %+v", m.history)
	}

	// Drain the batch and find the answer.
	msg := collectAnswer(t, cmd)
	if responder.lastText != "LeBron over 25.5" {
		t.Errorf("responder got %q", responder.lastText)
	}
	if len(responder.lastHistory) != 0 {
		t.Errorf("prior history should be empty on the first turn, got %+v", responder.lastHistory)
	}

	updated, _ := m.Update(msg)
	m = updated.(Model)
	if m.thinking {
		t.Error("still thinking after answer")
	}
	if len(m.history) != 2 || m.history[1].Content != "the answer" {
		t.Errorf("history = %+v", m.history)
	}
}

func TestCtrlLClearsHistory(t *testing.T) {
	m := sized(New(&fakeResponder{reply: "x"}, time.Minute))
	m.history = []analysis.Turn{{Role: "user", Content: "q"}, {Role: "assistant", Content: "a"}}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = updated.(Model)
	if len(m.history) != 0 {
		t.Errorf("history not cleared: %+v", m.history)
	}
}

func TestEnterIgnoredWhileThinking(t *testing.T) {
	m := sized(New(&fakeResponder{reply: "x"}, time.Minute))
	m.thinking = true

	m, cmd := typeAndEnter(t, m, "second question")
	if cmd != nil {
		t.Error("turn dispatched while a previous turn is in flight")
	}
	if len(m.history) != 0 {
		t.Errorf("history = %+v", m.history)
	}
}

// collectAnswer executes a (possibly batched) command until it yields
// the answerMsg.
func collectAnswer(t *testing.T, cmd tea.Cmd) answerMsg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case answerMsg:
			return msg
		case tea.BatchMsg:
			queue = append(queue, msg...)
		}
	}
	t.Fatal("no answerMsg produced")
	return answerMsg{}
}
