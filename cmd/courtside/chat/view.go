package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used by the chat view.
type Styles struct {
	Header    lipgloss.Style
	UserLabel lipgloss.Style
	BotLabel  lipgloss.Style
	UserText  lipgloss.Style
	Footer    lipgloss.Style
	Thinking  lipgloss.Style
}

// DefaultStyles returns the default chat theme.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("208")).
			Padding(0, 1),
		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		BotLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("208")),
		UserText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Footer: lipgloss.NewStyle().
			Faint(true),
		Thinking: lipgloss.NewStyle().
			Faint(true).
			Italic(true),
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("🏀 courtside") + "\n\n")
	b.WriteString(m.viewport.View() + "\n")
	if m.thinking {
		b.WriteString(m.styles.Thinking.Render(m.spinner.View()+" analyzing...") + "\n")
	}
	b.WriteString(m.textarea.View() + "\n")
	b.WriteString(m.styles.Footer.Render("enter: send · ctrl+l: clear · ctrl+c: quit"))
	return b.String()
}

// renderHistory renders the conversation into the viewport.
func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return m.styles.Footer.Render(`Ask about a player prop, e.g. "Curry over 4.5 threes".`)
	}

	var sb strings.Builder
	for _, msg := range m.history {
		switch msg.Role {
		case "user":
			sb.WriteString(m.styles.UserLabel.Render("You") + "\n")
			sb.WriteString(m.styles.UserText.Render(msg.Content))
			sb.WriteString("\n\n")
		default: // "assistant"
			sb.WriteString(m.styles.BotLabel.Render("courtside") + "\n")
			sb.WriteString(m.safeRenderMarkdown(msg.Content))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery; glamour can
// panic on pathological input.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content + fmt.Sprintf("\n(render error: %v)", r)
		}
	}()

	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
