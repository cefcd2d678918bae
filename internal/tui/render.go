package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/perch-ai/perch/internal/auth"
	"github.com/perch-ai/perch/internal/models"
)

// View implements tea.Model
func (m Model) View() string {
	contentWidth := ContentWidth(m.width)
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("perch"))
	b.WriteString(" ")
	b.WriteString(DescStyle.Render("Answer Engine"))
	b.WriteString("\n\n")

	switch m.mode {
	case ModeInput:
		b.WriteString(m.renderInputMode(contentWidth))
	case ModeLoading:
		b.WriteString(m.renderLoadingMode())
	case ModeAnswer:
		b.WriteString(m.renderAnswerMode(contentWidth))
	case ModeModelSelect:
		b.WriteString(m.renderModelSelectMode(contentWidth))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter(contentWidth))

	return FrameStyle(m.width, m.height).Render(b.String())
}

// renderInputMode renders the input mode view
func (m Model) renderInputMode(contentWidth int) string {
	var b strings.Builder

	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	if m.showSlashMenu && len(m.slashCommands) > 0 {
		b.WriteString(m.renderSlashMenu(contentWidth))
		b.WriteString("\n")
	} else if m.showStarters() {
		b.WriteString("\n")
		b.WriteString(m.renderStarters())
		b.WriteString("\n")
	}

	b.WriteString(m.renderError(contentWidth))
	return b.String()
}

// renderStarters renders the numbered starter questions
func (m Model) renderStarters() string {
	var b strings.Builder
	b.WriteString(DescStyle.Render("Try asking:"))
	for i, q := range StarterQuestions {
		b.WriteString("\n")
		line := fmt.Sprintf("%d  %s", i+1, q)
		if i == m.starterCursor {
			b.WriteString(StarterSelectedStyle.Render("> " + line))
		} else {
			b.WriteString(StarterStyle.Render("  " + line))
		}
	}
	return b.String()
}

// renderLoadingMode renders the loading mode view
func (m Model) renderLoadingMode() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.loadingMessage != "" {
		b.WriteString(DescStyle.Render(m.loadingMessage))
	} else {
		b.WriteString(DescStyle.Render("Thinking..."))
	}

	return b.String()
}

// renderAnswerMode renders the conversation and the follow-up input
func (m Model) renderAnswerMode(contentWidth int) string {
	var b strings.Builder

	if m.viewportReady && len(m.conversationHistory) > 0 {
		if m.answerViewport.YOffset > 0 {
			b.WriteString(HelpStyle.Render("↑ more above"))
			b.WriteString("\n")
		}
		b.WriteString(m.answerViewport.View())
		if !m.answerViewport.AtBottom() {
			b.WriteString("\n")
			b.WriteString(HelpStyle.Render("↓ more below"))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	if m.showSlashMenu && len(m.slashCommands) > 0 {
		b.WriteString(m.renderSlashMenu(contentWidth))
		b.WriteString("\n")
	}

	b.WriteString(m.renderError(contentWidth))
	return b.String()
}

// renderConversationContent renders conversation history for the viewport
func (m Model) renderConversationContent() string {
	if len(m.conversationHistory) == 0 {
		return ""
	}
	contentWidth := ContentWidth(m.width)
	var b strings.Builder
	for i, msg := range m.conversationHistory {
		if msg.Role == "user" {
			b.WriteString(PromptStyle.Render("You: "))
			b.WriteString(msg.Content)
		} else {
			styled, err := m.renderMarkdown(msg.Content)
			if err != nil {
				styled = lipgloss.NewStyle().Width(contentWidth).Render(msg.Content)
			}
			styled = strings.TrimSuffix(styled, "\n")
			b.WriteString(styled)
		}
		if i < len(m.conversationHistory)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

var errNoRenderer = errors.New("no markdown renderer")

func (m Model) renderMarkdown(content string) (string, error) {
	if m.markdownRenderer == nil {
		return "", errNoRenderer
	}
	return m.markdownRenderer.Render(content)
}

// renderSlashMenu renders the slash command menu dropdown
func (m Model) renderSlashMenu(contentWidth int) string {
	innerWidth := contentWidth - 4
	var b strings.Builder
	for i, cmd := range m.slashCommands {
		if i > 0 {
			b.WriteString("\n")
		}
		line := fmt.Sprintf("%s - %s", cmd.Name, cmd.Description)
		if i == m.slashCursor {
			b.WriteString(SuggestionSelectedStyle.Width(innerWidth).Render("> " + line))
		} else {
			b.WriteString(SuggestionStyle.Width(innerWidth).Render("  " + line))
		}
	}
	return SuggestionBoxStyle.Render(b.String())
}

// renderModelSelectMode renders the model picker
func (m Model) renderModelSelectMode(contentWidth int) string {
	var b strings.Builder

	b.WriteString(DescStyle.Render("Select Model"))
	if m.showLocal {
		b.WriteString(DescStyle.Render(" (cloud + local)"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	current := m.store.Model()
	if len(m.selector.visible) == 0 {
		b.WriteString(DescStyle.Render("No models match"))
		b.WriteString("\n")
	}
	for i, d := range m.selector.visible {
		cursor := "  "
		if i == m.selector.cursor {
			cursor = "> "
		}
		line := cursor + d.SmallIcon.Glyph + " " + d.Name + " - " + d.Description
		if d.Locality == models.Local {
			line += " [local]"
		}
		if d.Model == current {
			line += " (current)"
		}
		if i == m.selector.cursor {
			b.WriteString(SuggestionSelectedStyle.Width(contentWidth).Render(line))
		} else {
			b.WriteString(SuggestionStyle.Width(contentWidth).Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderError(contentWidth))
	return b.String()
}

func (m Model) renderError(contentWidth int) string {
	if m.err == nil {
		return ""
	}
	wrapped := lipgloss.NewStyle().Width(contentWidth).Render(
		ErrorStyle.Render(auth.FormatSetupInstructions(m.err)))
	return "\n" + wrapped + "\n"
}

// renderFooter renders key hints, the selected model and the version
func (m Model) renderFooter(contentWidth int) string {
	left := m.renderHelp()
	right := renderTrigger(m.store.Descriptor())
	if m.version != "" {
		right += DescStyle.Render("  perch " + m.version)
	}

	gap := contentWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return FooterStyle.Render(left + "\n" + right)
	}
	return FooterStyle.Render(left + strings.Repeat(" ", gap) + right)
}

// renderHelp renders the key hints for the current mode
func (m Model) renderHelp() string {
	type hint struct {
		key  string
		desc string
	}
	var keys []hint
	switch {
	case m.showSlashMenu && len(m.slashCommands) > 0:
		keys = []hint{{"↑↓", "navigate"}, {"Tab", "select"}, {"Esc", "cancel"}}
	case m.mode == ModeInput && m.showStarters():
		keys = []hint{{"Enter", "ask"}, {fmt.Sprintf("1-%d", len(StarterQuestions)), "starter"}, {"Ctrl+O", "model"}, {"Esc", "quit"}}
	case m.mode == ModeInput:
		keys = []hint{{"Enter", "ask"}, {"Ctrl+O", "model"}, {"Esc", "quit"}}
	case m.mode == ModeLoading:
		keys = []hint{{"Esc", "quit"}}
	case m.mode == ModeAnswer:
		keys = []hint{{"Enter", "send"}, {"↑↓", "scroll"}, {"Ctrl+N", "new"}, {"Ctrl+O", "model"}, {"Esc", "quit"}}
	case m.mode == ModeModelSelect:
		keys = []hint{{"↑↓", "navigate"}, {"Enter", "select"}, {"Esc", "back"}}
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s",
			KeyStyle.Render(k.key),
			DescStyle.Render(k.desc),
		))
	}
	return strings.Join(parts, "  ")
}
