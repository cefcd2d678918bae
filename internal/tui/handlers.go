package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg handles keyboard input based on current mode
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeInput:
		return m.handleInputModeKey(msg)
	case ModeLoading:
		return m.handleLoadingModeKey(msg)
	case ModeAnswer:
		return m.handleAnswerModeKey(msg)
	case ModeModelSelect:
		return m.handleModelSelectModeKey(msg)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// handleInputModeKey handles keys in input mode
func (m Model) handleInputModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showSlashMenu && len(m.slashCommands) > 0 {
		switch msg.String() {
		case "up":
			if m.slashCursor > 0 {
				m.slashCursor--
			}
			return m, nil
		case "down":
			if m.slashCursor < len(m.slashCommands)-1 {
				m.slashCursor++
			}
			return m, nil
		case "tab", "enter":
			return m.executeSlashCommand(m.slashCommands[m.slashCursor].Name)
		case "esc":
			m.showSlashMenu = false
			m.textInput.SetValue("")
			return m, nil
		}
	}

	// Starter questions respond only while the input is empty
	if m.showStarters() && m.textInput.Value() == "" {
		switch msg.String() {
		case "up":
			if m.starterCursor > 0 {
				m.starterCursor--
			}
			return m, nil
		case "down":
			if m.starterCursor < len(StarterQuestions)-1 {
				m.starterCursor++
			}
			return m, nil
		case "enter":
			if m.starterCursor >= 0 {
				return m.submit(StarterQuestions[m.starterCursor])
			}
			return m, nil
		}
		if q, ok := starterForKey(msg.String()); ok {
			return m.submit(q)
		}
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+o":
		return m.openModelSelect(), textinput.Blink
	case "enter":
		query := strings.TrimSpace(m.textInput.Value())
		if query == "" {
			return m, nil
		}
		if strings.HasPrefix(query, "/") {
			return m.handleSlashCommand(query)
		}
		return m.submit(query)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m = m.checkForSlashCommand()
	if m.textInput.Value() != "" {
		m.starterCursor = -1
	}
	return m, cmd
}

// handleLoadingModeKey handles keys in loading mode
func (m Model) handleLoadingModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	}
	return m, nil
}

// handleAnswerModeKey handles keys while a conversation is shown. Typing
// asks a follow-up; arrows scroll.
func (m Model) handleAnswerModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showSlashMenu && len(m.slashCommands) > 0 {
		switch msg.String() {
		case "up":
			if m.slashCursor > 0 {
				m.slashCursor--
			}
			return m, nil
		case "down":
			if m.slashCursor < len(m.slashCommands)-1 {
				m.slashCursor++
			}
			return m, nil
		case "tab", "enter":
			return m.executeSlashCommand(m.slashCommands[m.slashCursor].Name)
		case "esc":
			m.showSlashMenu = false
			m.textInput.SetValue("")
			return m, nil
		}
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+o":
		return m.openModelSelect(), textinput.Blink
	case "ctrl+n":
		return m.clearConversation(), textinput.Blink
	case "up", "down", "pgup", "pgdown":
		if m.viewportReady {
			var cmd tea.Cmd
			m.answerViewport, cmd = m.answerViewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.textInput.Value())
		if query == "" {
			return m, nil
		}
		if strings.HasPrefix(query, "/") {
			return m.handleSlashCommand(query)
		}
		return m.submit(query)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m = m.checkForSlashCommand()
	return m, cmd
}

// handleModelSelectModeKey handles keys in model selection mode. Typed text
// filters the list.
func (m Model) handleModelSelectModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		m.selector.up()
		return m, nil
	case "down":
		m.selector.down()
		return m, nil
	case "enter":
		d, ok := m.selector.selected()
		if !ok {
			return m, nil
		}
		return m.selectModel(d.Model)
	case "esc":
		return m.leaveModelSelect(), textinput.Blink
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() != m.selector.query {
		m.selector.filter(m.textInput.Value())
	}
	return m, cmd
}

// checkForSlashCommand checks if input starts with "/" and shows the command menu
func (m Model) checkForSlashCommand() Model {
	val := m.textInput.Value()
	if strings.HasPrefix(val, "/") {
		matches := FilterCommands(val)
		if len(matches) > 0 {
			m.showSlashMenu = true
			m.slashCommands = matches
			if m.slashCursor >= len(matches) {
				m.slashCursor = 0
			}
		} else {
			m.showSlashMenu = false
		}
	} else {
		m.showSlashMenu = false
	}
	return m
}

// executeSlashCommand executes the selected slash command from the menu
func (m Model) executeSlashCommand(cmdName string) (tea.Model, tea.Cmd) {
	m.showSlashMenu = false
	m.textInput.SetValue("")
	return m.handleSlashCommand(cmdName)
}

// handleSlashCommand handles slash commands like /model
func (m Model) handleSlashCommand(query string) (tea.Model, tea.Cmd) {
	m.showSlashMenu = false
	switch strings.Fields(query)[0] {
	case "/model":
		return m.openModelSelect(), textinput.Blink
	case "/clear":
		return m.clearConversation(), textinput.Blink
	case "/local":
		m.showLocal = !m.showLocal
		m.textInput.SetValue("")
		m.err = nil
		return m, nil
	default:
		m.err = fmt.Errorf("unknown command: %s", query)
		return m, nil
	}
}

// showStarters reports whether the starter questions are on screen
func (m Model) showStarters() bool {
	return m.mode == ModeInput && len(m.conversationHistory) == 0 && !m.showSlashMenu
}
