package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	zlog "github.com/rs/zerolog/log"

	"github.com/perch-ai/perch/internal/llm"
	"github.com/perch-ai/perch/internal/models"
)

// ask returns a command that sends query, with the conversation so far, to
// the provider
func (m Model) ask(query string) tea.Cmd {
	provider := m.provider
	history := m.conversationHistory
	conversationID := m.conversationID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), llm.DefaultAPITimeout)
		defer cancel()

		zlog.Debug().
			Str("conversation_id", conversationID).
			Int("history", len(history)).
			Str("model", provider.Model()).
			Msg("asking")

		result, err := provider.Complete(ctx, llm.Request{
			Query:   query,
			History: history,
		})
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return AnswerMsg{Result: result, Query: query}
	}
}

// saveSelection returns a command that persists the store's configuration
// after model was selected
func (m Model) saveSelection(model models.ChatModel) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return SelectionSavedMsg{Model: model, Err: store.Save()}
	}
}
