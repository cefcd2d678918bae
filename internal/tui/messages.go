package tui

import (
	"github.com/perch-ai/perch/internal/llm"
	"github.com/perch-ai/perch/internal/models"
)

// AnswerMsg is sent when the model has answered a question
type AnswerMsg struct {
	Result *llm.Completion
	Query  string // Original question (needed to add to conversation history)
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

func (e ErrorMsg) Error() string {
	return e.Err.Error()
}

// SelectionSavedMsg is sent once a model selection has been written to the
// config file
type SelectionSavedMsg struct {
	Model models.ChatModel
	Err   error
}
