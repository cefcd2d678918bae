package tui

import "strconv"

// StarterQuestions are offered before the first question of a conversation
var StarterQuestions = []string{
	"What is a LLM?",
	"Trump assassination attempt",
	"Why are Israel and Hamas at war?",
	"Chandrayaan-3 landing?",
}

// starterForKey maps the digit keys "1".."9" to a starter question
func starterForKey(key string) (string, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > len(StarterQuestions) {
		return "", false
	}
	return StarterQuestions[n-1], true
}
