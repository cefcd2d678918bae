package tui

import "strings"

// SlashCommand represents a slash command available in the TUI
type SlashCommand struct {
	Name        string // e.g., "/model"
	Description string // e.g., "Change chat model"
}

// AvailableCommands is the list of all available slash commands
var AvailableCommands = []SlashCommand{
	{Name: "/model", Description: "Change chat model"},
	{Name: "/clear", Description: "Start a new conversation"},
	{Name: "/local", Description: "Show or hide local models in the selector"},
}

// FilterCommands returns commands matching the prefix
func FilterCommands(prefix string) []SlashCommand {
	var matches []SlashCommand
	for _, cmd := range AvailableCommands {
		if strings.HasPrefix(cmd.Name, prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}
