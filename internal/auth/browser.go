package auth

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// keyPages are where a user can create an API key for each slot
var keyPages = map[string]string{
	SlotOpenAI:    "https://platform.openai.com/api-keys",
	SlotAnthropic: "https://console.anthropic.com/settings/keys",
	SlotCohere:    "https://dashboard.cohere.com/api-keys",
	SlotProxy:     "https://docs.litellm.ai/docs/proxy/virtual_keys",
}

// openURL launches the default browser; replaced in tests
var openURL = browser.OpenURL

func init() {
	// xdg-open and friends chatter on stdout, which would land in the prompts
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// KeyPageURL returns the page where a key for slot can be created, or ""
func KeyPageURL(slot string) string {
	return keyPages[slot]
}

// OpenBrowser opens the specified URL in the user's default browser.
func OpenBrowser(url string) error {
	return openURL(url)
}

// OpenKeyPage opens the key page for slot, returning instructions to print
// when the browser cannot be launched.
func OpenKeyPage(slot string) (opened bool, fallbackMsg string) {
	url := KeyPageURL(slot)
	if url == "" {
		return false, ""
	}
	if err := OpenBrowser(url); err != nil {
		return false, fmt.Sprintf("Create a key at:\n  %s", url)
	}
	return true, ""
}
