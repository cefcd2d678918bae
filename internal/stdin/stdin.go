// Package stdin reads piped input for use as reference material in a question
package stdin

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxInputSize is the most piped input sent to a model (100KB)
const MaxInputSize = 100 * 1024

// IsPiped returns true if stdin is a pipe or file rather than a terminal
func IsPiped() bool {
	return isPiped(os.Stdin)
}

func isPiped(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// Read returns piped stdin, or "" when stdin is a terminal
func Read() (string, error) {
	if !IsPiped() {
		return "", nil
	}
	return ReadFrom(os.Stdin, MaxInputSize*2)
}

// ReadFrom reads at most limit bytes from r. Reading stops at the limit
// without draining the rest of r.
func ReadFrom(r io.Reader, limit int) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)))
	if err != nil {
		return string(data), fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// Truncate shortens content to about maxSize bytes, keeping the beginning
// and the end and marking how much was dropped in between. Cuts snap to
// line boundaries when one is close.
func Truncate(content string, maxSize int) string {
	if len(content) <= maxSize {
		return content
	}

	headSize := maxSize / 2
	tailSize := maxSize - headSize

	head := content[:headSize]
	tail := content[len(content)-tailSize:]

	if idx := strings.LastIndexByte(head, '\n'); idx > headSize/2 {
		head = head[:idx+1]
	}
	if idx := strings.IndexByte(tail, '\n'); idx >= 0 && idx < tailSize/2 {
		tail = tail[idx+1:]
	}

	omitted := len(content) - len(head) - len(tail)
	return head + fmt.Sprintf("\n[... %d bytes omitted ...]\n", omitted) + tail
}
