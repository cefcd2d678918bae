package stdin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"empty", "", 10, ""},
		{"under limit", "kubectl output", 100, "kubectl output"},
		{"at limit", "abcde", 5, "abcde"},
		{"over limit", "abcdefghij", 4, "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFrom(strings.NewReader(tt.input), tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Run("short content unchanged", func(t *testing.T) {
		if got := Truncate("hello", 10); got != "hello" {
			t.Errorf("Truncate() = %q", got)
		}
	})

	t.Run("keeps head and tail", func(t *testing.T) {
		content := strings.Repeat("a", 100) + strings.Repeat("b", 100) + strings.Repeat("c", 100)
		got := Truncate(content, 100)

		if !strings.HasPrefix(got, strings.Repeat("a", 50)) {
			t.Errorf("head not preserved: %q", got[:60])
		}
		if !strings.HasSuffix(got, strings.Repeat("c", 50)) {
			t.Errorf("tail not preserved")
		}
		if !strings.Contains(got, "[... 200 bytes omitted ...]") {
			t.Errorf("missing omission marker: %q", got)
		}
	})

	t.Run("snaps to line boundaries", func(t *testing.T) {
		var lines []string
		for i := 0; i < 50; i++ {
			lines = append(lines, "line of log output")
		}
		content := strings.Join(lines, "\n")
		got := Truncate(content, 200)

		parts := strings.SplitN(got, "\n[... ", 2)
		if len(parts) != 2 {
			t.Fatalf("missing marker: %q", got)
		}
		if !strings.HasSuffix(parts[0], "output\n") && !strings.HasSuffix(parts[0], "output") {
			t.Errorf("head should end on a full line, got %q", parts[0])
		}
		tail := parts[1][strings.Index(parts[1], "\n")+1:]
		if !strings.HasPrefix(tail, "line of log output") {
			t.Errorf("tail should start on a full line, got %q", tail)
		}
	})
}

func TestIsPiped_File(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "input.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if !isPiped(f) {
		t.Error("a regular file should count as piped input")
	}
}
