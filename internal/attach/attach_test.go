package attach

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "# Notes\nhello\n")
	writeFile(t, dir, ".env", "SECRET=1")
	writeFile(t, dir, "blob.bin", "ab\x00cd")
	writeFile(t, dir, "big.txt", strings.Repeat("x", MaxFileBytes+1))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	got := Read(dir, []string{"notes.md", ".env", "blob.bin", "big.txt", "sub", "missing.txt"}, MaxTotalBytes)
	require.Len(t, got, 6)

	assert.NoError(t, got[0].Err)
	assert.Equal(t, "# Notes\nhello\n", got[0].Content)
	assert.ErrorIs(t, got[1].Err, ErrSensitive)
	assert.ErrorIs(t, got[2].Err, ErrBinary)
	assert.ErrorIs(t, got[3].Err, ErrTooLarge)
	assert.ErrorIs(t, got[4].Err, ErrDirectory)
	assert.ErrorIs(t, got[5].Err, os.ErrNotExist)
}

func TestRead_RespectsBudget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", strings.Repeat("a", 30))
	writeFile(t, dir, "b.txt", strings.Repeat("b", 30))
	writeFile(t, dir, "c.txt", "c")

	got := Read(dir, []string{"a.txt", "b.txt", "c.txt"}, 40)
	require.Len(t, got, 2)
	assert.False(t, got[0].Truncated)
	assert.Len(t, got[1].Content, 10)
	assert.True(t, got[1].Truncated)
}

func TestIsSensitive(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{".env", true},
		{".env.production", true},
		{"server.KEY", true},
		{"cert.pem", true},
		{"aws_credentials.json", true},
		{"app-secrets.yaml", true},
		{"/home/me/.ssh/config", true},
		{"/home/me/.aws/config", true},
		{"id_ed25519.pub", true},
		{"README.md", false},
		{"environment.go", false},
		{"keyboard.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsSensitive(tt.path); got != tt.want {
				t.Errorf("IsSensitive(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	out := Format([]File{
		{Path: "a.md", Content: "alpha\n"},
		{Path: ".env", Err: ErrSensitive},
		{Path: "b.txt", Content: "bravo", Truncated: true},
	})

	assert.Equal(t, "=== a.md ===\nalpha\n\n=== .env (skipped: sensitive file (contains credentials or secrets)) ===\n\n=== b.txt ===\nbravo\n... (truncated)", out)
	assert.Empty(t, Format(nil))
}
