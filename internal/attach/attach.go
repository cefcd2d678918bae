// Package attach reads local files a user hands to 'perch ask' so they can be
// sent to the model as reference material.
package attach

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// MaxFileBytes is the largest single file that will be attached (50KB)
	MaxFileBytes = 50 * 1024

	// MaxTotalBytes caps the combined size of all attachments (100KB)
	MaxTotalBytes = 100 * 1024
)

var (
	ErrSensitive = errors.New("sensitive file (contains credentials or secrets)")
	ErrBinary    = errors.New("binary file")
	ErrTooLarge  = fmt.Errorf("file too large (>%dKB)", MaxFileBytes/1024)
	ErrDirectory = errors.New("is a directory")
)

// sensitiveGlobs are matched against the lower-cased base name
var sensitiveGlobs = []string{
	".env",
	".env.*",
	"*.key",
	"*.pem",
	"*.p12",
	"*.pfx",
	"*.secret",
	"*credentials*",
	"*secrets*",
	"id_rsa*",
	"id_ed25519*",
	"id_ecdsa*",
	"id_dsa*",
	".netrc",
	".npmrc",
	".pypirc",
}

// sensitiveDirs never have their files attached
var sensitiveDirs = []string{".ssh", ".aws", ".gnupg"}

// File is one attachment. Err is set when the file was skipped.
type File struct {
	Path      string
	Content   string
	Truncated bool
	Err       error
}

// Read loads paths relative to cwd, in order, until maxBytes have been read.
// Files that cannot be attached are returned with Err set.
func Read(cwd string, paths []string, maxBytes int) []File {
	var out []File
	total := 0

	for _, p := range paths {
		remaining := maxBytes - total
		if remaining <= 0 {
			break
		}

		full := p
		if !filepath.IsAbs(full) {
			full = filepath.Join(cwd, full)
		}

		content, truncated, err := readOne(full, remaining)
		if err != nil {
			out = append(out, File{Path: p, Err: err})
			continue
		}
		total += len(content)
		out = append(out, File{Path: p, Content: content, Truncated: truncated})
	}
	return out
}

func readOne(path string, limit int) (string, bool, error) {
	if IsSensitive(path) {
		return "", false, ErrSensitive
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", false, err
	}
	if info.IsDir() {
		return "", false, ErrDirectory
	}
	if info.Size() > MaxFileBytes {
		return "", false, ErrTooLarge
	}

	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(limit)))
	if err != nil {
		return "", false, err
	}
	content := string(data)
	if isBinary(content) {
		return "", false, ErrBinary
	}
	return content, int64(len(data)) < info.Size(), nil
}

// IsSensitive reports whether path looks like it holds secrets
func IsSensitive(path string) bool {
	clean := filepath.ToSlash(strings.ToLower(filepath.Clean(path)))
	for _, dir := range sensitiveDirs {
		if strings.Contains("/"+clean, "/"+dir+"/") {
			return true
		}
	}

	name := filepath.Base(clean)
	for _, glob := range sensitiveGlobs {
		if ok, _ := filepath.Match(glob, name); ok {
			return true
		}
	}
	return false
}

func isBinary(content string) bool {
	return strings.Contains(content, "\x00") || !utf8.ValidString(content)
}

// Format renders the attached files as one block of reference material.
// Skipped files are listed with the reason.
func Format(files []File) string {
	var b strings.Builder
	for _, f := range files {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		if f.Err != nil {
			fmt.Fprintf(&b, "=== %s (skipped: %v) ===", f.Path, f.Err)
			continue
		}
		fmt.Fprintf(&b, "=== %s ===\n%s", f.Path, strings.TrimRight(f.Content, "\n"))
		if f.Truncated {
			b.WriteString("\n... (truncated)")
		}
	}
	return b.String()
}
