// Package textsource loads reference text for typing tests.
package textsource

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
)

// DefaultTitle is used when no better title can be derived.
const DefaultTitle = "Custom Text"

// ErrEmptyText is returned when a source yields no text to type.
var ErrEmptyText = errors.New("text is empty")

// ErrUnsupportedFormat is returned for files that are not plain text.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var readClipboard = clipboard.ReadAll

// LoadFile reads reference text from a plain text file.
func LoadFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case "", ".txt", ".text":
	case ".pdf":
		return "", fmt.Errorf("%w: PDF files are not supported, paste the text or save it as .txt", ErrUnsupportedFormat)
	default:
		return "", fmt.Errorf("%w: %s (use a .txt file)", ErrUnsupportedFormat, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return fromBytes(data)
}

// FromReader reads reference text from r.
func FromReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return fromBytes(data)
}

// FromClipboard reads reference text from the system clipboard.
func FromClipboard() (string, error) {
	text, err := readClipboard()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return fromBytes([]byte(text))
}

func fromBytes(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", ErrUnsupportedFormat)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\uFEFF")
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// Normalize prepares text for typing on a single line.
// Line breaks become single spaces and trailing whitespace is dropped.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		parts = append(parts, line)
	}
	return strings.TrimRight(strings.Join(parts, " "), " \t")
}

// TitleFor derives a test title from a file path.
func TitleFor(path string) string {
	base := filepath.Base(path)
	if path == "" || base == "." || base == string(filepath.Separator) {
		return DefaultTitle
	}
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(title) == "" {
		return DefaultTitle
	}
	return title
}
