package keyterms

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// ReadInput resolves the document text for a request: either the literal
// text, or the content of the named file decoded as UTF-8 plain text.
// Binary or otherwise non-decodable content is rejected here so the
// pipeline never sees it. Exactly one of text and file must be provided.
func ReadInput(text, file string, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	switch {
	case text != "" && file != "":
		return "", fmt.Errorf("%w: provide either text or a file, not both", ErrInvalidInput)
	case text != "":
		return text, nil
	case file != "":
		return readTextFile(file, maxBytes)
	default:
		return "", fmt.Errorf("%w: no text provided", ErrInvalidInput)
	}
}

func readTextFile(path string, maxBytes int) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat input file: %w", err)
	}
	if info.Size() > int64(maxBytes) {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input file: %w", err)
	}
	// Drop a UTF-8 BOM if present; editors on some platforms add one.
	data = stripBOM(data)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not UTF-8 text", ErrInvalidInput)
	}
	text := string(data)
	if strings.ContainsRune(text, '\x00') {
		return "", fmt.Errorf("%w: file looks binary", ErrInvalidInput)
	}
	return text, nil
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
