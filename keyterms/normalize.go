package keyterms

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern = regexp.MustCompile(`(?:https?://|www\.)\S+`)
	tagPattern = regexp.MustCompile(`<[^<>]*>`)
)

// Normalize cleans raw text for candidate generation and embedding.
// Transformations run in a fixed order because later steps assume earlier
// ones: NFKC fold, lowercase, URL stripping, markup stripping, punctuation
// stripping (hyphens survive so compound terms like "machine-learning"
// stay intact), whitespace collapsing. The result is a fixed point:
// normalizing twice equals normalizing once.
func Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty text", ErrInvalidInput)
	}
	if !utf8.ValidString(raw) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidInput)
	}
	text := norm.NFKC.String(raw)
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		case r == '-' || r == '_':
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, text)
	return strings.Join(strings.Fields(text), " "), nil
}

// tokenize splits normalized text into tokens. Normalization already
// collapsed whitespace, so a fields split is sufficient.
func tokenize(normalized string) []string {
	return strings.Fields(normalized)
}
