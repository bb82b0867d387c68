package keyterms

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minCandidateRunes is the minimum surface length for a candidate phrase.
const minCandidateRunes = 2

// GenerateCandidates proposes keyword candidates from normalized text.
// Noun-phrase spans are approximated without a parser: the stopword
// lexicon acts as a phrase delimiter, and every contiguous run of content
// words contributes its sub-spans up to maxPhraseLen tokens. Order follows
// textual appearance and duplicates across positions are permitted;
// deduplication happens during selection.
//
// When the text contains no content words at all the result is empty and
// the caller's fallback chain takes over.
func GenerateCandidates(normalized string, stops *StopwordSet, maxPhraseLen int) []string {
	if maxPhraseLen <= 0 {
		maxPhraseLen = 3
	}
	tokens := tokenize(normalized)
	var out []string
	run := make([]string, 0, 8)
	flush := func() {
		for i := range run {
			for n := 1; n <= maxPhraseLen && i+n <= len(run); n++ {
				out = append(out, strings.Join(run[i:i+n], " "))
			}
		}
		run = run[:0]
	}
	for _, tok := range tokens {
		if stops.Contains(tok) {
			flush()
			continue
		}
		run = append(run, tok)
	}
	flush()
	return out
}

// FilterCandidates removes candidates that match the exclusion set, fall
// below the minimum surface length, or carry no alphanumeric content.
func FilterCandidates(cands []string, stops *StopwordSet) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		c = strings.TrimSpace(c)
		if utf8.RuneCountInString(c) < minCandidateRunes {
			continue
		}
		if stops.Contains(c) {
			continue
		}
		if !hasAlnum(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
