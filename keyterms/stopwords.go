package keyterms

import "strings"

// baseStopwords contains English function words and high-frequency
// auxiliaries that carry no discriminative value for keyword extraction.
// The list mirrors the standard English function-word inventory; candidates
// are matched against it after normalization, so entries are lowercase.
var baseStopwords = map[string]struct{}{
	// Pronouns
	"i": {}, "me": {}, "my": {}, "myself": {}, "we": {}, "our": {}, "ours": {},
	"ourselves": {}, "you": {}, "your": {}, "yours": {}, "yourself": {},
	"yourselves": {}, "he": {}, "him": {}, "his": {}, "himself": {}, "she": {},
	"her": {}, "hers": {}, "herself": {}, "it": {}, "its": {}, "itself": {},
	"they": {}, "them": {}, "their": {}, "theirs": {}, "themselves": {},
	// Interrogatives and relatives
	"what": {}, "which": {}, "who": {}, "whom": {}, "whose": {}, "when": {},
	"where": {}, "why": {}, "how": {},
	// Demonstratives
	"this": {}, "that": {}, "these": {}, "those": {},
	// Forms of be, have, do
	"am": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "having": {}, "do": {},
	"does": {}, "did": {}, "doing": {},
	// Articles and conjunctions
	"a": {}, "an": {}, "the": {}, "and": {}, "but": {}, "if": {}, "or": {},
	"because": {}, "as": {}, "until": {}, "while": {}, "nor": {}, "so": {},
	"than": {}, "too": {}, "very": {},
	// Prepositions
	"of": {}, "at": {}, "by": {}, "for": {}, "with": {}, "about": {},
	"against": {}, "between": {}, "into": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {}, "to": {}, "from": {},
	"up": {}, "down": {}, "in": {}, "out": {}, "on": {}, "off": {}, "over": {},
	"under": {},
	// Adverbs and quantifiers
	"again": {}, "further": {}, "then": {}, "once": {}, "here": {}, "there": {},
	"all": {}, "any": {}, "both": {}, "each": {}, "few": {}, "more": {},
	"most": {}, "other": {}, "some": {}, "such": {}, "no": {}, "not": {},
	"only": {}, "own": {}, "same": {}, "just": {}, "now": {},
	// Modals and contractions flattened by normalization
	"can": {}, "will": {}, "should": {}, "would": {}, "could": {}, "might": {},
	"must": {}, "shall": {}, "may": {}, "dont": {}, "doesnt": {}, "didnt": {},
	"isnt": {}, "arent": {}, "wasnt": {}, "werent": {}, "wont": {},
	"wouldnt": {}, "shouldnt": {}, "couldnt": {}, "cant": {}, "im": {},
	"ive": {}, "youre": {}, "thats": {},
}

// DefaultSupplement returns the stopword supplement applied when the
// configuration does not provide one: terms observed to be noise in
// web-scraped text.
func DefaultSupplement() []string {
	return []string{"via", "using", "eg", "ie", "skip"}
}

// StopwordSet is the exclusion lexicon used both as phrase delimiters
// during candidate generation and for candidate filtering. It is built
// once and read-only afterwards, so it is safe for concurrent use.
type StopwordSet struct {
	words map[string]struct{}
}

// NewStopwordSet combines the embedded base lexicon with a supplement.
func NewStopwordSet(supplement []string) *StopwordSet {
	words := make(map[string]struct{}, len(baseStopwords)+len(supplement))
	for w := range baseStopwords {
		words[w] = struct{}{}
	}
	for _, w := range supplement {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			words[w] = struct{}{}
		}
	}
	return &StopwordSet{words: words}
}

// Contains reports whether the given token is in the exclusion set.
func (s *StopwordSet) Contains(token string) bool {
	_, ok := s.words[token]
	return ok
}

// Len returns the size of the exclusion set.
func (s *StopwordSet) Len() int {
	return len(s.words)
}
