package keyterms

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
)

// candidateCache is a bounded read-through cache for candidate lists keyed
// by normalized text and the phrase-length limit in effect. Inputs are
// immutable once submitted, so entries never
// need invalidation; LRU eviction keeps memory flat under sustained
// distinct input.
type candidateCache struct {
	lru *lru.Cache[string, []string]
}

// candidateKey scopes a cached candidate list to the phrase-length limit
// it was generated under. Requests overriding MaxPhraseLen must not
// observe entries produced with a different limit.
func candidateKey(normalized string, maxPhraseLen int) string {
	return strconv.Itoa(maxPhraseLen) + "|" + normalized
}

func newCandidateCache(capacity int) *candidateCache {
	if capacity <= 0 {
		capacity = 1000
	}
	// lru.New only fails for non-positive sizes, which is guarded above.
	c, _ := lru.New[string, []string](capacity)
	return &candidateCache{lru: c}
}

func (c *candidateCache) get(key string) ([]string, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	out := make([]string, len(v))
	copy(out, v)
	return out, true
}

func (c *candidateCache) put(key string, cands []string) {
	v := make([]string, len(cands))
	copy(v, cands)
	c.lru.Add(key, v)
}
