package keyterms

import (
	"sort"
	"strings"
)

// selectMMR picks up to topK keywords by Maximal Marginal Relevance.
// Starting from the most relevant candidate it iteratively adds the
// candidate maximizing
//
//	(1-diversity)*relevance - diversity*maxSimilarityToSelected
//
// so near-duplicate phrases do not dominate the result. Candidates are
// deduplicated case-insensitively before selection (the highest-scoring
// surface form wins). When applyCut is set, entries below minScore are
// dropped afterwards; selection itself never looks at minScore so the
// fallback tier can reuse the same routine without the cut.
//
// The returned set is ordered by descending raw score with lexicographic
// tie-breaking, so identical input always yields identical output.
func selectMMR(cands []scoredCandidate, topK int, diversity float64, minScore float32, applyCut bool) []Keyword {
	if len(cands) == 0 || topK <= 0 {
		return nil
	}
	if diversity < 0 {
		diversity = 0
	}
	if diversity > 1 {
		diversity = 1
	}

	pool := dedupeCandidates(cands)
	selected := make([]scoredCandidate, 0, topK)
	// The seed is always the most relevant candidate; diversity only
	// shapes the picks after it.
	selected = append(selected, pool[0])
	pool = pool[1:]
	for len(selected) < topK && len(pool) > 0 {
		bestIdx := -1
		var bestVal float64
		for i, c := range pool {
			val := (1-diversity)*float64(c.score) - diversity*float64(maxSimilarity(c.vector, selected))
			if bestIdx < 0 || val > bestVal || (val == bestVal && c.phrase < pool[bestIdx].phrase) {
				bestIdx = i
				bestVal = val
			}
		}
		selected = append(selected, pool[bestIdx])
		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
	}

	out := make([]Keyword, 0, len(selected))
	for _, c := range selected {
		if applyCut && c.score < minScore {
			continue
		}
		out = append(out, Keyword{Phrase: c.phrase, Score: c.score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Phrase < out[j].Phrase
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// dedupeCandidates collapses case-insensitive duplicates, keeping the
// highest-scoring entry, and orders the pool by descending relevance so
// the first MMR pick is the most relevant candidate.
func dedupeCandidates(cands []scoredCandidate) []scoredCandidate {
	best := make(map[string]scoredCandidate, len(cands))
	for _, c := range cands {
		key := strings.ToLower(c.phrase)
		if cur, ok := best[key]; !ok || c.score > cur.score {
			best[key] = c
		}
	}
	pool := make([]scoredCandidate, 0, len(best))
	for _, c := range best {
		pool = append(pool, c)
	}
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].score == pool[j].score {
			return pool[i].phrase < pool[j].phrase
		}
		return pool[i].score > pool[j].score
	})
	return pool
}

func maxSimilarity(vec []float32, selected []scoredCandidate) float32 {
	var max float32
	for _, s := range selected {
		if sim := cosineSimilarity(vec, s.vector); sim > max {
			max = sim
		}
	}
	return max
}
