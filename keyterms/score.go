package keyterms

import (
	"context"
	"fmt"
	"math"
)

// scoredCandidate pairs a candidate phrase with its relevance to the
// document and the vector used for redundancy checks during selection.
type scoredCandidate struct {
	phrase string
	score  float32
	vector []float32
}

// scoreCandidates embeds every candidate in one batched call and scores
// each against the document vector by cosine similarity.
func scoreCandidates(ctx context.Context, embedder Embedder, docVec []float32, cands []string) ([]scoredCandidate, error) {
	if len(cands) == 0 {
		return nil, nil
	}
	vecs, err := embedder.EmbedTexts(ctx, cands)
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	out := make([]scoredCandidate, len(cands))
	for i, c := range cands {
		out[i] = scoredCandidate{
			phrase: c,
			score:  cosineSimilarity(docVec, vecs[i]),
			vector: vecs[i],
		}
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		fa := float64(a[i])
		fb := float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
