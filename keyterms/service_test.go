package keyterms

import (
	"context"
	"hash/fnv"
	"io"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stubDims = 128

// stubEmbedder produces deterministic bag-of-words vectors: every token
// maps to a fixed pseudo-random direction and a text embeds as the
// normalized sum of its token directions. Texts sharing tokens therefore
// score high against each other, which is enough to exercise the pipeline
// without a real model.
type stubEmbedder struct {
	mu      sync.Mutex
	batches int
	encoded int
}

func (s *stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	s.batches++
	s.encoded += len(texts)
	s.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = textVector(t)
	}
	return out, nil
}

func (s *stubEmbedder) Close() error { return nil }
func (s *stubEmbedder) ModelID() string { return "stub" }

func tokenVector(token string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	x := h.Sum64()
	vec := make([]float32, stubDims)
	for i := range vec {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		vec[i] = float32(int64(x%2001)-1000) / 1000
	}
	return vec
}

func textVector(text string) []float32 {
	out := make([]float32, stubDims)
	for _, tok := range strings.Fields(text) {
		tv := tokenVector(tok)
		for i := range out {
			out[i] += tv[i]
		}
	}
	var sum float64
	for _, v := range out {
		sum += float64(v) * float64(v)
	}
	if sum > 0 {
		inv := float32(1 / math.Sqrt(sum))
		for i := range out {
			out[i] *= inv
		}
	}
	return out
}

func newTestService(t *testing.T, cfg Config) (*Service, *stubEmbedder) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	embedder := &stubEmbedder{}
	svc, err := NewService(context.Background(), embedder, cfg, logger)
	require.NoError(t, err)
	return svc, embedder
}

func assertResultInvariants(t *testing.T, kws []Keyword) {
	t.Helper()
	seen := make(map[string]struct{})
	for i, kw := range kws {
		lower := strings.ToLower(kw.Phrase)
		_, dup := seen[lower]
		assert.False(t, dup, "duplicate keyword %q", kw.Phrase)
		seen[lower] = struct{}{}
		assert.GreaterOrEqual(t, kw.Score, float32(-1.001))
		assert.LessOrEqual(t, kw.Score, float32(1.001))
		if i > 0 {
			assert.GreaterOrEqual(t, kws[i-1].Score, kw.Score,
				"scores must be non-increasing")
		}
	}
}

func TestExtractKeywordsMostlyStopwords(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	// Scenario: a sentence dominated by function words still yields
	// phrase candidates like "quick brown fox" and "lazy dog".
	kws, err := svc.ExtractKeywords(context.Background(),
		"The quick brown fox jumps over the lazy dog.", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, kws)
	assertResultInvariants(t, kws)
}

func TestExtractKeywordsEmptyInput(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	_, err := svc.ExtractKeywords(context.Background(), "", Options{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExtractKeywordsMarkup(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	kws, err := svc.ExtractKeywords(context.Background(),
		"<p>Artificial intelligence is transforming industries.</p>", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, kws)
	assertResultInvariants(t, kws)

	found := false
	for _, kw := range kws {
		assert.NotContains(t, kw.Phrase, "<")
		assert.NotContains(t, kw.Phrase, ">")
		if kw.Phrase == "artificial intelligence" {
			found = true
			assert.Greater(t, kw.Score, float32(0.05))
		}
	}
	assert.True(t, found, "expected %q among keywords: %v", "artificial intelligence", kws)
}

func TestExtractKeywordsAllStopwords(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	// No phrase candidates survive filtering, so the vocabulary tier
	// engages and returns token-level keywords rather than an error.
	kws, err := svc.ExtractKeywords(context.Background(), "the is a of and", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, kws)
	assertResultInvariants(t, kws)
	for _, kw := range kws {
		assert.NotContains(t, kw.Phrase, " ", "vocabulary fallback yields single tokens")
	}
}

func TestExtractKeywordsPunctuationOnly(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	_, err := svc.ExtractKeywords(context.Background(), "!!! ??? ...", Options{})
	assert.ErrorIs(t, err, ErrNoKeywords)
}

func TestExtractKeywordsOversized(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{MaxInputBytes: 64})

	_, err := svc.ExtractKeywords(context.Background(),
		strings.Repeat("words ", 32), Options{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExtractKeywordsInvalidUTF8(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	_, err := svc.ExtractKeywords(context.Background(), "broken \xff bytes", Options{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	text := "Machine learning systems analyze large data sets to train neural network models for prediction tasks."
	first, err := svc.ExtractKeywords(context.Background(), text, Options{})
	require.NoError(t, err)
	second, err := svc.ExtractKeywords(context.Background(), text, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assertResultInvariants(t, first)
}

func TestExtractKeywordsLowScoreFallback(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	// An impossible bar empties the primary tier; the low-score tier
	// then returns the best two candidates regardless.
	kws, err := svc.ExtractKeywords(context.Background(),
		"Distributed database replication guarantees strong consistency.",
		Options{MinScore: Float32(0.999)})
	require.NoError(t, err)
	require.NotEmpty(t, kws)
	assert.LessOrEqual(t, len(kws), 2)
	assertResultInvariants(t, kws)
}

func TestExtractKeywordsDiversityChangesSelection(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	text := "deep learning deep learning models"
	relevanceOnly, err := svc.ExtractKeywords(context.Background(), text,
		Options{TopK: 2, Diversity: Float64(0), MinScore: Float32(0)})
	require.NoError(t, err)
	diversityOnly, err := svc.ExtractKeywords(context.Background(), text,
		Options{TopK: 2, Diversity: Float64(1), MinScore: Float32(0)})
	require.NoError(t, err)

	assert.NotEqual(t, phrases(relevanceOnly), phrases(diversityOnly),
		"near-duplicate phrases should make the selections diverge")
}

func TestExtractKeywordsRespectsMaxKeep(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	text := "solar panels wind turbines hydroelectric dams geothermal plants nuclear reactors tidal generators"
	kws, err := svc.ExtractKeywords(context.Background(), text,
		Options{MinScore: Float32(0), MaxKeep: 3})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(kws), 3)
}

func TestExtractKeywordsCandidateCacheReuse(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	text := "Container orchestration schedules workloads across cluster nodes."
	first, err := svc.ExtractKeywords(context.Background(), text, Options{})
	require.NoError(t, err)

	normalized, err := Normalize(text)
	require.NoError(t, err)
	cached, hit := svc.candCache.get(candidateKey(normalized, 3))
	assert.True(t, hit, "first call should populate the candidate cache")
	assert.NotEmpty(t, cached)

	second, err := svc.ExtractKeywords(context.Background(), text, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second, "cache hit must not change the result")
}

func TestExtractKeywordsPhraseLenOptionsIsolated(t *testing.T) {
	t.Parallel()

	// Candidate lists depend on the phrase-length limit, so requests
	// overriding it must not observe each other's cached candidates.
	text := "solar cells convert sunlight efficiently"
	fresh, _ := newTestService(t, Config{})
	want, err := fresh.ExtractKeywords(context.Background(), text,
		Options{MaxPhraseLen: 3, MinScore: Float32(0)})
	require.NoError(t, err)

	svc, _ := newTestService(t, Config{})
	short, err := svc.ExtractKeywords(context.Background(), text,
		Options{MaxPhraseLen: 1, MinScore: Float32(0)})
	require.NoError(t, err)
	for _, kw := range short {
		assert.NotContains(t, kw.Phrase, " ")
	}

	got, err := svc.ExtractKeywords(context.Background(), text,
		Options{MaxPhraseLen: 3, MinScore: Float32(0)})
	require.NoError(t, err)
	assert.Equal(t, want, got,
		"a prior request with a different phrase-length limit must not affect the result")
}

func TestUpdateConfigRebuildsStopwords(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Config{})

	text := "kubernetes orchestrates containers"
	before, err := svc.ExtractKeywords(context.Background(), text, Options{MinScore: Float32(0), MaxKeep: 10})
	require.NoError(t, err)
	assert.Contains(t, phrases(before), "kubernetes")

	cfg := svc.Config()
	cfg.Stopwords.Supplement = append(cfg.Stopwords.Supplement, "kubernetes")
	svc.UpdateConfig(cfg)

	after, err := svc.ExtractKeywords(context.Background(), text, Options{MinScore: Float32(0), MaxKeep: 10})
	require.NoError(t, err)
	assert.NotContains(t, phrases(after), "kubernetes")
}
