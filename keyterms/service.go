package keyterms

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// Service orchestrates the extraction pipeline: normalization, candidate
// generation, stopword filtering, semantic scoring, diversity-aware
// selection and the fallback chain. It holds no per-request state; the
// embedding model and stopword lexicon are loaded once and treated as
// read-only afterwards, so concurrent requests need no coordination.
type Service struct {
	embedder Embedder

	cfgMu sync.RWMutex
	cfg   Config
	stops *StopwordSet

	candCache *candidateCache

	logger *logrus.Logger
}

// NewService constructs a service with the given embedder and configuration.
func NewService(ctx context.Context, embedder Embedder, cfg Config, logger *logrus.Logger) (*Service, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	cfg.ApplyDefaults()
	s := &Service{
		embedder:  embedder,
		cfg:       cfg,
		stops:     NewStopwordSet(cfg.Stopwords.Supplement),
		candCache: newCandidateCache(cfg.CandidateCache),
		logger:    logger,
	}
	s.logger.WithFields(logrus.Fields{
		"model":     embedder.ModelID(),
		"stopwords": s.stops.Len(),
	}).Info("keyword extraction service ready")
	return s, nil
}

// Close releases embedder resources.
func (s *Service) Close() error {
	if s.embedder != nil {
		return s.embedder.Close()
	}
	return nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration. The stopword lexicon and the
// candidate cache are rebuilt because cached candidate lists depend on the
// supplement in effect when they were generated.
func (s *Service) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.stops = NewStopwordSet(cfg.Stopwords.Supplement)
	s.candCache = newCandidateCache(cfg.CandidateCache)
	s.cfgMu.Unlock()
}

// ExtractKeywords runs the full pipeline over one document and returns the
// ranked, de-duplicated keyword list. Zero-valued options fall back to the
// configured extraction defaults. The call is synchronous, deterministic
// for identical input and options, and safe to invoke from concurrent
// goroutines.
func (s *Service) ExtractKeywords(ctx context.Context, text string, opts Options) ([]Keyword, error) {
	cfg, stops, cache := s.snapshot()
	merged := cfg.Extraction
	overlay(&merged, opts)
	merged.applyDefaults()

	if len(text) > cfg.MaxInputBytes {
		return nil, fmt.Errorf("%w: text exceeds %d bytes", ErrInvalidInput, cfg.MaxInputBytes)
	}
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidInput)
	}
	normalized, err := Normalize(text)
	if err != nil {
		return nil, err
	}
	if normalized == "" {
		// Non-empty input that normalizes to nothing (e.g. pure
		// punctuation) has no vocabulary for any tier to work with.
		return nil, fmt.Errorf("%w: document is empty after normalization", ErrNoKeywords)
	}

	cacheKey := candidateKey(normalized, merged.MaxPhraseLen)
	candidates, hit := cache.get(cacheKey)
	if !hit {
		candidates = FilterCandidates(GenerateCandidates(normalized, stops, merged.MaxPhraseLen), stops)
		cache.put(cacheKey, candidates)
	}

	docVec, err := s.embedder.EmbedText(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("embed document: %w", err)
	}
	scored, err := scoreCandidates(ctx, s.embedder, docVec, candidates)
	if err != nil {
		return nil, err
	}

	diversity := *merged.Diversity
	minScore := *merged.MinScore
	tiers := []fallbackTier{
		{
			name: "primary",
			run: func(context.Context) ([]Keyword, error) {
				kws := selectMMR(scored, merged.TopK, diversity, minScore, true)
				if len(kws) > merged.MaxKeep {
					kws = kws[:merged.MaxKeep]
				}
				return kws, nil
			},
		},
		{
			// All candidates fell below the bar: return the best two
			// anyway so the caller receives something whenever any
			// candidates exist. Diversity weighting still applies so
			// orderings stay consistent with the primary tier.
			name: "low-score",
			run: func(context.Context) ([]Keyword, error) {
				kws := selectMMR(scored, merged.TopK, diversity, 0, false)
				if len(kws) > 2 {
					kws = kws[:2]
				}
				return kws, nil
			},
		},
		{
			// No phrase candidates at all: score the raw token
			// vocabulary of the document directly.
			name: "vocabulary",
			run: func(tctx context.Context) ([]Keyword, error) {
				vocab := vocabularyCandidates(normalized)
				vs, err := scoreCandidates(tctx, s.embedder, docVec, vocab)
				if err != nil {
					return nil, err
				}
				return selectMMR(vs, merged.TopK, diversity, 0, false), nil
			},
		},
	}

	kws, tier, err := runTiers(ctx, tiers)
	if err != nil {
		return nil, err
	}
	if len(kws) == 0 {
		return nil, fmt.Errorf("%w: all fallback tiers exhausted", ErrNoKeywords)
	}
	s.logger.WithFields(logrus.Fields{
		"tier":       tier,
		"candidates": len(candidates),
		"keywords":   len(kws),
	}).Debug("extraction finished")
	return kws, nil
}

func (s *Service) snapshot() (Config, *StopwordSet, *candidateCache) {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg, s.stops, s.candCache
}

// overlay copies set request options over the configured defaults.
func overlay(dst *Options, src Options) {
	if src.TopK > 0 {
		dst.TopK = src.TopK
	}
	if src.Diversity != nil {
		dst.Diversity = src.Diversity
	}
	if src.MinScore != nil {
		dst.MinScore = src.MinScore
	}
	if src.MaxKeep > 0 {
		dst.MaxKeep = src.MaxKeep
	}
	if src.MaxPhraseLen > 0 {
		dst.MaxPhraseLen = src.MaxPhraseLen
	}
}
