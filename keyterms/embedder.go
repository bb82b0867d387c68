package keyterms

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/textforge/keyterms/emb"
)

// Embedder exposes the minimal surface required by the pipeline.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
	ModelID() string
}

// OrtEmbedder is a thin wrapper over emb.Encoder with a bounded vector
// cache. Misses within a request are encoded in a single batched inference
// call, which is the dominant cost of the pipeline.
type OrtEmbedder struct {
	enc   *emb.Encoder
	cfg   EmbedderConfig
	cache *lru.Cache[string, []float32]
}

// NewOrtEmbedder loads the model and tokenizer. A load failure is fatal
// for the process and reported as ErrModelUnavailable.
func NewOrtEmbedder(cfg EmbedderConfig) (*OrtEmbedder, error) {
	if cfg.ModelID == "" && cfg.ModelPath != "" {
		cfg.ModelID = filepath.Base(cfg.ModelPath)
	}
	if cfg.VectorCache <= 0 {
		cfg.VectorCache = 4096
	}
	encoder := &emb.Encoder{}
	if err := encoder.Init(emb.Config{
		OrtDLL:        cfg.OrtDLL,
		ModelPath:     cfg.ModelPath,
		TokenizerPath: cfg.TokenizerPath,
		MaxSeqLen:     cfg.MaxSeqLen,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	cache, _ := lru.New[string, []float32](cfg.VectorCache)
	return &OrtEmbedder{
		enc:   encoder,
		cfg:   cfg,
		cache: cache,
	}, nil
}

// Close releases ORT resources.
func (o *OrtEmbedder) Close() error {
	if o == nil {
		return nil
	}
	if o.enc != nil {
		o.enc.Close()
		o.enc = nil
	}
	return nil
}

// ModelID returns the identifier used for cache keys.
func (o *OrtEmbedder) ModelID() string {
	return o.cfg.ModelID
}

// EmbedText embeds a single string with caching.
func (o *OrtEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := o.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedTexts embeds a slice of strings. Cached vectors are reused; the
// remaining texts go through the encoder as one padded batch.
func (o *OrtEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if o == nil || o.enc == nil {
		return nil, fmt.Errorf("%w: embedder is closed", ErrModelUnavailable)
	}
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if vec, ok := o.cache.Get(o.cacheKey(t)); ok {
			out[i] = cloneVector(vec)
			continue
		}
		missing = append(missing, t)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}
	vecs, err := o.enc.EncodeBatch(missing)
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}
	for j, vec := range vecs {
		o.cache.Add(o.cacheKey(missing[j]), cloneVector(vec))
		out[missingIdx[j]] = vec
	}
	return out, nil
}

func (o *OrtEmbedder) cacheKey(text string) string {
	h := sha1.New()
	_, _ = io.WriteString(h, o.cfg.ModelID)
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
