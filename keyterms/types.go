package keyterms

import "encoding/json"

// Keyword is a single extracted phrase together with its relevance score.
// Score is the cosine similarity between the phrase embedding and the
// document embedding, so it lies in roughly [-1, 1].
type Keyword struct {
	Phrase string  `json:"keyword"`
	Score  float32 `json:"score"`
}

// Options control a single extraction request. Unset fields fall back to
// the configured defaults. Diversity and MinScore are pointers because
// zero is a meaningful request for both (pure-relevance ranking, no score
// cut), so nil rather than zero marks them as unset.
type Options struct {
	// TopK bounds the number of candidates considered by the selector.
	TopK int `json:"topK" mapstructure:"topK"`
	// Diversity in [0,1] trades relevance against redundancy in MMR
	// selection. 0 ranks purely by relevance.
	Diversity *float64 `json:"diversity" mapstructure:"diversity"`
	// MinScore is the absolute relevance bar applied after selection.
	MinScore *float32 `json:"minScore" mapstructure:"minScore"`
	// MaxKeep caps the primary result set after the MinScore cut.
	MaxKeep int `json:"maxKeep" mapstructure:"maxKeep"`
	// MaxPhraseLen is the maximum candidate phrase length in tokens.
	MaxPhraseLen int `json:"maxPhraseLen" mapstructure:"maxPhraseLen"`
}

// Float64 returns a pointer to v, for populating Options literals.
func Float64(v float64) *float64 { return &v }

// Float32 returns a pointer to v, for populating Options literals.
func Float32(v float32) *float32 { return &v }

func (o *Options) applyDefaults() {
	if o.TopK <= 0 {
		o.TopK = 10
	}
	if o.Diversity == nil {
		o.Diversity = Float64(0.3)
	}
	if *o.Diversity < 0 {
		o.Diversity = Float64(0)
	}
	if *o.Diversity > 1 {
		o.Diversity = Float64(1)
	}
	if o.MinScore == nil {
		o.MinScore = Float32(0.05)
	}
	if o.MaxKeep <= 0 {
		o.MaxKeep = 5
	}
	if o.MaxPhraseLen <= 0 {
		o.MaxPhraseLen = 3
	}
}

// StopwordConfig extends the embedded base lexicon with operator supplied
// terms. The supplement ships with words observed to be noise in
// web-scraped text and can be tuned without touching extraction logic.
type StopwordConfig struct {
	Supplement []string `json:"supplement" mapstructure:"supplement"`
}

// EmbedderConfig wraps the configuration for the ORT encoder and the
// process-local vector cache.
type EmbedderConfig struct {
	OrtDLL        string `json:"ortDll" mapstructure:"ortDll"`
	ModelPath     string `json:"modelPath" mapstructure:"modelPath"`
	TokenizerPath string `json:"tokenizerPath" mapstructure:"tokenizerPath"`
	MaxSeqLen     int    `json:"maxSeqLen" mapstructure:"maxSeqLen"`
	ModelID       string `json:"modelId" mapstructure:"modelId"`
	// VectorCache is the capacity of the LRU embedding cache.
	VectorCache int `json:"vectorCache" mapstructure:"vectorCache"`
}

// Config aggregates runtime settings for the extraction service.
type Config struct {
	Extraction Options        `json:"extraction" mapstructure:"extraction"`
	Stopwords  StopwordConfig `json:"stopwords" mapstructure:"stopwords"`
	Embedder   EmbedderConfig `json:"embedder" mapstructure:"embedder"`
	// MaxInputBytes rejects oversized documents at the boundary.
	MaxInputBytes int `json:"maxInputBytes" mapstructure:"maxInputBytes"`
	// CandidateCache is the capacity of the LRU candidate cache keyed by
	// normalized text.
	CandidateCache int `json:"candidateCache" mapstructure:"candidateCache"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	c.Extraction.applyDefaults()
	if c.Stopwords.Supplement == nil {
		c.Stopwords.Supplement = DefaultSupplement()
	}
	if c.MaxInputBytes <= 0 {
		c.MaxInputBytes = 1 << 20
	}
	if c.CandidateCache <= 0 {
		c.CandidateCache = 1000
	}
	if c.Embedder.MaxSeqLen == 0 {
		c.Embedder.MaxSeqLen = 512
	}
	if c.Embedder.VectorCache <= 0 {
		c.Embedder.VectorCache = 4096
	}
}
