package keyterms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const configName = "keyterms"

// LoadConfig reads configuration from the given file, or searches the
// working directory for keyterms.{json,yaml,toml} when path is empty.
// Values can be overridden through KEYTERMS_* environment variables
// (e.g. KEYTERMS_EXTRACTION_TOPK). A missing default file is not an
// error; the returned config then carries only defaults.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("KEYTERMS")
	// Nested keys use dots internally; map them to underscores so
	// KEYTERMS_EXTRACTION_TOPK reaches extraction.topK.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("extraction.topK", 10)
	v.SetDefault("extraction.diversity", 0.3)
	v.SetDefault("extraction.minScore", 0.05)
	v.SetDefault("extraction.maxKeep", 5)
	v.SetDefault("extraction.maxPhraseLen", 3)
	v.SetDefault("stopwords.supplement", DefaultSupplement())
	v.SetDefault("maxInputBytes", 1<<20)
	v.SetDefault("candidateCache", 1000)
	v.SetDefault("embedder.modelPath", "./models/all-MiniLM-L6-v2/model.onnx")
	v.SetDefault("embedder.tokenizerPath", "./models/all-MiniLM-L6-v2/tokenizer.json")
	v.SetDefault("embedder.maxSeqLen", 512)
	v.SetDefault("embedder.vectorCache", 4096)
}
