package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/textforge/keyterms/keyterms"
)

type cliOptions struct {
	configPath string
	text       string
	filePath   string
	topK       int
	diversity  float64
	minScore   float64
	jsonOut    bool
	verbose    bool
}

// response mirrors the boundary contract: either a ranked keyword list or
// a single error string, never both.
type response struct {
	Keywords []keyterms.Keyword `json:"keywords,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func main() {
	opts := parseFlags()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	if err := run(opts, logger); err != nil {
		exitWithError(opts, err)
	}
}

func parseFlags() cliOptions {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to a config file (default: ./keyterms.{json,yaml})")
	flag.StringVar(&opts.text, "text", "", "Text to extract keywords from")
	flag.StringVar(&opts.filePath, "file", "", "UTF-8 plain-text file to extract keywords from")
	flag.IntVar(&opts.topK, "top-k", 0, "Maximum candidates considered by the selector (default from config)")
	flag.Float64Var(&opts.diversity, "diversity", -1, "Diversity weight in [0,1] (default from config)")
	flag.Float64Var(&opts.minScore, "min-score", -1, "Minimum relevance score (default from config)")
	flag.BoolVar(&opts.jsonOut, "json", false, "Print results as JSON")
	flag.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --text TEXT | --file FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.text = strings.TrimSpace(opts.text)
	opts.filePath = strings.TrimSpace(opts.filePath)
	opts.configPath = strings.TrimSpace(opts.configPath)
	return opts
}

func run(opts cliOptions, logger *logrus.Logger) error {
	if opts.text == "" && opts.filePath == "" {
		flag.Usage()
		return errors.New("missing required --text or --file")
	}

	cfg, err := keyterms.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	embedder, err := keyterms.NewOrtEmbedder(cfg.Embedder)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}
	defer embedder.Close()

	ctx := context.Background()
	service, err := keyterms.NewService(ctx, embedder, cfg, logger)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	defer service.Close()

	text, err := keyterms.ReadInput(opts.text, opts.filePath, cfg.MaxInputBytes)
	if err != nil {
		return err
	}

	reqOpts := keyterms.Options{TopK: opts.topK}
	if opts.diversity >= 0 {
		reqOpts.Diversity = keyterms.Float64(opts.diversity)
	}
	if opts.minScore >= 0 {
		reqOpts.MinScore = keyterms.Float32(float32(opts.minScore))
	}

	keywords, err := service.ExtractKeywords(ctx, text, reqOpts)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		return printJSON(response{Keywords: keywords})
	}
	printTable(keywords)
	return nil
}

func printTable(keywords []keyterms.Keyword) {
	heading := color.New(color.FgCyan, color.Bold)
	phrase := color.New(color.FgGreen)
	heading.Println("Extracted Keywords:")
	for _, kw := range keywords {
		phrase.Printf("  %-40s", kw.Phrase)
		fmt.Printf("%.4f\n", kw.Score)
	}
}

func printJSON(resp response) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func exitWithError(opts cliOptions, err error) {
	if opts.jsonOut {
		_ = printJSON(response{Error: err.Error()})
	} else {
		fmt.Fprintf(os.Stderr, "keyterms-cli: %v\n", err)
	}
	switch {
	case errors.Is(err, keyterms.ErrInvalidInput), errors.Is(err, keyterms.ErrNoKeywords):
		os.Exit(1)
	default:
		os.Exit(2)
	}
}
