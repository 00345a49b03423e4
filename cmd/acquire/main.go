package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/diipperss/FYP-DATA/internal/catalog"
	"github.com/diipperss/FYP-DATA/internal/extract"
	"github.com/diipperss/FYP-DATA/internal/fetch"
	"github.com/diipperss/FYP-DATA/internal/pipeline"
	"github.com/diipperss/FYP-DATA/internal/policy"
	"github.com/diipperss/FYP-DATA/internal/search"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		catalogPath   string
		outputRoot    string
		searchKey     string
		searchCX      string
		searchFile    string
		searchTimeout time.Duration
		maxURLs       int
		concurrency   int
		navTimeout    time.Duration
		minBlockWords int
		pageMinWords  int
		pruneLinks    float64
		domainsBlock  string
		domainsPrefer string
		verbose       bool
	)

	flag.StringVar(&catalogPath, "catalog", "topics.yaml", "Path to the topic catalog YAML")
	flag.StringVar(&outputRoot, "out", "data/raw", "Root directory for per-query chunk artifacts")
	flag.StringVar(&searchKey, "search.key", os.Getenv("GOOGLE_API_KEY"), "Google Custom Search API key")
	flag.StringVar(&searchCX, "search.cx", os.Getenv("GOOGLE_CSE_ID"), "Google Custom Search engine id")
	flag.StringVar(&searchFile, "search.file", os.Getenv("SEARCH_FILE"), "Path to JSON file for the offline search provider")
	flag.DurationVar(&searchTimeout, "search.timeout", 10*time.Second, "Timeout per search API call")
	flag.IntVar(&maxURLs, "max.urls", 5, "Maximum URLs acquired per query")
	flag.IntVar(&concurrency, "fetch.concurrency", 3, "Maximum in-flight page renders")
	flag.DurationVar(&navTimeout, "fetch.timeout", 30*time.Second, "Timeout per page navigation")
	flag.IntVar(&minBlockWords, "prune.minBlockWords", 50, "Minimum words for a content block to survive pruning")
	flag.IntVar(&pageMinWords, "prune.pageMinWords", 30, "Minimum words for a page to count as content")
	flag.Float64Var(&pruneLinks, "prune.threshold", 0.45, "Link-density threshold above which a block is pruned")
	flag.StringVar(&domainsBlock, "domains.block", os.Getenv("DOMAINS_BLOCK"), "Comma-separated host substrings to block (replaces the default list)")
	flag.StringVar(&domainsPrefer, "domains.prefer", os.Getenv("DOMAINS_PREFER"), "Comma-separated host substrings to prefer (replaces the default list)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	pol := policy.Default()
	if list := splitList(domainsBlock); len(list) > 0 {
		pol.Blocked = list
	}
	if list := splitList(domainsPrefer); len(list) > 0 {
		pol.Preferred = list
	}

	var provider search.Provider
	if searchFile != "" {
		provider = &search.FileProvider{Path: searchFile, Policy: pol}
	} else {
		provider = &search.Google{
			APIKey:  searchKey,
			CX:      searchCX,
			Policy:  pol,
			Timeout: searchTimeout,
		}
	}

	cfg := pipeline.Config{
		OutputRoot:       outputRoot,
		MaxURLsPerQuery:  maxURLs,
		FetchConcurrency: concurrency,
	}
	fetchCfg := fetch.Config{
		NavigateTimeout: navTimeout,
		MinBlockWords:   minBlockWords,
		PageMinWords:    pageMinWords,
		PruneThreshold:  pruneLinks,
	}

	if err := run(catalogPath, provider, cfg, fetchCfg); err != nil {
		log.Error().Err(err).Msg("acquisition failed")
		os.Exit(1)
	}
}

func run(catalogPath string, provider search.Provider, cfg pipeline.Config, fetchCfg fetch.Config) error {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}

	renderer, err := fetch.NewRodRenderer(fetchCfg)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	defer renderer.Close()

	runner := &pipeline.Runner{
		Searcher:  provider,
		Extractor: extract.New(renderer, extract.Config{}),
		Config:    cfg,
	}

	// Abort cleanly between queries on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = runner.Run(ctx, cat)
	return err
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
