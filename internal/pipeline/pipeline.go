// Package pipeline coordinates one acquisition run: for every catalog query
// it discovers ranked URLs, extracts usable prose with bounded concurrency,
// and writes the per-query chunk artifact. Failures local to one URL or one
// query never abort the run.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/diipperss/FYP-DATA/internal/aggregate"
	"github.com/diipperss/FYP-DATA/internal/catalog"
	"github.com/diipperss/FYP-DATA/internal/search"
)

// Config holds the acquisition tunables.
type Config struct {
	// OutputRoot is the directory receiving {topic}/{query}/chunks.txt trees.
	OutputRoot string
	// MaxURLsPerQuery caps discovery per query. Default 5.
	MaxURLsPerQuery int
	// FetchConcurrency bounds in-flight renders. Default 3.
	FetchConcurrency int
}

func (c *Config) defaults() {
	if c.OutputRoot == "" {
		c.OutputRoot = filepath.Join("data", "raw")
	}
	if c.MaxURLsPerQuery <= 0 {
		c.MaxURLsPerQuery = 5
	}
	if c.FetchConcurrency <= 0 {
		c.FetchConcurrency = 3
	}
}

// Runner drives the acquisition pipeline.
type Runner struct {
	Searcher  search.Provider
	Extractor aggregate.Extractor
	Config    Config
}

// Run iterates the catalog queries in order. A query whose search call fails
// or whose URLs are all rejected is recorded and skipped; the run continues.
// Cancellation is honored between queries: a query's artifact is all-or-
// nothing, so no partial-query rollback is needed.
func (r *Runner) Run(ctx context.Context, cat *catalog.Catalog) (*Report, error) {
	cfg := r.Config
	cfg.defaults()

	report := NewReport()
	for _, q := range cat.Queries() {
		if err := ctx.Err(); err != nil {
			report.LogSummary()
			return report, fmt.Errorf("pipeline: run aborted: %w", err)
		}
		report.Queries++
		r.runQuery(ctx, cfg, q, report)
	}
	report.LogSummary()
	return report, nil
}

func (r *Runner) runQuery(ctx context.Context, cfg Config, q catalog.Query, report *Report) {
	qlog := log.With().Str("topic", q.Topic).Str("query", q.Text).Logger()

	urls, err := r.Searcher.Search(ctx, q.Text, cfg.MaxURLsPerQuery)
	if err != nil {
		qlog.Warn().Err(err).Msg("search failed, skipping query")
		report.SkipQuery(q, fmt.Sprintf("search: %v", err))
		return
	}
	if len(urls) == 0 {
		qlog.Info().Msg("no allowed URLs found")
		report.SkipQuery(q, "no allowed URLs")
		return
	}

	chunks, rejected := aggregate.Collect(ctx, urls, r.Extractor, cfg.FetchConcurrency)
	for _, rej := range rejected {
		qlog.Debug().Str("url", rej.URL).Str("reason", string(rej.Reason)).Msg("url rejected")
		report.SkipURL(q, rej.URL, rej.Reason)
	}

	dir := ArtifactDir(cfg.OutputRoot, q)
	path, err := aggregate.Write(dir, chunks)
	if err != nil {
		qlog.Error().Err(err).Msg("artifact write failed, skipping query")
		report.SkipQuery(q, fmt.Sprintf("write: %v", err))
		return
	}
	if path == "" {
		qlog.Info().Int("urls", len(urls)).Msg("no usable content for query")
		report.SkipQuery(q, "all extractions rejected")
		return
	}
	qlog.Info().Int("accepted", len(chunks)).Int("rejected", len(rejected)).
		Str("artifact", path).Msg("query complete")
	report.Artifacts = append(report.Artifacts, path)
}

// ArtifactDir derives the deterministic per-query output directory: the topic
// name and the query text with spaces replaced by underscores.
func ArtifactDir(root string, q catalog.Query) string {
	return filepath.Join(root, q.Topic, strings.ReplaceAll(q.Text, " ", "_"))
}
