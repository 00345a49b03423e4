// Package extract turns a rendered page into accepted educational prose or a
// typed rejection. Cleaning runs as an ordered chain of pure text transforms;
// acceptance runs as an ordered chain of predicates. Cheap structural checks
// come before the substring-heavy quality gate.
package extract

import (
	"context"
	"strings"

	"github.com/diipperss/FYP-DATA/internal/fetch"
)

// Reason classifies why a URL produced no usable text. A rejection is a
// normal per-URL outcome, not an error.
type Reason string

const (
	FetchFailed      Reason = "fetch_failed"
	EmptyContent     Reason = "empty_content"
	LowQualitySignal Reason = "low_quality_signal"
	LikelyDataTable  Reason = "likely_data_table"
)

// Result is the outcome of extracting one URL. Exactly one of Text and
// Reason is populated.
type Result struct {
	URL    string
	Text   string
	Reason Reason
}

// Accepted reports whether the URL yielded usable text.
func (r Result) Accepted() bool { return r.Reason == "" }

// Transform is a pure text cleanup step.
type Transform func(string) string

// Predicate inspects cleaned text and may reject it with a Reason.
type Predicate func(string) (Reason, bool)

// Config tunes the cleaning and acceptance heuristics. Zero values take the
// defaults noted on each field. The heuristics are deliberately conservative:
// a false reject is cheaper than ingesting a ticker table or an ad wall.
type Config struct {
	// TickerRunMin strips runs of this many or more "X | " tokens. Default 5.
	TickerRunMin int
	// BoilerplateHeaders are stripped from the header through end of block.
	BoilerplateHeaders []string
	// MaxURLsPerLine drops lines embedding more absolute URLs. Default 1.
	MaxURLsPerLine int
	// ClickbaitMarkers drop any line containing one, case-insensitively.
	ClickbaitMarkers []string
	// SignalWords must appear (any one, case-insensitively) for a page to
	// pass the quality gate.
	SignalWords []string
	// TickerCountMax and PercentCountMax trip the data-table heuristic when
	// both are exceeded. Defaults 5 and 10.
	TickerCountMax  int
	PercentCountMax int
}

// DefaultBoilerplateHeaders mark section starts that never carry prose.
var DefaultBoilerplateHeaders = []string{
	"Table of Contents", "Read more", "Partner Links", "More Videos",
}

// DefaultClickbaitMarkers flag ad and cross-promotion lines.
var DefaultClickbaitMarkers = []string{
	"Sponsored", "Advisors:", "click here", "Partner Links", "Advertisement",
}

// DefaultSignalWords indicate explanatory, educational prose.
var DefaultSignalWords = []string{
	"definition", "what is", "explained", "formula", "example", "step", "overview",
}

func (c *Config) defaults() {
	if c.TickerRunMin <= 0 {
		c.TickerRunMin = 5
	}
	if c.BoilerplateHeaders == nil {
		c.BoilerplateHeaders = DefaultBoilerplateHeaders
	}
	if c.MaxURLsPerLine <= 0 {
		c.MaxURLsPerLine = 1
	}
	if c.ClickbaitMarkers == nil {
		c.ClickbaitMarkers = DefaultClickbaitMarkers
	}
	if c.SignalWords == nil {
		c.SignalWords = DefaultSignalWords
	}
	if c.TickerCountMax <= 0 {
		c.TickerCountMax = 5
	}
	if c.PercentCountMax <= 0 {
		c.PercentCountMax = 10
	}
}

// Extractor runs the render → clean → gate pipeline for single URLs.
type Extractor struct {
	renderer   fetch.Renderer
	transforms []Transform
	predicates []Predicate
}

// New builds an Extractor with the standard transform and predicate chains.
func New(r fetch.Renderer, cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{
		renderer: r,
		transforms: []Transform{
			StripTickerRuns(cfg.TickerRunMin),
			StripBoilerplateSections(cfg.BoilerplateHeaders),
			DropURLHeavyLines(cfg.MaxURLsPerLine),
			DropMarkedLines(cfg.ClickbaitMarkers),
		},
		predicates: []Predicate{
			RequireSignalWords(cfg.SignalWords),
			RejectDataTables(cfg.TickerCountMax, cfg.PercentCountMax),
		},
	}
}

// Extract renders url and applies the cleaning chain and acceptance gates in
// order. Each step may reject early.
func (e *Extractor) Extract(ctx context.Context, url string) Result {
	page, err := e.renderer.Render(ctx, url)
	if err != nil {
		return Result{URL: url, Reason: FetchFailed}
	}

	text := page.Markdown
	if strings.TrimSpace(text) == "" {
		return Result{URL: url, Reason: EmptyContent}
	}

	for _, t := range e.transforms {
		text = t(text)
	}
	if strings.TrimSpace(text) == "" {
		return Result{URL: url, Reason: EmptyContent}
	}

	for _, p := range e.predicates {
		if reason, rejected := p(text); rejected {
			return Result{URL: url, Reason: reason}
		}
	}
	return Result{URL: url, Text: text}
}
