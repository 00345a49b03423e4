package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diipperss/FYP-DATA/internal/catalog"
	"github.com/diipperss/FYP-DATA/internal/extract"
)

type stubSearcher struct {
	urls map[string][]string
	errs map[string]error
}

func (s *stubSearcher) Name() string { return "stub" }

func (s *stubSearcher) Search(_ context.Context, query string, n int) ([]string, error) {
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	urls := s.urls[query]
	if len(urls) > n {
		urls = urls[:n]
	}
	return urls, nil
}

type stubExtractor struct {
	results map[string]extract.Result
}

func (s *stubExtractor) Extract(_ context.Context, url string) extract.Result {
	if r, ok := s.results[url]; ok {
		return r
	}
	return extract.Result{URL: url, Reason: extract.FetchFailed}
}

func oneQueryCatalog(topic, subtopic, query string) *catalog.Catalog {
	return &catalog.Catalog{Topics: []catalog.Topic{{
		Name: topic,
		Subtopics: []catalog.Subtopic{{
			Name:    subtopic,
			Queries: []string{query},
		}},
	}}}
}

func TestRun_EndToEnd(t *testing.T) {
	// 6 discovered URLs, 1 blacklisted upstream (the searcher already
	// filtered it), of the 5 remaining: 3 accepted, 2 failed fetches. The
	// artifact holds exactly 3 SOURCE blocks in original order.
	query := "definition of a stock"
	urls := []string{"https://s1", "https://s2", "https://s3", "https://s4", "https://s5"}
	root := t.TempDir()

	runner := &Runner{
		Searcher: &stubSearcher{urls: map[string][]string{query: urls}},
		Extractor: &stubExtractor{results: map[string]extract.Result{
			"https://s1": {URL: "https://s1", Text: "definition one"},
			"https://s3": {URL: "https://s3", Text: "definition three"},
			"https://s5": {URL: "https://s5", Text: "definition five"},
		}},
		Config: Config{OutputRoot: root, MaxURLsPerQuery: 5, FetchConcurrency: 2},
	}

	report, err := runner.Run(context.Background(), oneQueryCatalog("Stocks", "basics", query))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Artifacts) != 1 {
		t.Fatalf("expected 1 artifact, got %d", len(report.Artifacts))
	}
	if len(report.SkippedURLs) != 2 {
		t.Fatalf("expected 2 skipped urls, got %d", len(report.SkippedURLs))
	}

	b, err := os.ReadFile(filepath.Join(root, "Stocks", "definition_of_a_stock", "chunks.txt"))
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	body := string(b)
	if got := strings.Count(body, "SOURCE:"); got != 3 {
		t.Fatalf("expected 3 SOURCE blocks, got %d", got)
	}
	i1 := strings.Index(body, "https://s1")
	i3 := strings.Index(body, "https://s3")
	i5 := strings.Index(body, "https://s5")
	if !(i1 < i3 && i3 < i5) {
		t.Fatalf("blocks out of original order: %d %d %d", i1, i3, i5)
	}
}

func TestRun_SearchFailureSkipsQueryOnly(t *testing.T) {
	cat := &catalog.Catalog{Topics: []catalog.Topic{{
		Name: "Stocks",
		Subtopics: []catalog.Subtopic{{
			Name:    "basics",
			Queries: []string{"bad query", "good query"},
		}},
	}}}
	runner := &Runner{
		Searcher: &stubSearcher{
			errs: map[string]error{"bad query": errors.New("quota exceeded")},
			urls: map[string][]string{"good query": {"https://ok"}},
		},
		Extractor: &stubExtractor{results: map[string]extract.Result{
			"https://ok": {URL: "https://ok", Text: "an example"},
		}},
		Config: Config{OutputRoot: t.TempDir()},
	}
	report, err := runner.Run(context.Background(), cat)
	if err != nil {
		t.Fatalf("run must survive a per-query failure: %v", err)
	}
	if len(report.SkippedQueries) != 1 || report.SkippedQueries[0].Query != "bad query" {
		t.Fatalf("unexpected skipped queries: %v", report.SkippedQueries)
	}
	if len(report.Artifacts) != 1 {
		t.Fatalf("good query must still produce an artifact: %v", report.Artifacts)
	}
}

func TestRun_AllRejectedLeavesNoArtifact(t *testing.T) {
	query := "no usable content"
	root := t.TempDir()
	runner := &Runner{
		Searcher:  &stubSearcher{urls: map[string][]string{query: {"https://x"}}},
		Extractor: &stubExtractor{},
		Config:    Config{OutputRoot: root},
	}
	report, err := runner.Run(context.Background(), oneQueryCatalog("T", "s", query))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Artifacts) != 0 {
		t.Fatalf("no artifact expected: %v", report.Artifacts)
	}
	if _, statErr := os.Stat(filepath.Join(root, "T", "no_usable_content", "chunks.txt")); !os.IsNotExist(statErr) {
		t.Fatal("artifact file must not exist for an all-rejected query")
	}
}

func TestRun_CancelledBetweenQueries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &Runner{
		Searcher:  &stubSearcher{},
		Extractor: &stubExtractor{},
		Config:    Config{OutputRoot: t.TempDir()},
	}
	_, err := runner.Run(ctx, oneQueryCatalog("T", "s", "q"))
	if err == nil {
		t.Fatal("expected abort error for cancelled context")
	}
}
