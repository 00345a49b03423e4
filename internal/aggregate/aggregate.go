// Package aggregate collects per-URL extraction results for one query and
// persists the accepted set as a single delimited text artifact.
package aggregate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/diipperss/FYP-DATA/internal/extract"
)

// Separator delimits chunks inside an artifact.
var Separator = strings.Repeat("=", 50)

// ArtifactName is the file written under each query's output directory.
const ArtifactName = "chunks.txt"

// Chunk is one accepted (url, text) pair.
type Chunk struct {
	URL  string
	Text string
}

// Extractor is the per-URL extraction collaborator.
type Extractor interface {
	Extract(ctx context.Context, url string) extract.Result
}

// Collect runs the extractor over urls with at most maxConcurrent renders in
// flight. Extractions for distinct URLs are independent; the returned chunks
// and rejections are reordered to input URL order regardless of completion
// order.
func Collect(ctx context.Context, urls []string, ex Extractor, maxConcurrent int) ([]Chunk, []extract.Result) {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	results := make([]extract.Result, len(urls))
	pool, err := ants.NewPool(maxConcurrent)
	if err != nil {
		// Pool construction only fails on invalid size; fall back to serial.
		for i, u := range urls {
			results[i] = ex.Extract(ctx, u)
		}
	} else {
		defer pool.Release()
		var wg sync.WaitGroup
		for i, u := range urls {
			i, u := i, u
			wg.Add(1)
			task := func() {
				defer wg.Done()
				results[i] = ex.Extract(ctx, u)
			}
			if err := pool.Submit(task); err != nil {
				task()
			}
		}
		wg.Wait()
	}

	chunks := make([]Chunk, 0, len(urls))
	var rejected []extract.Result
	for _, r := range results {
		if r.Accepted() {
			chunks = append(chunks, Chunk{URL: r.URL, Text: r.Text})
		} else {
			rejected = append(rejected, r)
		}
	}
	return chunks, rejected
}

// Format renders chunks as the artifact text: a SOURCE header, the cleaned
// text, and a separator line per chunk.
func Format(chunks []Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		fmt.Fprintf(&sb, "SOURCE: %s\n%s\n\n%s\n\n", c.URL, c.Text, Separator)
	}
	return sb.String()
}

// Parse reads artifact text back into chunks. It is the inverse of Format
// and tolerates trailing whitespace around blocks.
func Parse(artifact string) []Chunk {
	var chunks []Chunk
	for _, block := range strings.Split(artifact, Separator) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		header, text, found := strings.Cut(block, "\n")
		if !found || !strings.HasPrefix(header, "SOURCE: ") {
			continue
		}
		chunks = append(chunks, Chunk{
			URL:  strings.TrimSpace(strings.TrimPrefix(header, "SOURCE: ")),
			Text: strings.TrimSpace(text),
		})
	}
	return chunks
}

// Write persists the artifact under dir, creating parents, but only when at
// least one chunk was accepted. An all-rejected query leaves no artifact;
// callers treat a missing artifact as "no usable content", not an error.
// A pre-existing artifact is overwritten wholesale, never merged.
func Write(dir string, chunks []Chunk) (string, error) {
	if len(chunks) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("aggregate: mkdir: %w", err)
	}
	path := filepath.Join(dir, ArtifactName)
	if err := os.WriteFile(path, []byte(Format(chunks)), 0o644); err != nil {
		return "", fmt.Errorf("aggregate: write artifact: %w", err)
	}
	return path, nil
}
