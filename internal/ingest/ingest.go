// Package ingest walks the processed document tree ({topic}/{subtopic}/
// *.yaml), resolves directory names to stable store identifiers, and writes
// lesson rows in batches with bounded retry.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/diipperss/FYP-DATA/internal/lesson"
	"github.com/diipperss/FYP-DATA/internal/store"
)

// SummaryStore is the store boundary the ingester writes through.
type SummaryStore interface {
	GetOrCreateTopic(ctx context.Context, name string) (int64, error)
	GetOrCreateSubtopic(ctx context.Context, topicID int64, name string) (int64, error)
	InsertSummaries(ctx context.Context, rows []store.SummaryRow) error
}

// Retry bounds insert attempts for one batch. Attempts counts the initial
// try; the delay between attempts is fixed, not backed off.
type Retry struct {
	Attempts int
	Delay    time.Duration
}

// Config holds the ingestion tunables.
type Config struct {
	// BatchSize triggers a flush when reached. Default 10.
	BatchSize int
	Retry     Retry
}

func (c *Config) defaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = 3
	}
	if c.Retry.Delay <= 0 {
		c.Retry.Delay = 2 * time.Second
	}
}

// Ingester drives one ingestion run. Runs must not execute concurrently
// against the same store; see the store package on upsert-then-read.
type Ingester struct {
	Store  SummaryStore
	Config Config
}

// Run walks root's two-level hierarchy. Per-file parse failures skip the
// file; identifier resolution failures abort the affected subtree; a batch
// that exhausts its retries is dropped and surfaced in the Report. The run
// itself only fails when root cannot be read.
func (ing *Ingester) Run(ctx context.Context, root string) (*Report, error) {
	cfg := ing.Config
	cfg.defaults()

	topics, err := subdirs(root)
	if err != nil {
		return nil, fmt.Errorf("ingest: read root %s: %w", root, err)
	}

	report := NewReport()
	for _, topicDir := range topics {
		if err := ctx.Err(); err != nil {
			report.LogSummary()
			return report, fmt.Errorf("ingest: run aborted: %w", err)
		}
		ing.runTopic(ctx, cfg, root, topicDir, report)
	}
	report.LogSummary()
	return report, nil
}

func (ing *Ingester) runTopic(ctx context.Context, cfg Config, root, topicName string, report *Report) {
	topicID, err := ing.Store.GetOrCreateTopic(ctx, topicName)
	if err != nil {
		// Every child needs a valid identifier; the whole topic subtree
		// is abandoned.
		log.Error().Err(err).Str("topic", topicName).Msg("topic resolution failed, subtree skipped")
		report.FailSubtree(topicName, "", err)
		return
	}
	log.Info().Str("topic", topicName).Int64("topic_id", topicID).Msg("ingesting topic")

	subtopics, err := subdirs(filepath.Join(root, topicName))
	if err != nil {
		report.FailSubtree(topicName, "", err)
		return
	}
	for _, subName := range subtopics {
		ing.runSubtopic(ctx, cfg, root, topicName, topicID, subName, report)
	}
}

func (ing *Ingester) runSubtopic(ctx context.Context, cfg Config, root, topicName string, topicID int64, subName string, report *Report) {
	subID, err := ing.Store.GetOrCreateSubtopic(ctx, topicID, subName)
	if err != nil {
		log.Error().Err(err).Str("topic", topicName).Str("subtopic", subName).
			Msg("subtopic resolution failed, subtree skipped")
		report.FailSubtree(topicName, subName, err)
		return
	}

	dir := filepath.Join(root, topicName, subName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		report.FailSubtree(topicName, subName, err)
		return
	}

	batch := newBatch(cfg.BatchSize)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		doc, err := loadDocument(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("document skipped")
			report.SkipFile(path, err)
			continue
		}
		content, err := doc.Marshal()
		if err != nil {
			report.SkipFile(path, err)
			continue
		}
		batch.add(store.SummaryRow{
			TopicID:     topicID,
			SubtopicID:  subID,
			Content:     string(content),
			IsPublished: true,
		}, path)
		report.Files++

		if batch.full() {
			ing.flush(ctx, cfg, topicName, subName, batch, report)
			batch = newBatch(cfg.BatchSize)
		}
	}
	// Remaining partial batch, down to a single document.
	if batch.len() > 0 {
		ing.flush(ctx, cfg, topicName, subName, batch, report)
	}
}

// flush commits one batch with bounded retry. A committed batch is never
// re-attempted; an exhausted batch is dropped, not re-queued, and the loss is
// surfaced through the report and logs.
func (ing *Ingester) flush(ctx context.Context, cfg Config, topicName, subName string, b *batch, report *Report) {
	var lastErr error
	for attempt := 1; attempt <= cfg.Retry.Attempts; attempt++ {
		lastErr = ing.Store.InsertSummaries(ctx, b.rows)
		if lastErr == nil {
			report.Inserted += b.len()
			log.Info().Str("topic", topicName).Str("subtopic", subName).
				Int("rows", b.len()).Msg("batch committed")
			return
		}
		log.Warn().Err(lastErr).Int("attempt", attempt).Int("rows", b.len()).
			Msg("batch insert failed")
		if attempt < cfg.Retry.Attempts {
			if err := sleepCtx(ctx, cfg.Retry.Delay); err != nil {
				lastErr = err
				break
			}
		}
	}
	log.Error().Err(lastErr).Str("topic", topicName).Str("subtopic", subName).
		Strs("files", b.files).Msg("batch dropped after retries")
	report.DropBatch(topicName, subName, b.files, lastErr)
}

type batch struct {
	rows  []store.SummaryRow
	files []string
	cap   int
}

func newBatch(size int) *batch {
	return &batch{cap: size}
}

func (b *batch) add(r store.SummaryRow, file string) {
	b.rows = append(b.rows, r)
	b.files = append(b.files, file)
}

func (b *batch) len() int   { return len(b.rows) }
func (b *batch) full() bool { return len(b.rows) >= b.cap }

func loadDocument(path string) (*lesson.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return lesson.Parse(raw)
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
