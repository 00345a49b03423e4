// Command process turns raw chunk artifacts into the processed lesson tree:
// for every catalog query it reads {raw}/{topic}/{query}/chunks.txt, asks the
// summarizer for a structured lesson per chunk, and writes
// {processed}/{topic}/{subtopic}/*.yaml. A missing artifact means the query
// produced no usable content and is skipped silently.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/diipperss/FYP-DATA/internal/aggregate"
	"github.com/diipperss/FYP-DATA/internal/catalog"
	"github.com/diipperss/FYP-DATA/internal/pipeline"
	"github.com/diipperss/FYP-DATA/internal/summarize"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		catalogPath   string
		rawRoot       string
		processedRoot string
		llmBase       string
		llmKey        string
		llmModel      string
		maxChunkChars int
		verbose       bool
	)

	flag.StringVar(&catalogPath, "catalog", "topics.yaml", "Path to the topic catalog YAML")
	flag.StringVar(&rawRoot, "raw", "data/raw", "Root of raw chunk artifacts")
	flag.StringVar(&processedRoot, "processed", "data/processed", "Root of the processed lesson tree")
	flag.StringVar(&llmBase, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for the OpenAI-compatible server")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name")
	flag.IntVar(&maxChunkChars, "max.chunkChars", 1000, "Truncate each chunk to this many characters before prompting")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	s := &summarize.OpenAI{
		Client: summarize.NewClient(llmBase, llmKey),
		Config: summarize.Config{Model: llmModel, MaxChunkChars: maxChunkChars},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, catalogPath, rawRoot, processedRoot, s); err != nil {
		log.Error().Err(err).Msg("processing failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, catalogPath, rawRoot, processedRoot string, s summarize.Summarizer) error {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}

	written, skipped := 0, 0
	for _, q := range cat.Queries() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("processing aborted: %w", err)
		}

		artifact := filepath.Join(pipeline.ArtifactDir(rawRoot, q), aggregate.ArtifactName)
		raw, err := os.ReadFile(artifact)
		if os.IsNotExist(err) {
			continue // no usable content for this query
		}
		if err != nil {
			return fmt.Errorf("read artifact %s: %w", artifact, err)
		}

		outDir := filepath.Join(processedRoot, q.Topic, q.Subtopic)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", outDir, err)
		}

		queryStem := filepath.Base(pipeline.ArtifactDir(rawRoot, q))
		for i, chunk := range aggregate.Parse(string(raw)) {
			doc, err := s.Summarize(ctx, chunk.Text, q.Topic, q.Subtopic, chunk.URL)
			if err != nil {
				// One bad chunk never blocks the rest of the query.
				log.Warn().Err(err).Str("url", chunk.URL).Msg("chunk skipped")
				skipped++
				continue
			}
			body, err := doc.Marshal()
			if err != nil {
				skipped++
				continue
			}
			out := filepath.Join(outDir, fmt.Sprintf("%s_%02d.yaml", queryStem, i))
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			written++
		}
	}
	log.Info().Int("written", written).Int("skipped_chunks", skipped).Msg("processing complete")
	return nil
}
