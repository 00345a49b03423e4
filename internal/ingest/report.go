package ingest

import (
	"github.com/rs/zerolog/log"
)

// SkippedFile records one document that could not be parsed.
type SkippedFile struct {
	Path   string
	Reason string
}

// DroppedBatch records one batch lost after retry exhaustion, with the files
// whose rows it carried so the loss can be reprocessed manually.
type DroppedBatch struct {
	Topic    string
	Subtopic string
	Files    []string
	Reason   string
}

// FailedSubtree records a topic or subtopic abandoned because its identifier
// could not be resolved.
type FailedSubtree struct {
	Topic    string
	Subtopic string // empty for a topic-level failure
	Reason   string
}

// Report accounts for what one ingestion run stored and what it lost.
type Report struct {
	Files          int // parsed documents
	Inserted       int // rows committed
	SkippedFiles   []SkippedFile
	DroppedBatches []DroppedBatch
	FailedSubtrees []FailedSubtree
}

// NewReport returns an empty Report.
func NewReport() *Report {
	return &Report{}
}

// SkipFile records a per-file parse loss.
func (r *Report) SkipFile(path string, err error) {
	r.SkippedFiles = append(r.SkippedFiles, SkippedFile{Path: path, Reason: err.Error()})
}

// DropBatch records a batch lost after retry exhaustion.
func (r *Report) DropBatch(topic, subtopic string, files []string, err error) {
	r.DroppedBatches = append(r.DroppedBatches, DroppedBatch{
		Topic: topic, Subtopic: subtopic, Files: files, Reason: err.Error(),
	})
}

// FailSubtree records an abandoned topic or subtopic subtree.
func (r *Report) FailSubtree(topic, subtopic string, err error) {
	r.FailedSubtrees = append(r.FailedSubtrees, FailedSubtree{
		Topic: topic, Subtopic: subtopic, Reason: err.Error(),
	})
}

// LogSummary emits the run-level loss accounting: every skipped file, dropped
// batch, and failed subtree with its reason.
func (r *Report) LogSummary() {
	log.Info().
		Int("files", r.Files).
		Int("inserted", r.Inserted).
		Int("skipped_files", len(r.SkippedFiles)).
		Int("dropped_batches", len(r.DroppedBatches)).
		Int("failed_subtrees", len(r.FailedSubtrees)).
		Msg("ingestion run summary")
	for _, s := range r.SkippedFiles {
		log.Warn().Str("file", s.Path).Str("reason", s.Reason).Msg("file skipped")
	}
	for _, d := range r.DroppedBatches {
		log.Error().Str("topic", d.Topic).Str("subtopic", d.Subtopic).
			Strs("files", d.Files).Str("reason", d.Reason).Msg("batch dropped")
	}
	for _, f := range r.FailedSubtrees {
		log.Error().Str("topic", f.Topic).Str("subtopic", f.Subtopic).
			Str("reason", f.Reason).Msg("subtree failed")
	}
}
