package pipeline

import (
	"github.com/rs/zerolog/log"

	"github.com/diipperss/FYP-DATA/internal/catalog"
	"github.com/diipperss/FYP-DATA/internal/extract"
)

// SkippedURL records one URL excluded from an artifact and why.
type SkippedURL struct {
	Topic  string
	Query  string
	URL    string
	Reason extract.Reason
}

// SkippedQuery records one query that produced no artifact and why.
type SkippedQuery struct {
	Topic  string
	Query  string
	Reason string
}

// Report accounts for everything a run produced and everything it lost, so an
// operator can reconstruct exactly which content is missing and why.
type Report struct {
	Queries        int
	Artifacts      []string
	SkippedQueries []SkippedQuery
	SkippedURLs    []SkippedURL
}

// NewReport returns an empty Report.
func NewReport() *Report {
	return &Report{}
}

// SkipQuery records a query-level loss.
func (r *Report) SkipQuery(q catalog.Query, reason string) {
	r.SkippedQueries = append(r.SkippedQueries, SkippedQuery{
		Topic: q.Topic, Query: q.Text, Reason: reason,
	})
}

// SkipURL records a URL-level loss.
func (r *Report) SkipURL(q catalog.Query, url string, reason extract.Reason) {
	r.SkippedURLs = append(r.SkippedURLs, SkippedURL{
		Topic: q.Topic, Query: q.Text, URL: url, Reason: reason,
	})
}

// LogSummary emits the run-level loss accounting.
func (r *Report) LogSummary() {
	log.Info().
		Int("queries", r.Queries).
		Int("artifacts", len(r.Artifacts)).
		Int("skipped_queries", len(r.SkippedQueries)).
		Int("skipped_urls", len(r.SkippedURLs)).
		Msg("acquisition run summary")
	for _, s := range r.SkippedQueries {
		log.Warn().Str("topic", s.Topic).Str("query", s.Query).
			Str("reason", s.Reason).Msg("query skipped")
	}
	for _, s := range r.SkippedURLs {
		log.Info().Str("topic", s.Topic).Str("query", s.Query).
			Str("url", s.URL).Str("reason", string(s.Reason)).Msg("url skipped")
	}
}
