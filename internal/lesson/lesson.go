// Package lesson defines the structured lesson document produced by the
// summarization stage and consumed by ingestion.
package lesson

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is one structured lesson. The YAML field names are the contract
// with the summarizer output and the processed document tree on disk.
type Document struct {
	Title            string            `yaml:"title"`
	Summary          string            `yaml:"summary"`
	KeyPoints        []string          `yaml:"key_points,omitempty"`
	Examples         []string          `yaml:"examples,omitempty"`
	Definitions      map[string]string `yaml:"definitions,omitempty"`
	CommonMistakes   []string          `yaml:"common_mistakes,omitempty"`
	QuestionsToThink []string          `yaml:"questions_to_think,omitempty"`
	Source           string            `yaml:"source,omitempty"`
}

// Parse decodes and validates one lesson document. Unknown fields are
// tolerated; the summarizer's output drifts over model versions.
func Parse(b []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("lesson: parse: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks the minimum shape a document must have to be worth storing.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("lesson: missing title")
	}
	if strings.TrimSpace(d.Summary) == "" {
		return fmt.Errorf("lesson: missing summary")
	}
	return nil
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("lesson: marshal: %w", err)
	}
	return b, nil
}
