// Package catalog loads the static topic → subtopic → query hierarchy that
// enumerates the acquisition work for a run.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the full topic hierarchy.
type Catalog struct {
	Topics []Topic `yaml:"topics"`
}

// Topic groups subtopics under a display name.
type Topic struct {
	Name      string     `yaml:"name"`
	Subtopics []Subtopic `yaml:"subtopics"`
}

// Subtopic groups the search queries for one lesson area.
type Subtopic struct {
	Name    string   `yaml:"name"`
	Queries []string `yaml:"queries"`
}

// Query identifies one unit of acquisition work. Immutable once enumerated.
type Query struct {
	Topic    string
	Subtopic string
	Text     string
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Topics) == 0 {
		return fmt.Errorf("no topics defined")
	}
	for _, t := range c.Topics {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("topic with empty name")
		}
		if len(t.Subtopics) == 0 {
			return fmt.Errorf("topic %q has no subtopics", t.Name)
		}
		for _, s := range t.Subtopics {
			if strings.TrimSpace(s.Name) == "" {
				return fmt.Errorf("topic %q has a subtopic with empty name", t.Name)
			}
			if len(s.Queries) == 0 {
				return fmt.Errorf("subtopic %q has no queries", s.Name)
			}
			for _, q := range s.Queries {
				if strings.TrimSpace(q) == "" {
					return fmt.Errorf("subtopic %q has an empty query", s.Name)
				}
			}
		}
	}
	return nil
}

// Queries flattens the hierarchy into the ordered list of acquisition units.
func (c *Catalog) Queries() []Query {
	var out []Query
	for _, t := range c.Topics {
		for _, s := range t.Subtopics {
			for _, q := range s.Queries {
				out = append(out, Query{Topic: t.Name, Subtopic: s.Name, Text: q})
			}
		}
	}
	return out
}
