package search

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/diipperss/FYP-DATA/internal/policy"
)

// FileProvider loads candidate URLs from a local JSON file for offline runs
// and testing. The file format is an object mapping query text to an array of
// URLs: {"definition of a stock": ["https://...", ...]}.
type FileProvider struct {
	Path   string
	Policy policy.Policy
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, query string, n int) ([]string, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var raw map[string][]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for _, u := range raw[query] {
		if u == "" || !f.Policy.Allowed(u) {
			continue
		}
		out = append(out, u)
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out, nil
}
