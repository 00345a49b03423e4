package aggregate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diipperss/FYP-DATA/internal/extract"
)

// scriptedExtractor returns canned results and can stagger completion so the
// first URLs finish last.
type scriptedExtractor struct {
	results map[string]extract.Result
	stagger bool
	seq     atomic.Int32
}

func (s *scriptedExtractor) Extract(_ context.Context, url string) extract.Result {
	if s.stagger {
		// Later submissions finish sooner.
		n := s.seq.Add(1)
		time.Sleep(time.Duration(40-(n*10)) * time.Millisecond)
	}
	if r, ok := s.results[url]; ok {
		return r
	}
	return extract.Result{URL: url, Reason: extract.FetchFailed}
}

func TestCollect_PreservesInputOrder(t *testing.T) {
	urls := []string{"https://a", "https://b", "https://c"}
	ex := &scriptedExtractor{
		stagger: true,
		results: map[string]extract.Result{
			"https://a": {URL: "https://a", Text: "textA"},
			"https://b": {URL: "https://b", Text: "textB"},
			"https://c": {URL: "https://c", Text: "textC"},
		},
	}
	chunks, rejected := Collect(context.Background(), urls, ex, 3)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, want := range urls {
		if chunks[i].URL != want {
			t.Fatalf("chunk %d out of order: got %q want %q", i, chunks[i].URL, want)
		}
	}
}

func TestCollect_SeparatesRejections(t *testing.T) {
	urls := []string{"https://ok", "https://fail"}
	ex := &scriptedExtractor{results: map[string]extract.Result{
		"https://ok": {URL: "https://ok", Text: "fine"},
	}}
	chunks, rejected := Collect(context.Background(), urls, ex, 2)
	if len(chunks) != 1 || chunks[0].URL != "https://ok" {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
	if len(rejected) != 1 || rejected[0].Reason != extract.FetchFailed {
		t.Fatalf("unexpected rejections: %v", rejected)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	// Only url1 was accepted: exactly one SOURCE block, no trace of url2.
	chunks := []Chunk{{URL: "https://url1", Text: "textA"}}
	got := Format(chunks)
	if strings.Count(got, "SOURCE:") != 1 {
		t.Fatalf("expected exactly one SOURCE block: %q", got)
	}
	if !strings.Contains(got, "SOURCE: https://url1\ntextA\n") {
		t.Fatalf("block malformed: %q", got)
	}
	if strings.Contains(got, "url2") {
		t.Fatal("rejected URL leaked into artifact")
	}
	if !strings.Contains(got, Separator) {
		t.Fatal("separator missing")
	}
}

func TestParse_InvertsFormat(t *testing.T) {
	chunks := []Chunk{
		{URL: "https://url1", Text: "textA"},
		{URL: "https://url2", Text: "line one\nline two"},
	}
	got := Parse(Format(chunks))
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0].URL != "https://url1" || got[0].Text != "textA" {
		t.Fatalf("first chunk mangled: %+v", got[0])
	}
	if got[1].Text != "line one\nline two" {
		t.Fatalf("multi-line text mangled: %q", got[1].Text)
	}
}

func TestWrite_SkipsEmptySet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "topic", "query")
	path, err := Write(dir, nil)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != "" {
		t.Fatal("no path expected for an empty chunk set")
	}
	if _, err := os.Stat(filepath.Join(dir, ArtifactName)); !os.IsNotExist(err) {
		t.Fatal("artifact must not exist for an all-rejected query")
	}
}

func TestWrite_OverwritesWholesale(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, []Chunk{{URL: "https://a", Text: "old"}}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	path, err := Write(dir, []Chunk{{URL: "https://b", Text: "new"}})
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(b), "old") {
		t.Fatal("re-run must overwrite, not merge")
	}
}
