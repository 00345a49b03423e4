package fetch

import (
	"strings"
	"testing"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}

func TestPrune_RemovesExcludedTags(t *testing.T) {
	in := `<html><body>
		<nav>Home About Contact</nav>
		<article><p>` + words(60) + `</p></article>
		<footer>Copyright notice</footer>
	</body></html>`
	out, err := Prune(in, Config{})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if strings.Contains(out, "Home About Contact") {
		t.Fatal("nav content survived pruning")
	}
	if strings.Contains(out, "Copyright") {
		t.Fatal("footer content survived pruning")
	}
	if !strings.Contains(out, "word word") {
		t.Fatal("article prose was lost")
	}
}

func TestPrune_DropsShortBlocks(t *testing.T) {
	in := `<html><body>
		<p>Too short.</p>
		<p>` + words(80) + `</p>
	</body></html>`
	out, err := Prune(in, Config{MinBlockWords: 50})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if strings.Contains(out, "Too short") {
		t.Fatal("short block survived pruning")
	}
	if !strings.Contains(out, "word") {
		t.Fatal("long block was lost")
	}
}

func TestPrune_DropsLinkHeavyBlocks(t *testing.T) {
	linked := make([]string, 60)
	for i := range linked {
		linked[i] = `<a href="/x">link text here</a>`
	}
	in := `<html><body>
		<p>` + strings.Join(linked, " ") + `</p>
		<p>` + words(80) + `</p>
	</body></html>`
	out, err := Prune(in, Config{MinBlockWords: 10, PruneThreshold: 0.45})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if strings.Contains(out, "link text here") {
		t.Fatal("link-dominated block survived pruning")
	}
	if !strings.Contains(out, "word") {
		t.Fatal("prose block was lost")
	}
}

func TestPrune_KeepsNestedStructure(t *testing.T) {
	in := `<html><body><div>
		<p>` + words(55) + `</p>
		<p>` + words(55) + `</p>
	</div></body></html>`
	out, err := Prune(in, Config{})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	// The parent div has block children, so only leaves are candidates; both
	// survive and the div is untouched.
	if got := strings.Count(out, "<p>"); got != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", got)
	}
}

func TestReduce_PageMinWords(t *testing.T) {
	r := &RodRenderer{cfg: Config{PageMinWords: 30, MinBlockWords: 5}, conv: newConverter()}
	r.cfg.defaults()

	page, err := r.Reduce(`<html><body><p>just a few words here today</p></body></html>`, "https://example.com")
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if page.Markdown != "" {
		t.Fatalf("expected empty markdown for a junk page, got %q", page.Markdown)
	}

	page, err = r.Reduce(`<html><body><p>`+words(40)+`</p></body></html>`, "https://example.com")
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if page.Markdown == "" {
		t.Fatal("expected markdown for a page above the minimum")
	}
}
