package lesson

import (
	"strings"
	"testing"
)

func TestParse_FullDocument(t *testing.T) {
	in := `title: What a Stock Is
summary: A stock is a share of ownership in a company.
key_points:
  - Shares represent fractional ownership
  - Prices move with supply and demand
examples:
  - Buying one share of a listed firm
definitions:
  stock: a unit of ownership
common_mistakes:
  - Confusing price with value
questions_to_think:
  - Why do prices change daily?
source: https://www.investopedia.com/terms/s/stock.asp
`
	d, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Title != "What a Stock Is" {
		t.Fatalf("title: %q", d.Title)
	}
	if len(d.KeyPoints) != 2 || d.Definitions["stock"] == "" {
		t.Fatalf("fields lost: %+v", d)
	}
}

func TestParse_ToleratesUnknownFields(t *testing.T) {
	in := "title: T\nsummary: S\ndifficulty: advanced\n"
	if _, err := Parse([]byte(in)); err != nil {
		t.Fatalf("unknown fields must be tolerated: %v", err)
	}
}

func TestParse_RejectsMissingCore(t *testing.T) {
	for name, in := range map[string]string{
		"no title":   "summary: S\n",
		"no summary": "title: T\n",
		"not yaml":   "title: [unclosed\n",
	} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	d := &Document{
		Title:     "T",
		Summary:   "S",
		KeyPoints: []string{"a", "b"},
		Source:    "https://example.com",
	}
	b, err := d.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := Parse(b)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got.Title != d.Title || len(got.KeyPoints) != 2 || got.Source != d.Source {
		t.Fatalf("round trip lost data: %+v", got)
	}
	if strings.Contains(string(b), "definitions") {
		t.Fatal("empty optional fields must be omitted")
	}
}
