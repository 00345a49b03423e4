package extract

import (
	"strings"
	"testing"
)

func TestStripTickerRuns(t *testing.T) {
	in := "prefix A | B | C | D | E | suffix"
	got := StripTickerRuns(5)(in)
	if strings.Contains(got, "A | B") {
		t.Fatalf("ticker run survived: %q", got)
	}
	if !strings.Contains(got, "prefix") || !strings.Contains(got, "suffix") {
		t.Fatalf("surrounding text damaged: %q", got)
	}

	short := "A | B | C | regular prose"
	if got := StripTickerRuns(5)(short); got != short {
		t.Fatalf("run below threshold must be untouched: %q", got)
	}
}

func TestStripBoilerplateSections(t *testing.T) {
	in := "Intro paragraph.\nTable of Contents 1. Stocks 2. Bonds\nReal content starts here.\n"
	got := StripBoilerplateSections(DefaultBoilerplateHeaders)(in)
	if strings.Contains(got, "1. Stocks") {
		t.Fatalf("boilerplate block survived: %q", got)
	}
	if !strings.Contains(got, "Intro paragraph.") || !strings.Contains(got, "Real content") {
		t.Fatalf("content outside the block damaged: %q", got)
	}
}

func TestDropURLHeavyLines(t *testing.T) {
	in := strings.Join([]string{
		"One link is fine https://example.com/a",
		"Two links https://example.com/a and https://example.com/b",
		"No links at all",
	}, "\n")
	got := DropURLHeavyLines(1)(in)
	if strings.Contains(got, "Two links") {
		t.Fatalf("URL-heavy line survived: %q", got)
	}
	if !strings.Contains(got, "One link is fine") || !strings.Contains(got, "No links at all") {
		t.Fatalf("acceptable lines damaged: %q", got)
	}
}

func TestDropMarkedLines_CaseInsensitive(t *testing.T) {
	in := strings.Join([]string{
		"Useful explanation of dividends",
		"SPONSORED: open an account today",
		"Click Here to learn more",
	}, "\n")
	got := DropMarkedLines(DefaultClickbaitMarkers)(in)
	if strings.Contains(got, "SPONSORED") || strings.Contains(got, "Click Here") {
		t.Fatalf("marked lines survived: %q", got)
	}
	if !strings.Contains(got, "Useful explanation") {
		t.Fatalf("clean line damaged: %q", got)
	}
}

func TestRequireSignalWords(t *testing.T) {
	p := RequireSignalWords(DefaultSignalWords)
	if reason, rejected := p("The DEFINITION of a stock is simple."); rejected {
		t.Fatalf("signal word present but rejected with %q", reason)
	}
	reason, rejected := p("tuesday weather report and sports scores")
	if !rejected || reason != LowQualitySignal {
		t.Fatalf("expected low quality rejection, got %q rejected=%v", reason, rejected)
	}
}

func TestRejectDataTables(t *testing.T) {
	p := RejectDataTables(5, 10)

	table := strings.Repeat("ticker ", 6) + strings.Repeat("5% ", 11)
	reason, rejected := p(table)
	if !rejected || reason != LikelyDataTable {
		t.Fatalf("expected data table rejection, got %q rejected=%v", reason, rejected)
	}

	// Both thresholds must be exceeded together.
	onlyTickers := strings.Repeat("ticker ", 6)
	if _, rejected := p(onlyTickers); rejected {
		t.Fatal("ticker count alone must not reject")
	}
	onlyPercents := strings.Repeat("3% ", 11)
	if _, rejected := p(onlyPercents); rejected {
		t.Fatal("percent count alone must not reject")
	}
}
