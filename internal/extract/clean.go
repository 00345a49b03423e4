package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// StripTickerRuns removes runs of minRun or more single-letter-pipe tokens
// ("A | B | C | ..."), an artifact of index and ticker tables flattened to
// markdown.
func StripTickerRuns(minRun int) Transform {
	re := regexp.MustCompile(fmt.Sprintf(`([A-Z] \| ){%d,}`, minRun))
	return func(text string) string {
		return re.ReplaceAllString(text, "")
	}
}

// StripBoilerplateSections removes a recognized section header and everything
// up to the end of its block.
func StripBoilerplateSections(headers []string) Transform {
	quoted := make([]string, len(headers))
	for i, h := range headers {
		quoted[i] = regexp.QuoteMeta(h)
	}
	re := regexp.MustCompile(`(?s)(` + strings.Join(quoted, "|") + `).*?\n`)
	return func(text string) string {
		return re.ReplaceAllString(text, "")
	}
}

// DropURLHeavyLines removes lines embedding more than maxURLs absolute URLs.
// Such lines are link farms, breadcrumbs, or share bars.
func DropURLHeavyLines(maxURLs int) Transform {
	return func(text string) string {
		return filterLines(text, func(line string) bool {
			return len(urlPattern.FindAllString(line, -1)) <= maxURLs
		})
	}
}

// DropMarkedLines removes lines containing any marker, case-insensitively.
func DropMarkedLines(markers []string) Transform {
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	return func(text string) string {
		return filterLines(text, func(line string) bool {
			l := strings.ToLower(line)
			for _, m := range lowered {
				if strings.Contains(l, m) {
					return false
				}
			}
			return true
		})
	}
}

func filterLines(text string, keep func(string) bool) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if keep(line) {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// RequireSignalWords rejects text carrying none of the educational signal
// words.
func RequireSignalWords(signals []string) Predicate {
	lowered := make([]string, len(signals))
	for i, s := range signals {
		lowered[i] = strings.ToLower(s)
	}
	return func(text string) (Reason, bool) {
		l := strings.ToLower(text)
		for _, s := range lowered {
			if strings.Contains(l, s) {
				return "", false
			}
		}
		return LowQualitySignal, true
	}
}

// RejectDataTables trips when the text mentions "ticker" more than tickerMax
// times and contains more than percentMax percent signs, the shape of a
// screener or quote table rather than prose.
func RejectDataTables(tickerMax, percentMax int) Predicate {
	return func(text string) (Reason, bool) {
		l := strings.ToLower(text)
		if strings.Count(l, "ticker") > tickerMax && strings.Count(l, "%") > percentMax {
			return LikelyDataTable, true
		}
		return "", false
	}
}
