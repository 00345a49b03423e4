package policy

import (
	"net/url"
	"strings"
)

// Policy classifies URLs by host-name substring rules. Blocked entries take
// precedence; Preferred is a soft ranking hint and never required for a URL
// to pass.
type Policy struct {
	Blocked   []string
	Preferred []string
}

// DefaultBlocked lists hosts that consistently return discussion threads or
// paywalled fragments rather than educational prose.
var DefaultBlocked = []string{
	"reddit.com",
	"quora.com",
	"medium.com",
	"facebook.com",
	"twitter.com",
	"x.com",
}

// DefaultPreferred lists hosts known to publish well-structured financial
// education content.
var DefaultPreferred = []string{
	"nasdaq.com",
	"investopedia.com",
	"ig.com",
	"sgx.com",
	"cmegroup.com",
	"corporatefinanceinstitute.com",
	"sec.gov",
}

// Default returns a Policy with the stock block and preference lists.
func Default() Policy {
	return Policy{Blocked: DefaultBlocked, Preferred: DefaultPreferred}
}

// Allowed reports whether the URL's host matches no blocked entry. A URL that
// cannot be parsed has an empty host and passes: the policy only blocks, it
// never requires a match.
func (p Policy) Allowed(rawURL string) bool {
	return !hostMatches(rawURL, p.Blocked)
}

// IsPreferred reports whether the URL's host matches a preferred entry.
func (p Policy) IsPreferred(rawURL string) bool {
	return hostMatches(rawURL, p.Preferred)
}

func hostMatches(rawURL string, entries []string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	for _, e := range entries {
		if e == "" {
			continue
		}
		if strings.Contains(host, strings.ToLower(e)) {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u == nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
