// Package fetch drives a headless browser to render a page and reduce it to
// a pruned, markdown-like text body ("fit markdown"): structural boilerplate
// tags are dropped, low-word and link-heavy blocks are pruned, and the
// remaining DOM is converted to markdown.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// Page is the rendered, pruned content of one URL.
type Page struct {
	// Markdown is the fit markdown body. Empty when the page rendered but
	// carried fewer words than Config.PageMinWords.
	Markdown string
}

// Renderer fetches a URL and produces fit markdown. Implementations must be
// safe for concurrent use by multiple goroutines.
type Renderer interface {
	Render(ctx context.Context, url string) (Page, error)
}

// Config tunes rendering and pruning. Zero values take the defaults noted on
// each field.
type Config struct {
	// UserAgent presented to sites. Default: a desktop Chrome identity.
	UserAgent string
	// NavigateTimeout bounds navigation plus load wait. Default 30s.
	NavigateTimeout time.Duration
	// ExcludedTags are removed from the DOM wholesale before pruning.
	ExcludedTags []string
	// MinBlockWords prunes leaf blocks with fewer words. Default 50.
	MinBlockWords int
	// PruneThreshold prunes leaf blocks whose fraction of link text exceeds
	// it. Default 0.45.
	PruneThreshold float64
	// PageMinWords marks the whole page empty below this word count,
	// filtering junk and error pages. Default 30.
	PageMinWords int
}

// DefaultUserAgent mimics a current desktop Chrome, which keeps consent walls
// and bot checks from serving stub pages.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultExcludedTags drop navigation chrome, forms, and list-heavy index
// blocks that never carry lesson prose.
var DefaultExcludedTags = []string{
	"nav", "footer", "header", "aside", "form", "button", "ul", "li", "script", "style",
}

func (c *Config) defaults() {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = 30 * time.Second
	}
	if c.ExcludedTags == nil {
		c.ExcludedTags = DefaultExcludedTags
	}
	if c.MinBlockWords <= 0 {
		c.MinBlockWords = 50
	}
	if c.PruneThreshold <= 0 {
		c.PruneThreshold = 0.45
	}
	if c.PageMinWords <= 0 {
		c.PageMinWords = 30
	}
}

// RodRenderer renders pages through a shared headless Chrome. The browser is
// the rate-limited resource; callers bound concurrency at the pool level.
type RodRenderer struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	cfg     Config
	conv    *converter.Converter
}

// NewRodRenderer launches a local headless Chrome and connects to it.
func NewRodRenderer(cfg Config) (*RodRenderer, error) {
	cfg.defaults()

	l := launcher.New().
		Headless(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("user-agent", cfg.UserAgent)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("fetch: launch chrome: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("fetch: connect: %w", err)
	}
	return &RodRenderer{browser: b, lnch: l, cfg: cfg, conv: newConverter()}, nil
}

func newConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
}

// Render navigates to url in a fresh stealth tab, waits for load, and reduces
// the DOM to fit markdown.
func (r *RodRenderer) Render(ctx context.Context, url string) (Page, error) {
	page, err := stealth.Page(r.browser)
	if err != nil {
		return Page{}, fmt.Errorf("fetch: open tab: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, r.cfg.NavigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		return Page{}, fmt.Errorf("fetch: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		return Page{}, fmt.Errorf("fetch: wait load %s: %w", url, err)
	}

	res, err := page.Context(navCtx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return Page{}, fmt.Errorf("fetch: read DOM %s: %w", url, err)
	}

	return r.Reduce(res.Value.Str(), url)
}

// Reduce prunes raw HTML and converts it to fit markdown. Exposed separately
// so the pruning pipeline can be exercised without a browser.
func (r *RodRenderer) Reduce(rawHTML, sourceURL string) (Page, error) {
	pruned, err := Prune(rawHTML, r.cfg)
	if err != nil {
		return Page{}, fmt.Errorf("fetch: prune: %w", err)
	}
	md, err := r.conv.ConvertString(pruned, converter.WithDomain(sourceURL))
	if err != nil {
		return Page{}, fmt.Errorf("fetch: markdown: %w", err)
	}
	md = strings.TrimSpace(md)
	if countWords(md) < r.cfg.PageMinWords {
		return Page{}, nil
	}
	return Page{Markdown: md}, nil
}

// Close shuts down Chrome.
func (r *RodRenderer) Close() error {
	if r.browser != nil {
		r.browser.Close()
	}
	if r.lnch != nil {
		r.lnch.Cleanup()
	}
	return nil
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
