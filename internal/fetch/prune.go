package fetch

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockAtoms are the elements considered prunable content blocks.
var blockAtoms = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Blockquote: true,
	atom.Table:      true,
	atom.Figure:     true,
}

// Prune parses rawHTML, removes excluded tags wholesale, drops leaf content
// blocks that are too short or mostly links, and renders the surviving body
// back to HTML.
func Prune(rawHTML string, cfg Config) (string, error) {
	cfg.defaults()

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	excluded := make(map[string]bool, len(cfg.ExcludedTags))
	for _, t := range cfg.ExcludedTags {
		excluded[strings.ToLower(t)] = true
	}
	removeExcluded(doc, excluded)
	pruneLeafBlocks(doc, cfg.MinBlockWords, cfg.PruneThreshold)

	body := findBody(doc)
	if body == nil {
		body = doc
	}
	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func removeExcluded(n *html.Node, excluded map[string]bool) {
	var doomed []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && excluded[strings.ToLower(c.Data)] {
			doomed = append(doomed, c)
			continue
		}
		removeExcluded(c, excluded)
	}
	for _, d := range doomed {
		n.RemoveChild(d)
	}
}

// pruneLeafBlocks removes block elements that contain no nested blocks and
// either carry fewer than minWords words or whose text is mostly link text.
func pruneLeafBlocks(n *html.Node, minWords int, linkThreshold float64) {
	var doomed []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		pruneLeafBlocks(c, minWords, linkThreshold)
		if !isLeafBlock(c) {
			continue
		}
		text := collectText(c)
		words := len(strings.Fields(text))
		if words == 0 {
			doomed = append(doomed, c)
			continue
		}
		if words < minWords {
			doomed = append(doomed, c)
			continue
		}
		linkLen := len(collectLinkText(c))
		if float64(linkLen)/float64(len(text)) > linkThreshold {
			doomed = append(doomed, c)
		}
	}
	for _, d := range doomed {
		n.RemoveChild(d)
	}
}

func isLeafBlock(n *html.Node) bool {
	if n.Type != html.ElementNode || !blockAtoms[n.DataAtom] {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasBlockDescendant(c) {
			return false
		}
	}
	return true
}

func hasBlockDescendant(n *html.Node) bool {
	if n.Type == html.ElementNode && blockAtoms[n.DataAtom] {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasBlockDescendant(c) {
			return true
		}
	}
	return false
}

func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			t := strings.TrimSpace(cur.Data)
			if t != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(t)
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collectLinkText gathers text that sits inside <a> elements only.
func collectLinkText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node, bool)
	walk = func(cur *html.Node, inLink bool) {
		if cur.Type == html.ElementNode && cur.DataAtom == atom.A {
			inLink = true
		}
		if cur.Type == html.TextNode && inLink {
			t := strings.TrimSpace(cur.Data)
			if t != "" {
				sb.WriteString(t)
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inLink)
		}
	}
	walk(n, false)
	return sb.String()
}

func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return body
}
