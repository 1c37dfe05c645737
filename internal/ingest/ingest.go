// Package ingest loads book text from files, stripping HTML markup when
// present. Line structure is preserved because the segmenter keys on
// headings and blank lines.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements that end a line of visible text.
var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "tr": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"section": {}, "article": {}, "blockquote": {}, "pre": {},
}

// Load reads a book file. Files with an .html or .htm extension are parsed
// and reduced to their visible text; everything else is read verbatim.
func Load(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read book file: %w", err)
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return StripHTML(text)
	default:
		return text, nil
	}
}

// StripHTML extracts visible text from HTML markup. Script, style, noscript,
// and iframe subtrees are dropped; block-level elements become line breaks so
// headings stay on their own lines.
func StripHTML(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode {
			if _, block := blockTags[n.Data]; block {
				buf.WriteString("\n")
			}
		}
	}

	walk(doc)

	return normalize(buf.String()), nil
}

// normalize trims trailing spaces per line and collapses runs of blank lines
// into a single blank line.
func normalize(text string) string {
	lines := strings.Split(text, "\n")

	var out []string
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}
