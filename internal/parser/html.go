package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/dgallion1/doctoc/internal/toc"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Extract(r io.Reader, opts Options) ([]toc.Heading, error) {
	sel, err := compileSelectors(opts)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var headings []toc.Heading
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && sel.tags.Match(n) {
			if h, ok := sel.heading(n); ok {
				headings = append(headings, h)
				return // Heading text is already extracted.
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return headings, nil
}

type selectors struct {
	tags            cascadia.Selector
	ignoredHeadings []cascadia.Selector
	ignoredElements []cascadia.Selector
}

func compileSelectors(opts Options) (*selectors, error) {
	tags, err := compile(strings.Join(tagsOrDefault(opts.Tags), ","))
	if err != nil {
		return nil, err
	}
	s := &selectors{tags: tags}
	for _, raw := range opts.IgnoredHeadings {
		c, err := compile(raw)
		if err != nil {
			return nil, err
		}
		if c != nil {
			s.ignoredHeadings = append(s.ignoredHeadings, c)
		}
	}
	for _, raw := range opts.IgnoredElements {
		c, err := compile(raw)
		if err != nil {
			return nil, err
		}
		if c != nil {
			s.ignoredElements = append(s.ignoredElements, c)
		}
	}
	return s, nil
}

func compile(raw string) (cascadia.Selector, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	c, err := cascadia.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, raw, err)
	}
	return c, nil
}

// heading turns a matched element into a record. Elements without an id
// cannot be linked to and are skipped, as are ignored headings and tags
// that carry no level.
func (s *selectors) heading(n *html.Node) (toc.Heading, bool) {
	level := headingLevel(n.Data)
	if level == 0 {
		return toc.Heading{}, false
	}
	id := attr(n, "id")
	if id == "" {
		return toc.Heading{}, false
	}
	for _, ig := range s.ignoredHeadings {
		if ig.Match(n) {
			return toc.Heading{}, false
		}
	}
	return toc.Heading{
		Level: level,
		ID:    id,
		Text:  s.textContent(n),
	}, true
}

func (s *selectors) ignored(n *html.Node) bool {
	for _, ig := range s.ignoredElements {
		if ig.Match(n) {
			return true
		}
	}
	return false
}

func (s *selectors) textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && s.ignored(c) {
				continue
			}
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
