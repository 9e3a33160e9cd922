package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/doctoc/internal/toc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// MarkdownParser handles Markdown files using goldmark. The document is
// rendered to HTML first so selectors behave the same as for HTML input.
// Raw HTML passes through, so inline <h2 id=...> headings are extracted
// too. Attributes need a value to be recognized: exclude a heading with
// {data-toc-exclude=""}.
type MarkdownParser struct{}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		gmparser.WithAutoHeadingID(),
		gmparser.WithAttribute(),
	),
	// Output is only parsed for headings, never served.
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

func (p *MarkdownParser) Extract(r io.Reader, opts Options) ([]toc.Heading, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := markdown.Convert(src, &out); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	return (&HTMLParser{}).Extract(&out, opts)
}
