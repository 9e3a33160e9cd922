package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/doctoc/internal/toc"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. Headings come from the document outline
// (bookmarks); nesting depth in the outline is the heading level.
type PDFParser struct{}

func (p *PDFParser) Extract(r io.Reader, opts Options) ([]toc.Heading, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	return flattenOutline(reader.Outline(), headingLevels(opts.Tags)), nil
}

// flattenOutline walks the outline depth-first. The outline root itself
// has no title and is not a heading.
func flattenOutline(root pdflib.Outline, levels map[int]bool) []toc.Heading {
	ids := newSlugger()
	var headings []toc.Heading

	var walk func(items []pdflib.Outline, depth int)
	walk = func(items []pdflib.Outline, depth int) {
		for _, o := range items {
			title := strings.TrimSpace(o.Title)
			if title != "" && levels[depth] {
				headings = append(headings, toc.Heading{
					Level: depth,
					ID:    ids.id(title),
					Text:  title,
				})
			}
			walk(o.Child, depth+1)
		}
	}
	walk(root.Child, 1)

	return headings
}
