package pipeline

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/dgallion1/doctoc/internal/config"
	"github.com/dgallion1/doctoc/internal/parser"
	"github.com/dgallion1/doctoc/internal/toc"
)

// Request carries the per-document extraction and rendering settings.
type Request struct {
	Extract     parser.Options
	Render      toc.Options
	IncludeTree bool
}

// Result is a generated table of contents.
type Result struct {
	Headings int       `json:"headings" yaml:"headings"`
	HTML     string    `json:"html" yaml:"html"`
	Tree     *toc.Node `json:"tree,omitempty" yaml:"tree,omitempty"`
}

// Generate extracts the headings of a document, builds the tree and
// renders it. An empty HTML field means the document has no headings.
func Generate(data []byte, filename string, req Request) (*Result, error) {
	headings, err := extractHeadings(data, filename, req.Extract)
	if err != nil {
		return nil, err
	}
	return assemble(toc.Build(headings), req), nil
}

func extractHeadings(data []byte, filename string, opts parser.Options) ([]toc.Heading, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	headings, err := p.Extract(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}
	return headings, nil
}

func assemble(root *toc.Node, req Request) *Result {
	res := &Result{
		Headings: root.Count(),
		HTML:     toc.Render(root, req.Render),
	}
	if req.IncludeTree {
		res.Tree = root
	}
	return res
}

// DefaultRequest turns configured defaults into a Request.
func DefaultRequest(t config.TOCConfig) Request {
	return Request{
		Extract: parser.Options{
			Tags:            slices.Clone(t.Tags),
			IgnoredHeadings: slices.Clone(t.IgnoredHeadings),
			IgnoredElements: slices.Clone(t.IgnoredElements),
		},
		Render: toc.Options{
			Unordered: t.Unordered,
			Wrapper:   Wrapper(t.NavClass, t.NoWrap),
		},
	}
}

// Wrapper picks the output wrapper for a nav class.
func Wrapper(navClass string, noWrap bool) toc.Wrapper {
	if noWrap {
		return toc.NoWrap
	}
	return toc.NavWrapper(navClass)
}
