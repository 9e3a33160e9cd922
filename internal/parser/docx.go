package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/doctoc/internal/toc"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Paragraphs styled HeadingN become
// headings; Word has no anchor ids, so ids are slugs of the heading text.
type DOCXParser struct{}

func (p *DOCXParser) Extract(r io.Reader, opts Options) ([]toc.Heading, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	levels := headingLevels(opts.Tags)
	ids := newSlugger()

	var headings []toc.Heading
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		level := docxHeadingLevel(para)
		if !levels[level] {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		headings = append(headings, toc.Heading{
			Level: level,
			ID:    ids.id(text),
			Text:  text,
		})
	}

	return headings, nil
}

// docxHeadingLevel accepts both the style id ("Heading2") and the style
// name ("heading 2").
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	return headingLevel("h" + strings.TrimPrefix(style, "heading"))
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
