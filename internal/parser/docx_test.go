package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/doctoc/internal/toc"
	"github.com/fumiama/go-docx"
)

type docxPara struct {
	style string
	runs  []string
}

func buildDOCX(t *testing.T, paras []docxPara) []byte {
	t.Helper()
	doc := docx.New().WithDefaultTheme()
	for _, p := range paras {
		para := doc.AddParagraph()
		if p.style != "" {
			para.Style(p.style)
		}
		for _, r := range p.runs {
			para.AddText(r)
		}
	}
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return buf.Bytes()
}

func sampleDOCX(t *testing.T) []byte {
	return buildDOCX(t, []docxPara{
		{style: "Heading1", runs: []string{"Title"}},
		{style: "Heading2", runs: []string{"Intro"}},
		{runs: []string{"Body text."}},
		{style: "heading 3", runs: []string{"Set", "up"}},
		{style: "Heading2", runs: []string{"Intro"}},
		{style: "Heading5", runs: []string{"Too deep"}},
		{style: "Heading2"},
	})
}

func extractDOCX(t *testing.T, data []byte, opts Options) []toc.Heading {
	t.Helper()
	headings, err := (&DOCXParser{}).Extract(bytes.NewReader(data), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return headings
}

func assertHeadings(t *testing.T, got, want []toc.Heading) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d headings, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("heading[%d]: expected %+v, got %+v", i, w, got[i])
		}
	}
}

func TestDOCXParser_DefaultTags(t *testing.T) {
	headings := extractDOCX(t, sampleDOCX(t), DefaultOptions())

	// Heading1 and Heading5 fall outside h2-h4; the empty heading is dropped.
	assertHeadings(t, headings, []toc.Heading{
		{Level: 2, ID: "intro", Text: "Intro"},
		{Level: 3, ID: "setup", Text: "Setup"},
		{Level: 2, ID: "intro-1", Text: "Intro"},
	})
}

func TestDOCXParser_TagLevels(t *testing.T) {
	opts := DefaultOptions()
	opts.Tags = []string{"h1", "H2", ".not-a-level"}
	headings := extractDOCX(t, sampleDOCX(t), opts)

	assertHeadings(t, headings, []toc.Heading{
		{Level: 1, ID: "title", Text: "Title"},
		{Level: 2, ID: "intro", Text: "Intro"},
		{Level: 2, ID: "intro-1", Text: "Intro"},
	})
}

func TestDOCXParser_InvalidArchive(t *testing.T) {
	_, err := (&DOCXParser{}).Extract(strings.NewReader("not a zip"), DefaultOptions())
	if err == nil {
		t.Fatal("expected error for invalid docx")
	}
}

func TestDocxHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"Heading2", 2},
		{"heading 2", 2},
		{"HEADING 6", 6},
		{"Heading7", 0},
		{"Heading", 0},
		{"Title", 0},
		{"Normal", 0},
	}
	for _, tt := range tests {
		para := &docx.Paragraph{}
		para.Style(tt.style)
		if got := docxHeadingLevel(para); got != tt.want {
			t.Errorf("docxHeadingLevel(%q) = %d, want %d", tt.style, got, tt.want)
		}
	}

	if got := docxHeadingLevel(&docx.Paragraph{}); got != 0 {
		t.Errorf("expected 0 for unstyled paragraph, got %d", got)
	}
}
