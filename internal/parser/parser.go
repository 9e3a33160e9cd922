package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/doctoc/internal/toc"
)

var (
	// ErrUnsupportedFormat is returned for file extensions without an extractor.
	ErrUnsupportedFormat = errors.New("unsupported file extension")
	// ErrInvalidSelector is returned when a tag or ignore selector does not compile.
	ErrInvalidSelector = errors.New("invalid selector")
)

// Options selects which headings make it into the table of contents.
type Options struct {
	Tags            []string // Heading selectors, e.g. "h2".
	IgnoredHeadings []string // Headings matching any of these are skipped.
	IgnoredElements []string // Descendants matching these are dropped from heading text.
}

// DefaultOptions returns the stock selection: h2 through h4, skipping
// headings marked with data-toc-exclude.
func DefaultOptions() Options {
	return Options{
		Tags:            []string{"h2", "h3", "h4"},
		IgnoredHeadings: []string{"[data-toc-exclude]"},
		IgnoredElements: []string{},
	}
}

// Extractor pulls heading records out of a document in document order.
type Extractor interface {
	Extract(r io.Reader, opts Options) ([]toc.Heading, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".docx":     true,
	".pdf":      true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func tagsOrDefault(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return DefaultOptions().Tags
	}
	return out
}

// headingLevels maps plain hN tags to the set of levels they select.
// Formats without a DOM (docx, pdf) can only honour these.
func headingLevels(tags []string) map[int]bool {
	levels := make(map[int]bool)
	for _, t := range tagsOrDefault(tags) {
		if l := headingLevel(strings.ToLower(t)); l > 0 {
			levels[l] = true
		}
	}
	return levels
}

func headingLevel(tag string) int {
	if len(tag) != 2 || tag[0] != 'h' {
		return 0
	}
	n, err := strconv.Atoi(tag[1:])
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}
