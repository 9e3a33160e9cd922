package toc

import (
	"html"
	"strings"
)

// DefaultNavClass is the class of the container added by the default wrapper.
const DefaultNavClass = "toc"

// Wrapper transforms the assembled list markup into the final output.
type Wrapper func(markup string) string

// NoWrap returns the list markup unchanged.
func NoWrap(markup string) string { return markup }

// NavWrapper wraps the markup in a <nav> element with the given class.
func NavWrapper(class string) Wrapper {
	if class == "" {
		return func(markup string) string {
			return "<nav>" + markup + "</nav>"
		}
	}
	open := `<nav class="` + html.EscapeString(class) + `">`
	return func(markup string) string {
		return open + markup + "</nav>"
	}
}

// Options controls rendering.
type Options struct {
	Unordered bool    // Use <ul> instead of <ol> at every level.
	Wrapper   Wrapper // nil means NavWrapper(DefaultNavClass).
}

// Render serializes the tree under root. It returns the empty string when
// root has no children; the wrapper is only applied otherwise.
func Render(root *Node, opts Options) string {
	if root == nil || len(root.Children) == 0 {
		return ""
	}

	wrap := opts.Wrapper
	if wrap == nil {
		wrap = NavWrapper(DefaultNavClass)
	}

	var b strings.Builder
	writeNode(&b, root, listTags(opts.Unordered))
	return wrap(b.String())
}

// HTML builds the tree for headings and renders it.
func HTML(headings []Heading, opts Options) string {
	return Render(Build(headings), opts)
}

type tags struct {
	open, close string
}

func listTags(unordered bool) tags {
	if unordered {
		return tags{open: "<ul>", close: "</ul>"}
	}
	return tags{open: "<ol>", close: "</ol>"}
}

func writeNode(b *strings.Builder, n *Node, t tags) {
	item := n.Level > 0 && n.IsItem()
	if item {
		b.WriteString(`<li><a href="#`)
		b.WriteString(html.EscapeString(n.ID))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString(`</a>`)
	}

	if len(n.Children) > 0 {
		b.WriteString(t.open)
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte('\n')
			}
			writeNode(b, c, t)
		}
		b.WriteString(t.close)
	}

	if item {
		b.WriteString("</li>")
	}
}
