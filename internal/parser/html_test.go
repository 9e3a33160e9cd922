package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/doctoc/internal/toc"
)

func extractHTML(t *testing.T, src string, opts Options) []toc.Heading {
	t.Helper()
	p := &HTMLParser{}
	headings, err := p.Extract(strings.NewReader(src), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return headings
}

func TestHTMLParser_SkipsHeadingsWithoutID(t *testing.T) {
	headings := extractHTML(t, `
		<h2 id="section1">Section 1</h2>
		<h2>Section 2</h2>
		<h2 id="">Section 2b</h2>
		<h2 id="section3">Section 3</h2>
	`, DefaultOptions())

	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(headings))
	}
	if headings[1].ID != "section3" {
		t.Errorf("expected second id %q, got %q", "section3", headings[1].ID)
	}
}

func TestHTMLParser_OnlyConfiguredTags(t *testing.T) {
	opts := DefaultOptions()
	opts.Tags = []string{"h1"}
	headings := extractHTML(t, `
		<h1 id="section1">Section 1</h1>
		<h2 id="section2">Section 2</h2>
		<h3 id="section3">Section 3</h3>
	`, opts)

	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(headings))
	}
	if headings[0].Level != 1 {
		t.Errorf("expected level 1, got %d", headings[0].Level)
	}
}

func TestHTMLParser_IgnoredHeadings(t *testing.T) {
	opts := DefaultOptions()
	opts.IgnoredHeadings = []string{"[data-toc-exclude]", ".toc-ignore"}
	headings := extractHTML(t, `
		<h2 id="section1" data-toc-exclude>Section 1</h2>
		<h2 id="section2" class="toc-ignore">Section 2</h2>
		<h2 id="section3">Section 3</h2>
	`, opts)

	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(headings))
	}
	if headings[0].Text != "Section 3" {
		t.Errorf("expected %q, got %q", "Section 3", headings[0].Text)
	}
}

func TestHTMLParser_DefaultIgnoresDataTocExclude(t *testing.T) {
	headings := extractHTML(t, `
		<h2 id="section1" data-toc-exclude>Section 1</h2>
		<h2 id="section2">Section 2</h2>
	`, DefaultOptions())

	if len(headings) != 1 || headings[0].Text != "Section 2" {
		t.Fatalf("expected only Section 2, got %+v", headings)
	}
}

func TestHTMLParser_RemovesIgnoredElements(t *testing.T) {
	opts := DefaultOptions()
	opts.IgnoredElements = []string{".permalink"}
	headings := extractHTML(t, `
		<h2 id="section1">Section 1</h2>
		<h2 id="section2">Section 2 <a class="permalink">#</a></h2>
		<h2 id="section3"><span>Section</span> <em>3</em></h2>
	`, opts)

	if len(headings) != 3 {
		t.Fatalf("expected 3 headings, got %d", len(headings))
	}
	if headings[1].Text != "Section 2" {
		t.Errorf("expected %q, got %q", "Section 2", headings[1].Text)
	}
	if headings[2].Text != "Section 3" {
		t.Errorf("expected %q, got %q", "Section 3", headings[2].Text)
	}
}

func TestHTMLParser_LevelsAndOrder(t *testing.T) {
	headings := extractHTML(t, `
		<h1>Foo</h1>
			<h2 id="bar">Bar</h2>
				<h3 id="foobar">FooBar</h3>
					<h4 id="deeeep">Deeeep</h4>
				<h3 id="foobar-again">FooBar Again</h3>
			<h2 id="baz">Baz</h2>
				<h3 id="bazbar">BazBar</h3>
		<h1>Hello</h1>
	`, DefaultOptions())

	want := []toc.Heading{
		{Level: 2, ID: "bar", Text: "Bar"},
		{Level: 3, ID: "foobar", Text: "FooBar"},
		{Level: 4, ID: "deeeep", Text: "Deeeep"},
		{Level: 3, ID: "foobar-again", Text: "FooBar Again"},
		{Level: 2, ID: "baz", Text: "Baz"},
		{Level: 3, ID: "bazbar", Text: "BazBar"},
	}
	if len(headings) != len(want) {
		t.Fatalf("expected %d headings, got %d", len(want), len(headings))
	}
	for i, w := range want {
		if headings[i] != w {
			t.Errorf("heading[%d]: expected %+v, got %+v", i, w, headings[i])
		}
	}
}

func TestHTMLParser_NoHeadings(t *testing.T) {
	headings := extractHTML(t, `<p>Foo</p><p>Bar</p>`, DefaultOptions())
	if len(headings) != 0 {
		t.Errorf("expected 0 headings, got %d", len(headings))
	}
}

func TestHTMLParser_EmptyTagsFallBackToDefaults(t *testing.T) {
	headings := extractHTML(t, `<h2 id="a">A</h2><h5 id="b">B</h5>`, Options{Tags: []string{" "}})
	if len(headings) != 1 || headings[0].ID != "a" {
		t.Fatalf("expected only the h2, got %+v", headings)
	}
}

func TestHTMLParser_SelectorTags(t *testing.T) {
	opts := DefaultOptions()
	opts.Tags = []string{"article h2", "article h3"}
	headings := extractHTML(t, `
		<header><h2 id="site">Site</h2></header>
		<article>
			<h2 id="a">A</h2>
			<h3 id="b">B</h3>
		</article>
	`, opts)

	if len(headings) != 2 || headings[0].ID != "a" || headings[1].ID != "b" {
		t.Fatalf("expected headings a and b, got %+v", headings)
	}
}

func TestHTMLParser_MatchedContainerStillSearched(t *testing.T) {
	opts := DefaultOptions()
	opts.Tags = []string{".s", "h2", "h3"}
	headings := extractHTML(t, `
		<section class="s"><h2 id="a">A</h2></section>
		<h3 id="b">B</h3>
		<div class="s"><h2>No id</h2><h3 id="c">C</h3></div>
	`, opts)

	want := []toc.Heading{
		{Level: 2, ID: "a", Text: "A"},
		{Level: 3, ID: "b", Text: "B"},
		{Level: 3, ID: "c", Text: "C"},
	}
	if len(headings) != len(want) {
		t.Fatalf("expected %d headings, got %d: %+v", len(want), len(headings), headings)
	}
	for i, w := range want {
		if headings[i] != w {
			t.Errorf("heading[%d]: expected %+v, got %+v", i, w, headings[i])
		}
	}
}

func TestHTMLParser_InvalidSelector(t *testing.T) {
	opts := DefaultOptions()
	opts.IgnoredHeadings = []string{"[unclosed"}
	_, err := (&HTMLParser{}).Extract(strings.NewReader(`<h2 id="a">A</h2>`), opts)
	if !errors.Is(err, ErrInvalidSelector) {
		t.Fatalf("expected ErrInvalidSelector, got %v", err)
	}
}

func TestHTMLParser_BuildsReadmeTree(t *testing.T) {
	headings := extractHTML(t, `
	<h1>Hello, World</h1>
	Lorem ipsum dolor sit amet, consectetur adipisicing elit.

	<h2 id="greetings-from-mars">Greetings from Mars</h2>
	Lorem ipsum dolor sit amet, consectetur adipisicing elit.

	<h3 id="the-red-planet">The red planet</h3>
	Lorem ipsum dolor sit amet, consectetur adipisicing elit.

	<h2 id="greetings-from-pluto">Greetings from Pluto</h2>
	`, DefaultOptions())

	root := toc.Build(headings)
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 top-level entries, got %d", len(root.Children))
	}
	mars := root.Children[0]
	if mars.ID != "greetings-from-mars" || mars.Text != "Greetings from Mars" {
		t.Errorf("unexpected first entry %+v", mars)
	}
	if len(mars.Children) != 1 || mars.Children[0].ID != "the-red-planet" {
		t.Errorf("expected the-red-planet under mars, got %+v", mars.Children)
	}
	if root.Children[1].ID != "greetings-from-pluto" {
		t.Errorf("expected greetings-from-pluto, got %q", root.Children[1].ID)
	}
}
