// Package dom is a small element-level view over golang.org/x/net/html
// trees. It exposes just enough of the browser DOM (class lists,
// attributes, insertion and replacement) for widget markup to be
// discovered and rewritten without a live document.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads a full HTML document. Missing html, head and body elements
// are synthesised by the parser.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.findTag(atom.Body)
}

// ElementByID returns the first element whose id attribute equals id.
func (d *Document) ElementByID(id string) *Element {
	var found *Element
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attrValue(n, "id") == id {
			found = wrap(n)
			return false
		}
		return true
	})
	return found
}

// ElementsByClass returns every element carrying class cn, in document
// order. The result is a snapshot, not a live list.
func (d *Document) ElementsByClass(cn string) []*Element {
	return collectByClass(d.root, cn)
}

// ElementsByTag returns every element with the given tag name, in
// document order.
func (d *Document) ElementsByTag(tag string) []*Element {
	var out []*Element
	tag = strings.ToLower(tag)
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, wrap(n))
		}
		return true
	})
	return out
}

// Contains reports whether el is attached somewhere below the document root.
func (d *Document) Contains(el *Element) bool {
	if el == nil {
		return false
	}
	for n := el.n; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

func (d *Document) findTag(a atom.Atom) *Element {
	var found *Element
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = wrap(n)
			return false
		}
		return true
	})
	return found
}

// walk visits n and its descendants depth-first in document order until
// fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func collectByClass(root *html.Node, cn string) []*Element {
	var out []*Element
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(n *html.Node) bool {
			if n.Type == html.ElementNode && hasToken(attrValue(n, "class"), cn) {
				out = append(out, wrap(n))
			}
			return true
		})
	}
	return out
}
