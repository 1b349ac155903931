package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a handle on an element node. Several handles may refer to
// the same node; compare them with Same.
type Element struct {
	n *html.Node
}

// NewElement creates a detached element.
func NewElement(tag string) *Element {
	tag = strings.ToLower(tag)
	return &Element{n: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}
}

// Wrap returns an Element for n, or nil when n is not an element node.
func Wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return wrap(n)
}

func wrap(n *html.Node) *Element { return &Element{n: n} }

// Node returns the underlying html node.
func (e *Element) Node() *html.Node { return e.n }

// Same reports whether e and other refer to the same node.
func (e *Element) Same(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.n == other.n
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.n.Data }

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// GetAttr returns the named attribute's value, or "" when absent.
func (e *Element) GetAttr(name string) string {
	return attrValue(e.n, name)
}

// SetAttr sets or replaces an attribute, keeping its original position.
func (e *Element) SetAttr(name, val string) {
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr[i].Val = val
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: val})
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	attrs := e.n.Attr[:0]
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.n.Attr = attrs
}

// Attrs returns a copy of the element's attributes in source order.
func (e *Element) Attrs() []html.Attribute {
	out := make([]html.Attribute, len(e.n.Attr))
	copy(out, e.n.Attr)
	return out
}

// ClassName returns the raw class attribute.
func (e *Element) ClassName() string { return e.GetAttr("class") }

// SetClassName replaces the class attribute. An empty value removes it.
func (e *Element) SetClassName(cn string) {
	if cn == "" {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", cn)
}

// Classes returns the class tokens in order.
func (e *Element) Classes() []string {
	return strings.Fields(e.ClassName())
}

// HasClass reports whether cn is one of the element's class tokens.
func (e *Element) HasClass(cn string) bool {
	return hasToken(e.ClassName(), cn)
}

// AddClass appends cn unless already present.
func (e *Element) AddClass(cn string) {
	if e.HasClass(cn) {
		return
	}
	if cur := e.ClassName(); cur != "" {
		e.SetClassName(cur + " " + cn)
		return
	}
	e.SetClassName(cn)
}

// RemoveClass drops every occurrence of cn.
func (e *Element) RemoveClass(cn string) {
	var kept []string
	for _, c := range e.Classes() {
		if c != cn {
			kept = append(kept, c)
		}
	}
	e.SetClassName(strings.Join(kept, " "))
}

// Parent returns the parent element, or nil for detached elements and
// the document element.
func (e *Element) Parent() *Element {
	return Wrap(e.n.Parent)
}

// Children returns the element children in order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, wrap(c))
		}
	}
	return out
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	detach(child.n)
	e.n.AppendChild(child.n)
}

// Remove detaches e from its parent. It reports whether e was attached.
func (e *Element) Remove() bool {
	if e.n.Parent == nil {
		return false
	}
	e.n.Parent.RemoveChild(e.n)
	return true
}

// ReplaceWith puts repl where e was and detaches e. Detached elements
// are left untouched and false is returned.
func (e *Element) ReplaceWith(repl *Element) bool {
	parent := e.n.Parent
	if parent == nil {
		return false
	}
	detach(repl.n)
	parent.InsertBefore(repl.n, e.n)
	parent.RemoveChild(e.n)
	return true
}

// SetText replaces all children with a single text node.
func (e *Element) SetText(s string) {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
	e.n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	var sb strings.Builder
	walk(e.n, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		return true
	})
	return sb.String()
}

// ElementsByClass returns descendants of e carrying class cn in document
// order, excluding e itself.
func (e *Element) ElementsByClass(cn string) []*Element {
	return collectByClass(e.n, cn)
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasToken(list, token string) bool {
	if token == "" {
		return false
	}
	for _, f := range strings.Fields(list) {
		if f == token {
			return true
		}
	}
	return false
}
