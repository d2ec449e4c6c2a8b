package tei

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// teiNamespaceAttr is stripped from serialized source markup.
const teiNamespaceAttr = ` xmlns="http://www.tei-c.org/ns/1.0"`

// spacePlaceholder protects inter-element spaces while a fragment is
// re-parsed; text nodes restore it to a literal space.
const spacePlaceholder = "__SPACE__"

var writeSettings = &etree.WriteSettings{}

// newDocument returns an etree document that accepts HTML named entities.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.Entity = xml.HTMLEntity
	return doc
}

// outerXML serializes el including its own tag.
func outerXML(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var sb strings.Builder
	el.WriteTo(&sb, writeSettings)
	return sb.String()
}

// innerXML serializes the children of el.
func innerXML(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range el.Child {
		c.WriteTo(&sb, writeSettings)
	}
	return sb.String()
}

// sourceMarkup returns the outer markup of el without the TEI namespace
// declaration.
func sourceMarkup(el *etree.Element) string {
	return strings.ReplaceAll(outerXML(el), teiNamespaceAttr, "")
}

// textContent concatenates every character data descendant of el.
func textContent(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.Child {
			switch t := c.(type) {
			case *etree.CharData:
				sb.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return sb.String()
}

// descendants returns every element below el with the given tag, in
// document order. The result is a snapshot: callers may detach nodes
// while iterating it.
func descendants(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			if tag == "" || c.Tag == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if el != nil {
		walk(el)
	}
	return out
}

// firstDescendant returns the first element below el with the given tag.
func firstDescendant(el *etree.Element, tag string) *etree.Element {
	if el == nil || tag == "" {
		return nil
	}
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
		if d := firstDescendant(c, tag); d != nil {
			return d
		}
	}
	return nil
}

// detach removes el from its parent, if any.
func detach(el *etree.Element) {
	if p := el.Parent(); p != nil {
		p.RemoveChild(el)
	}
}

// ---------------------------------------------------------------------------
// Display tree helpers (golang.org/x/net/html)
// ---------------------------------------------------------------------------

func newElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func newText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// newRaw wraps markup that must be rendered without escaping, such as
// translation placeholders or pre-rendered fragments.
func newRaw(s string) *html.Node {
	return &html.Node{Type: html.RawNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func classed(tag, class string) *html.Node {
	return newElement(tag, attr("class", class))
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, attr(key, val))
}

// translate returns a deferred translation placeholder for key.
func translate(key string) string {
	return "{{ '" + key + "' | translate }}"
}

// renderHTML renders n and its subtree.
func renderHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	// strings.Builder never fails; Render only reports writer errors and
	// void elements with children, which the transformer never builds.
	_ = html.Render(&sb, n)
	return sb.String()
}

// innerHTML renders the children of n.
func innerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

var whitespaceRun = regexp.MustCompile(`\s`)

// isBlank reports whether markup is empty once all whitespace is removed.
func isBlank(markup string) bool {
	return whitespaceRun.ReplaceAllString(markup, "") == ""
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripTags removes markup tags, keeping text and placeholders.
func stripTags(markup string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(markup, ""))
}
