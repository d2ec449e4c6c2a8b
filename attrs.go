package tei

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// idAttr is the canonical identifier attribute.
const idAttr = "xml:id"

// isNamespaceDecl reports whether a is an xmlns declaration rather than
// an attribute written by the encoder.
func isNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}

// projectedName returns the attribute name with its namespace colon
// replaced by a hyphen ("xml:id" becomes "xml-id").
func projectedName(a etree.Attr) string {
	return strings.Replace(a.FullKey(), ":", "-", 1)
}

// ProjectAttributes converts the attributes present on el into a flat
// name to value mapping in source order. Namespace declarations are not
// attributes and are left out; nothing else is excluded.
func ProjectAttributes(el *etree.Element) Attributes {
	out := Attributes{Values: make(map[string]string)}
	if el == nil {
		return out
	}
	for _, a := range el.Attr {
		if isNamespaceDecl(a) {
			continue
		}
		out.set(projectedName(a), a.Value)
	}
	return out
}

// dataAttributes returns el's attributes as "data-" display attributes.
// The identifier attribute is omitted when skipID is set.
func dataAttributes(el *etree.Element, skipID bool) []html.Attribute {
	var out []html.Attribute
	for _, a := range el.Attr {
		if isNamespaceDecl(a) || (skipID && a.FullKey() == idAttr) {
			continue
		}
		out = append(out, attr("data-"+projectedName(a), a.Value))
	}
	return out
}

// elementID returns the xml:id of el, or "".
func elementID(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return el.SelectAttrValue(idAttr, "")
}
