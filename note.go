package tei

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// defaultNoteType is used for notes without a type attribute.
const defaultNoteType = "generic"

// noteNode renders a note as a click-triggered popover. The note's source
// markup travels in data-tooltip; the visible part is only its marker.
func noteNode(el *etree.Element) *html.Node {
	n := el.SelectAttrValue("n", "")
	typ := el.SelectAttrValue("type", "")
	if typ == "" {
		typ = defaultNoteType
	}

	pop := newElement("evt-popover",
		attr("data-trigger", "click"),
		attr("data-tooltip", strings.ReplaceAll(innerXML(el), teiNamespaceAttr, "")),
		attr("data-n", n),
		attr("data-type", typ),
	)
	marker := classed("i", "evt_note")
	badge := classed("span", typ)
	badge.AppendChild(newText(n))
	marker.AppendChild(badge)
	pop.AppendChild(marker)
	return pop
}
