package tei

import (
	"github.com/beevik/etree"
)

// parseGlyphs registers every glyph and char declaration with its
// per-level mappings, keyed by the mapping type.
func (p *parser) parseGlyphs(root *etree.Element) {
	for _, el := range descendants(root, "") {
		if el.Tag != "glyph" && el.Tag != "char" {
			continue
		}
		g := &Glyph{
			ID:           p.ids.Resolve(el),
			SourceMarkup: sourceMarkup(el),
			Mapping:      make(map[string]GlyphMapping),
		}
		for _, m := range el.SelectElements("mapping") {
			g.Mapping[m.SelectAttrValue("type", "")] = GlyphMapping{
				Element:    sourceMarkup(m),
				Content:    innerXML(m),
				Attributes: ProjectAttributes(m),
			}
		}
		g.Rendered = p.t.TransformHTML(el, el, Options{})
		p.store.AddGlyph(g)
	}
}
