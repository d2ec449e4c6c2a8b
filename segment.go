package tei

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/lo"
)

// editionTextSubtype marks a div holding a whole document when the edition
// does not use one text element per document.
const editionTextSubtype = "edition_text"

// analyzeEncoding records whether the edition marks lines with line-break
// elements inside the body and whether any line element is numbered.
func (p *parser) analyzeEncoding(root *etree.Element) {
	details := p.store.Encoding()

	bodies := descendants(root, "body")
	details.UsesLineBreaks = lo.SomeBy(bodies, func(b *etree.Element) bool {
		return firstDescendant(b, p.cfg.Tags.LineBreak) != nil
	})
	details.LineNums = lo.SomeBy(descendants(root, p.cfg.Tags.Line), func(l *etree.Element) bool {
		return l.SelectAttr("n") != nil
	})
	p.store.SetEncoding(details)
}

// parseWitnesses registers every witness declared in the edition. A
// non-empty Config.Witnesses restricts the registry to the listed ids.
func (p *parser) parseWitnesses(root *etree.Element) {
	for _, w := range descendants(root, "witness") {
		id := elementID(w)
		if id == "" {
			continue
		}
		if len(p.cfg.Witnesses) > 0 && !lo.Contains(p.cfg.Witnesses, id) {
			continue
		}
		p.store.AddWitness(Witness{ID: id, Corresp: w.SelectAttrValue("corresp", "")})
	}
}

// detectDocuments returns the elements holding one document each, and
// whether each element is its own content (edition-text divisions) rather
// than the parent of a body.
//
// Nested text groups yield every text without a direct group child.
// Otherwise divisions of subtype edition_text are documents. Otherwise
// each outermost text element is a document, and failing that the whole
// input is one.
func detectDocuments(root *etree.Element) ([]*etree.Element, bool) {
	texts := descendants(root, "text")
	if root.Tag == "text" {
		texts = append([]*etree.Element{root}, texts...)
	}

	hasGroup := func(t *etree.Element) bool { return t.SelectElement("group") != nil }
	grouped := lo.SomeBy(texts, func(t *etree.Element) bool {
		g := t.SelectElement("group")
		return g != nil && firstDescendant(g, "text") != nil
	})
	if grouped {
		return lo.Reject(texts, func(t *etree.Element, _ int) bool { return hasGroup(t) }), false
	}

	divs := lo.Filter(descendants(root, "div"), func(d *etree.Element, _ int) bool {
		return d.SelectAttrValue("subtype", "") == editionTextSubtype
	})
	if len(divs) > 0 {
		return divs, true
	}

	outer := lo.Reject(texts, func(t *etree.Element, _ int) bool { return hasAncestor(t, "text") })
	if len(outer) > 0 {
		return outer, false
	}
	return []*etree.Element{root}, false
}

func hasAncestor(el *etree.Element, tag string) bool {
	for p := el.Parent(); p != nil && p.Tag != ""; p = p.Parent() {
		if p.Tag == tag {
			return true
		}
	}
	return false
}

// parseDocuments segments the edition into documents, their pages and
// divisions, and stores the original page spans.
func (p *parser) parseDocuments(root *etree.Element) {
	els, selfContent := detectDocuments(root)
	for _, el := range els {
		p.parseDocument(el, selfContent)
	}
}

func (p *parser) parseDocument(el *etree.Element, selfContent bool) {
	doc := &Document{
		ID:         p.documentID(el),
		Attributes: ProjectAttributes(el),
		Content:    el,
	}
	if doc.Attributes.Has("xml-id") {
		doc.Title = doc.Attributes.Get("n")
		if doc.Title == "" {
			doc.Title = doc.Attributes.Get("xml-id")
		}
	} else {
		doc.Title = p.documentTitle(doc)
	}
	doc.Label = doc.Title
	doc.Front = frontBuilder{t: p.t}.parseFront(el)
	p.store.AddDocument(doc)

	p.parsePages(el, doc.ID)

	content := el
	if selfContent {
		p.parseDivisions(el, doc.ID, SectionBody)
	} else {
		for _, sec := range []Section{SectionFront, SectionBody, SectionBack} {
			if s := firstDescendant(el, string(sec)); s != nil {
				p.parseDivisions(s, doc.ID, sec)
			}
		}
		if body := firstDescendant(el, "body"); body != nil {
			content = body
		}
	}

	p.splitPages(content, doc)
}

// documentID is the xml:id of el, else its path without the leading
// separator, else doc_<n>.
func (p *parser) documentID(el *etree.Element) string {
	if id := elementID(el); id != "" {
		return id
	}
	if path, ok := xpath(el); ok && path != "" {
		return strings.TrimPrefix(path, "-")
	}
	return "doc_" + strconv.Itoa(p.store.DocumentCount()+1)
}

// documentTitle builds "Type - Subtype N" for a document without an id.
// N is the witness whose corresp names the document, else n, else the
// document's position.
func (p *parser) documentTitle(doc *Document) string {
	suffix := ""
	for _, wid := range p.store.Witnesses() {
		w, _ := p.store.Witness(wid)
		if strings.TrimPrefix(w.Corresp, "#") == doc.ID {
			suffix = wid
			break
		}
	}
	if suffix == "" {
		suffix = doc.Attributes.Get("n")
	}
	if suffix == "" {
		suffix = strconv.Itoa(p.store.DocumentCount() + 1)
	}
	return typedTitle(doc.Attributes, "Doc") + " " + suffix
}

// typedTitle renders the type and subtype attributes as "Type - Subtype",
// or fallback when there is no type.
func typedTitle(attrs Attributes, fallback string) string {
	title := fallback
	if t := attrs.Get("type"); t != "" {
		title = upperFirst(t)
	}
	if st := attrs.Get("subtype"); st != "" {
		title += " - " + upperFirst(st)
	}
	return title
}

// parseDivisions registers the div children of parent and their subtrees.
func (p *parser) parseDivisions(parent *etree.Element, docID string, section Section) {
	for _, el := range parent.SelectElements("div") {
		p.parseDivision(el, docID, section, true)
	}
}

// parseDivision registers el before its sub-divisions, so division order
// in the store is document order. Divisions without xml:id are numbered
// div_<n> in that order.
func (p *parser) parseDivision(el *etree.Element, docID string, section Section, top bool) *Division {
	p.divSeq++
	seq := strconv.Itoa(p.divSeq)

	attrs := ProjectAttributes(el)
	d := &Division{
		ID:         attrs.Get("xml-id"),
		Document:   docID,
		Section:    section,
		IsNested:   !top && IsNestedIn(el, "div"),
		Attributes: attrs,
	}
	if d.ID == "" {
		d.ID = "div_" + seq
	}
	if corresp := attrs.Get("corresp"); corresp != "" {
		d.CorrespondsTo = strings.Fields(strings.ReplaceAll(corresp, "#", ""))
	}
	n := attrs.Get("n")
	if n == "" {
		n = seq
	}
	d.Title = typedTitle(attrs, "Div") + " " + n
	d.Label = d.Title

	p.store.AddDivision(d)
	for _, child := range el.SelectElements("div") {
		sub := p.parseDivision(child, docID, section, false)
		d.SubDivisions = append(d.SubDivisions, sub.ID)
	}
	return d
}

// parsePages registers a Page for every page break below el, in document
// order, and remembers which element produced which page.
func (p *parser) parsePages(el *etree.Element, docID string) {
	for _, pb := range descendants(el, p.cfg.Tags.PageBreak) {
		attrs := ProjectAttributes(pb)
		seq := strconv.Itoa(p.store.PageCount() + 1)

		id := attrs.Get("xml-id")
		if ed, n := attrs.Get("ed"), attrs.Get("n"); id == "" && ed != "" && n != "" {
			id = strings.Replace(ed, "#", "", 1) + "-" + n
		}
		if id == "" {
			id = "page_" + seq
		}

		label := attrs.Get("n")
		if label == "" {
			label = "Page " + seq
		}
		facs := attrs.Get("facs")
		image := facs
		if image == "" {
			image = p.cfg.SingleImagesURL + id + ".jpg"
		}

		p.store.AddPage(&Page{
			ID:         id,
			Label:      label,
			Title:      label,
			Image:      image,
			Source:     facs,
			Attributes: attrs,
		}, docID)
		p.pageOf[pb] = id
	}
}
