package tei

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/lo"
	"golang.org/x/net/html"
)

var noInfo = translate("PROJECT_INFO.NO_INFO")

// selectAll returns the elements reached from el by a chain of descendant
// steps, like the CSS selector "a b c". Each element appears once, in
// document order of discovery.
func selectAll(el *etree.Element, chain ...string) []*etree.Element {
	cur := []*etree.Element{el}
	for _, tag := range chain {
		var next []*etree.Element
		for _, c := range cur {
			next = append(next, descendants(c, tag)...)
		}
		cur = lo.Uniq(next)
	}
	return cur
}

// withAttr keeps the elements whose attribute key equals value.
func withAttr(els []*etree.Element, key, value string) []*etree.Element {
	return lo.Filter(els, func(e *etree.Element, _ int) bool {
		return e.SelectAttrValue(key, "") == value
	})
}

// sectionHeading renders a translated heading span.
func sectionHeading(class, key string) *html.Node {
	n := classed("span", class)
	n.AppendChild(newRaw(translate(key)))
	return n
}

// labeledBlock renders "<label>: value" as a block label. A non-empty,
// safe link wraps the value in an anchor.
func labeledBlock(label, value, link string) *html.Node {
	block := blockShell(label)
	if link != "" && isSafeLink(link) {
		a := newElement("a", attr("href", link), attr("target", "_blank"))
		a.AppendChild(newText(value))
		block.AppendChild(a)
	} else {
		block.AppendChild(newText(value))
	}
	return block
}

// labeledNode is labeledBlock for a rendered value.
func labeledNode(label string, value *html.Node) *html.Node {
	block := blockShell(label)
	block.AppendChild(value)
	return block
}

func blockShell(label string) *html.Node {
	block := classed("span", LabelBlock.Class())
	inline := classed("span", LabelInline.Class())
	inline.AppendChild(newRaw(translate(label) + ": "))
	block.AppendChild(inline)
	return block
}

func listItem(child *html.Node) *html.Node {
	li := classed("li", "projectInfo-listItem")
	li.AppendChild(child)
	return li
}

// frontBuilder renders the descriptive blocks shared by document front
// matter and the project information panel.
type frontBuilder struct {
	t *Transformer
}

// parseFront renders the first front element of a document.
func (b frontBuilder) parseFront(docEl *etree.Element) *Front {
	front := firstDescendant(docEl, "front")
	if front == nil {
		return nil
	}
	info := classed("div", "document-Info")
	info.AppendChild(b.fileDesc(front))
	info.AppendChild(b.profileDesc(front))
	info.AppendChild(b.revisionHistory(front))
	return &Front{
		Attributes:      ProjectAttributes(front),
		ParsedContent:   renderHTML(info),
		OriginalContent: outerXML(front),
	}
}

func (b frontBuilder) fileDesc(el *etree.Element) *html.Node {
	div := classed("div", "fileDesc")
	div.AppendChild(b.titleStatement(el))
	div.AppendChild(b.publicationStatement(el))
	div.AppendChild(b.seriesStatement(el))
	div.AppendChild(b.sourceDescription(el))
	return div
}

func (b frontBuilder) profileDesc(el *etree.Element) *html.Node {
	div := classed("div", "profileDesc")
	if corresp := b.correspondence(el); corresp != nil {
		div.AppendChild(corresp)
	}
	div.AppendChild(b.languages(el))
	return div
}

// entity renders el as a named-entity reference, or the no-info
// placeholder when el is nil.
func (b frontBuilder) entity(el *etree.Element) *html.Node {
	if el == nil {
		return newRaw(noInfo)
	}
	return b.t.EntityRef(el, el, Options{})
}

func (b frontBuilder) titleStatement(el *etree.Element) *html.Node {
	div := classed("div", "titleStatement")

	titles := selectAll(el, "titleStmt", "title")
	for i, title := range titles {
		class := LabelSectionSubHeader.Class()
		if i == 0 {
			class = LabelSectionHeader.Class()
		}
		h := classed("span", class)
		h.AppendChild(newText(textContent(title)))
		div.AppendChild(h)
	}

	for _, author := range selectAll(el, "titleStmt", "author") {
		div.AppendChild(labeledNode("PROJECT_INFO.AUTHOR", b.entity(author)))
	}

	stmts := selectAll(el, "respStmt")
	if len(stmts) == 0 {
		return div
	}
	resp := classed("div", "respStatement")
	resp.AppendChild(sectionHeading(LabelSectionSubHeader.Class(), "PROJECT_INFO.RESP_STMT"))
	for _, stmt := range stmts {
		if r := firstDescendant(stmt, "resp"); r != nil {
			label := classed("span", LabelInline.Class())
			label.AppendChild(newRaw(translate("PROJECT_INFO.RESP_"+strings.ToUpper(strings.TrimSpace(textContent(r)))) + ": "))
			resp.AppendChild(label)
		}
		people := classed("ul", "projectInfo-list")
		for _, p := range descendants(stmt, "persName") {
			people.AppendChild(listItem(b.entity(p)))
		}
		resp.AppendChild(people)
	}
	div.AppendChild(resp)
	return div
}

func (b frontBuilder) publicationStatement(el *etree.Element) *html.Node {
	div := classed("div", "publStatement")
	div.AppendChild(sectionHeading(LabelSectionSubHeader.Class(), "PROJECT_INFO.PUBLICATION_STMT"))
	for _, p := range selectAll(el, "publisher") {
		div.AppendChild(labeledBlock("PROJECT_INFO.PUBLISHER", textContent(p), ""))
	}
	for _, l := range selectAll(el, "availability", "licence") {
		div.AppendChild(labeledBlock("PROJECT_INFO.LICENCE", textContent(l), l.SelectAttrValue("target", "")))
	}
	return div
}

func (b frontBuilder) seriesStatement(el *etree.Element) *html.Node {
	div := classed("div", "seriesStatement")
	div.AppendChild(sectionHeading(LabelSectionSubHeader.Class(), "PROJECT_INFO.SERIES_STMT"))
	titles := selectAll(el, "seriesStmt", "title")
	for _, t := range withAttr(titles, "type", "main") {
		div.AppendChild(labeledBlock("PROJECT_INFO.SERIES_MAIN_TITLE", textContent(t), ""))
	}
	for _, t := range withAttr(titles, "type", "subseries") {
		div.AppendChild(labeledBlock("PROJECT_INFO.SERIES_SUB_TITLE", textContent(t), ""))
	}
	for _, u := range selectAll(el, "seriesStmt", "biblScope") {
		div.AppendChild(labeledBlock("PROJECT_INFO.SERIES_UNIT", textContent(u), ""))
	}
	return div
}

func (b frontBuilder) sourceDescription(el *etree.Element) *html.Node {
	div := classed("div", "sourceDesc")
	div.AppendChild(sectionHeading(LabelSectionSubHeader.Class(), "PROJECT_INFO.SOURCE_DESC"))
	for _, c := range selectAll(el, "sourceDesc", "country") {
		div.AppendChild(labeledBlock("PROJECT_INFO.COUNTRY", textContent(c), ""))
	}
	for _, s := range selectAll(el, "sourceDesc", "settlement") {
		div.AppendChild(labeledNode("PROJECT_INFO.SETTLEMENT", b.entity(s)))
	}
	for _, i := range selectAll(el, "sourceDesc", "institution") {
		div.AppendChild(labeledNode("PROJECT_INFO.INSTITUTION", b.entity(i)))
	}
	return div
}

// correspondence renders the correspondence description, or nil when el
// has none.
func (b frontBuilder) correspondence(el *etree.Element) *html.Node {
	if len(selectAll(el, "correspDesc")) == 0 {
		return nil
	}
	div := classed("div", "correspDesc")
	div.AppendChild(sectionHeading(LabelSectionSubHeader.Class(), "PROJECT_INFO.CORRESP_DESC"))

	actions := selectAll(el, "correspDesc", "correspAction")
	sent := withAttr(actions, "type", "sent")
	received := withAttr(actions, "type", "received")

	for _, a := range sent {
		for _, p := range descendants(a, "persName") {
			div.AppendChild(labeledNode("PROJECT_INFO.SENDER", b.entity(p)))
		}
	}
	for _, a := range sent {
		for _, d := range descendants(a, "date") {
			div.AppendChild(labeledNode("PROJECT_INFO.DATE_SENT", newRaw(b.dateText(d))))
		}
	}
	for _, a := range received {
		for _, p := range descendants(a, "persName") {
			div.AppendChild(labeledNode("PROJECT_INFO.RECEIVER", b.entity(p)))
		}
	}
	for _, a := range received {
		for _, d := range descendants(a, "date") {
			div.AppendChild(labeledNode("PROJECT_INFO.DATE_RECEIVED", newRaw(b.dateText(d))))
		}
	}
	return div
}

func (b frontBuilder) languages(el *etree.Element) *html.Node {
	div := classed("div", "langUsage")
	div.AppendChild(sectionHeading(LabelSectionSubHeader.Class(), "PROJECT_INFO.LANG_USAGE"))
	list := classed("ul", "projectInfo-list")
	for _, lang := range selectAll(el, "langUsage", "language") {
		block := classed("span", LabelBlock.Class())
		if ident := lang.SelectAttrValue("ident", ""); ident != "" {
			block.AppendChild(newText(ident))
		} else {
			block.AppendChild(newRaw(noInfo))
		}
		list.AppendChild(listItem(block))
	}
	div.AppendChild(list)
	return div
}

func (b frontBuilder) revisionHistory(el *etree.Element) *html.Node {
	div := classed("div", "revisionDesc")
	div.AppendChild(sectionHeading(LabelSectionSubHeader.Class(), "PROJECT_INFO.REVISION_HISTORY"))
	list := classed("ul", "projectInfo-list")
	changes := selectAll(el, "revisionDesc", "change")
	if el.Tag == "revisionDesc" {
		changes = descendants(el, "change")
	}
	for _, change := range changes {
		block := classed("span", LabelBlock.Class())
		block.AppendChild(newRaw(b.dateText(change) + ", " + html.EscapeString(textContent(change))))
		list.AppendChild(listItem(block))
	}
	div.AppendChild(list)
	return div
}

// dateText describes the from/to/when attributes of a dated element.
// Values are formatted with the configured date layout when they parse.
func (b frontBuilder) dateText(el *etree.Element) string {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v := el.SelectAttrValue(k, ""); v != "" {
				return formatDate(v, b.t.cfg.DateLayout)
			}
		}
		return ""
	}
	from, to, when := get("from", "from-iso"), get("to", "to-iso"), get("when", "when-iso")

	fromKey, toKey := translate("PROJECT_INFO.FROM_DATE"), translate("PROJECT_INFO.TO_DATE")
	switch {
	case from != "" && to != "":
		return fromKey + " " + html.EscapeString(from) + " " + toKey + " " + html.EscapeString(to)
	case from != "":
		return fromKey + " " + html.EscapeString(from)
	case to != "":
		return toKey + " " + html.EscapeString(to)
	case when != "":
		return html.EscapeString(when)
	}
	return translate("PROJECT_INFO.NO_DATE")
}
