package tei

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// addField records one child of an entity. Compound children are folded
// into a single labelled fragment, anything else becomes one fragment
// keyed by its tag.
func (c *entityCollector) addField(e *Entity, child *etree.Element, spec listSpec) {
	if !c.t.cls.IsCompoundField(child.Tag) {
		if child.Tag == spec.labelTag && len(child.ChildElements()) > 0 {
			c.addEach(e, child.ChildElements(), spec)
			return
		}
		c.parseAndAdd(e, child, spec)
		return
	}

	switch child.Tag {
	case "msIdentifier", "imprint":
		c.addGroup(e, child.Tag, child, c.labelledParts(child.Tag, child.ChildElements(), nil))
	case "birth", "death":
		c.addGroup(e, child.Tag, child, c.labelledParts("life", child.ChildElements(), lifeDate))
	case "event":
		c.addEvent(e, child)
	case "history":
		c.addHistory(e, child)
	case "monogr", "msContents", "origin", "provenance", "acquisition":
		kids := child.ChildElements()
		if len(kids) == 0 {
			c.parseAndAdd(e, child, spec)
			return
		}
		for _, sub := range kids {
			switch sub.Tag {
			case "imprint":
				c.addGroup(e, "imprint", sub, c.labelledParts("imprint", sub.ChildElements(), nil))
			case "msItem", "origin", "provenance", "acquisition":
				if grand := sub.ChildElements(); len(grand) > 0 {
					c.addEach(e, grand, spec)
				} else {
					c.parseAndAdd(e, sub, spec)
				}
			default:
				c.parseAndAdd(e, sub, spec)
			}
		}
	case "location", "address":
		if kids := child.ChildElements(); len(kids) > 0 {
			c.addEach(e, kids, spec)
		} else {
			c.parseAndAdd(e, child, spec)
		}
	}
}

func (c *entityCollector) addEach(e *Entity, els []*etree.Element, spec listSpec) {
	for _, el := range els {
		c.parseAndAdd(e, el, spec)
	}
}

// parseAndAdd appends child to the entity field named after its tag. A
// person name typed "copist" is filed under "copist" without its type.
// Items of the same list shape become entity references.
func (c *entityCollector) parseAndAdd(e *Entity, child *etree.Element, spec listSpec) {
	key := child.Tag
	attrs := ProjectAttributes(child)
	if child.Tag == "persName" && child.SelectAttrValue("type", "") == "copist" {
		key = "copist"
		attrs.Delete("type")
	}

	var text string
	if spec.isItem(child.Tag) {
		text = innerHTML(c.subEntity(child, spec))
	} else {
		text = c.t.TransformInner(child, child, fieldOptions)
	}
	e.Content.Add(key, Fragment{Text: text, Attributes: attrs})
}

// addGroup stores parts joined by spaces as one fragment of field. Empty
// groups are dropped.
func (c *entityCollector) addGroup(e *Entity, field string, src *etree.Element, parts []string) {
	if len(parts) == 0 {
		return
	}
	e.Content.Add(field, Fragment{
		Text:       strings.Join(parts, " "),
		Attributes: ProjectAttributes(src),
	})
}

// labelledParts renders each element as a labelled part. textOf, when set,
// may override the rendered text of an element.
func (c *entityCollector) labelledParts(class string, els []*etree.Element, textOf func(*etree.Element) string) []string {
	var parts []string
	for _, el := range els {
		text := c.t.TransformInner(el, el, fieldOptions)
		if textOf != nil {
			if s := textOf(el); s != "" {
				text = s
			}
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, labelledPart(class, el.Tag, text))
	}
	return parts
}

// lifeDate displays the ISO date attributes of a birth or death date as
// day/month/year.
func lifeDate(el *etree.Element) string {
	if el.Tag != "date" {
		return ""
	}
	for _, key := range []string{"when-iso", "notBefore-iso", "notAfter-iso"} {
		if v := el.SelectAttrValue(key, ""); v != "" {
			return isoToDMY(v)
		}
	}
	return ""
}

// labelledPart renders
//
//	<span class="C-part"><span class="C-label">{{ ('NAMED_ENTITY_FIELDS.key') | translate }}:</span> text</span>
func labelledPart(class, key, text string) string {
	part := classed("span", class+"-part")
	label := classed("span", class+"-label")
	label.AppendChild(newRaw("{{ ('NAMED_ENTITY_FIELDS." + key + "') | translate }}:"))
	part.AppendChild(label)
	part.AppendChild(newRaw(" " + text))
	return renderHTML(part)
}

// addEvent renders an event as its date range, labelled by its label child
// or followed by its ab content.
func (c *entityCollector) addEvent(e *Entity, ev *etree.Element) {
	attrs := ProjectAttributes(ev)
	notBefore, notAfter := attrs.Get("notBefore"), attrs.Get("notAfter")

	var date string
	switch {
	case notBefore != "" && notAfter != "":
		date = isoToDMY(notBefore) + " - " + isoToDMY(notAfter)
	case notBefore != "":
		date = translate("GENERIC.FROM") + " " + isoToDMY(notBefore)
	case notAfter != "":
		date = translate("GENERIC.TO") + " " + isoToDMY(notAfter)
	case attrs.Get("when") != "":
		date = isoToDMY(attrs.Get("when"))
	}

	var label, content string
	for _, sub := range ev.ChildElements() {
		switch sub.Tag {
		case "label":
			label = textContent(sub)
		case "ab":
			content = c.t.TransformInner(sub, sub, fieldOptions)
		}
	}

	var part string
	switch {
	case label != "":
		if date != "" {
			part = labelledPart("event", label, date)
		}
	case content != "":
		if date != "" {
			content += " (" + date + ")"
		}
		part = labelledPart("event", "event", content)
	case date != "":
		part = labelledPart("event", "event", date)
	}
	if part == "" {
		return
	}
	e.Content.Add("event", Fragment{Text: part, Attributes: attrs})
}

// addHistory folds the origin, provenance and acquisition records of a
// manuscript history into one field. Names of owners are labelled with
// the record they belong to.
func (c *entityCollector) addHistory(e *Entity, history *etree.Element) {
	var parts []string
	for _, rec := range history.ChildElements() {
		switch rec.Tag {
		case "origin", "provenance", "acquisition":
		default:
			continue
		}
		for _, el := range rec.ChildElements() {
			text := c.t.TransformInner(el, el, fieldOptions)
			if strings.TrimSpace(text) == "" {
				continue
			}
			key := el.Tag
			switch {
			case el.Tag == "persName" && el.SelectAttrValue("type", "") == "copist":
				key = "copist"
			case (el.Tag == "orgName" || el.Tag == "persName" || el.Tag == "placeName") &&
				(rec.Tag == "provenance" || rec.Tag == "acquisition"):
				key = rec.Tag
			}
			parts = append(parts, labelledPart("history", key, text))
		}
	}
	c.addGroup(e, "history", history, parts)
}

// subEntity renders an entity nested inside another entity as a reference
// to it. Nested lists of the same shape are rendered with subList.
func (c *entityCollector) subEntity(el *etree.Element, spec listSpec) *html.Node {
	n := newElement("evt-named-entity-ref")
	if id := strings.Replace(el.SelectAttrValue("ref", ""), "#", "", 1); id != "" {
		setAttr(n, "data-entity-id", id)
	}
	if typ := el.SelectAttrValue("type", ""); typ != "" {
		setAttr(n, "bibl-type", typ)
	}
	setAttr(n, "data-entity-type", el.Tag)

	opts := Options{SkipNotes: true}
	for _, tok := range el.Child {
		if sub, ok := tok.(*etree.Element); ok && spec.isSubList(sub.Tag) {
			n.AppendChild(c.subList(sub, opts))
			continue
		}
		n.AppendChild(c.t.Transform(el, tok, opts))
	}
	return n
}

// subList renders a list nested in an entity: a span headed by the list's
// attribute values.
func (c *entityCollector) subList(el *etree.Element, opts Options) *html.Node {
	n := classed("span", strings.ToLower(el.Tag))
	var values []string
	for _, a := range el.Attr {
		if isNamespaceDecl(a) {
			continue
		}
		n.Attr = append(n.Attr, attr("data-"+projectedName(a), a.Value))
		values = append(values, camelToSpace(a.Value))
	}
	if len(values) > 0 {
		head := classed("span", strings.ToLower(el.Tag)+"-attributes")
		head.AppendChild(newText(strings.Join(values, ", ")))
		n.AppendChild(head)
	}
	for _, tok := range el.Child {
		n.AppendChild(c.t.Transform(el, tok, opts))
	}
	return n
}
