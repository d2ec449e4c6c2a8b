package tei

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// maxCopyDepth bounds chains of copyOf references.
const maxCopyDepth = 16

// Context selects context-dependent behaviour of the transformer.
type Context int

const (
	// ContextText is the default context used for edition text.
	ContextText Context = iota

	// ContextProjectInfo labels every non-empty element with a translated
	// field name, as shown in the project information panel.
	ContextProjectInfo
)

// Options control one Transform call. They are inherited by the recursive
// calls on the element's children.
type Options struct {
	// Skip lists tags passed through unchanged.
	Skip TagSet

	// Exclude lists tags replaced by an empty text node.
	Exclude TagSet

	// SkipNotes disables the note rule; notes fall through to the default
	// wrapper.
	SkipNotes bool

	Context Context

	copyDepth int
}

// Transformer turns TEI source nodes into display nodes.
type Transformer struct {
	cfg   *Config
	cls   *Classifier
	ids   *IdentityResolver
	store *Store
	log   logrus.FieldLogger
}

// NewTransformer returns a Transformer using the vocabulary of cfg. The
// store supplies encoding details (line breaks, line numbering).
func NewTransformer(cfg *Config, store *Store) *Transformer {
	log := cfg.logger()
	return &Transformer{
		cfg:   cfg,
		cls:   NewClassifier(cfg),
		ids:   NewIdentityResolver(log),
		store: store,
		log:   log,
	}
}

// Transform converts tok into a display node. root is the element searched
// when resolving copyOf references; it may be nil.
//
// Text passes through with space placeholders restored. Elements are
// skipped, excluded, copied, or handed to the line, note, date and
// named-entity rules before falling back to a generic wrapper. An element
// whose rendering has no visible content yields an empty text node.
func (t *Transformer) Transform(root *etree.Element, tok etree.Token, opts Options) *html.Node {
	switch n := tok.(type) {
	case *etree.CharData:
		return newText(strings.ReplaceAll(n.Data, spacePlaceholder, " "))
	case *etree.Element:
		return t.transformElement(root, n, opts)
	}
	// Comments, directives and processing instructions are not displayed.
	return newText("")
}

// TransformHTML is Transform followed by rendering.
func (t *Transformer) TransformHTML(root *etree.Element, tok etree.Token, opts Options) string {
	return renderHTML(t.Transform(root, tok, opts))
}

// TransformInner transforms el and returns the rendered markup of the
// result's children, or "" when the element was suppressed.
func (t *Transformer) TransformInner(root, el *etree.Element, opts Options) string {
	n := t.Transform(root, el, opts)
	if n.Type != html.ElementNode {
		return ""
	}
	return innerHTML(n)
}

func (t *Transformer) transformElement(root, el *etree.Element, opts Options) *html.Node {
	if opts.Skip.Has(el.Tag) || t.cls.HasSkipMarker(el) {
		return verbatim(el)
	}
	if opts.Exclude.Has(el.Tag) {
		return newText("")
	}

	var out *html.Node
	switch {
	case el.SelectAttrValue("copyOf", "") != "":
		out = t.copyOf(root, el, opts)
	case t.cls.IsLine(el.Tag) && !t.store.Encoding().UsesLineBreaks:
		out = t.line(root, el, opts)
	case t.cls.IsNote(el.Tag) && !opts.SkipNotes:
		out = noteNode(el)
	case t.cls.IsDate(el.Tag) && len(el.Child) == 0:
		out = t.emptyDate(el)
	case t.cfg.NamedEntities && t.cls.IsNamedEntityRef(el):
		out = t.EntityRef(root, el, opts)
	default:
		out = t.wrap(root, el, opts)
	}

	if hasVisibleContent(out) || t.cls.IsPreserved(el) {
		return out
	}
	return newText("")
}

// copyOf renders the element referenced by the copyOf attribute inside a
// "copy" container. An unresolved reference leaves the container empty.
func (t *Transformer) copyOf(root, el *etree.Element, opts Options) *html.Node {
	n := classed("span", el.Tag+" copy")
	ref := strings.Replace(el.SelectAttrValue("copyOf", ""), "#", "", 1)
	if opts.copyDepth >= maxCopyDepth {
		t.log.WithField("ref", ref).Warn("tei: copyOf chain too deep")
		return n
	}
	target := findByID(root, el.Tag, ref)
	if target == nil || target == el {
		t.log.WithField("ref", ref).Debug("tei: unresolved copyOf reference")
		return n
	}
	inner := opts
	inner.copyDepth++
	n.AppendChild(t.Transform(root, target, inner))
	return n
}

// findByID returns the first element below root with the given tag and
// xml:id.
func findByID(root *etree.Element, tag, id string) *etree.Element {
	if root == nil || id == "" {
		return nil
	}
	if root.Tag == tag && elementID(root) == id {
		return root
	}
	for _, c := range descendants(root, tag) {
		if elementID(c) == id {
			return c
		}
	}
	return nil
}

// line renders a verse line as a block carrying its number badge.
func (t *Transformer) line(root, el *etree.Element, opts Options) *html.Node {
	class := el.Tag + " l-block"
	div := newElement("div", dataAttributes(el, false)...)

	content := classed("span", "lineContent")
	t.appendChildren(root, el, content, opts)

	switch n := el.SelectAttrValue("n", ""); {
	case n != "":
		class += " l-hasLineN"
		num := classed("span", "lineN")
		num.AppendChild(newText(n))
		div.AppendChild(num)
		div.AppendChild(content)
	case t.store.Encoding().LineNums:
		class += " l-indent"
		div.AppendChild(content)
	default:
		for c := content.FirstChild; c != nil; {
			next := c.NextSibling
			content.RemoveChild(c)
			div.AppendChild(c)
			c = next
		}
	}
	div.Attr = append([]html.Attribute{attr("class", class)}, div.Attr...)
	return div
}

// emptyDate lists the attributes of a childless date as
// "name: formatted-date" pairs.
func (t *Transformer) emptyDate(el *etree.Element) *html.Node {
	n := classed("span", strings.ToLower(el.Tag))
	var parts []string
	for _, a := range el.Attr {
		if isNamespaceDecl(a) || a.FullKey() == idAttr {
			continue
		}
		name := strings.ToLower(camelToSpace(projectedName(a)))
		parts = append(parts, name+": "+formatDate(a.Value, t.cfg.DateLayout))
	}
	if len(parts) > 0 {
		n.AppendChild(newText(strings.Join(parts, ", ")))
	}
	return n
}

// EntityRef renders a reference to a named entity. The entity type is the
// element's type attribute unless it is one of the generic values
// "religious" or "person", in which case the tag name is used. Children
// are transformed inheriting only the skip settings of opts.
func (t *Transformer) EntityRef(root, el *etree.Element, opts Options) *html.Node {
	n := newElement("evt-named-entity-ref")
	if id := strings.Replace(el.SelectAttrValue("ref", ""), "#", "", 1); id != "" {
		setAttr(n, "data-entity-id", id)
	}
	entityType := el.Tag
	if typ := el.SelectAttr("type"); typ != nil && typ.Value != "religious" && typ.Value != "person" {
		setAttr(n, "bibl-type", typ.Value)
		entityType = typ.Value
	}
	setAttr(n, "data-entity-type", entityType)

	inherited := Options{Skip: opts.Skip, SkipNotes: opts.SkipNotes}
	for _, c := range append([]etree.Token(nil), el.Child...) {
		n.AppendChild(t.Transform(root, c, inherited))
	}
	return n
}

// wrap is the default rule: a span (a div for div elements) classed after
// the tag, carrying the element's attributes as data- attributes.
func (t *Transformer) wrap(root, el *etree.Element, opts Options) *html.Node {
	tag := "span"
	if el.Tag == "div" {
		tag = "div"
	}
	n := classed(tag, strings.ToLower(el.Tag))
	n.Attr = append(n.Attr, dataAttributes(el, true)...)

	if el.Tag == "div" {
		id := elementID(el)
		if id == "" {
			id = strings.TrimPrefix(t.ids.XPath(el), "-")
		}
		setAttr(n, "id", id)
	}

	t.appendChildren(root, el, n, opts)

	if opts.Context == ContextProjectInfo && hasVisibleContent(n) {
		t.labelProjectInfo(el, n)
	}

	if t.cls.IsLineBreak(el.Tag) {
		if id := elementID(el); id != "" {
			setAttr(n, "id", id)
		}
		n.AppendChild(newElement("br"))
		if num := el.SelectAttrValue("n", ""); num != "" {
			badge := classed("span", "lineN")
			badge.AppendChild(newText(num))
			n.AppendChild(badge)
		}
	}
	return n
}

// labelProjectInfo prepends the translated field label of el to n. The
// change tag is additionally prefixed with its date and author.
func (t *Transformer) labelProjectInfo(el *etree.Element, n *html.Node) {
	cat := t.cls.LabelCategory(el.Tag)

	if t.cls.IsChange(el.Tag) {
		pi := t.cfg.Tags.ProjectInfo
		var prefix string
		if when := el.SelectAttrValue(pi.ChangeWhen, ""); when != "" {
			prefix += when + " "
		}
		if who := el.SelectAttrValue(pi.ChangeBy, ""); who != "" {
			prefix += "[" + who + "]"
		}
		if prefix != "" {
			n.InsertBefore(newText(prefix+" - "), n.FirstChild)
		}
	}

	if cat == LabelNone {
		return
	}
	label := classed("span", "label-"+el.Tag+" "+cat.Class())
	text := translate("PROJECT_INFO." + strings.ToUpper(camelToUnderscore(el.Tag)))
	if cat == LabelInline {
		text += ": "
	}
	label.AppendChild(newRaw(text))
	n.InsertBefore(label, n.FirstChild)
}

// appendChildren transforms every child token of el into parent. The child
// list is snapshotted first.
func (t *Transformer) appendChildren(root, el *etree.Element, parent *html.Node, opts Options) {
	for _, c := range append([]etree.Token(nil), el.Child...) {
		parent.AppendChild(t.Transform(root, c, opts))
	}
}

// hasVisibleContent reports whether the rendered inner markup of n would be
// non-blank: any element child counts, text only when not whitespace.
func hasVisibleContent(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return n != nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			return true
		case html.TextNode, html.RawNode:
			if !isBlank(c.Data) {
				return true
			}
		}
	}
	return false
}

// verbatim copies a source element into the display tree unchanged.
func verbatim(el *etree.Element) *html.Node {
	n := newElement(el.FullTag())
	for _, a := range el.Attr {
		if isNamespaceDecl(a) {
			continue
		}
		n.Attr = append(n.Attr, attr(a.FullKey(), a.Value))
	}
	for _, c := range el.Child {
		switch tok := c.(type) {
		case *etree.CharData:
			n.AppendChild(newText(tok.Data))
		case *etree.Element:
			n.AppendChild(verbatim(tok))
		}
	}
	return n
}
