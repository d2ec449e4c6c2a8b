package tei

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// pageContainerID is the id of the element wrapping rendered page text.
const pageContainerID = "mainContentToTranform"

// textNotAvailable replaces page text that could not be re-parsed.
const textNotAvailable = `<span> {{ 'TEXT_NOT_AVAILABLE' | translate }}</span>`

var interElementSpace = regexp.MustCompile(`>\s+<`)

// PageText returns the markup of page pageID in document docID at the
// given edition level. An empty level selects Config.DefaultEdition.
//
// The original level is the balanced source span. Other levels are
// rendered from it on first request and cached in the store. Text that
// cannot be rendered is replaced by a TEXT_NOT_AVAILABLE placeholder and
// recorded as a warning; only unknown ids are reported as errors.
func (e *Edition) PageText(pageID, docID string, level EditionLevel) (string, error) {
	if level == "" {
		level = e.cfg.DefaultEdition
	}
	if _, ok := e.store.Page(pageID); !ok {
		return "", fmt.Errorf("tei: page %s: %w", pageID, ErrPageNotFound)
	}
	if _, ok := e.store.Document(docID); !ok {
		return "", fmt.Errorf("tei: document %s: %w", docID, ErrDocumentNotFound)
	}
	if text, ok := e.store.PageText(pageID, docID, level); ok {
		return text, nil
	}

	original, _ := e.store.PageText(pageID, docID, LevelOriginal)
	if level == LevelOriginal {
		return original, nil
	}

	log := e.log.WithFields(logrus.Fields{"page": pageID, "doc": docID, "level": level})
	text := e.renderPage(original, level, log)
	e.store.SetPageText(pageID, docID, level, text)
	return text, nil
}

// PageTexts renders page pageID of document docID at every level listed in
// Config.EditionLevels.
func (e *Edition) PageTexts(pageID, docID string) (map[EditionLevel]string, error) {
	out := make(map[EditionLevel]string, len(e.cfg.EditionLevels))
	for _, level := range e.cfg.EditionLevels {
		text, err := e.PageText(pageID, docID, level)
		if err != nil {
			return nil, err
		}
		out[level] = text
	}
	return out, nil
}

func (e *Edition) renderPage(span string, level EditionLevel, log logrus.FieldLogger) string {
	src := interElementSpace.ReplaceAllString(Balance(span), ">"+spacePlaceholder+"<")

	doc := newDocument()
	wrapped := `<div id="` + pageContainerID + `" class="` + string(level) + `">` + src + `</div>`
	if err := doc.ReadFromString(wrapped); err != nil || doc.Root() == nil {
		e.warn(log.WithError(err), "page text not available at level %s", level)
		return textNotAvailable
	}
	root := doc.Root()
	tags := e.cfg.Tags

	for _, pb := range descendants(root, tags.PageBreak) {
		detach(pb)
	}
	if suffix := lineBreakSuffix(level); suffix != "" {
		for _, lb := range descendants(root, tags.LineBreak) {
			if strings.Contains(elementID(lb), suffix) {
				detach(lb)
			}
		}
	}
	for _, g := range descendants(root, tags.Glyph) {
		e.replaceGlyph(g, level)
	}
	dropBlankText(root)

	out := newElement("div", attr("id", pageContainerID), attr("class", string(level)))
	e.t.appendChildren(root, root, out, Options{Skip: NewTagSet(tags.PageBreak, tags.Glyph)})
	return strings.ReplaceAll(renderHTML(out), spacePlaceholder, " ")
}

// lineBreakSuffix returns the id suffix of line breaks belonging to the
// other edition level.
func lineBreakSuffix(level EditionLevel) string {
	switch level {
	case LevelDiplomatic:
		return "_reg"
	case LevelInterpretative:
		return "_orig"
	}
	return ""
}

// replaceGlyph swaps a glyph reference for a span holding the glyph's
// mapping at level. The interpretative level uses the normalized mapping;
// glyphs inside abbreviations or original readings keep the diplomatic
// one. References to unknown glyphs are left in place.
func (e *Edition) replaceGlyph(g *etree.Element, level EditionLevel) {
	if level == LevelInterpretative {
		level = LevelNormalized
	}
	if IsNestedIn(g, "abbr") || IsNestedIn(g, "orig") {
		level = LevelDiplomatic
	}
	id := strings.Replace(g.SelectAttrValue("ref", ""), "#", "", 1)
	m, ok := e.store.GlyphMapping(id, level)
	if !ok {
		return
	}

	span := etree.NewElement("span")
	span.CreateAttr("class", "glyph")
	mapped := newDocument()
	if err := mapped.ReadFromString(m.Element); err == nil && mapped.Root() != nil {
		span.AddChild(mapped.Root())
	} else {
		span.CreateText(m.Content)
	}

	parent := g.Parent()
	i := g.Index()
	parent.RemoveChildAt(i)
	parent.InsertChildAt(i, span)
}

// dropBlankText removes whitespace-only character data below el.
func dropBlankText(el *etree.Element) {
	for _, c := range append([]etree.Token(nil), el.Child...) {
		switch tok := c.(type) {
		case *etree.CharData:
			if tok.IsWhitespace() {
				el.RemoveChild(tok)
			}
		case *etree.Element:
			dropBlankText(tok)
		}
	}
}
