package tei

import (
	"strings"

	"github.com/beevik/etree"
	mapset "github.com/deckarep/golang-set/v2"
)

// TagSet is a case-insensitive set of tag names.
type TagSet struct {
	set mapset.Set[string]
}

// NewTagSet builds a TagSet from tag names. Empty names are ignored.
func NewTagSet(tags ...string) TagSet {
	s := mapset.NewThreadUnsafeSet[string]()
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			s.Add(t)
		}
	}
	return TagSet{set: s}
}

// Has reports whether tag is in the set.
func (t TagSet) Has(tag string) bool {
	if t.set == nil || tag == "" {
		return false
	}
	return t.set.Contains(strings.ToLower(tag))
}

// With returns a new set holding the members of t plus tags.
func (t TagSet) With(tags ...string) TagSet {
	out := NewTagSet(tags...)
	if t.set != nil {
		out.set = out.set.Union(t.set)
	}
	return out
}

// Len returns the number of tags in the set.
func (t TagSet) Len() int {
	if t.set == nil {
		return 0
	}
	return t.set.Cardinality()
}

// LabelCategory is the styling category of a project-info label.
type LabelCategory int

// Label categories in priority order.
const (
	LabelNone LabelCategory = iota
	LabelSectionHeader
	LabelSectionSubHeader
	LabelBlock
	LabelInline
)

// Class returns the CSS class used for the category.
func (c LabelCategory) Class() string {
	switch c {
	case LabelSectionHeader:
		return "projectInfo-sectionHeader"
	case LabelSectionSubHeader:
		return "projectInfo-sectionSubHeader"
	case LabelBlock:
		return "projectInfo-blockLabel"
	case LabelInline:
		return "projectInfo-inlineLabel"
	}
	return ""
}

// compoundFields are the entity children whose grandchildren are folded
// into one labelled fragment.
var compoundFields = NewTagSet(
	"msIdentifier", "imprint", "birth", "death", "history", "event",
	"monogr", "msContents", "origin", "provenance", "acquisition", "location", "address",
)

// Classifier answers what a tag means in context. It holds only the tag
// sets compiled from a Config and is safe to share.
type Classifier struct {
	tags TagConfig

	namedEntities     TagSet
	sectionHeaders    TagSet
	sectionSubHeaders TagSet
	blockLabels       TagSet
	inlineLabels      TagSet
	skipMarkers       []string
}

// NewClassifier compiles the tag vocabulary of cfg.
func NewClassifier(cfg *Config) *Classifier {
	t := cfg.Tags
	return &Classifier{
		tags:              t,
		namedEntities:     NewTagSet(t.NamedEntities...),
		sectionHeaders:    NewTagSet(t.ProjectInfo.SectionHeaders...),
		sectionSubHeaders: NewTagSet(t.ProjectInfo.SectionSubHeaders...),
		blockLabels:       NewTagSet(t.ProjectInfo.BlockLabels...),
		inlineLabels:      NewTagSet(t.ProjectInfo.InlineLabels...),
		skipMarkers:       t.SkipMarkers,
	}
}

// IsLine reports whether tag is the verse line tag.
func (c *Classifier) IsLine(tag string) bool { return strings.EqualFold(tag, c.tags.Line) }

// IsLineBreak reports whether tag is the line-break tag.
func (c *Classifier) IsLineBreak(tag string) bool { return strings.EqualFold(tag, c.tags.LineBreak) }

// IsPageBreak reports whether tag is the page-break tag.
func (c *Classifier) IsPageBreak(tag string) bool { return strings.EqualFold(tag, c.tags.PageBreak) }

// IsNote reports whether tag is the note tag.
func (c *Classifier) IsNote(tag string) bool { return strings.EqualFold(tag, c.tags.Note) }

// IsDate reports whether tag is the date tag.
func (c *Classifier) IsDate(tag string) bool { return strings.EqualFold(tag, c.tags.Date) }

// IsGlyph reports whether tag is the glyph reference tag.
func (c *Classifier) IsGlyph(tag string) bool { return strings.EqualFold(tag, c.tags.Glyph) }

// IsChange reports whether tag is the revision change tag labelled with
// its date and author in project info.
func (c *Classifier) IsChange(tag string) bool {
	return strings.EqualFold(tag, c.tags.ProjectInfo.Change)
}

// IsNamedEntityRef reports whether el is a reference to a named entity:
// a tag of the named-entity set carrying a ref attribute.
func (c *Classifier) IsNamedEntityRef(el *etree.Element) bool {
	return c.namedEntities.Has(el.Tag) && el.SelectAttr("ref") != nil
}

// IsCompoundField reports whether an entity child with this tag is folded
// into a single labelled field.
func (c *Classifier) IsCompoundField(tag string) bool {
	return compoundFields.Has(tag)
}

// HasSkipMarker reports whether el carries one of the reserved classes
// that make it pass through the transformer unchanged.
func (c *Classifier) HasSkipMarker(el *etree.Element) bool {
	class := el.SelectAttrValue("class", "")
	if class == "" {
		return false
	}
	for _, m := range c.skipMarkers {
		if strings.Contains(class, m) {
			return true
		}
	}
	return false
}

// IsPreserved reports whether el carries a depa anchor or content class;
// such elements survive the empty-result suppression.
func (c *Classifier) IsPreserved(el *etree.Element) bool {
	class := el.SelectAttrValue("class", "")
	return strings.Contains(class, "depaAnchor") || strings.Contains(class, "depaContent")
}

// LabelCategory returns the project-info label category of tag.
func (c *Classifier) LabelCategory(tag string) LabelCategory {
	switch {
	case c.sectionHeaders.Has(tag):
		return LabelSectionHeader
	case c.sectionSubHeaders.Has(tag):
		return LabelSectionSubHeader
	case c.blockLabels.Has(tag):
		return LabelBlock
	case c.inlineLabels.Has(tag):
		return LabelInline
	}
	return LabelNone
}

// IsNestedIn reports whether el has an ancestor tagged ancestorTag below
// the nearest text element. The walk stops at the text element or at the
// top of the tree.
func IsNestedIn(el *etree.Element, ancestorTag string) bool {
	if el == nil {
		return false
	}
	for p := el.Parent(); p != nil && p.Tag != ""; p = p.Parent() {
		if p.Tag == "text" {
			return false
		}
		if p.Tag == ancestorTag {
			return true
		}
	}
	return false
}
