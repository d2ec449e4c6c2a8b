package tei

import (
	"github.com/beevik/etree"
)

// EditionLevel names one of the parallel renderings of the same text.
type EditionLevel string

// Edition levels understood by the page text transformation.
const (
	LevelOriginal       EditionLevel = "original"
	LevelDiplomatic     EditionLevel = "diplomatic"
	LevelInterpretative EditionLevel = "interpretative"
	LevelNormalized     EditionLevel = "normalized"
)

// CollectionType is the kind of entities a Collection groups.
type CollectionType string

// Collection types produced by the named entity collector.
const (
	CollectionPlace       CollectionType = "place"
	CollectionPerson      CollectionType = "person"
	CollectionOrg         CollectionType = "org"
	CollectionManuscripts CollectionType = "manuscripts"
	CollectionPrints      CollectionType = "prints"
	CollectionGeneric     CollectionType = "generic"
	CollectionRelation    CollectionType = "relation"
)

// Section is the part of a document a division belongs to.
type Section string

// Document sections.
const (
	SectionFront Section = "front"
	SectionBody  Section = "body"
	SectionBack  Section = "back"
)

// Attributes is a flat projection of an element's attribute set.
// Keys have their namespace colon replaced with a hyphen ("xml:id" becomes
// "xml-id"); Order lists the keys in source order.
type Attributes struct {
	Values map[string]string
	Order  []string
}

// Get returns the value of the projected attribute key, or "".
func (a Attributes) Get(key string) string {
	return a.Values[key]
}

// Has reports whether the projected attribute key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a.Values[key]
	return ok
}

// Len returns the number of projected attributes.
func (a Attributes) Len() int {
	return len(a.Order)
}

// Delete removes key from the projection, keeping the order of the rest.
func (a *Attributes) Delete(key string) {
	if _, ok := a.Values[key]; !ok {
		return
	}
	delete(a.Values, key)
	for i, k := range a.Order {
		if k == key {
			a.Order = append(a.Order[:i], a.Order[i+1:]...)
			break
		}
	}
}

func (a *Attributes) set(key, value string) {
	if a.Values == nil {
		a.Values = make(map[string]string)
	}
	if _, ok := a.Values[key]; !ok {
		a.Order = append(a.Order, key)
	}
	a.Values[key] = value
}

// Fragment is one rendered piece of an entity field.
type Fragment struct {
	// Text is display markup (HTML, possibly with translation placeholders).
	Text string

	// Attributes are the projected attributes of the source element.
	Attributes Attributes
}

// Content is an ordered mapping from field name to fragments.
type Content struct {
	Fields map[string][]Fragment
	Order  []string
}

// Add appends f to field, registering the field in Order on first use.
func (c *Content) Add(field string, f Fragment) {
	if c.Fields == nil {
		c.Fields = make(map[string][]Fragment)
	}
	if _, ok := c.Fields[field]; !ok {
		c.Order = append(c.Order, field)
	}
	c.Fields[field] = append(c.Fields[field], f)
}

// Get returns the fragments recorded under field.
func (c Content) Get(field string) []Fragment {
	return c.Fields[field]
}

// MapCoords is a geocoordinate pair parsed from a geo element.
type MapCoords struct {
	Lat string
	Lng string
}

// Entity is a named entity record (person, place, organisation,
// bibliographic item, generic item or relation).
type Entity struct {
	// ID is unique within the entity's collection.
	ID string

	// Label is the derived display string (may contain markup).
	Label string

	// Content holds the entity fields in source order.
	Content Content

	// ListPosition is the single lowercase character used to bucket the
	// entity for alphabetical list display.
	ListPosition string

	// SourceMarkup is the original markup of the entity, namespace-stripped.
	// Relations mentioning the entity append their own markup to it.
	SourceMarkup string

	// SameAs is the sameAs cross-reference, if present.
	SameAs string

	// Map is set for places whose markup carries a geo element with
	// exactly two coordinates.
	Map *MapCoords
}

// Collection groups entities of the same kind.
type Collection struct {
	ID    string
	Type  CollectionType
	Title string
}

// Front is the parsed front matter of a document.
type Front struct {
	Attributes      Attributes
	ParsedContent   string
	OriginalContent string
}

// Document is one text detected in the edition.
type Document struct {
	ID    string
	Label string
	Title string

	// Attributes are the projected attributes of the document element.
	Attributes Attributes

	// Content is the document root element in the source tree.
	Content *etree.Element

	// Pages lists page ids in discovery order.
	Pages []string

	// Divisions lists top-level division ids in source order.
	Divisions []string

	Front *Front
}

// Division is a structural section of a document.
type Division struct {
	ID       string
	Document string
	Section  Section
	Title    string
	Label    string

	// SubDivisions lists child division ids in source order.
	SubDivisions []string

	// CorrespondsTo lists the witness ids named by the corresp attribute.
	CorrespondsTo []string

	// IsNested is true when the division sits inside another division.
	IsNested bool

	Attributes Attributes
}

// Page is one facsimile page delimited by page-break elements.
type Page struct {
	ID     string
	Label  string
	Title  string
	Image  string
	Source string

	Attributes Attributes

	// texts holds per-document, per-edition-level markup.
	texts map[string]map[EditionLevel]string
	lines map[string][]string
}

// Glyph is a non-standard character with per-edition mappings.
type Glyph struct {
	ID           string
	SourceMarkup string
	Rendered     string
	Mapping      map[string]GlyphMapping
}

// GlyphMapping is the rendering of a glyph for one edition level.
type GlyphMapping struct {
	Element    string
	Content    string
	Attributes Attributes
}

// Witness is a text witness declared in a listWit.
type Witness struct {
	ID      string
	Corresp string
}

// PageRef describes a page where a named entity is mentioned.
type PageRef struct {
	PageID    string
	PageLabel string
	DocID     string
	DocLabel  string
}

// EncodingDetails records how the edition encodes lines and variants.
type EncodingDetails struct {
	UsesLineBreaks          bool
	LineNums                bool
	VariantEncodingMethod   string
	VariantEncodingLocation string
}

// EditionReference is the short bibliographic reference of the edition.
type EditionReference struct {
	Title     string
	Author    string
	Publisher string
}

// ProjectInfo holds the rendered sections of the teiHeader.
type ProjectInfo struct {
	EditionReference    EditionReference
	FileDescription     string
	EncodingDescription string
	TextProfile         string
	OutsideMetadata     string
	RevisionHistory     string
	MsDesc              string
	ListObject          string
}

// Quire is a gathering of a manuscript collation model.
type Quire struct {
	// ID is the xml:id of the quire, or its N when it has none.
	ID string
	N  string

	// Leaves lists the ids of the leaves of the quire in model order.
	Leaves []string

	// DiagramFile names the SVG diagram of the quire,
	// "id-<shelfmark>-<n>.svg", when the model declares a shelfmark.
	DiagramFile string
}

// Leaf is one leaf of a quire.
type Leaf struct {
	ID          string
	Quire       string
	LeafNo      string
	FolioNumber string

	// Conjoin is the id of the leaf sharing the bifolium.
	Conjoin string

	// Mode is the leaf mode such as "original", "added" or "missing".
	Mode string
}

// ImageListItem is one side of a leaf in the collation image list.
// Image ids name a leaf followed by "-r" or "-v".
type ImageListItem struct {
	ID    string
	Value string
	URL   string

	// Conjoin is the image id of the facing side of the conjoined leaf,
	// and ConjoinURL its URL.
	Conjoin    string
	ConjoinURL string
}

// QuireDiagram is the SVG diagram of a quire with the leaves it draws.
type QuireDiagram struct {
	QuireID string
	QuireN  string
	Leaves  []DiagramLeaf
	Markup  string
}

// DiagramLeaf is a leaf drawn in a quire diagram and the images of its
// sides, in image-list order.
type DiagramLeaf struct {
	ID     string
	Images []LeafImage
}

// LeafImage is one side of a diagram leaf. ConjoinID is the value of the
// image whose conjoin is this side.
type LeafImage struct {
	ImageID    string
	URL        string
	ConjoinURL string
	ConjoinID  string
}
