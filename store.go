package tei

import (
	"github.com/samber/lo"
)

// entityCollection is a Collection with its entities bucketed by
// listPosition. Buckets keep insertion order.
type entityCollection struct {
	info      Collection
	buckets   map[string][]*Entity
	positions []string
	byID      map[string]*Entity
}

// insert appends e to the bucket of its listPosition.
func (c *entityCollection) insert(e *Entity) {
	if _, seen := c.buckets[e.ListPosition]; !seen {
		c.positions = append(c.positions, e.ListPosition)
	}
	c.buckets[e.ListPosition] = append(c.buckets[e.ListPosition], e)
}

// remove drops e from its bucket; an emptied bucket loses its position.
func (c *entityCollection) remove(e *Entity) {
	pos := e.ListPosition
	bucket := lo.Without(c.buckets[pos], e)
	if len(bucket) > 0 {
		c.buckets[pos] = bucket
		return
	}
	delete(c.buckets, pos)
	c.positions = lo.Without(c.positions, pos)
}

// Store is the parsed data model of one edition. It is written by the
// parser components during a single parse session and read afterwards.
//
// A Store is not safe for concurrent use by multiple goroutines.
type Store struct {
	collections     map[string]*entityCollection
	collectionOrder []string
	entities        map[string]*Entity
	entityOwner     map[string]string

	documents map[string]*Document
	docOrder  []string

	divisions map[string]*Division
	divOrder  []string

	pages     map[string]*Page
	pageOrder []string

	glyphs     map[string]*Glyph
	glyphOrder []string

	witnesses    map[string]Witness
	witnessOrder []string

	quires     map[string]*Quire
	quireOrder []string
	leaves     map[string]*Leaf
	leafOrder  []string
	images     map[string]*ImageListItem
	imageOrder []string
	diagrams   map[string]*QuireDiagram

	encoding    EncodingDetails
	projectInfo ProjectInfo
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*entityCollection),
		entities:    make(map[string]*Entity),
		entityOwner: make(map[string]string),
		documents:   make(map[string]*Document),
		divisions:   make(map[string]*Division),
		pages:       make(map[string]*Page),
		glyphs:      make(map[string]*Glyph),
		witnesses:   make(map[string]Witness),
		quires:      make(map[string]*Quire),
		leaves:      make(map[string]*Leaf),
		images:      make(map[string]*ImageListItem),
		diagrams:    make(map[string]*QuireDiagram),
	}
}

// ---------------------------------------------------------------------------
// Named entities
// ---------------------------------------------------------------------------

// AddNamedEntity inserts e into the collection described by c, creating the
// collection on first use, under the bucket e.ListPosition. An entity id
// already present in the same collection is replaced: in place when its
// listPosition is unchanged, else moved to the end of its new bucket.
// Entity ids are global: a later collection reusing an id takes over
// NamedEntity lookups for it.
func (s *Store) AddNamedEntity(c Collection, e *Entity) {
	coll, ok := s.collections[c.ID]
	if !ok {
		coll = &entityCollection{
			info:    c,
			buckets: make(map[string][]*Entity),
			byID:    make(map[string]*Entity),
		}
		s.collections[c.ID] = coll
		s.collectionOrder = append(s.collectionOrder, c.ID)
	}
	old, exists := coll.byID[e.ID]
	switch {
	case exists && old.ListPosition == e.ListPosition:
		bucket := coll.buckets[old.ListPosition]
		for i := range bucket {
			if bucket[i] == old {
				bucket[i] = e
			}
		}
	case exists:
		coll.remove(old)
		coll.insert(e)
	default:
		coll.insert(e)
	}
	coll.byID[e.ID] = e
	s.entities[e.ID] = e
	s.entityOwner[e.ID] = c.ID
}

// NamedEntity returns the entity with the given id from any collection.
func (s *Store) NamedEntity(id string) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// NamedEntityCollection returns the collection owning entity id.
func (s *Store) NamedEntityCollection(id string) (Collection, bool) {
	cid, ok := s.entityOwner[id]
	if !ok {
		return Collection{}, false
	}
	return s.collections[cid].info, true
}

// AppendEntityField appends f to field of entity id and extends its source
// markup with extraSource. It reports false when the id is unknown.
func (s *Store) AppendEntityField(id, field string, f Fragment, extraSource string) bool {
	e, ok := s.entities[id]
	if !ok {
		return false
	}
	e.Content.Add(field, f)
	e.SourceMarkup += extraSource
	return true
}

// Collection returns the collection metadata for id.
func (s *Store) Collection(id string) (Collection, bool) {
	c, ok := s.collections[id]
	if !ok {
		return Collection{}, false
	}
	return c.info, true
}

// Collections returns every collection in creation order.
func (s *Store) Collections() []Collection {
	return lo.Map(s.collectionOrder, func(id string, _ int) Collection {
		return s.collections[id].info
	})
}

// CollectionEntity returns entity id from collection collID.
func (s *Store) CollectionEntity(collID, id string) (*Entity, bool) {
	c, ok := s.collections[collID]
	if !ok {
		return nil, false
	}
	e, ok := c.byID[id]
	return e, ok
}

// ListPositions returns the listPosition buckets of a collection in the
// order they were first used.
func (s *Store) ListPositions(collID string) []string {
	c, ok := s.collections[collID]
	if !ok {
		return nil
	}
	return append([]string(nil), c.positions...)
}

// EntitiesAt returns the entities of a collection bucketed under pos, in
// insertion order.
func (s *Store) EntitiesAt(collID, pos string) []*Entity {
	c, ok := s.collections[collID]
	if !ok {
		return nil
	}
	return append([]*Entity(nil), c.buckets[pos]...)
}

// CollectionEntities returns every entity of a collection, bucket by
// bucket.
func (s *Store) CollectionEntities(collID string) []*Entity {
	c, ok := s.collections[collID]
	if !ok {
		return nil
	}
	var out []*Entity
	for _, pos := range c.positions {
		out = append(out, c.buckets[pos]...)
	}
	return out
}

// ---------------------------------------------------------------------------
// Documents and divisions
// ---------------------------------------------------------------------------

// AddDocument registers d. Its position in the document order is fixed at
// the first insertion.
func (s *Store) AddDocument(d *Document) {
	if _, ok := s.documents[d.ID]; !ok {
		s.docOrder = append(s.docOrder, d.ID)
	}
	s.documents[d.ID] = d
}

// Document returns the document with the given id.
func (s *Store) Document(id string) (*Document, bool) {
	d, ok := s.documents[id]
	return d, ok
}

// Documents returns all documents in detection order.
func (s *Store) Documents() []*Document {
	return lo.Map(s.docOrder, func(id string, _ int) *Document { return s.documents[id] })
}

// DocumentCount returns the number of documents registered so far.
func (s *Store) DocumentCount() int { return len(s.docOrder) }

// PreviousDocument returns the document detected just before id.
func (s *Store) PreviousDocument(id string) (*Document, bool) {
	i := lo.IndexOf(s.docOrder, id)
	if i <= 0 {
		return nil, false
	}
	return s.documents[s.docOrder[i-1]], true
}

// AddDivision registers d under its document. Top-level divisions are
// appended to the document's division list.
func (s *Store) AddDivision(d *Division) {
	if _, ok := s.divisions[d.ID]; !ok {
		s.divOrder = append(s.divOrder, d.ID)
	}
	s.divisions[d.ID] = d
	if doc, ok := s.documents[d.Document]; ok && !d.IsNested {
		if !lo.Contains(doc.Divisions, d.ID) {
			doc.Divisions = append(doc.Divisions, d.ID)
		}
	}
}

// Division returns the division with the given id.
func (s *Store) Division(id string) (*Division, bool) {
	d, ok := s.divisions[id]
	return d, ok
}

// Divisions returns every division in registration order.
func (s *Store) Divisions() []*Division {
	return lo.Map(s.divOrder, func(id string, _ int) *Division { return s.divisions[id] })
}

// DivisionCount returns the number of divisions registered so far.
func (s *Store) DivisionCount() int { return len(s.divOrder) }

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

// AddPage registers p and appends it to the page list of document docID.
func (s *Store) AddPage(p *Page, docID string) {
	if existing, ok := s.pages[p.ID]; ok {
		p = existing
	} else {
		s.pages[p.ID] = p
		s.pageOrder = append(s.pageOrder, p.ID)
	}
	if doc, ok := s.documents[docID]; ok && !lo.Contains(doc.Pages, p.ID) {
		doc.Pages = append(doc.Pages, p.ID)
	}
}

// Page returns the page with the given id.
func (s *Store) Page(id string) (*Page, bool) {
	p, ok := s.pages[id]
	return p, ok
}

// Pages returns every page in discovery order.
func (s *Store) Pages() []*Page {
	return lo.Map(s.pageOrder, func(id string, _ int) *Page { return s.pages[id] })
}

// PageCount returns the number of pages registered so far.
func (s *Store) PageCount() int { return len(s.pageOrder) }

// DocumentPages returns the pages of document docID in order.
func (s *Store) DocumentPages(docID string) []*Page {
	doc, ok := s.documents[docID]
	if !ok {
		return nil
	}
	return lo.FilterMap(doc.Pages, func(id string, _ int) (*Page, bool) {
		p, ok := s.pages[id]
		return p, ok
	})
}

// SetPageText stores the markup of page pageID for document docID at the
// given edition level.
func (s *Store) SetPageText(pageID, docID string, level EditionLevel, text string) {
	p, ok := s.pages[pageID]
	if !ok {
		return
	}
	if p.texts == nil {
		p.texts = make(map[string]map[EditionLevel]string)
	}
	if p.texts[docID] == nil {
		p.texts[docID] = make(map[EditionLevel]string)
	}
	p.texts[docID][level] = text
}

// PageText returns the stored markup of a page for a document and level.
func (s *Store) PageText(pageID, docID string, level EditionLevel) (string, bool) {
	p, ok := s.pages[pageID]
	if !ok || p.texts == nil {
		return "", false
	}
	t, ok := p.texts[docID][level]
	return t, ok
}

// SetPageLines stores the balanced line spans of a page.
func (s *Store) SetPageLines(pageID, docID string, lines []string) {
	p, ok := s.pages[pageID]
	if !ok {
		return
	}
	if p.lines == nil {
		p.lines = make(map[string][]string)
	}
	p.lines[docID] = lines
}

// PageLines returns the line spans of a page for a document.
func (s *Store) PageLines(pageID, docID string) []string {
	p, ok := s.pages[pageID]
	if !ok {
		return nil
	}
	return append([]string(nil), p.lines[docID]...)
}

// ---------------------------------------------------------------------------
// Collation
// ---------------------------------------------------------------------------

// AddQuire registers q. A quire id seen before is replaced, keeping its
// leaves.
func (s *Store) AddQuire(q *Quire) {
	if old, ok := s.quires[q.ID]; ok {
		q.Leaves = append(old.Leaves, q.Leaves...)
	} else {
		s.quireOrder = append(s.quireOrder, q.ID)
	}
	s.quires[q.ID] = q
}

// Quire returns the quire with the given id.
func (s *Store) Quire(id string) (*Quire, bool) {
	q, ok := s.quires[id]
	return q, ok
}

// Quires returns every quire in model order.
func (s *Store) Quires() []*Quire {
	return lo.Map(s.quireOrder, func(id string, _ int) *Quire { return s.quires[id] })
}

// AddLeaf registers l and appends it to the leaves of its quire. It
// reports false when the quire is unknown; the leaf is stored anyway.
func (s *Store) AddLeaf(l *Leaf) bool {
	if _, ok := s.leaves[l.ID]; !ok {
		s.leafOrder = append(s.leafOrder, l.ID)
	}
	s.leaves[l.ID] = l
	q, ok := s.quires[l.Quire]
	if !ok {
		return false
	}
	if !lo.Contains(q.Leaves, l.ID) {
		q.Leaves = append(q.Leaves, l.ID)
	}
	return true
}

// Leaf returns the leaf with the given id.
func (s *Store) Leaf(id string) (*Leaf, bool) {
	l, ok := s.leaves[id]
	return l, ok
}

// Leaves returns every leaf in model order, including leaves of unknown
// quires.
func (s *Store) Leaves() []*Leaf {
	return lo.Map(s.leafOrder, func(id string, _ int) *Leaf { return s.leaves[id] })
}

// QuireLeaves returns the leaves of a quire in model order.
func (s *Store) QuireLeaves(quireID string) []*Leaf {
	q, ok := s.quires[quireID]
	if !ok {
		return nil
	}
	return lo.FilterMap(q.Leaves, func(id string, _ int) (*Leaf, bool) {
		l, ok := s.leaves[id]
		return l, ok
	})
}

// AddImage registers an image-list entry.
func (s *Store) AddImage(img *ImageListItem) {
	if _, ok := s.images[img.ID]; !ok {
		s.imageOrder = append(s.imageOrder, img.ID)
	}
	s.images[img.ID] = img
}

// Image returns the image-list entry with the given id.
func (s *Store) Image(id string) (*ImageListItem, bool) {
	img, ok := s.images[id]
	return img, ok
}

// ImageList returns the image list in source order.
func (s *Store) ImageList() []*ImageListItem {
	return lo.Map(s.imageOrder, func(id string, _ int) *ImageListItem { return s.images[id] })
}

// AddQuireDiagram stores the diagram of quire d.QuireID.
func (s *Store) AddQuireDiagram(d *QuireDiagram) {
	s.diagrams[d.QuireID] = d
}

// QuireDiagram returns the diagram of a quire.
func (s *Store) QuireDiagram(quireID string) (*QuireDiagram, bool) {
	d, ok := s.diagrams[quireID]
	return d, ok
}

// ---------------------------------------------------------------------------
// Glyphs, witnesses, encoding and project info
// ---------------------------------------------------------------------------

// AddGlyph registers g.
func (s *Store) AddGlyph(g *Glyph) {
	if _, ok := s.glyphs[g.ID]; !ok {
		s.glyphOrder = append(s.glyphOrder, g.ID)
	}
	s.glyphs[g.ID] = g
}

// Glyph returns the glyph with the given id.
func (s *Store) Glyph(id string) (*Glyph, bool) {
	g, ok := s.glyphs[id]
	return g, ok
}

// Glyphs returns every glyph in document order.
func (s *Store) Glyphs() []*Glyph {
	return lo.Map(s.glyphOrder, func(id string, _ int) *Glyph { return s.glyphs[id] })
}

// GlyphMapping returns the mapping of glyph id for an edition level.
func (s *Store) GlyphMapping(id string, level EditionLevel) (GlyphMapping, bool) {
	g, ok := s.glyphs[id]
	if !ok {
		return GlyphMapping{}, false
	}
	m, ok := g.Mapping[string(level)]
	return m, ok
}

// AddWitness registers w.
func (s *Store) AddWitness(w Witness) {
	if _, ok := s.witnesses[w.ID]; !ok {
		s.witnessOrder = append(s.witnessOrder, w.ID)
	}
	s.witnesses[w.ID] = w
}

// Witnesses returns the registered witness ids in order.
func (s *Store) Witnesses() []string {
	return append([]string(nil), s.witnessOrder...)
}

// Witness returns the witness with the given id.
func (s *Store) Witness(id string) (Witness, bool) {
	w, ok := s.witnesses[id]
	return w, ok
}

// Encoding returns the encoding details detected in the edition.
func (s *Store) Encoding() EncodingDetails { return s.encoding }

// SetEncoding replaces the encoding details.
func (s *Store) SetEncoding(e EncodingDetails) { s.encoding = e }

// ProjectInfo returns the rendered teiHeader sections.
func (s *Store) ProjectInfo() ProjectInfo { return s.projectInfo }

// updateProjectInfo applies fn to the stored project info.
func (s *Store) updateProjectInfo(fn func(*ProjectInfo)) { fn(&s.projectInfo) }
