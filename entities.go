package tei

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// listsRoot is the element whose direct children are scanned for entity
// lists.
const listsRoot = "sourceDesc"

// staffType marks lists and items hidden from entity collections.
const staffType = "staff"

// listSpec describes one entity-list shape.
type listSpec struct {
	container string
	items     []string
	labelTag  string
	typ       CollectionType

	// typed containers only match when their type attribute equals typ.
	typed bool
}

func (s listSpec) isItem(tag string) bool { return lo.Contains(s.items, tag) }

// isSubList reports whether tag is the container tag of the shape.
func (s listSpec) isSubList(tag string) bool { return strings.EqualFold(tag, s.container) }

var listSpecs = []listSpec{
	{container: "listPlace", items: []string{"place"}, labelTag: "placeName", typ: CollectionPlace},
	{container: "listPerson", items: []string{"person"}, labelTag: "persName", typ: CollectionPerson},
	{container: "listOrg", items: []string{"org"}, labelTag: "orgName", typ: CollectionOrg},
	{container: "listBibl", items: []string{"msDesc", "biblStruct"}, labelTag: "title", typ: CollectionManuscripts, typed: true},
	{container: "listBibl", items: []string{"biblStruct"}, labelTag: "title", typ: CollectionPrints, typed: true},
	{container: "list", items: []string{"item"}, typ: CollectionGeneric},
}

// fieldOptions render entity labels and fields. Nested names are kept
// verbatim so a label never recurses into entity references.
var fieldOptions = Options{
	Skip:      NewTagSet("persName", "orgName", "placeName"),
	SkipNotes: true,
}

// entityCollector extracts named entities and relations from the lists of
// the source description into a Store.
type entityCollector struct {
	t     *Transformer
	store *Store
	ids   *IdentityResolver
	log   logrus.FieldLogger
}

func newEntityCollector(t *Transformer) *entityCollector {
	return &entityCollector{t: t, store: t.store, ids: t.ids, log: t.log}
}

// collect walks every list shape under the source description. Consumed
// containers are detached from the tree. Relations found inside the lists
// are linked once all entities are known.
func (c *entityCollector) collect(root *etree.Element) {
	roots := descendants(root, listsRoot)
	if root.Tag == listsRoot {
		roots = append([]*etree.Element{root}, roots...)
	}

	// Relation identities depend on the tree, so they are captured before
	// any container is detached.
	relations := c.snapshotRelations(roots)

	for _, spec := range listSpecs {
		for _, sd := range roots {
			for _, list := range sd.ChildElements() {
				if list.Tag != spec.container {
					continue
				}
				c.collectContainer(list, spec)
			}
		}
	}

	if len(relations) == 0 {
		return
	}
	coll := Collection{ID: "parsedRelations", Type: CollectionRelation, Title: "LISTS.RELATION"}
	for _, rel := range relations {
		c.linkRelation(rel, coll)
	}
}

// collectContainer processes one top-level list container and detaches it.
func (c *entityCollector) collectContainer(list *etree.Element, spec listSpec) {
	if IsNestedIn(list, list.Tag) {
		return
	}
	typ := list.SelectAttrValue("type", "")
	if spec.typed && typ != string(spec.typ) {
		return
	}
	listID := elementID(list)
	if spec.typ == CollectionGeneric && listID == "" {
		c.log.WithField("xpath", c.ids.XPath(list)).Debug("tei: skipping generic list without xml:id")
		return
	}
	if typ == staffType {
		return
	}
	if listID == "" {
		listID = c.ids.XPath(list)
	}

	def := Collection{
		ID:    collectionID(list, listID),
		Type:  spec.typ,
		Title: "LISTS." + strings.ToUpper(string(spec.typ)),
	}
	current := def
	for _, child := range list.ChildElements() {
		if child.Tag == "head" {
			if id := headingID(child); id != "" {
				current.ID = id
			}
			continue
		}
		c.collectChild(child, spec, current)
	}
	detach(list)
}

// collectChild handles one child of a list: a nested list of the same
// shape is descended into, an item becomes an entity of coll.
func (c *entityCollector) collectChild(child *etree.Element, spec listSpec, coll Collection) {
	switch {
	case spec.isSubList(child.Tag):
		c.collectSubList(child, spec, coll)
	case spec.isItem(child.Tag):
		if child.SelectAttrValue("type", "") == staffType {
			return
		}
		c.addEntity(coll, c.parseEntity(child, spec))
	}
}

// addEntity stores e in coll, warning when another collection already owns
// its id.
func (c *entityCollector) addEntity(coll Collection, e *Entity) {
	if prev, ok := c.store.NamedEntityCollection(e.ID); ok && prev.ID != coll.ID {
		c.log.WithFields(logrus.Fields{
			"entity":     e.ID,
			"collection": coll.ID,
			"previous":   prev.ID,
		}).Warn("tei: entity id reused across collections")
	}
	c.store.AddNamedEntity(coll, e)
}

// collectSubList adds the items of a nested list to the collection owning
// the outer list.
func (c *entityCollector) collectSubList(list *etree.Element, spec listSpec, coll Collection) {
	if list.SelectAttrValue("type", "") == staffType {
		return
	}
	for _, child := range list.ChildElements() {
		c.collectChild(child, spec, coll)
	}
}

// collectionID derives the default collection id of a list container:
// its xml:id, else its type, else fallback.
func collectionID(list *etree.Element, fallback string) string {
	if id := stripSpace(elementID(list)); id != "" {
		return id
	}
	if typ := strings.TrimSpace(list.SelectAttrValue("type", "")); typ != "" {
		return typ
	}
	return fallback
}

// headingID turns a list heading into a collection id.
func headingID(head *etree.Element) string {
	return stripSpace(textContent(head))
}

func stripSpace(s string) string {
	return whitespaceRun.ReplaceAllString(s, "")
}

// parseEntity builds the Entity for one list item.
func (c *entityCollector) parseEntity(el *etree.Element, spec listSpec) *Entity {
	id := c.ids.Resolve(el)
	e := &Entity{
		ID:           id,
		Label:        id,
		ListPosition: listPositionOf(id),
		SourceMarkup: sourceMarkup(el),
		SameAs:       el.SelectAttrValue("sameAs", ""),
	}

	if label := firstDescendant(el, spec.labelTag); label != nil {
		if text := c.t.TransformInner(label, label, fieldOptions); text != "" {
			e.Label = text
		}
		var pos string
		if spec.labelTag == "persName" {
			pos = nameListPosition(el)
		}
		if pos == "" {
			pos = listPositionOf(stripTags(e.Label))
		}
		if pos != "" {
			e.ListPosition = pos
		}
	}

	for _, child := range el.ChildElements() {
		c.addField(e, child, spec)
	}

	if spec.labelTag == "placeName" {
		e.Map = mapCoordinates(el)
	}
	return e
}

// nameListPosition buckets people by surname, then forename.
func nameListPosition(el *etree.Element) string {
	for _, tag := range []string{"surname", "forename"} {
		if n := firstDescendant(el, tag); n != nil {
			if pos := listPositionOf(textContent(n)); pos != "" {
				return pos
			}
		}
	}
	return ""
}

// mapCoordinates reads "lat, lng" from the first geo element below el.
func mapCoordinates(el *etree.Element) *MapCoords {
	geo := firstDescendant(el, "geo")
	if geo == nil {
		return nil
	}
	coords := strings.Split(textContent(geo), ", ")
	if len(coords) != 2 {
		return nil
	}
	return &MapCoords{Lat: coords[0], Lng: coords[1]}
}
