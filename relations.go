package tei

import (
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"github.com/samber/lo"
	"golang.org/x/net/html"
)

// relationSource is a relation element with its identity captured while
// the element was still attached to the tree.
type relationSource struct {
	el       *etree.Element
	id       string
	listType string
}

// relationRole is one participant role of a relation.
type relationRole struct {
	attr     string
	actorKey string
	roleKey  string
}

var relationRoles = []relationRole{
	{attr: "active", actorKey: "LISTS.RELATION_ACTIVE", roleKey: "LISTS.RELATION_ACTIVE_ROLE"},
	{attr: "mutual", actorKey: "LISTS.RELATION_MUTUAL", roleKey: "LISTS.RELATION_MUTUAL_ROLE"},
	{attr: "passive", actorKey: "LISTS.RELATION_PASSIVE", roleKey: "LISTS.RELATION_PASSIVE_ROLE"},
}

// snapshotRelations returns every relation inside the entity lists of
// roots, or in a relation list beside them, each once, in document order.
func (c *entityCollector) snapshotRelations(roots []*etree.Element) []relationSource {
	containers := lo.Uniq(lo.Map(listSpecs, func(s listSpec, _ int) string { return s.container }))
	containers = append(containers, "listRelation")

	var found []*etree.Element
	for _, sd := range roots {
		for _, list := range sd.ChildElements() {
			if lo.Contains(containers, list.Tag) {
				found = append(found, descendants(list, "relation")...)
			}
		}
	}
	return lo.Map(lo.Uniq(found), func(el *etree.Element, _ int) relationSource {
		return c.relationSource(el)
	})
}

func (c *entityCollector) relationSource(el *etree.Element) relationSource {
	src := relationSource{el: el, id: c.ids.Resolve(el), listType: el.SelectAttrValue("type", "")}
	if p := el.Parent(); src.listType == "" && p != nil && p.Tag == "listRelation" {
		src.listType = p.SelectAttrValue("type", "")
	}
	return src
}

// linkRelation parses a relation into an entity of coll and records the
// relation on every participant already in the store.
func (c *entityCollector) linkRelation(src relationSource, coll Collection) {
	el := src.el
	name := el.SelectAttrValue("name", "")
	if name != "" {
		name = camelToSpace(name)
	}
	relType := src.listType
	if relType == "" {
		relType = "generic"
	}

	label := relType + " relation"
	if name != "" {
		label = strings.ToLower(name) + " (" + label + ")"
	}

	refs := make(map[string][]string, len(relationRoles))
	for _, role := range relationRoles {
		refs[role.attr] = splitRefs(el.SelectAttrValue(role.attr, ""))
	}

	var sb strings.Builder
	sb.WriteString(`<span class="relation">`)
	for _, id := range refs["active"] {
		sb.WriteString(entityRefMarkup(id) + " ")
	}
	for i, id := range refs["mutual"] {
		if i == 0 && len(refs["active"]) > 0 {
			sb.WriteString("{{ 'AND' | translate}} ")
		}
		sb.WriteString(entityRefMarkup(id) + " ")
	}
	if name != "" {
		sb.WriteString(`<span class="relation-name">` + html.EscapeString(name) + ` </span>`)
	}
	for _, id := range refs["passive"] {
		sb.WriteString(entityRefMarkup(id) + " ")
	}
	sb.WriteString("</span>")
	inner := c.t.TransformInner(el, el, Options{SkipNotes: true})
	if inner == "" {
		inner = strings.ReplaceAll(innerXML(el), teiNamespaceAttr, "")
	}
	sb.WriteString(inner)
	text := sb.String()

	source := sourceMarkup(el)
	for _, role := range relationRoles {
		mention := Fragment{
			Text: "{{ '" + role.roleKey + "' | translate:'{relationType:\"" + relType + "\"}'}}: " + text,
		}
		for _, id := range refs[role.attr] {
			if !c.store.AppendEntityField(id, "relations", mention, source) {
				c.log.WithField("entity", id).Debug("tei: relation participant not found")
			}
		}
	}

	rel := &Entity{
		ID:           src.id,
		Label:        capitalize(label+": "+text, false),
		SourceMarkup: source,
	}
	rel.ListPosition = listPositionOf(rel.Label)
	rel.Content.Add("name", Fragment{Text: name})
	for _, role := range relationRoles {
		ids := refs[role.attr]
		if len(ids) == 0 {
			continue
		}
		actors := Attributes{}
		actors.set("type", role.actorKey)
		rel.Content.Add("actors", Fragment{
			Text:       strings.Join(lo.Map(ids, func(id string, _ int) string { return entityRefMarkup(id) }), ", "),
			Attributes: actors,
		})
	}
	c.addEntity(coll, rel)
}

// splitRefs splits a participant list such as "#p1 #p2" into ids.
func splitRefs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '#' || unicode.IsSpace(r) })
}

// entityRefMarkup renders a bare reference to entity id.
func entityRefMarkup(id string) string {
	n := newElement("evt-named-entity-ref", attr("data-entity-id", id))
	n.AppendChild(newText("#" + id))
	return renderHTML(n)
}
