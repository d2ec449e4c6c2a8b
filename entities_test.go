package tei

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleList = `<listPerson xml:id="people">` +
	`<person xml:id="p1"><persName><forename>Anna</forename><surname>Bianchi</surname></persName>` +
	`<birth><date when-iso="1850-03-04">4 March 1850</date></birth></person>` +
	`<person xml:id="p2"><persName>Carlo</persName><occupation>printer</occupation></person>` +
	`<listPerson><person xml:id="p5"><persName>Elena</persName></person></listPerson>` +
	`<listPerson type="staff"><person xml:id="p3"><persName>Staff</persName></person></listPerson>` +
	`<person xml:id="p4" type="staff"><persName>Hidden</persName></person>` +
	`</listPerson>`

const placeList = `<listPlace><head>Cities of Italy</head>` +
	`<place xml:id="rome"><placeName>Rome</placeName><location><geo>41.9, 12.5</geo></location></place>` +
	`</listPlace>`

const genericLists = `<list><item xml:id="i1">anonymous</item></list>` +
	`<list xml:id="things"><item xml:id="t1">Thing</item></list>`

func TestEntities_PersonCollection(t *testing.T) {
	ed := parseTestEdition(t, buildTEI(peopleList, `<p>text</p>`))
	s := ed.Store()

	coll, ok := s.Collection("people")
	require.True(t, ok)
	assert.Equal(t, CollectionPerson, coll.Type)
	assert.Equal(t, "LISTS.PERSON", coll.Title)

	ids := make([]string, 0)
	for _, e := range s.CollectionEntities("people") {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []string{"p1", "p2", "p5"}, ids, "staff lists and items are hidden")

	p1, err := ed.Entity("p1")
	require.NoError(t, err)
	assert.Equal(t, "b", p1.ListPosition, "people are bucketed by surname")
	assert.Contains(t, p1.SourceMarkup, `<person xml:id="p1">`)

	p2, err := ed.Entity("p2")
	require.NoError(t, err)
	assert.Equal(t, "Carlo", p2.Label)
	assert.Equal(t, "c", p2.ListPosition)
	require.Len(t, p2.Content.Get("occupation"), 1)
	assert.Equal(t, "printer", p2.Content.Get("occupation")[0].Text)

	owner, ok := s.NamedEntityCollection("p5")
	require.True(t, ok)
	assert.Equal(t, "people", owner.ID, "sub-list items join the outer collection")

	_, err = ed.Entity("p3")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestEntities_NameAndLifeFields(t *testing.T) {
	ed := parseTestEdition(t, buildTEI(peopleList, `<p>text</p>`))
	p1, err := ed.Entity("p1")
	require.NoError(t, err)

	require.Len(t, p1.Content.Get("forename"), 1)
	assert.Equal(t, "Anna", p1.Content.Get("forename")[0].Text)
	assert.Equal(t, "Bianchi", p1.Content.Get("surname")[0].Text)

	birth := p1.Content.Get("birth")
	require.Len(t, birth, 1)
	assert.Contains(t, birth[0].Text, `<span class="life-part">`)
	assert.Contains(t, birth[0].Text, "04/03/1850")
	assert.Equal(t, []string{"forename", "surname", "birth"}, p1.Content.Order)
}

func TestEntities_PlaceHeadingAndMap(t *testing.T) {
	ed := parseTestEdition(t, buildTEI(placeList, `<p>text</p>`))
	s := ed.Store()

	coll, ok := s.Collection("CitiesofItaly")
	require.True(t, ok, "collections: %v", s.Collections())
	assert.Equal(t, CollectionPlace, coll.Type)

	rome, ok := s.CollectionEntity("CitiesofItaly", "rome")
	require.True(t, ok)
	assert.Equal(t, "Rome", rome.Label)
	assert.Equal(t, "r", rome.ListPosition)
	require.NotNil(t, rome.Map)
	assert.Equal(t, "41.9", rome.Map.Lat)
	assert.Equal(t, "12.5", rome.Map.Lng)
	require.Len(t, rome.Content.Get("geo"), 1)
}

func TestEntities_GenericLists(t *testing.T) {
	ed := parseTestEdition(t, buildTEI(genericLists, `<p>text</p>`))
	s := ed.Store()

	_, err := ed.Entity("i1")
	assert.ErrorIs(t, err, ErrEntityNotFound, "generic lists need an id")

	coll, ok := s.Collection("things")
	require.True(t, ok)
	assert.Equal(t, CollectionGeneric, coll.Type)
	assert.Equal(t, []string{"t"}, s.ListPositions("things"))
	require.Len(t, s.EntitiesAt("things", "t"), 1)
	assert.Equal(t, "t1", s.EntitiesAt("things", "t")[0].Label)
}

func TestEntities_HeadingOverridesListID(t *testing.T) {
	src := `<listOrg xml:id="orgs" type="press"><head>Printing Houses</head>` +
		`<org xml:id="o1"><orgName>Tipografia</orgName></org></listOrg>`
	ed := parseTestEdition(t, buildTEI(src, `<p>text</p>`))
	s := ed.Store()

	_, ok := s.Collection("orgs")
	assert.False(t, ok)
	coll, ok := s.Collection("PrintingHouses")
	require.True(t, ok)
	assert.Equal(t, CollectionOrg, coll.Type)
	assert.Len(t, s.CollectionEntities("PrintingHouses"), 1)

	ed = parseTestEdition(t, buildTEI(`<listOrg type="press"><org xml:id="o1"><orgName>T</orgName></org></listOrg>`, `<p>text</p>`))
	_, ok = ed.Store().Collection("press")
	assert.True(t, ok, "type is used when there is no heading or id")
}

func TestEntities_ListsDetached(t *testing.T) {
	cfg, _ := testConfig()
	doc := newDocument()
	require.NoError(t, doc.ReadFromString(buildTEI(peopleList+placeList, `<p>text</p>`)))

	_, err := Parse(doc, cfg)
	require.NoError(t, err)
	assert.Nil(t, firstDescendant(doc.Root(), "listPerson"))
	assert.Nil(t, firstDescendant(doc.Root(), "listPlace"))
}

func TestEntities_Manuscripts(t *testing.T) {
	src := `<listBibl type="manuscripts" xml:id="mss">` +
		`<msDesc xml:id="ms1"><msIdentifier><settlement>Rome</settlement><idno>Vat. lat. 1</idno></msIdentifier></msDesc>` +
		`</listBibl>` +
		`<listBibl xml:id="plain"><biblStruct xml:id="b9"/></listBibl>`
	ed := parseTestEdition(t, buildTEI(src, `<p>text</p>`))

	ms1, err := ed.Entity("ms1")
	require.NoError(t, err)
	ident := ms1.Content.Get("msIdentifier")
	require.Len(t, ident, 1)
	assert.Contains(t, ident[0].Text, "NAMED_ENTITY_FIELDS.settlement")
	assert.Contains(t, ident[0].Text, "Vat. lat. 1")

	_, err = ed.Entity("b9")
	assert.ErrorIs(t, err, ErrEntityNotFound, "untyped bibliographies are not collected")
}

func TestEntities_IDReusedAcrossCollections(t *testing.T) {
	cfg, hook := testConfig()
	src := buildTEI(`<listPerson xml:id="people"><person xml:id="x1"><persName>Anna</persName></person></listPerson>`+
		`<listPlace xml:id="places"><place xml:id="x1"><placeName>Rome</placeName></place></listPlace>`, `<p>text</p>`)
	ed, err := ParseString(src, cfg)
	require.NoError(t, err)

	owner, ok := ed.Store().NamedEntityCollection("x1")
	require.True(t, ok)
	assert.Equal(t, "people", owner.ID, "place lists are collected before person lists")

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["entity"] == "x1" {
			warned = true
			assert.Equal(t, "places", entry.Data["previous"])
		}
	}
	assert.True(t, warned)
}

const groupingLists = `<listPerson xml:id="people">` +
	`<person xml:id="ev"><persName>Eva</persName>` +
	`<event notBefore="1850-01-02" notAfter="1851-03-04"><label>residence</label></event>` +
	`<event notBefore="1852-01-02"><ab>Moved to Rome</ab></event>` +
	`<event notAfter="1860-05-06"/>` +
	`<event when="1870-07-08"/>` +
	`<event><label>undated</label></event>` +
	`<death><date when-iso="1900-12-31">31 Dec</date><placeName>Roma</placeName></death>` +
	`</person>` +
	`<person xml:id="fam"><persName>Family</persName>` +
	`<person ref="#p9" type="child"><persName>Kid</persName>` +
	`<listPerson type="grandChildren"><person><persName>Nino</persName></person></listPerson>` +
	`</person></person>` +
	`</listPerson>` +
	`<listBibl type="manuscripts" xml:id="mss">` +
	`<msDesc xml:id="ms2"><persName type="copist" n="1">Luca</persName>` +
	`<history><origin><persName type="copist">Giovanni</persName><placeName>Firenze</placeName></origin>` +
	`<provenance><orgName>Biblioteca X</orgName></provenance>` +
	`<acquisition><persName>Mario</persName></acquisition></history>` +
	`</msDesc></listBibl>` +
	`<listBibl type="prints" xml:id="prints">` +
	`<biblStruct xml:id="pr1"><monogr><title>Opere</title>` +
	`<imprint><pubPlace>Venezia</pubPlace><date>1550</date></imprint></monogr></biblStruct>` +
	`</listBibl>`

// fieldLabel is the rendered label of a grouped part for key.
func fieldLabel(key string) string {
	return "{{ ('NAMED_ENTITY_FIELDS." + key + "') | translate }}:</span> "
}

func TestEntities_GroupingRules(t *testing.T) {
	ed := parseTestEdition(t, buildTEI(groupingLists, `<p>text</p>`))

	tests := []struct {
		name   string
		entity string
		field  string
		index  int
		want   []string
	}{
		{"event range with label", "ev", "event", 0,
			[]string{`class="event-part"`, fieldLabel("residence") + "02/01/1850 - 04/03/1851"}},
		{"event start with ab", "ev", "event", 1,
			[]string{fieldLabel("event") + "Moved to Rome ({{ 'GENERIC.FROM' | translate }} 02/01/1852)"}},
		{"event end only", "ev", "event", 2,
			[]string{fieldLabel("event") + "{{ 'GENERIC.TO' | translate }} 06/05/1860"}},
		{"event when", "ev", "event", 3,
			[]string{fieldLabel("event") + "08/07/1870</span>"}},
		{"death date as day/month/year", "ev", "death", 0,
			[]string{`class="life-part"`, fieldLabel("date") + "31/12/1900", fieldLabel("placeName") + "Roma"}},
		{"history copist", "ms2", "history", 0,
			[]string{`class="history-part"`, fieldLabel("copist") + "Giovanni"}},
		{"history origin keeps tag", "ms2", "history", 0,
			[]string{fieldLabel("placeName") + "Firenze"}},
		{"history provenance owner", "ms2", "history", 0,
			[]string{fieldLabel("provenance") + "Biblioteca X"}},
		{"history acquisition owner", "ms2", "history", 0,
			[]string{fieldLabel("acquisition") + "Mario"}},
		{"copist field", "ms2", "copist", 0,
			[]string{"Luca"}},
		{"monogr title", "pr1", "title", 0,
			[]string{"Opere"}},
		{"imprint inside monogr", "pr1", "imprint", 0,
			[]string{`class="imprint-part"`, fieldLabel("pubPlace") + "Venezia", fieldLabel("date") + "1550"}},
		{"sub-entity", "fam", "person", 0,
			[]string{`<span class="persname">Kid</span>`}},
		{"sub-list inside sub-entity", "fam", "person", 0,
			[]string{`<span class="listperson" data-type="grandChildren">`, "grand Children", "Nino"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ed.Entity(tt.entity)
			require.NoError(t, err)
			frags := e.Content.Get(tt.field)
			require.Greater(t, len(frags), tt.index, "fields: %v", e.Content.Order)
			for _, want := range tt.want {
				assert.Contains(t, frags[tt.index].Text, want)
			}
		})
	}
}

func TestEntities_GroupingShapes(t *testing.T) {
	ed := parseTestEdition(t, buildTEI(groupingLists, `<p>text</p>`))

	ev, err := ed.Entity("ev")
	require.NoError(t, err)
	assert.Len(t, ev.Content.Get("event"), 4, "an event without any date is dropped")
	assert.Len(t, ev.Content.Get("death"), 1)

	ms2, err := ed.Entity("ms2")
	require.NoError(t, err)
	copist := ms2.Content.Get("copist")
	require.Len(t, copist, 1)
	assert.False(t, copist[0].Attributes.Has("type"))
	assert.Equal(t, "1", copist[0].Attributes.Get("n"))
	assert.Empty(t, ms2.Content.Get("persName"))
	assert.Len(t, ms2.Content.Get("history"), 1)

	pr1, err := ed.Entity("pr1")
	require.NoError(t, err)
	assert.Equal(t, "Opere", pr1.Label)
	assert.Equal(t, []string{"title", "imprint"}, pr1.Content.Order)

	fam, err := ed.Entity("fam")
	require.NoError(t, err)
	sub := fam.Content.Get("person")
	require.Len(t, sub, 1)
	assert.Equal(t, "#p9", sub[0].Attributes.Get("ref"))
	_, err = ed.Entity("p9")
	assert.ErrorIs(t, err, ErrEntityNotFound, "nested entities are references, not collection members")
}

func TestEntities_DeepSubLists(t *testing.T) {
	src := `<listPerson xml:id="deep">` +
		`<person xml:id="d1"><persName>One</persName></person>` +
		`<listPerson><listPerson><person xml:id="d3"><persName>Three</persName></person></listPerson>` +
		`<person xml:id="d2"><persName>Two</persName></person></listPerson>` +
		`<listPerson type="family"><person xml:id="d4"><persName>Four</persName></person></listPerson>` +
		`</listPerson>`
	ed := parseTestEdition(t, buildTEI(src, `<p>text</p>`))
	s := ed.Store()

	for _, id := range []string{"d1", "d2", "d3", "d4"} {
		owner, ok := s.NamedEntityCollection(id)
		require.True(t, ok, id)
		assert.Equal(t, "deep", owner.ID, id)
	}
	_, ok := s.Collection("family")
	assert.False(t, ok, "a typed sub-list does not open its own collection")

	ids := make([]string, 0)
	for _, e := range s.EntitiesAt("deep", "t") {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"d3", "d2"}, ids, "document order within a bucket")
	assert.Len(t, s.CollectionEntities("deep"), 4)
}
