package tei

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frontMatter = `<front>` +
	`<titleStmt><title>Letter to Bruno</title><title>Draft</title><author ref="#p1">Anna</author></titleStmt>` +
	`<respStmt><resp>transcription</resp><persName ref="#p2">Bruno</persName></respStmt>` +
	`<publicationStmt><publisher>ACME</publisher><availability>` +
	`<licence target="javascript:alert(1)">CC</licence>` +
	`<licence target="https://creativecommons.org/licenses/by/4.0/">CC-BY</licence>` +
	`</availability></publicationStmt>` +
	`<correspDesc><correspAction type="sent"><persName ref="#p1">Anna</persName><date when="1850-03-04"/></correspAction>` +
	`<correspAction type="received"><persName ref="#p2">Bruno</persName></correspAction></correspDesc>` +
	`<langUsage><language ident="it"/><language/></langUsage>` +
	`<revisionDesc><change when="2020-01-02">Created</change><change from="2020" to="2021">Revised</change></revisionDesc>` +
	`</front>`

func frontEdition(t *testing.T) *Edition {
	t.Helper()
	src := `<TEI ` + teiNS + `><teiHeader/><text xml:id="d1">` + frontMatter +
		`<body><pb n="1"/><p>Dear Bruno</p></body></text></TEI>`
	return parseTestEdition(t, src)
}

func frontHTML(t *testing.T) string {
	t.Helper()
	doc, ok := frontEdition(t).Store().Document("d1")
	require.True(t, ok)
	require.NotNil(t, doc.Front)
	return doc.Front.ParsedContent
}

func TestFront_Parsed(t *testing.T) {
	ed := frontEdition(t)
	doc, ok := ed.Store().Document("d1")
	require.True(t, ok)
	require.NotNil(t, doc.Front)

	front := doc.Front
	assert.True(t, strings.HasPrefix(front.OriginalContent, "<front>"))
	assert.True(t, strings.HasPrefix(front.ParsedContent, `<div class="document-Info"><div class="fileDesc">`))

	html := front.ParsedContent
	assert.Contains(t, html, `<span class="projectInfo-sectionHeader">Letter to Bruno</span>`)
	assert.Contains(t, html, `<span class="projectInfo-sectionSubHeader">Draft</span>`)
	assert.Contains(t, html, `<evt-named-entity-ref data-entity-id="p1" data-entity-type="author">Anna</evt-named-entity-ref>`)
	assert.Contains(t, html, `{{ 'PROJECT_INFO.RESP_TRANSCRIPTION' | translate }}: `)
	assert.Contains(t, html, `<span class="projectInfo-blockLabel"><span class="projectInfo-inlineLabel">{{ 'PROJECT_INFO.PUBLISHER' | translate }}: </span>ACME</span>`)
}

func TestFront_Licence(t *testing.T) {
	html := frontHTML(t)

	assert.Contains(t, html, `<a href="https://creativecommons.org/licenses/by/4.0/" target="_blank">CC-BY</a>`)
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, `{{ 'PROJECT_INFO.LICENCE' | translate }}: </span>CC</span>`)
}

func TestFront_ProfileAndRevisions(t *testing.T) {
	html := frontHTML(t)

	assert.Contains(t, html, `<div class="correspDesc">`)
	assert.Contains(t, html, `{{ 'PROJECT_INFO.SENDER' | translate }}: `)
	assert.Contains(t, html, `{{ 'PROJECT_INFO.DATE_SENT' | translate }}: </span>3/4/1850</span>`)
	assert.Contains(t, html, `{{ 'PROJECT_INFO.RECEIVER' | translate }}: `)
	assert.NotContains(t, html, "DATE_RECEIVED")

	assert.Contains(t, html, `<span class="projectInfo-blockLabel">it</span>`)
	assert.Contains(t, html, `<span class="projectInfo-blockLabel">{{ 'PROJECT_INFO.NO_INFO' | translate }}</span>`)

	assert.Contains(t, html, `1/2/2020, Created`)
	assert.Contains(t, html, `{{ 'PROJECT_INFO.FROM_DATE' | translate }} 1/1/2020 {{ 'PROJECT_INFO.TO_DATE' | translate }} 1/1/2021, Revised`)
}

func TestFront_Missing(t *testing.T) {
	ed := parseTestEdition(t, buildTEI("", `<p>x</p>`))
	require.Len(t, ed.Documents(), 1)
	assert.Nil(t, ed.Documents()[0].Front)
}

func TestSelectAll(t *testing.T) {
	root := parseElement(t, `<r><a><b><c n="1"/></b><b><c n="2"/><x><c n="3"/></x></b></a><c n="4"/></r>`)

	got := selectAll(root, "a", "b", "c")
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[2].SelectAttrValue("n", ""))

	assert.Len(t, withAttr(got, "n", "2"), 1)
	assert.Equal(t, []*etree.Element{root}, selectAll(root))
}
