package tei

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectHeader = `<teiHeader>` +
	`<fileDesc><titleStmt><title>My Edition</title><author>Ed Itor</author></titleStmt>` +
	`<publicationStmt><publisher>ACME Press</publisher></publicationStmt>` +
	`<sourceDesc><msDesc><msIdentifier><settlement>Rome</settlement></msIdentifier></msDesc></sourceDesc></fileDesc>` +
	`<encodingDesc><variantEncoding method="parallel-segmentation" location="internal"/></encodingDesc>` +
	`<profileDesc><langUsage><language ident="la"/></langUsage></profileDesc>` +
	`<xenoData><rdf>meta</rdf></xenoData>` +
	`<revisionDesc><change when="2021" who="#me">Draft</change></revisionDesc>` +
	`</teiHeader>`

func projectEdition(t *testing.T) *Edition {
	t.Helper()
	return parseTestEdition(t, `<TEI `+teiNS+`>`+projectHeader+`<text><body><p>x</p></body></text></TEI>`)
}

func TestProjectInfo_EditionReference(t *testing.T) {
	info := projectEdition(t).Store().ProjectInfo()
	assert.Equal(t, EditionReference{Title: "My Edition", Author: "Ed Itor", Publisher: "ACME Press"}, info.EditionReference)
}

func TestProjectInfo_Sections(t *testing.T) {
	info := projectEdition(t).Store().ProjectInfo()

	assert.Contains(t, info.FileDescription, `<div class="fileDesc">`)
	assert.Contains(t, info.FileDescription, "My Edition")
	assert.Contains(t, info.TextProfile, `<span class="projectInfo-blockLabel">la</span>`)
	assert.Contains(t, info.RevisionHistory, "1/1/2021, Draft")
	assert.Contains(t, info.OutsideMetadata, "meta")

	assert.Contains(t, info.MsDesc, `{{ 'PROJECT_INFO.MS_IDENTIFIER' | translate }}`)
	assert.Contains(t, info.MsDesc, `{{ 'PROJECT_INFO.SETTLEMENT' | translate }}: </span>Rome`)
	assert.Empty(t, info.ListObject)
}

func TestProjectInfo_VariantEncoding(t *testing.T) {
	ed := projectEdition(t)

	enc := ed.Store().Encoding()
	assert.Equal(t, "parallel-segmentation", enc.VariantEncodingMethod)
	assert.Equal(t, "internal", enc.VariantEncodingLocation)

	desc := ed.Store().ProjectInfo().EncodingDescription
	assert.Contains(t, desc, `<span class="variantEncoding">`)
	assert.Contains(t, desc, `method:  "parallel-segmentation"`)
}

func TestProjectInfo_EncodingWithoutVariants(t *testing.T) {
	src := `<TEI ` + teiNS + `><teiHeader><encodingDesc><p>Notes</p></encodingDesc></teiHeader>` +
		`<text><body><p>x</p></body></text></TEI>`
	ed := parseTestEdition(t, src)

	assert.Empty(t, ed.Store().ProjectInfo().EncodingDescription)
	assert.Empty(t, ed.Store().Encoding().VariantEncodingMethod)
}

func TestProjectInfo_ListsExcluded(t *testing.T) {
	src := `<TEI ` + teiNS + `><teiHeader><fileDesc><sourceDesc>` +
		`<msDesc><msIdentifier><idno>1</idno></msIdentifier><listWit><witness xml:id="W"/></listWit></msDesc>` +
		`</sourceDesc></fileDesc></teiHeader><text><body><p>x</p></body></text></TEI>`
	ed := parseTestEdition(t, src)

	info := ed.Store().ProjectInfo()
	require.NotEmpty(t, info.MsDesc)
	assert.NotContains(t, info.MsDesc, "witness")
}
