package tei

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const occurrenceBody = `<p><persName ref="#pers2">before</persName></p>` +
	`<pb n="1" xml:id="p1"/><p><persName ref="#pers1">A</persName></p>` +
	`<pb n="2" xml:id="p2"/><p><persName ref="#pers10">B</persName></p>` +
	`<pb n="3" xml:id="p3"/><p><persName ref="#pers1">C</persName> and <rs ref="#pers1">again</rs></p>`

func TestEntityOccurrences(t *testing.T) {
	ed := parseTestEdition(t, buildTEI("", occurrenceBody))

	refs, err := ed.EntityOccurrences("text", "pers1")
	require.NoError(t, err)
	require.Len(t, refs, 2, "pers10 is not a mention of pers1 and pages are listed once")

	assert.Equal(t, PageRef{PageID: "p1", PageLabel: "1", DocID: "text", DocLabel: "Doc 1"}, refs[0])
	assert.Equal(t, "p3", refs[1].PageID)
	assert.Equal(t, "3", refs[1].PageLabel)

	refs, err = ed.EntityOccurrences("text", "pers10")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "p2", refs[0].PageID)
}

func TestEntityOccurrences_BeforeFirstPage(t *testing.T) {
	ed := parseTestEdition(t, buildTEI("", occurrenceBody))
	assert.Empty(t, ed.AllEntityOccurrences("pers2"))
	assert.Empty(t, ed.AllEntityOccurrences(""))
}

func TestEntityOccurrences_UnknownDocument(t *testing.T) {
	ed := parseTestEdition(t, buildTEI("", occurrenceBody))
	_, err := ed.EntityOccurrences("missing", "pers1")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestAllEntityOccurrences(t *testing.T) {
	src := `<TEI ` + teiNS + `><teiHeader/>` +
		`<text xml:id="d1"><body><pb n="1"/><p><rs ref="#x">x</rs></p></body></text>` +
		`<text xml:id="d2"><body><pb n="1" xml:id="d2p1"/><p><rs ref="#x">x</rs></p></body></text>` +
		`</TEI>`
	ed := parseTestEdition(t, src)

	refs := ed.AllEntityOccurrences("x")
	require.Len(t, refs, 2)
	assert.Equal(t, "d1", refs[0].DocID)
	assert.Equal(t, "page_1", refs[0].PageID)
	assert.Equal(t, "d2", refs[1].DocID)
	assert.Equal(t, "d2p1", refs[1].PageID)
}

func TestIsNameByte(t *testing.T) {
	for _, b := range []byte("aZ09_-.:") {
		assert.True(t, isNameByte(b), string(b))
	}
	for _, b := range []byte(` "'/>#`) {
		assert.False(t, isNameByte(b), string(b))
	}
}
