package tei

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glyphDecl = `<charDecl><glyph xml:id="gl1">` +
	`<mapping type="diplomatic">ſ</mapping><mapping type="normalized">s</mapping>` +
	`</glyph></charDecl>`

const glyphBody = `<pb n="1"/><p>lon<g ref="#gl1"/>g <abbr>s<g ref="#gl1"/></abbr></p>` +
	`<lb xml:id="l1_orig"/><lb xml:id="l1_reg"/>`

func TestPageText_Diplomatic(t *testing.T) {
	ed := parseTestEdition(t, buildTEI(glyphDecl, glyphBody))

	got, err := ed.PageText("page_1", "text", LevelDiplomatic)
	require.NoError(t, err)
	want := `<div id="mainContentToTranform" class="diplomatic">` +
		`<span class="p">lon<span class="glyph"><mapping type="diplomatic">ſ</mapping></span>g ` +
		`<span class="abbr">s<span class="glyph"><mapping type="diplomatic">ſ</mapping></span></span></span>` +
		`<span class="lb" id="l1_orig"><br/></span></div>`
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "<pb")
}

func TestPageText_Interpretative(t *testing.T) {
	ed := parseTestEdition(t, buildTEI(glyphDecl, glyphBody))

	got, err := ed.PageText("page_1", "text", LevelInterpretative)
	require.NoError(t, err)
	assert.Contains(t, got, `class="interpretative"`)
	assert.Contains(t, got, `lon<span class="glyph"><mapping type="normalized">s</mapping></span>g`)
	assert.Contains(t, got, `<span class="abbr">s<span class="glyph"><mapping type="diplomatic">ſ</mapping></span></span>`,
		"glyphs in abbreviations keep the diplomatic form")
	assert.Contains(t, got, `id="l1_reg"`)
	assert.NotContains(t, got, `l1_orig`)
}

func TestPageText_DefaultAndOriginalLevels(t *testing.T) {
	ed := parseTestEdition(t, buildTEI(glyphDecl, glyphBody))

	def, err := ed.PageText("page_1", "text", "")
	require.NoError(t, err)
	assert.Contains(t, def, `class="diplomatic"`)

	orig, err := ed.PageText("page_1", "text", LevelOriginal)
	require.NoError(t, err)
	assert.Equal(t, `<pb n="1"/><p>lon<g ref="#gl1"/>g <abbr>s<g ref="#gl1"/></abbr></p><lb xml:id="l1_orig"/><lb xml:id="l1_reg"/>`, orig)
}

func TestPageText_RestoresInterElementSpace(t *testing.T) {
	ed := parseTestEdition(t, buildTEI("", `<pb n="1"/><p><hi>a</hi> <hi>b</hi></p>`))

	got, err := ed.PageText("page_1", "text", LevelDiplomatic)
	require.NoError(t, err)
	assert.Equal(t, `<div id="mainContentToTranform" class="diplomatic">`+
		`<span class="p"><span class="hi">a</span> <span class="hi">b</span></span></div>`, got)
}

func TestPageText_Cached(t *testing.T) {
	ed := parseTestEdition(t, buildTEI("", `<pb n="1"/><p>first</p>`))

	first, err := ed.PageText("page_1", "text", LevelDiplomatic)
	require.NoError(t, err)

	ed.Store().SetPageText("page_1", "text", LevelOriginal, "<p>changed</p>")
	again, err := ed.PageText("page_1", "text", LevelDiplomatic)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestPageText_NotAvailable(t *testing.T) {
	cfg, hook := testConfig()
	ed, err := ParseString(buildTEI("", `<pb n="1"/><p>x</p>`), cfg)
	require.NoError(t, err)

	ed.Store().SetPageText("page_1", "text", LevelOriginal, "<p>&bogus;</p>")
	got, err := ed.PageText("page_1", "text", LevelDiplomatic)
	require.NoError(t, err)
	assert.Equal(t, textNotAvailable, got)

	require.Len(t, ed.Warnings(), 1)
	assert.Contains(t, ed.Warnings()[0], "page text not available")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "page_1", hook.LastEntry().Data["page"])
}

func TestPageText_NotFound(t *testing.T) {
	ed := parseTestEdition(t, buildTEI("", `<pb n="1"/><p>x</p>`))

	_, err := ed.PageText("missing", "text", "")
	assert.ErrorIs(t, err, ErrPageNotFound)

	_, err = ed.PageText("page_1", "missing", "")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	_, err = ed.PageTexts("missing", "text")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestPageTexts(t *testing.T) {
	ed := parseTestEdition(t, buildTEI(glyphDecl, glyphBody))

	texts, err := ed.PageTexts("page_1", "text")
	require.NoError(t, err)
	require.Len(t, texts, 2)
	assert.Contains(t, texts[LevelDiplomatic], `class="diplomatic"`)
	assert.Contains(t, texts[LevelInterpretative], `class="interpretative"`)
}

func TestGlyphs_Parsed(t *testing.T) {
	ed := parseTestEdition(t, buildTEI(glyphDecl, glyphBody))

	g, ok := ed.Store().Glyph("gl1")
	require.True(t, ok)
	assert.Len(t, g.Mapping, 2)
	assert.Equal(t, "s", g.Mapping["normalized"].Content)
	assert.Equal(t, `<mapping type="diplomatic">ſ</mapping>`, g.Mapping["diplomatic"].Element)
	assert.Equal(t, "diplomatic", g.Mapping["diplomatic"].Attributes.Get("type"))
	assert.Contains(t, g.SourceMarkup, `<glyph xml:id="gl1">`)

	_, ok = ed.Store().GlyphMapping("gl1", LevelInterpretative)
	assert.False(t, ok)
}
