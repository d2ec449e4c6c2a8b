package tei

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"blocks", `<div><span class="p">Hello <b>world</b></span><p>Next</p></div>`, "Hello world\nNext"},
		{"line breaks", `one<br/>two`, "one\ntwo"},
		{"whitespace collapsed", "<p>  a \n\t b  </p>", "a b"},
		{"notes dropped", `<p>text<evt-popover data-n="1"><i>1</i></evt-popover> more</p>`, "text more"},
		{"placeholders dropped", `<span>{{ 'PROJECT_INFO.PUBLISHER' | translate }}: ACME</span>`, ": ACME"},
		{"entities decoded", `<p>a &amp; b</p>`, "a & b"},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlainText(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWordCount(t *testing.T) {
	n, err := WordCount("Hello, world 42")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = WordCount("  ... ")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEdition_PageStats(t *testing.T) {
	ed := parseTestEdition(t, buildTEI("", `<pb n="1"/><p>Dear <hi>Bruno</hi>,</p><p>farewell</p>`))

	stats, err := ed.PageStats("page_1", "text", LevelDiplomatic)
	require.NoError(t, err)
	assert.Equal(t, "page_1", stats.PageID)
	assert.Equal(t, "Dear Bruno,farewell", stats.Text)
	assert.Equal(t, 3, stats.Words)

	_, err = ed.PageStats("missing", "text", "")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, " a b ", collapseWhitespace(" a   b\n"))
	assert.Equal(t, "a", collapseWhitespace("a"))
	assert.Empty(t, collapseWhitespace(" \n "))
}
