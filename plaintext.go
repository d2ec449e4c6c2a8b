package tei

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/blevesearch/segment"
	"golang.org/x/net/html"
)

// textBlockTags insert a line break when met during text extraction.
var textBlockTags = NewTagSet("p", "br", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr", "blockquote", "hr")

// textSkipTags have their content left out of extracted text. Notes are
// rendered as popovers whose visible content is only the note number.
var textSkipTags = NewTagSet("script", "style", "evt-popover")

// placeholderPattern matches deferred translation placeholders.
var placeholderPattern = regexp.MustCompile(`\{\{[^}]*\}\}`)

// PlainText extracts the readable text of display markup. Block elements
// produce line breaks; notes and translation placeholders are dropped.
func PlainText(markup string) (string, error) {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))

	var buf strings.Builder
	skipDepth := 0
	lastWasNewline := true
	newline := func() {
		if buf.Len() > 0 && !lastWasNewline {
			buf.WriteByte('\n')
			lastWasNewline = true
		}
	}

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return strings.TrimSpace(buf.String()), nil

		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if textSkipTags.Has(string(tn)) {
				skipDepth++
				continue
			}
			if skipDepth == 0 && textBlockTags.Has(string(tn)) {
				newline()
			}

		case html.SelfClosingTagToken:
			tn, _ := tokenizer.TagName()
			if skipDepth == 0 && textBlockTags.Has(string(tn)) {
				newline()
			}

		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if textSkipTags.Has(string(tn)) && skipDepth > 0 {
				skipDepth--
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			raw := placeholderPattern.ReplaceAllString(string(tokenizer.Text()), "")
			if text := collapseWhitespace(raw); text != "" {
				buf.WriteString(text)
				lastWasNewline = false
			}
		}
	}
}

// collapseWhitespace replaces whitespace runs with a single space. A
// leading or trailing run is kept as one space so inline elements stay
// separated; all-whitespace input yields "".
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	out := strings.Join(fields, " ")
	if isSpaceByte(s[0]) {
		out = " " + out
	}
	if isSpaceByte(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// WordCount counts the words of text using Unicode word segmentation.
// Punctuation and whitespace segments are not words.
func WordCount(text string) (int, error) {
	seg := segment.NewWordSegmenter(strings.NewReader(text))
	n := 0
	for seg.Segment() {
		if seg.Type() != segment.None {
			n++
		}
	}
	return n, seg.Err()
}

// PageStats summarises the rendered text of one page.
type PageStats struct {
	PageID string
	Text   string
	Words  int
}

// PageStats renders page pageID of document docID at level and counts its
// words.
func (e *Edition) PageStats(pageID, docID string, level EditionLevel) (PageStats, error) {
	markup, err := e.PageText(pageID, docID, level)
	if err != nil {
		return PageStats{}, err
	}
	text, err := PlainText(markup)
	if err != nil {
		return PageStats{}, err
	}
	words, err := WordCount(text)
	if err != nil {
		return PageStats{}, err
	}
	return PageStats{PageID: pageID, Text: text, Words: words}, nil
}
