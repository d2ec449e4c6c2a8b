package tei

import (
	"strings"

	"github.com/beevik/etree"
)

// splitPages cuts the serialized content element of doc at its page
// breaks and stores each balanced span as the original text of its page.
//
// The n-th page-break tag found in the markup belongs to the n-th page
// break element below content. Text before the first page break is
// appended to the last page of the previous document when there is one,
// and otherwise prepended to the first page of doc.
func (p *parser) splitPages(content *etree.Element, doc *Document) {
	pbs := descendants(content, p.cfg.Tags.PageBreak)
	if len(pbs) == 0 {
		return
	}

	markup := outerXML(content)
	start, end := innerRegion(markup)
	inner := markup[start:end]

	offsets := tagOffsets(inner, pbs[0].FullTag())
	if len(offsets) != len(pbs) {
		p.warn(p.log.WithField("doc", doc.ID),
			"page break count mismatch in document %s: %d tags, %d elements", doc.ID, len(offsets), len(pbs))
	}
	n := min(len(offsets), len(pbs))
	if n == 0 {
		return
	}

	spans := make([]string, n)
	for i := range n {
		stop := len(inner)
		if i+1 < len(offsets) {
			stop = offsets[i+1]
		}
		spans[i] = inner[offsets[i]:stop]
	}

	if orphan := inner[:offsets[0]]; !isBlank(orphan) {
		if !p.appendToPreviousDocument(doc.ID, orphan) {
			spans[0] = orphan + spans[0]
		}
	}

	enc := p.store.Encoding()
	splitByLine := enc.UsesLineBreaks && !enc.LineNums
	for i, span := range spans {
		pageID := p.pageOf[pbs[i]]
		p.store.SetPageText(pageID, doc.ID, LevelOriginal, Balance(span))
		if splitByLine {
			p.store.SetPageLines(pageID, doc.ID, splitLines(span, p.cfg.Tags.LineBreak))
		}
	}
}

// appendToPreviousDocument adds text to the original text of the last page
// of the document preceding docID. It reports false when that document
// has no page text to extend.
func (p *parser) appendToPreviousDocument(docID, text string) bool {
	prev, ok := p.store.PreviousDocument(docID)
	if !ok || len(prev.Pages) == 0 {
		return false
	}
	last := prev.Pages[len(prev.Pages)-1]
	existing, ok := p.store.PageText(last, prev.ID, LevelOriginal)
	if !ok {
		return false
	}
	p.store.SetPageText(last, prev.ID, LevelOriginal, existing+Balance(text))
	return true
}

// splitLines cuts a page span at its line breaks. Text before the first
// line break is kept as a line of its own unless it holds only markup.
func splitLines(span, lbTag string) []string {
	offsets := tagOffsets(span, lbTag)
	if len(offsets) == 0 {
		if isBlank(span) {
			return nil
		}
		return []string{Balance(span)}
	}

	var lines []string
	if head := span[:offsets[0]]; !isBlank(stripTags(head)) {
		lines = append(lines, Balance(head))
	}
	for i, off := range offsets {
		stop := len(span)
		if i+1 < len(offsets) {
			stop = offsets[i+1]
		}
		lines = append(lines, Balance(span[off:stop]))
	}
	return lines
}

// innerRegion returns the bounds of the content of the single element
// serialized in markup: after its start tag and before its end tag.
func innerRegion(markup string) (start, end int) {
	start = strings.IndexByte(markup, '>') + 1
	end = strings.LastIndex(markup, "</")
	if end < start {
		end = start
	}
	return start, end
}

// tagOffsets returns the byte offsets of every start or empty tag named
// tag in markup. "<pb" only matches when followed by whitespace, '/' or
// '>', so "<pbx" is not a page break. Comments, CDATA sections and
// processing instructions are skipped.
func tagOffsets(markup, tag string) []int {
	open := "<" + tag
	var out []int
	for i := 0; i < len(markup); {
		j := strings.IndexByte(markup[i:], '<')
		if j < 0 {
			break
		}
		at := i + j
		if n := opaqueLen(markup[at:]); n > 0 {
			i = at + n
			continue
		}
		next := at + len(open)
		if strings.HasPrefix(markup[at:], open) && next < len(markup) &&
			strings.IndexByte(" \t\r\n/>", markup[next]) >= 0 {
			out = append(out, at)
		}
		i = at + 1
	}
	return out
}

// opaqueSections delimit markup whose content holds no tags.
var opaqueSections = [][2]string{
	{"<!--", "-->"},
	{"<![CDATA[", "]]>"},
	{"<?", "?>"},
}

// opaqueLen returns the length of the comment, CDATA section or
// processing instruction at the start of s, or 0. An unterminated section
// runs to the end of s.
func opaqueLen(s string) int {
	for _, sec := range opaqueSections {
		if !strings.HasPrefix(s, sec[0]) {
			continue
		}
		if k := strings.Index(s[len(sec[0]):], sec[1]); k >= 0 {
			return len(sec[0]) + k + len(sec[1])
		}
		return len(s)
	}
	return 0
}
