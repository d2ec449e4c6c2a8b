package tei

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var pageIDAttr = regexp.MustCompile(`xml:id="([^"]*)"`)

// EntityOccurrences returns the pages of document docID whose text
// references entity refID ("#refID" in any attribute). Each page is listed
// once, in document order. Mentions before the first page break are not
// attributed to any page.
func (e *Edition) EntityOccurrences(docID, refID string) ([]PageRef, error) {
	doc, ok := e.store.Document(docID)
	if !ok {
		return nil, fmt.Errorf("tei: document %s: %w", docID, ErrDocumentNotFound)
	}
	return e.occurrences(doc, refID), nil
}

// AllEntityOccurrences returns the occurrences of refID in every document.
func (e *Edition) AllEntityOccurrences(refID string) []PageRef {
	var out []PageRef
	for _, doc := range e.store.Documents() {
		out = append(out, e.occurrences(doc, refID)...)
	}
	return out
}

func (e *Edition) occurrences(doc *Document, refID string) []PageRef {
	if refID == "" || doc.Content == nil {
		return nil
	}
	markup := outerXML(doc.Content)
	breaks := tagOffsets(markup, e.cfg.Tags.PageBreak)
	// Pages follow the page-break tags one to one unless duplicate ids
	// collapsed some of them.
	aligned := len(breaks) == len(doc.Pages)

	needle := "#" + refID
	var refs []PageRef
	last := -1
	for i := 0; i < len(markup); {
		j := strings.Index(markup[i:], needle)
		if j < 0 {
			break
		}
		at := i + j
		i = at + len(needle)
		if i < len(markup) && isNameByte(markup[i]) {
			continue
		}

		k := sort.SearchInts(breaks, at) - 1
		if k < 0 || k == last {
			continue
		}
		last = k

		var pageID string
		if aligned {
			pageID = doc.Pages[k]
		} else if m := pageIDAttr.FindStringSubmatch(tagAt(markup, breaks[k])); m != nil {
			pageID = m[1]
		}
		if pageID == "" {
			continue
		}

		ref := PageRef{PageID: pageID, PageLabel: pageID, DocID: doc.ID, DocLabel: doc.Label}
		if p, ok := e.store.Page(pageID); ok && p.Label != "" {
			ref.PageLabel = p.Label
		}
		refs = append(refs, ref)
	}
	return refs
}

// tagAt returns the tag starting at offset.
func tagAt(markup string, offset int) string {
	end := strings.IndexByte(markup[offset:], '>')
	if end < 0 {
		return markup[offset:]
	}
	return markup[offset : offset+end+1]
}

// isNameByte reports whether b can continue an XML name, so "#p1" is not
// found inside "#p10".
func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_', b == '-', b == '.', b == ':':
		return true
	}
	return b >= 0x80
}
