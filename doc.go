// Package tei turns TEI P5 XML editions into the display model of a digital
// scholarly edition viewer.
//
// Parsing detects documents, divisions and pages, splits the text stream at
// page breaks, collects named entities and relations from the lists of the
// source description, and renders the teiHeader into project information
// panels. The result is held in a [Store]; display markup is HTML with
// deferred translation placeholders such as {{ 'LISTS.PERSON' | translate }}.
//
// # Opening an edition
//
// Use [Open] to parse a file by path, or [NewReader] to parse from an
// [io.Reader]. A nil [Config] selects [DefaultConfig]:
//
//	ed, err := tei.Open("edition.xml", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, doc := range ed.Documents() {
//	    fmt.Println(doc.ID, doc.Title, len(doc.Pages))
//	}
//
// # Page text
//
// The original text of every page is stored while parsing. The diplomatic,
// interpretative and normalized levels are rendered on first request by
// [Edition.PageText] and cached:
//
//	html, err := ed.PageText("p1", doc.ID, tei.LevelDiplomatic)
//
// # Named entities
//
// Entities are grouped in collections and bucketed by list position, the
// lowercase first letter used for alphabetical lists:
//
//	st := ed.Store()
//	for _, c := range st.Collections() {
//	    for _, pos := range st.ListPositions(c.ID) {
//	        for _, e := range st.EntitiesAt(c.ID, pos) {
//	            fmt.Println(pos, e.ID, e.Label)
//	        }
//	    }
//	}
//
// [Edition.EntityOccurrences] lists the pages of a document that mention an
// entity.
//
// # Error handling
//
// Only unreadable input and unknown ids are reported as errors:
//   - [ErrInvalidTEI] – the input is not a well-formed XML tree
//   - [ErrDocumentNotFound] – no document has the requested id
//   - [ErrPageNotFound] – no page has the requested id
//   - [ErrEntityNotFound] – no named entity has the requested id
//
// Problems inside a well-formed edition degrade locally. They are logged
// through [Config.Logger] and collected by [Edition.Warnings].
package tei
