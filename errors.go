package tei

import "errors"

// Sentinel errors returned by the tei package.
var (
	// ErrInvalidTEI indicates the input could not be read as an XML tree
	// (for example, it is empty or not well formed).
	ErrInvalidTEI = errors.New("tei: invalid TEI document")

	// ErrDocumentNotFound indicates no document with the requested id
	// was detected in the edition.
	ErrDocumentNotFound = errors.New("tei: document not found")

	// ErrPageNotFound indicates the requested page id is unknown.
	ErrPageNotFound = errors.New("tei: page not found")

	// ErrEntityNotFound indicates the requested named entity id is unknown.
	ErrEntityNotFound = errors.New("tei: named entity not found")

	// ErrInvalidCollation indicates a collation model, image list or quire
	// diagram could not be read as an XML tree.
	ErrInvalidCollation = errors.New("tei: invalid collation data")

	// ErrQuireNotFound indicates the requested quire id is unknown.
	ErrQuireNotFound = errors.New("tei: quire not found")
)
