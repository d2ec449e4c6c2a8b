package tei

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// Edition is a parsed TEI edition: its documents, pages, divisions, named
// entities and project information, held in a Store. Page text for the
// non-original edition levels is rendered on first request.
//
// An Edition is not safe for concurrent use by multiple goroutines.
type Edition struct {
	cfg      *Config
	store    *Store
	t        *Transformer
	log      logrus.FieldLogger
	warnings []string
}

// Open reads and parses the TEI file at path. A nil cfg uses
// DefaultConfig. The collation files named in cfg.Collation are loaded
// from paths relative to the directory of path.
func Open(path string, cfg *Config) (*Edition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tei: open %s: %w", path, err)
	}
	defer f.Close()

	e, err := NewReader(f, cfg)
	if err != nil {
		return nil, err
	}
	e.loadCollation(filepath.Dir(path))
	return e, nil
}

// NewReader parses a TEI edition read from r.
func NewReader(r io.Reader, cfg *Config) (*Edition, error) {
	data, err := readSource(r)
	if err != nil {
		return nil, err
	}
	doc := newDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("tei: read xml: %v: %w", err, ErrInvalidTEI)
	}
	return Parse(doc, cfg)
}

// ParseString parses a TEI edition held in s.
func ParseString(s string, cfg *Config) (*Edition, error) {
	return NewReader(strings.NewReader(s), cfg)
}

// Parse builds an Edition from an already parsed XML tree. The tree is
// modified: entity lists are detached once their entities are collected.
func Parse(doc *etree.Document, cfg *Config) (*Edition, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("tei: no root element: %w", ErrInvalidTEI)
	}

	store := NewStore()
	t := NewTransformer(cfg, store)
	e := &Edition{cfg: cfg, store: store, t: t, log: t.log}

	p := &parser{
		cfg:    cfg,
		store:  store,
		t:      t,
		ids:    t.ids,
		log:    t.log,
		pageOf: make(map[*etree.Element]string),
	}
	p.run(root)
	e.warnings = p.warnings
	return e, nil
}

// Store returns the parsed data model.
func (e *Edition) Store() *Store { return e.store }

// Config returns the configuration the edition was parsed with.
func (e *Edition) Config() *Config { return e.cfg }

// Warnings returns the non-fatal problems met while parsing and rendering.
func (e *Edition) Warnings() []string {
	return append([]string(nil), e.warnings...)
}

// Documents returns the documents of the edition in detection order.
func (e *Edition) Documents() []*Document { return e.store.Documents() }

// Entity returns the named entity with the given id.
func (e *Edition) Entity(id string) (*Entity, error) {
	ent, ok := e.store.NamedEntity(id)
	if !ok {
		return nil, fmt.Errorf("tei: entity %s: %w", id, ErrEntityNotFound)
	}
	return ent, nil
}

// PageDocument returns the first document listing page pageID.
func (e *Edition) PageDocument(pageID string) (*Document, error) {
	if _, ok := e.store.Page(pageID); !ok {
		return nil, fmt.Errorf("tei: page %s: %w", pageID, ErrPageNotFound)
	}
	for _, d := range e.store.Documents() {
		for _, id := range d.Pages {
			if id == pageID {
				return d, nil
			}
		}
	}
	return nil, fmt.Errorf("tei: page %s: %w", pageID, ErrDocumentNotFound)
}

func (e *Edition) warn(log logrus.FieldLogger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.warnings = append(e.warnings, msg)
	log.Warn("tei: " + msg)
}

// parser is one parse session over a source tree.
type parser struct {
	cfg   *Config
	store *Store
	t     *Transformer
	ids   *IdentityResolver
	log   logrus.FieldLogger

	// pageOf maps page-break elements to the id of the page they open.
	pageOf map[*etree.Element]string
	divSeq int

	warnings []string
}

// run fills the store from root. Entity lists are collected after
// segmentation, and project info last, so that the header panels are
// rendered without the lists already shown as collections.
func (p *parser) run(root *etree.Element) {
	p.analyzeEncoding(root)
	p.parseGlyphs(root)
	p.parseWitnesses(root)
	p.parseDocuments(root)
	newEntityCollector(p.t).collect(root)
	p.parseProjectInfo(root)

	p.log.WithFields(logrus.Fields{
		"documents":   p.store.DocumentCount(),
		"pages":       p.store.PageCount(),
		"divisions":   p.store.DivisionCount(),
		"collections": len(p.store.Collections()),
	}).Debug("tei: edition parsed")
}

func (p *parser) warn(log logrus.FieldLogger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.warnings = append(p.warnings, msg)
	log.Warn("tei: " + msg)
}
