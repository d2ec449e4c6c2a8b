package tei

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// collationParser fills the collation part of a Store. The model is read
// first, then the image list, whose conjoins need the leaves, then the
// quire diagrams, whose leaves need the images.
type collationParser struct {
	store *Store
	log   logrus.FieldLogger
}

// parseCollation records the quires and leaves of a collation model.
// Quires without n are numbered "quire<k>"; a leaf without a q element
// has no place in a quire and is skipped.
func (c collationParser) parseCollation(root *etree.Element) {
	shelfmark := strings.TrimSpace(textContent(firstDescendant(root, "shelfmark")))

	for _, el := range descendants(root, "quire") {
		q := &Quire{ID: elementID(el), N: el.SelectAttrValue("n", "")}
		if q.N == "" {
			q.N = "quire" + strconv.Itoa(len(c.store.Quires())+1)
		}
		if q.ID == "" {
			q.ID = q.N
		}
		if shelfmark != "" {
			q.DiagramFile = "id-" + shelfmark + "-" + q.N + ".svg"
		}
		c.store.AddQuire(q)
	}

	for _, el := range descendants(root, "leaf") {
		qi := firstDescendant(el, "q")
		if qi == nil {
			continue
		}
		l := &Leaf{
			ID:          elementID(el),
			Quire:       strings.TrimPrefix(qi.SelectAttrValue("target", ""), "#"),
			LeafNo:      qi.SelectAttrValue("leafno", ""),
			FolioNumber: strings.TrimSpace(textContent(firstDescendant(el, "folioNumber"))),
		}
		if conj := qi.ChildElements(); len(conj) > 0 {
			l.Conjoin = strings.TrimPrefix(conj[0].SelectAttrValue("target", ""), "#")
		}
		if mode := firstDescendant(el, "mode"); mode != nil {
			l.Mode = mode.SelectAttrValue("val", "")
		}
		if !c.store.AddLeaf(l) {
			c.log.WithFields(logrus.Fields{"leaf": l.ID, "quire": l.Quire}).Debug("tei: leaf names an unknown quire")
		}
	}
}

// parseImageList records the leaf-side images and links each to the
// facing side of its conjoined leaf.
func (c collationParser) parseImageList(root *etree.Element) {
	for _, el := range descendants(root, "image") {
		img := &ImageListItem{
			ID:    el.SelectAttrValue("id", ""),
			Value: el.SelectAttrValue("val", ""),
			URL:   el.SelectAttrValue("url", ""),
		}
		if img.ID == "" {
			c.log.WithField("url", img.URL).Debug("tei: image without id")
			continue
		}
		if leaf, ok := c.store.Leaf(sideLeaf(img.ID)); ok && leaf.Conjoin != "" {
			img.Conjoin = leaf.Conjoin + facingSide(img.ID)
		}
		c.store.AddImage(img)
	}
	for _, img := range c.store.ImageList() {
		if other, ok := c.store.Image(img.Conjoin); ok {
			img.ConjoinURL = other.URL
		}
	}
}

// sideLeaf returns the leaf id of an image id such as "leaf3-r".
func sideLeaf(imageID string) string {
	if len(imageID) < 2 {
		return ""
	}
	return imageID[:len(imageID)-2]
}

// facingSide returns the side of a conjoined leaf that faces imageID: a
// verso faces a recto and the other way round.
func facingSide(imageID string) string {
	if strings.HasSuffix(imageID, "v") {
		return "-r"
	}
	return "-v"
}

var (
	diagramTitle = regexp.MustCompile(`quire\s\d*\sfor`)
	digitRun     = regexp.MustCompile(`\d+`)
)

// parseDiagram reads the SVG diagram of quire quireID. The quire number is
// taken from a title such as "Diagram of quire 2 for ..." in the first
// child; every g element with an id is a leaf.
func (c collationParser) parseDiagram(root *etree.Element, quireID string) *QuireDiagram {
	d := &QuireDiagram{QuireID: quireID, Markup: outerXML(root)}
	if kids := root.ChildElements(); len(kids) > 0 {
		if m := diagramTitle.FindString(innerXML(kids[0])); m != "" {
			d.QuireN = digitRun.FindString(m)
		}
	}

	images := c.store.ImageList()
	for _, g := range descendants(root, "g") {
		id := g.SelectAttrValue("id", "")
		if id == "" {
			continue
		}
		leaf := DiagramLeaf{ID: strings.ReplaceAll(id, "#", "")}
		for _, img := range images {
			if sideLeaf(img.ID) != leaf.ID {
				continue
			}
			side := LeafImage{ImageID: img.Value, URL: img.URL, ConjoinURL: img.ConjoinURL}
			if img.ConjoinURL != "" {
				facing, _, ok := lo.FindLastIndexOf(images, func(o *ImageListItem) bool { return o.Conjoin == img.ID })
				if ok {
					side.ConjoinID = facing.Value
				}
			}
			leaf.Images = append(leaf.Images, side)
		}
		d.Leaves = append(d.Leaves, leaf)
	}
	return d
}

// ReadCollation parses a collation model (quires and leaves) from r.
func (e *Edition) ReadCollation(r io.Reader) error {
	root, err := readCollationXML(r)
	if err != nil {
		return err
	}
	e.collation().parseCollation(root)
	return nil
}

// ReadImageList parses the leaf-side image list from r. Read it after the
// collation model so that conjoined sides can be linked.
func (e *Edition) ReadImageList(r io.Reader) error {
	root, err := readCollationXML(r)
	if err != nil {
		return err
	}
	e.collation().parseImageList(root)
	return nil
}

// ReadQuireDiagram parses the SVG diagram of quire quireID from r.
func (e *Edition) ReadQuireDiagram(r io.Reader, quireID string) error {
	if _, ok := e.store.Quire(quireID); !ok {
		return fmt.Errorf("tei: quire %s: %w", quireID, ErrQuireNotFound)
	}
	root, err := readCollationXML(r)
	if err != nil {
		return err
	}
	e.store.AddQuireDiagram(e.collation().parseDiagram(root, quireID))
	return nil
}

func (e *Edition) collation() collationParser {
	return collationParser{store: e.store, log: e.log}
}

func readCollationXML(r io.Reader) (*etree.Element, error) {
	data, err := readSource(r)
	if err != nil {
		return nil, err
	}
	doc := newDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("tei: read collation xml: %v: %w", err, ErrInvalidCollation)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("tei: no collation root element: %w", ErrInvalidCollation)
	}
	return doc.Root(), nil
}

// loadCollation reads the collation files named in the configuration,
// resolving relative paths against dir. A file that cannot be read is
// recorded as a warning.
func (e *Edition) loadCollation(dir string) {
	cc := e.cfg.Collation
	load := func(name string, read func(io.Reader) error) {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		f, err := os.Open(path)
		if err != nil {
			e.warn(e.log.WithField("file", path), "collation file %s: %v", path, err)
			return
		}
		defer f.Close()
		if err := read(f); err != nil {
			e.warn(e.log.WithField("file", path), "collation file %s: %v", path, err)
		}
	}

	if cc.Model != "" {
		load(cc.Model, e.ReadCollation)
	}
	if cc.ImageList != "" {
		load(cc.ImageList, e.ReadImageList)
	}
	if cc.DiagramDir == "" {
		return
	}
	for _, q := range e.store.Quires() {
		if q.DiagramFile == "" {
			continue
		}
		load(filepath.Join(cc.DiagramDir, q.DiagramFile), func(r io.Reader) error {
			return e.ReadQuireDiagram(r, q.ID)
		})
	}
}
