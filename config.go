package tei

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// Config controls how an edition is parsed. The zero value is not usable;
// start from DefaultConfig and override fields, or load a TOML file with
// LoadConfig.
type Config struct {
	// DefaultEdition is the edition level rendered when none is requested.
	DefaultEdition EditionLevel `toml:"default_edition"`

	// EditionLevels lists the levels PageTexts renders for every page.
	EditionLevels []EditionLevel `toml:"edition_levels"`

	// SingleImagesURL is the prefix used to build a page image URL when the
	// page break has no facs attribute: SingleImagesURL + pageID + ".jpg".
	SingleImagesURL string `toml:"single_images_url"`

	// Witnesses restricts the witness registry to these ids when non-empty.
	Witnesses []string `toml:"witnesses"`

	// NamedEntities enables the named-entity reference rule.
	NamedEntities bool `toml:"named_entities"`

	// DateLayout is the time layout used to display parsable dates.
	DateLayout string `toml:"date_layout"`

	Tags TagConfig `toml:"tags"`

	Collation CollationConfig `toml:"collation"`

	// Logger receives diagnostics for recovered failures.
	Logger logrus.FieldLogger `toml:"-"`
}

// TagConfig is the TEI vocabulary the engine reacts to.
type TagConfig struct {
	PageBreak     string   `toml:"page_break"`
	LineBreak     string   `toml:"line_break"`
	Line          string   `toml:"line"`
	Note          string   `toml:"note"`
	Date          string   `toml:"date"`
	Glyph         string   `toml:"glyph"`
	NamedEntities []string `toml:"named_entities"`

	// SkipMarkers are class values that make the transformer pass an
	// element through untouched.
	SkipMarkers []string `toml:"skip_markers"`

	ProjectInfo ProjectInfoTags `toml:"project_info"`
}

// CollationConfig names the files of a manuscript collation model. Open
// resolves relative paths against the directory of the edition file and
// loads every file that is set.
type CollationConfig struct {
	// Model is the collation data model holding quires and leaves.
	Model string `toml:"model"`

	// ImageList is the list of leaf-side images.
	ImageList string `toml:"image_list"`

	// DiagramDir holds the quire diagrams named by Quire.DiagramFile.
	DiagramDir string `toml:"diagram_dir"`
}

// ProjectInfoTags drives the labels added in project-info context.
// The four label sets are checked in priority order.
type ProjectInfoTags struct {
	SectionHeaders    []string `toml:"section_headers"`
	SectionSubHeaders []string `toml:"section_sub_headers"`
	BlockLabels       []string `toml:"block_labels"`
	InlineLabels      []string `toml:"inline_labels"`
	Change            string   `toml:"change"`
	ChangeWhen        string   `toml:"change_when"`
	ChangeBy          string   `toml:"change_by"`
}

// DefaultConfig returns the built-in configuration for TEI P5 editions.
func DefaultConfig() *Config {
	return &Config{
		DefaultEdition:  LevelDiplomatic,
		EditionLevels:   []EditionLevel{LevelDiplomatic, LevelInterpretative},
		SingleImagesURL: "data/images/single/",
		NamedEntities:   true,
		DateLayout:      "1/2/2006",
		Tags: TagConfig{
			PageBreak:     "pb",
			LineBreak:     "lb",
			Line:          "l",
			Note:          "note",
			Date:          "date",
			Glyph:         "g",
			NamedEntities: []string{"placeName", "geogName", "persName", "orgName", "rs", "bibl"},
			SkipMarkers:   []string{"depaAnchor", "depaContent", "glyph"},
			ProjectInfo: ProjectInfoTags{
				SectionHeaders: []string{"sourceDesc"},
				SectionSubHeaders: []string{
					"projectDesc", "refsDecl", "notesStmt", "seriesStmt", "publicationStmt",
					"respStmt", "funder", "sponsor", "msContents", "revisionDesc", "principal",
					"langUsage", "particDesc", "textClass", "variantEncoding", "editorialDecl",
					"msIdentifier", "physDesc", "history", "extent", "editionStmt",
				},
				BlockLabels: []string{
					"edition", "correction", "hyphenation", "interpretation", "normalization",
					"punctuation", "interpGrp", "quotation", "segmentation", "stdVals",
					"colophon", "handDesc", "decoDesc", "supportDesc", "origin",
				},
				InlineLabels: []string{
					"authority", "settlement", "publisher", "pubPlace", "availability",
					"author", "editor", "idno", "date", "repository", "msName", "textLang",
				},
				Change:     "change",
				ChangeWhen: "when",
				ChangeBy:   "who",
			},
		},
	}
}

// LoadConfig reads a TOML configuration file. Keys missing from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tei: read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML configuration data on top of DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("tei: parse config: %w", err)
	}
	return cfg, nil
}

// logger returns the configured logger, falling back to the logrus
// standard logger.
func (c *Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}
