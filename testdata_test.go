package tei

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const teiNS = `xmlns="http://www.tei-c.org/ns/1.0"`

// testConfig returns DefaultConfig logging into a discarding logger whose
// entries are captured by the returned hook.
func testConfig() (*Config, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	cfg := DefaultConfig()
	cfg.Logger = log
	return cfg, hook
}

// parseTestEdition parses src with a quiet configuration.
func parseTestEdition(t *testing.T, src string) *Edition {
	t.Helper()
	cfg, _ := testConfig()
	ed, err := ParseString(src, cfg)
	require.NoError(t, err)
	return ed
}

// buildTEI wraps a sourceDesc body and a text body into a TEI document.
func buildTEI(sourceDesc, body string) string {
	var sb strings.Builder
	sb.WriteString(`<TEI ` + teiNS + `><teiHeader><fileDesc><titleStmt><title>Test edition</title></titleStmt>`)
	sb.WriteString(`<sourceDesc>` + sourceDesc + `</sourceDesc></fileDesc></teiHeader>`)
	sb.WriteString(`<text><body>` + body + `</body></text></TEI>`)
	return sb.String()
}

// parseElement parses src and returns its root element, still attached to
// its document.
func parseElement(t *testing.T, src string) *etree.Element {
	t.Helper()
	doc := newDocument()
	require.NoError(t, doc.ReadFromString(src))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

// find returns the first element below root with tag and, when id is not
// empty, that xml:id.
func find(t *testing.T, root *etree.Element, tag, id string) *etree.Element {
	t.Helper()
	if root.Tag == tag && (id == "" || elementID(root) == id) {
		return root
	}
	for _, el := range descendants(root, tag) {
		if id == "" || elementID(el) == id {
			return el
		}
	}
	t.Fatalf("no <%s xml:id=%q> in fixture", tag, id)
	return nil
}

func newTestTransformer() *Transformer {
	cfg, _ := testConfig()
	return NewTransformer(cfg, NewStore())
}
