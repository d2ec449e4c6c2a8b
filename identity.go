package tei

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// maxPathDepth bounds the ancestor walk; deeper chains are treated as
// malformed.
const maxPathDepth = 4096

// fallbackIDs numbers identifiers handed out when a path cannot be
// derived. It is shared by every resolver in the process.
var fallbackIDs atomic.Int64

// IdentityResolver derives identifiers for elements lacking an xml:id.
type IdentityResolver struct {
	log logrus.FieldLogger
}

// NewIdentityResolver returns a resolver logging fallbacks to log.
func NewIdentityResolver(log logrus.FieldLogger) *IdentityResolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &IdentityResolver{log: log}
}

// Resolve returns the xml:id of el when present, otherwise its synthetic
// path identifier (see XPath).
func (r *IdentityResolver) Resolve(el *etree.Element) string {
	if id := elementID(el); id != "" {
		return id
	}
	return r.XPath(el)
}

// XPath builds a path identifier by walking from el up to the document
// root. Each level contributes "-tag", suffixed by the element's position
// among same-tag siblings minus one when it is not the first of several
// ("-div", "-div1", "-div2"). The TEI root contributes nothing.
//
// Detached or malformed input yields "-id<N>" from a process-wide counter;
// such identifiers are not reproducible across runs. Resolution never
// mutates the tree.
func (r *IdentityResolver) XPath(el *etree.Element) string {
	path, ok := xpath(el)
	if !ok {
		n := fallbackIDs.Add(1)
		r.log.WithField("tag", tagOf(el)).Debug("tei: element has no stable path, using positional id")
		return "-id" + strconv.FormatInt(n, 10)
	}
	return path
}

func tagOf(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return el.Tag
}

// xpath returns the path of el and whether it reaches a document.
func xpath(el *etree.Element) (string, bool) {
	if el == nil || el.Tag == "" {
		return "", false
	}
	var segments []string
	depth := 0
	e := el
	for ; e != nil && e.Tag != ""; e = e.Parent() {
		if depth++; depth > maxPathDepth {
			return "", false
		}
		segments = append(segments, pathSegment(e))
	}
	// A nil parent means the chain ended on a detached element instead of
	// a document.
	if e == nil {
		return "", false
	}
	var sb strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		sb.WriteString(segments[i])
	}
	return sb.String(), true
}

func pathSegment(el *etree.Element) string {
	tag := strings.ToLower(el.Tag)
	if tag == "tei" {
		return ""
	}
	seg := "-" + tag
	p := el.Parent()
	if p == nil {
		return seg
	}
	pos, same := 0, 0
	for _, c := range p.ChildElements() {
		if c.Tag != el.Tag {
			continue
		}
		same++
		if c == el {
			pos = same
		}
	}
	if same > 1 && pos > 1 {
		seg += strconv.Itoa(pos - 1)
	}
	return seg
}
