package tei

import (
	"github.com/beevik/etree"
)

// projectInfoOptions render teiHeader sections with field labels. Notes
// and the bibliography and witness lists are left out.
var projectInfoOptions = Options{
	Exclude:   NewTagSet("listBibl", "listWit"),
	SkipNotes: true,
	Context:   ContextProjectInfo,
}

// parseProjectInfo fills the project information of the store from every
// teiHeader below root. Later headers overwrite earlier ones section by
// section.
func (p *parser) parseProjectInfo(root *etree.Element) {
	headers := descendants(root, "teiHeader")
	if root.Tag == "teiHeader" {
		headers = append([]*etree.Element{root}, headers...)
	}
	b := frontBuilder{t: p.t}

	for _, h := range headers {
		p.store.updateProjectInfo(func(info *ProjectInfo) {
			info.EditionReference = EditionReference{
				Title:     firstText(selectAll(h, "titleStmt", "title")),
				Author:    firstText(selectAll(h, "titleStmt", "author")),
				Publisher: firstText(selectAll(h, "publicationStmt", "publisher")),
			}
		})

		for _, fd := range descendants(h, "fileDesc") {
			if len(fd.ChildElements()) > 0 {
				out := renderHTML(b.fileDesc(fd))
				p.store.updateProjectInfo(func(info *ProjectInfo) { info.FileDescription = out })
			}
		}

		for _, enc := range descendants(h, "encodingDesc") {
			p.parseEncodingDescription(h, enc)
		}

		for _, pd := range descendants(h, "profileDesc") {
			if len(pd.ChildElements()) > 0 {
				out := renderHTML(b.profileDesc(pd))
				p.store.updateProjectInfo(func(info *ProjectInfo) { info.TextProfile = out })
			}
		}

		for _, xd := range descendants(h, "xenoData") {
			if len(xd.ChildElements()) > 0 {
				out := p.t.TransformHTML(h, xd, projectInfoOptions)
				p.store.updateProjectInfo(func(info *ProjectInfo) { info.OutsideMetadata = out })
			}
		}

		for _, rd := range descendants(h, "revisionDesc") {
			out := renderHTML(b.revisionHistory(rd))
			p.store.updateProjectInfo(func(info *ProjectInfo) { info.RevisionHistory = out })
		}

		for _, ms := range descendants(h, "msDesc") {
			out := p.t.TransformHTML(h, ms, projectInfoOptions)
			p.store.updateProjectInfo(func(info *ProjectInfo) { info.MsDesc = out })
		}

		for _, lst := range descendants(h, "listObject") {
			out := p.t.TransformHTML(h, lst, projectInfoOptions)
			p.store.updateProjectInfo(func(info *ProjectInfo) { info.ListObject = out })
		}
	}
}

// parseEncodingDescription renders an encodingDesc holding a
// variantEncoding and records the variant encoding method and location.
func (p *parser) parseEncodingDescription(header, enc *etree.Element) {
	if len(enc.ChildElements()) == 0 {
		return
	}
	var content string
	if ve := firstDescendant(enc, "variantEncoding"); ve != nil {
		method := ve.SelectAttrValue("method", "")
		content = p.t.TransformHTML(header, enc, projectInfoOptions) +
			`<span class="variantEncoding">{{ 'PROJECT_INFO.ENCODING_METHOD_USED' | translate:'{ method:  "` + method + `" }' }}</span>`

		details := p.store.Encoding()
		if a := ve.SelectAttr("method"); a != nil {
			details.VariantEncodingMethod = a.Value
		}
		if a := ve.SelectAttr("location"); a != nil {
			details.VariantEncodingLocation = a.Value
		}
		p.store.SetEncoding(details)
	}
	p.store.updateProjectInfo(func(info *ProjectInfo) { info.EncodingDescription = content })
}

func firstText(els []*etree.Element) string {
	if len(els) == 0 {
		return ""
	}
	return textContent(els[0])
}
