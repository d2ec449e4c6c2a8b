package tei

import (
	"regexp"
	"strings"
)

// markupTag matches start, end and self-closing tags, and whole comments
// and CDATA sections so that markup inside them is not taken for tags.
var markupTag = regexp.MustCompile(`<!--[\s\S]*?-->|<!\[CDATA\[[\s\S]*?\]\]>|<[^!>][^>]*>`)

type openTag struct {
	name string
	raw  string
}

// Balance repairs a markup fragment cut out of a larger document so that
// every start tag has a matching end tag.
//
// A partial tag dangling after the last '>' is dropped. End tags whose
// start lies before the fragment get a synthetic start tag prepended to the
// fragment, and start tags still open at the end get end tags appended,
// innermost first. Text and attribute values are never altered, and
// balancing a balanced fragment returns it unchanged.
//
// Crossing tags (an end tag that does not close the innermost open element)
// are repaired by closing the inner elements before the end tag and
// reopening them right after it, so the result is always properly nested.
func Balance(fragment string) string {
	if fragment == "" {
		return ""
	}
	if lt := strings.LastIndex(fragment, "<"); lt > strings.LastIndex(fragment, ">") {
		fragment = fragment[:lt]
	}

	var (
		out     strings.Builder
		stack   []openTag
		prepend []string
		last    int
	)
	closeAll := func(tags []openTag) {
		for i := len(tags) - 1; i >= 0; i-- {
			out.WriteString("</" + tags[i].name + ">")
		}
	}
	reopen := func(tags []openTag) {
		for _, t := range tags {
			out.WriteString(t.raw)
		}
	}

	for _, loc := range markupTag.FindAllStringIndex(fragment, -1) {
		out.WriteString(fragment[last:loc[0]])
		raw := fragment[loc[0]:loc[1]]
		last = loc[1]

		switch {
		case raw[1] == '!':
			out.WriteString(raw)
		case raw[1] == '/' && strings.TrimSpace(raw[2:len(raw)-1]) == "",
			raw[1] != '/' && tagName(raw) == "":
			// Not a tag ("</>", "< >"); keep it as text.
			out.WriteString(raw)
		case raw[1] == '/':
			name := strings.TrimSpace(raw[2 : len(raw)-1])
			i := lastOpen(stack, name)
			switch {
			case i >= 0 && i == len(stack)-1:
				stack = stack[:i]
				out.WriteString(raw)
			case i >= 0:
				inner := append([]openTag(nil), stack[i+1:]...)
				closeAll(inner)
				out.WriteString(raw)
				reopen(inner)
				stack = append(stack[:i], inner...)
			default:
				prepend = append(prepend, name)
				open := append([]openTag(nil), stack...)
				closeAll(open)
				out.WriteString(raw)
				reopen(open)
			}
		case raw[1] == '?' || strings.HasSuffix(raw, "/>"):
			out.WriteString(raw)
		default:
			stack = append(stack, openTag{name: tagName(raw), raw: raw})
			out.WriteString(raw)
		}
	}
	out.WriteString(fragment[last:])
	closeAll(stack)

	if len(prepend) == 0 {
		return out.String()
	}
	var sb strings.Builder
	for i := len(prepend) - 1; i >= 0; i-- {
		sb.WriteString("<" + prepend[i] + ">")
	}
	sb.WriteString(out.String())
	return sb.String()
}

// lastOpen returns the index of the innermost open tag named name, or -1.
func lastOpen(stack []openTag, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name == name {
			return i
		}
	}
	return -1
}

// tagName extracts the element name from a start tag.
func tagName(raw string) string {
	name := raw[1 : len(raw)-1]
	if i := strings.IndexAny(name, " \t\r\n/"); i >= 0 {
		name = name[:i]
	}
	return name
}
