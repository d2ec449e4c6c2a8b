package tei

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	nonWordRun    = regexp.MustCompile(`\W+`)
	camelBoundary = regexp.MustCompile(`([a-z\d])([A-Z])`)
	firstWord     = regexp.MustCompile(`[^\W_]+[^\s-]*`)
	everyWord     = regexp.MustCompile(`[^\W_]+[^\s-]* *`)
)

// capitalize title-cases the first word of s, or every word when all is
// true. The rest of each affected word is lowercased.
func capitalize(s string, all bool) string {
	if s == "" {
		return ""
	}
	// Casers keep state between calls, so each call gets its own.
	titleCaser := cases.Title(language.Und)
	if all {
		return everyWord.ReplaceAllStringFunc(s, titleCaser.String)
	}
	loc := firstWord.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + titleCaser.String(s[loc[0]:loc[1]]) + s[loc[1]:]
}

// upperFirst uppercases only the first rune of s.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}

// camelToSpace turns "friendOf" into "friend Of" and non-word runs into
// single spaces.
func camelToSpace(s string) string {
	if s == "" {
		return ""
	}
	s = nonWordRun.ReplaceAllString(s, " ")
	return camelBoundary.ReplaceAllString(s, "$1 $2")
}

// camelToUnderscore turns "msIdentifier" into "ms_Identifier".
func camelToUnderscore(s string) string {
	if s == "" {
		return ""
	}
	s = nonWordRun.ReplaceAllString(s, " ")
	return camelBoundary.ReplaceAllString(s, "${1}_$2")
}

// listPositionOf returns the lowercase first character of s, or "".
func listPositionOf(s string) string {
	s = strings.TrimSpace(s)
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return strings.ToLower(string(r))
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// formatDate renders value with layout when it parses as an ISO date and
// returns it unchanged otherwise.
func formatDate(value, layout string) string {
	v := strings.TrimSpace(value)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t.Format(layout)
		}
	}
	return value
}

// isoToDMY converts YYYY-MM-DD into DD/MM/YYYY. Other shapes are returned
// as is.
func isoToDMY(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) == 3 {
		return parts[2] + "/" + parts[1] + "/" + parts[0]
	}
	return iso
}
