// Package render builds the HTML fragments served to htmx. Untrusted values
// only reach markup through EscapeText and EscapeAttr.
package render

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
	)
)

// EscapeText escapes s for use as element text content.
func EscapeText(s string) string {
	if s == "" {
		return ""
	}
	return textEscaper.Replace(s)
}

// EscapeAttr escapes s for use inside a quoted attribute value.
func EscapeAttr(s string) string {
	if s == "" {
		return ""
	}
	return attrEscaper.Replace(s)
}
