// Package codec provides the two escaping disciplines the panel needs:
// transport encoding for embedding untrusted strings in URL path segments,
// and markup escaping for displaying them. They are not interchangeable —
// EncodeSegment/DecodeSegment round-trip, EscapeMarkup is one-way.
package codec

import (
	"net/url"
	"strings"
)

// EncodeSegment encodes raw so it is safe as a single URL path segment or
// a markup attribute value. DecodeSegment inverts it exactly.
func EncodeSegment(raw string) string {
	return url.PathEscape(raw)
}

// DecodeSegment recovers the string passed to EncodeSegment.
func DecodeSegment(encoded string) (string, error) {
	return url.PathUnescape(encoded)
}

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeMarkup neutralizes markup-significant characters for display.
// It is not the inverse of EncodeSegment.
func EscapeMarkup(text string) string {
	return markupEscaper.Replace(text)
}
