package service

import (
	"strings"

	"golang.org/x/net/html"
)

// ExcerptLength is the number of characters kept from the stripped body.
const ExcerptLength = 150

const excerptSuffix = "..."

// StripMarkup removes HTML tags and comments, keeping text as written.
// Entities are not decoded.
func StripMarkup(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}

// Excerpt returns the first ExcerptLength characters of the markup-stripped
// body followed by "...". The suffix is appended even to short bodies.
func Excerpt(body string) string {
	text := []rune(StripMarkup(body))
	if len(text) > ExcerptLength {
		text = text[:ExcerptLength]
	}
	return string(text) + excerptSuffix
}
