package parser

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML drops markup from s and decodes entities, returning the visible
// text. Case-law titles come back from the search backend with <b> highlights
// and &nbsp; padding
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF at the end of input; the tokenizer never fails on bad markup
			return strings.TrimSpace(strings.ReplaceAll(b.String(), "\u00a0", " "))
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
