package epubtext

import (
	"regexp"

	"github.com/simp-lee/epubtext/epub"
)

// tagPattern matches "<", any run of characters other than ">", then ">".
// Comments, CDATA and stray angle brackets are not treated specially.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Stripper turns the body markup of one document part into text.
// It must be safe for concurrent use.
type Stripper func(body string) (string, error)

// StripTags removes every substring matching <[^>]*> from s.
// Character references such as &amp; are left as they are.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// RegexpStripper is the default Stripper. It applies StripTags and never fails.
func RegexpStripper(body string) (string, error) {
	return StripTags(body), nil
}

// StripMarkup extracts text with an HTML tokenizer instead of a regular
// expression. Block elements become line breaks, script and style content
// is dropped and character references are decoded.
func StripMarkup(body string) (string, error) {
	return epub.PlainText(body)
}
