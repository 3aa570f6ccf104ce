package epub

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// entityNameToNumeric maps lowercase HTML entity names to their XML numeric
// character references. encoding/xml does not recognise HTML named entities,
// so they are converted before the OPF is unmarshalled.
var entityNameToNumeric = map[string][]byte{
	"nbsp": []byte("&#160;"), "mdash": []byte("&#8212;"), "ndash": []byte("&#8211;"),
	"hellip": []byte("&#8230;"),
	"lsquo": []byte("&#8216;"), "rsquo": []byte("&#8217;"),
	"ldquo": []byte("&#8220;"), "rdquo": []byte("&#8221;"),
	"copy": []byte("&#169;"), "reg": []byte("&#174;"), "trade": []byte("&#8482;"),
	"eacute": []byte("&#233;"), "egrave": []byte("&#232;"),
	"aacute": []byte("&#225;"), "agrave": []byte("&#224;"),
	"ouml": []byte("&#246;"), "uuml": []byte("&#252;"), "auml": []byte("&#228;"),
	"laquo": []byte("&#171;"), "raquo": []byte("&#187;"),
}

var htmlEntityPattern = regexp.MustCompile(
	`(?i)&(nbsp|mdash|ndash|hellip|lsquo|rsquo|ldquo|rdquo|copy|reg|trade|` +
		`eacute|egrave|aacute|agrave|ouml|uuml|auml|laquo|raquo);`)

// preprocessHTMLEntities replaces common HTML named entities with numeric
// character references. Matching is case-insensitive.
func preprocessHTMLEntities(data []byte) []byte {
	return htmlEntityPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := strings.ToLower(string(match[1 : len(match)-1]))
		if replacement, ok := entityNameToNumeric[name]; ok {
			return replacement
		}
		return match
	})
}

// selfClosingRawTagPattern matches XHTML-style self-closed elements that the
// HTML parser treats as raw text containers. Left alone, "<title/>" would
// swallow the rest of the document.
var selfClosingRawTagPattern = regexp.MustCompile(`(?is)<(script|style|title|textarea)\b([^>]*)/>`)

func normalizeSelfClosingRawTags(data []byte) []byte {
	if !selfClosingRawTagPattern.Match(data) {
		return data
	}
	return selfClosingRawTagPattern.ReplaceAll(data, []byte(`<$1$2></$1>`))
}

// bodyInnerHTML returns the source markup between the <body> start tag and
// the matching </body> (or </html>, or the end of data when neither is
// present). The bytes are returned as written: character references stay
// encoded and nothing is trimmed. A document without a <body> tag yields "".
func bodyInnerHTML(data []byte) (string, error) {
	src := normalizeSelfClosingRawTags(data)
	tokenizer := html.NewTokenizer(bytes.NewReader(src))

	offset, start := 0, -1
	for {
		tt := tokenizer.Next()
		n := len(tokenizer.Raw())

		switch tt {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			if start < 0 {
				return "", nil
			}
			return string(src[start:]), nil

		case html.StartTagToken, html.SelfClosingTagToken:
			if start < 0 {
				if tn, _ := tokenizer.TagName(); atom.Lookup(tn) == atom.Body {
					start = offset + n
				}
			}

		case html.EndTagToken:
			if start >= 0 {
				tn, _ := tokenizer.TagName()
				if a := atom.Lookup(tn); a == atom.Body || a == atom.Html {
					return string(src[start:offset]), nil
				}
			}
		}
		offset += n
	}
}

// PlainText extracts readable text from an HTML or XHTML fragment.
// Block-level elements produce line breaks, script and style content is
// dropped and character references are decoded.
func PlainText(markup string) (string, error) {
	return extractText([]byte(markup))
}

// blockTags insert a line break when encountered during text extraction.
var blockTags = map[atom.Atom]bool{
	atom.P:          true,
	atom.Br:         true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Tr:         true,
	atom.Blockquote: true,
	atom.Hr:         true,
}

// skipTags have their content dropped during text extraction.
var skipTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Title:  true,
}

func extractText(data []byte) (string, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(normalizeSelfClosingRawTags(data)))

	var buf bytes.Buffer
	skipDepth := 0
	lastWasNewline := true

	breakLine := func() {
		if buf.Len() > 0 && !lastWasNewline {
			if buf.Bytes()[buf.Len()-1] == ' ' {
				buf.Truncate(buf.Len() - 1)
			}
			buf.WriteByte('\n')
			lastWasNewline = true
		}
	}

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return strings.TrimSpace(buf.String()), nil

		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			a := atom.Lookup(tn)
			if skipTags[a] {
				skipDepth++
				continue
			}
			if skipDepth == 0 && blockTags[a] {
				breakLine()
			}

		case html.SelfClosingTagToken:
			tn, _ := tokenizer.TagName()
			if skipDepth == 0 && blockTags[atom.Lookup(tn)] {
				breakLine()
			}

		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if skipTags[atom.Lookup(tn)] && skipDepth > 0 {
				skipDepth--
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			if text := collapseWhitespace(string(tokenizer.Text())); text != "" {
				if lastWasNewline {
					text = strings.TrimLeft(text, " ")
				}
				buf.WriteString(text)
				lastWasNewline = false
			}
		}
	}
}

// collapseWhitespace replaces runs of whitespace with a single space.
// An all-whitespace input yields "". Leading and trailing runs survive as a
// single space so inline elements keep their spacing.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	out := strings.Join(fields, " ")
	if isWhitespace(rune(s[0])) {
		out = " " + out
	}
	if isWhitespace(rune(s[len(s)-1])) {
		out += " "
	}
	return out
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
