package markdown

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/tesh254/turncopy/internal/dom"
)

// MissingHref is written as the link target of an anchor without an href.
// It matches what the chat page's own copy handler produced.
const MissingHref = "null"

// Inline converts the children of n into a single line of inline Markdown.
// Text is copied verbatim; code, strong, em and link elements are wrapped
// around their trimmed text; every other element, b and i included, is
// treated as a transparent wrapper and recursed into.
func Inline(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	writeInline(&b, n)
	return b.String()
}

func writeInline(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			writeInlineElement(b, c)
		}
	}
}

func writeInlineElement(b *strings.Builder, n *html.Node) {
	switch dom.Tag(n) {
	case "code":
		b.WriteString("`" + trimmedText(n) + "`")
	case "strong":
		b.WriteString("**" + trimmedText(n) + "**")
	case "em":
		b.WriteString("*" + trimmedText(n) + "*")
	case "a":
		href, ok := dom.Attr(n, "href")
		if !ok {
			href = MissingHref
		}
		b.WriteString("[" + trimmedText(n) + "](" + href + ")")
	default:
		writeInline(b, n)
	}
}

func trimmedText(n *html.Node) string {
	return strings.TrimSpace(dom.Text(n))
}
