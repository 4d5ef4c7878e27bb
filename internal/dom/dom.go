// Package dom provides the read-only view of a rendered chat page that the
// converters work on.
//
// Nodes are golang.org/x/net/html nodes. Selector queries go through goquery
// and, like the browser's querySelector, only ever match descendants of the
// node they are run on, never the node itself.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse parses a full HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ParseString parses a full HTML document held in a string.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// Query returns the first descendant of n matching selector in document
// order, or nil. An invalid selector matches nothing.
func Query(n *html.Node, selector string) *html.Node {
	if n == nil {
		return nil
	}
	sel := goquery.NewDocumentFromNode(n).Find(selector)
	if sel.Length() == 0 {
		return nil
	}
	return sel.Nodes[0]
}

// QueryAll returns every descendant of n matching selector in document order.
func QueryAll(n *html.Node, selector string) []*html.Node {
	if n == nil {
		return nil
	}
	return goquery.NewDocumentFromNode(n).Find(selector).Nodes
}

// Text returns the text content of n: the character data of every
// descendant text node, concatenated in document order.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	return goquery.NewDocumentFromNode(n).Text()
}

// Tag returns the lower-cased tag name of an element node, or "" for any
// other kind of node.
func Tag(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.Data)
}

// Attr returns the value of the attribute key and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Classes returns the class tokens of n.
func Classes(n *html.Node) []string {
	class, _ := Attr(n, "class")
	return strings.Fields(class)
}

// HasClasses reports whether every one of classes is among n's class tokens.
func HasClasses(n *html.Node, classes ...string) bool {
	tokens := Classes(n)
	for _, want := range classes {
		found := false
		for _, have := range tokens {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Children returns the direct children of n in order.
func Children(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Render serializes n and its subtree back to HTML.
func Render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return buf.String(), nil
}
