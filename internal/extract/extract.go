// Package extract locates chat turns in a rendered page and pulls their
// text out: user turns as plain text, AI turns as Markdown.
package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/tesh254/turncopy/internal/config"
	"github.com/tesh254/turncopy/internal/dom"
	"github.com/tesh254/turncopy/internal/markdown"
)

// Role tells user turns and AI turns apart.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one chat turn found in a page.
type Message struct {
	Index int    `json:"index" yaml:"index"`
	Role  Role   `json:"role" yaml:"role"`
	Text  string `json:"text" yaml:"text"`
	// Node is the message element the text was extracted from.
	Node *html.Node `json:"-" yaml:"-"`
}

// Extractor extracts turns using a fixed set of selectors.
type Extractor struct {
	sel config.Selectors
}

// New returns an Extractor for sel.
func New(sel config.Selectors) *Extractor {
	return &Extractor{sel: sel}
}

// Selectors returns the selectors e was built with.
func (e *Extractor) Selectors() config.Selectors {
	return e.sel
}

// UserText returns the trimmed text of a user message's plain-text element,
// or "" when the message has none.
func (e *Extractor) UserText(msg *html.Node) string {
	content := dom.Query(msg, e.sel.UserContent)
	if content == nil {
		return ""
	}
	return strings.TrimSpace(dom.Text(content))
}

// AIContainer returns the rich-content container of an AI message, or nil.
func (e *Extractor) AIContainer(msg *html.Node) *html.Node {
	return dom.Query(msg, e.sel.AIContent)
}

// AIText returns the Markdown rendition of an AI message's content
// container, or "" when the message has none.
func (e *Extractor) AIText(msg *html.Node) string {
	content := e.AIContainer(msg)
	if content == nil {
		return ""
	}
	return markdown.Format(content)
}

// Role reports the role of a message element. Anything not marked as a user
// turn is an AI turn.
func (e *Extractor) Role(msg *html.Node) Role {
	if role, _ := dom.Attr(msg, e.sel.RoleAttr); role == e.sel.UserRole {
		return RoleUser
	}
	return RoleAI
}

// Text extracts the text of msg according to its role.
func (e *Extractor) Text(msg *html.Node) string {
	if e.Role(msg) == RoleUser {
		return e.UserText(msg)
	}
	return e.AIText(msg)
}

// Messages returns every message element below doc in document order.
func (e *Extractor) Messages(doc *html.Node) []Message {
	nodes := dom.QueryAll(doc, e.sel.Message)
	messages := make([]Message, 0, len(nodes))
	for i, n := range nodes {
		messages = append(messages, Message{
			Index: i,
			Role:  e.Role(n),
			Text:  e.Text(n),
			Node:  n,
		})
	}
	return messages
}
