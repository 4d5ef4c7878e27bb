// Package markdown turns the rendered content container of an AI chat turn
// back into Markdown.
//
// The converter only knows the presentation patterns the chat page emits:
// headings, paragraphs, lists, tables wrapped in divisions, section dividers
// and code blocks whose language label sits in a separate element before the
// code. Anything it does not recognize is flattened through the inline
// formatter. It never fails; missing pieces contribute nothing.
package markdown

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/tesh254/turncopy/internal/dom"
)

const blockSeparator = "\n\n"

// Format converts the direct children of container into a Markdown
// document, one block per qualifying child in document order, separated by a
// blank line.
func Format(container *html.Node) string {
	if container == nil {
		return ""
	}

	a := &assembler{}
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		a.add(Classify(c))
	}
	return strings.Join(a.blocks, blockSeparator)
}

// assembler holds the state of one Format pass.
type assembler struct {
	blocks []string
	// language is the pending label waiting for the next code block.
	language string
}

func (a *assembler) add(seg Segment) {
	switch seg.Kind {
	case KindText:
		a.blocks = append(a.blocks, strings.TrimSpace(seg.Node.Data))
	case KindHeading1:
		a.blocks = append(a.blocks, "# "+trimmedText(seg.Node))
	case KindHeading2:
		a.blocks = append(a.blocks, "## "+trimmedText(seg.Node))
	case KindParagraph, KindGeneric:
		a.blocks = append(a.blocks, Inline(seg.Node))
	case KindList:
		a.appendNonEmpty(List(seg.Node))
	case KindTable:
		a.blocks = append(a.blocks, Table(seg.Target))
	case KindDivider:
		a.blocks = append(a.blocks, "---")
	case KindLanguageLabel, KindCodeBlock:
		if seg.HasLabel {
			a.language = seg.Label
		}
		if seg.Kind != KindCodeBlock {
			return
		}
		if block := CodeBlock(seg.Target, a.language); block != "" {
			a.blocks = append(a.blocks, block)
			a.language = ""
		}
	case KindSkip, KindContainer:
	}
}

func (a *assembler) appendNonEmpty(block string) {
	if block != "" {
		a.blocks = append(a.blocks, block)
	}
}

// Describe returns the classification of every direct child of container,
// skipping nodes that never produce output.
func Describe(container *html.Node) []Segment {
	var out []Segment
	for _, c := range dom.Children(container) {
		if seg := Classify(c); seg.Kind != KindSkip {
			out = append(out, seg)
		}
	}
	return out
}
