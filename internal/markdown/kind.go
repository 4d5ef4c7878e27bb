package markdown

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/tesh254/turncopy/internal/dom"
)

// Kind is the classification of one direct child of a content container.
type Kind int

const (
	// KindSkip covers whitespace-only text, comments and anything else that
	// never produces output.
	KindSkip Kind = iota
	KindText
	KindHeading1
	KindHeading2
	KindParagraph
	KindList
	KindTable
	KindDivider
	// KindLanguageLabel is a division holding a language label but no code.
	KindLanguageLabel
	// KindCodeBlock is a division holding a pre element, possibly preceded
	// by its own language label.
	KindCodeBlock
	// KindContainer is a division matching none of the known patterns.
	KindContainer
	// KindGeneric is any other element, rendered through the inline formatter.
	KindGeneric
)

var kindNames = map[Kind]string{
	KindSkip:          "skip",
	KindText:          "text",
	KindHeading1:      "heading1",
	KindHeading2:      "heading2",
	KindParagraph:     "paragraph",
	KindList:          "list",
	KindTable:         "table",
	KindDivider:       "divider",
	KindLanguageLabel: "language-label",
	KindCodeBlock:     "code-block",
	KindContainer:     "container",
	KindGeneric:       "generic",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Class signatures of the chat page's rendered markup.
const (
	tableSelector = "table.t-table"
	labelSelector = "span.capitalize"
	preSelector   = "pre"
)

var dividerClasses = []string{"relative", "pb-6", "w-full", "after:border-b"}

// Segment is a classified child node.
type Segment struct {
	Kind Kind
	Node *html.Node
	// Target is the located table element for KindTable and the pre element
	// for KindCodeBlock.
	Target *html.Node
	// Label is the lower-cased language label; HasLabel reports whether a
	// label element was present at all, even an empty one.
	Label    string
	HasLabel bool
}

// Classify maps a node to its Segment. Divisions are tested for a table
// first, then the section divider signature, and only then for a language
// label and a code block, which may both be present.
func Classify(n *html.Node) Segment {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return Segment{Kind: KindSkip, Node: n}
		}
		return Segment{Kind: KindText, Node: n}
	case html.ElementNode:
	default:
		return Segment{Kind: KindSkip, Node: n}
	}

	switch dom.Tag(n) {
	case "h1":
		return Segment{Kind: KindHeading1, Node: n}
	case "h2":
		return Segment{Kind: KindHeading2, Node: n}
	case "p":
		return Segment{Kind: KindParagraph, Node: n}
	case "ul", "ol":
		return Segment{Kind: KindList, Node: n}
	case "div":
		return classifyDivision(n)
	default:
		return Segment{Kind: KindGeneric, Node: n}
	}
}

func classifyDivision(n *html.Node) Segment {
	if table := dom.Query(n, tableSelector); table != nil {
		return Segment{Kind: KindTable, Node: n, Target: table}
	}
	if dom.HasClasses(n, dividerClasses...) {
		return Segment{Kind: KindDivider, Node: n}
	}

	seg := Segment{Kind: KindContainer, Node: n}
	if label := dom.Query(n, labelSelector); label != nil {
		seg.Kind = KindLanguageLabel
		seg.Label = strings.ToLower(strings.TrimSpace(dom.Text(label)))
		seg.HasLabel = true
	}
	if pre := dom.Query(n, preSelector); pre != nil {
		seg.Kind = KindCodeBlock
		seg.Target = pre
	}
	return seg
}
