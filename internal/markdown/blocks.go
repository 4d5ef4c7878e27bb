package markdown

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/tesh254/turncopy/internal/dom"
)

const (
	fence          = "```"
	tableSeparator = "----------"
)

// CodeBlock renders the first code element below n as a fenced block tagged
// with language. The code text is trimmed and otherwise left untouched. It
// returns "" when there is no code element.
func CodeBlock(n *html.Node, language string) string {
	code := dom.Query(n, "code")
	if code == nil {
		return ""
	}
	return fence + language + "\n" + strings.TrimSpace(dom.Text(code)) + "\n" + fence
}

// Table renders a table as a pipe table. The first row supplies the header
// cells (th), every later row its data cells (td). Cell text is trimmed but
// not formatted, and the separator row uses a fixed-width dash cell per
// column.
func Table(table *html.Node) string {
	rows := dom.QueryAll(table, "tr")
	if len(rows) == 0 {
		return ""
	}

	lines := make([]string, 0, len(rows)+1)

	headers := cellTexts(rows[0], "th")
	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = tableSeparator
	}
	lines = append(lines, tableRow(headers), tableRow(separators))

	for _, row := range rows[1:] {
		lines = append(lines, tableRow(cellTexts(row, "td")))
	}
	return strings.Join(lines, "\n")
}

func cellTexts(row *html.Node, selector string) []string {
	cells := dom.QueryAll(row, selector)
	texts := make([]string, len(cells))
	for i, cell := range cells {
		texts[i] = strings.TrimSpace(dom.Text(cell))
	}
	return texts
}

func tableRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

// List renders every li below list, at any depth, as a "- " item line.
// Ordered lists get the same marker; numbering is not reconstructed.
func List(list *html.Node) string {
	items := dom.QueryAll(list, "li")
	lines := make([]string, 0, len(items))
	for _, li := range items {
		lines = append(lines, "- "+strings.TrimSpace(Inline(li)))
	}
	return strings.Join(lines, "\n")
}
