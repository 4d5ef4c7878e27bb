package markdown

import (
	"fmt"
	"strings"

	htm "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/tesh254/turncopy/internal/dom"
)

// Generic converts an arbitrary subtree with the general purpose
// html-to-markdown converter. It is the fallback for pages that carry none
// of the chat markup Format understands.
func Generic(n *html.Node) (string, error) {
	raw, err := dom.Render(n)
	if err != nil {
		return "", err
	}
	md, err := htm.ConvertString(raw)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
