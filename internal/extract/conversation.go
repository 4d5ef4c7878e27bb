package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tesh254/turncopy/internal/config"
)

// Conversation is the set of turns of one page together with its tagged
// text rendition.
type Conversation struct {
	Messages []Message     `json:"messages" yaml:"messages"`
	Tags     config.TagSet `json:"tags" yaml:"tags"`
	Text     string        `json:"text" yaml:"text"`
}

// NewConversation assembles messages with tags.
func NewConversation(messages []Message, tags config.TagSet) *Conversation {
	return &Conversation{
		Messages: messages,
		Tags:     tags,
		Text:     Assemble(messages, tags),
	}
}

// Assemble wraps the text of every non-empty turn in its role's markers,
// separates turns with a blank line and trims the result.
func Assemble(messages []Message, tags config.TagSet) string {
	var b strings.Builder
	for _, m := range messages {
		if m.Text == "" {
			continue
		}
		openTag, closeTag := tags.AIOpen, tags.AIClose
		if m.Role == RoleUser {
			openTag, closeTag = tags.UserOpen, tags.UserClose
		}
		b.WriteString(openTag + "\n" + m.Text + "\n" + closeTag + "\n\n")
	}
	return strings.TrimSpace(b.String())
}

// Turns returns the number of turns that carry text.
func (c *Conversation) Turns() int {
	n := 0
	for _, m := range c.Messages {
		if m.Text != "" {
			n++
		}
	}
	return n
}

// Empty reports whether no turn carries text.
func (c *Conversation) Empty() bool {
	return c.Turns() == 0
}

// JSON encodes the conversation as indented JSON.
func (c *Conversation) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversation: %w", err)
	}
	return b, nil
}

// YAML encodes the conversation as YAML.
func (c *Conversation) YAML() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversation: %w", err)
	}
	return b, nil
}
