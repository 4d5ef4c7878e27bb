// api.go
package api

import (
	"context"
	"fmt"
	"io"
	"log"

	"golang.org/x/net/html"

	"github.com/tesh254/turncopy/internal/clipboard"
	"github.com/tesh254/turncopy/internal/config"
	"github.com/tesh254/turncopy/internal/dom"
	"github.com/tesh254/turncopy/internal/extract"
	"github.com/tesh254/turncopy/internal/markdown"
	"github.com/tesh254/turncopy/internal/storage"
)

// API ties extraction, clipboard delivery and copy history together.
type API struct {
	storage   *storage.Storage
	extractor *extract.Extractor
	clipboard clipboard.Writer
	logger    *log.Logger
}

// NewAPI creates a new API instance. storage may be nil, in which case
// copies are not recorded.
func NewAPI(st *storage.Storage, ext *extract.Extractor, clip clipboard.Writer, logger *log.Logger) *API {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &API{
		storage:   st,
		extractor: ext,
		clipboard: clip,
		logger:    logger,
	}
}

// Extractor returns the extractor instance.
func (a *API) Extractor() *extract.Extractor {
	return a.extractor
}

// Messages returns every turn of doc.
func (a *API) Messages(doc *html.Node) []extract.Message {
	messages := a.extractor.Messages(doc)
	a.logger.Printf("Found %d messages", len(messages))
	return messages
}

// Conversation assembles every turn of doc with tags.
func (a *API) Conversation(doc *html.Node, tags config.TagSet) *extract.Conversation {
	return extract.NewConversation(a.Messages(doc), tags)
}

// Convert formats the body of doc with the chat engine. It is meant for
// fragments of an AI answer rather than whole chat pages.
func (a *API) Convert(doc *html.Node) string {
	if body := dom.Query(doc, "body"); body != nil {
		return markdown.Format(body)
	}
	return markdown.Format(doc)
}

// Generic converts the whole of doc with the general purpose converter, for
// pages without chat markup.
func (a *API) Generic(doc *html.Node) (string, error) {
	return markdown.Generic(doc)
}

// Copy assembles the conversation of doc, delivers it to the clipboard and
// records it in the history. An empty conversation is still delivered, as
// an empty string.
func (a *API) Copy(ctx context.Context, source string, doc *html.Node, tags config.TagSet) (*extract.Conversation, clipboard.Result) {
	conv := a.Conversation(doc, tags)

	res := clipboard.Deliver(ctx, a.clipboard, conv.Text)
	if !res.Success {
		a.logger.Printf("Clipboard write failed: %v", res.Err)
		return conv, res
	}
	a.record(source, conv.Turns(), conv.Text)
	return conv, res
}

// CopyMessage delivers the text of the turn at index.
func (a *API) CopyMessage(ctx context.Context, source string, doc *html.Node, index int) (*extract.Message, clipboard.Result, error) {
	messages := a.Messages(doc)
	if index < 0 || index >= len(messages) {
		return nil, clipboard.Result{}, fmt.Errorf("message %d out of range (page has %d messages)", index, len(messages))
	}
	msg := messages[index]

	res := clipboard.Deliver(ctx, a.clipboard, msg.Text)
	if !res.Success {
		a.logger.Printf("Clipboard write failed: %v", res.Err)
		return &msg, res, nil
	}
	if msg.Text != "" {
		a.record(fmt.Sprintf("%s#%d", source, index), 1, msg.Text)
	}
	return &msg, res, nil
}

func (a *API) record(source string, turns int, content string) {
	if a.storage == nil || content == "" {
		return
	}
	if _, err := a.storage.UpsertEntry(&storage.Entry{Source: source, Turns: turns, Content: content}); err != nil {
		a.logger.Printf("Failed to record copy of %s: %v", source, err)
	}
}

// ListHistory lists up to limit history entries, newest first.
func (a *API) ListHistory(limit int) ([]*storage.Entry, error) {
	if a.storage == nil {
		return nil, nil
	}
	return a.storage.ListEntries(limit)
}

// GetHistory retrieves a history entry by ID or ID prefix.
func (a *API) GetHistory(id string) (*storage.Entry, error) {
	if a.storage == nil {
		return nil, storage.ErrNotFound
	}
	return a.storage.GetEntry(id)
}

// DeleteHistory deletes a history entry by ID or ID prefix.
func (a *API) DeleteHistory(id string) error {
	if a.storage == nil {
		return storage.ErrNotFound
	}
	return a.storage.DeleteEntry(id)
}

// CleanHistory deletes every history entry.
func (a *API) CleanHistory() error {
	if a.storage == nil {
		return nil
	}
	return a.storage.Clean()
}
