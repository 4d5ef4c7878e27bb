// Package core exposes the conversion engine and the copy history as MCP
// tools, served over stdio or streamable HTTP.
package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tesh254/turncopy/internal/api"
	"github.com/tesh254/turncopy/internal/config"
	"github.com/tesh254/turncopy/internal/dom"
)

// Version is reported to MCP clients.
const Version = "v1.0.0"

type Core struct {
	api    *api.API
	tags   config.TagSet
	logger *log.Logger
}

type FormatHTMLArgs struct {
	HTML    string `json:"html" jsonschema:"the HTML fragment to convert"`
	Generic bool   `json:"generic,omitempty" jsonschema:"use the general purpose converter instead of the chat engine"`
}

type ExtractConversationArgs struct {
	HTML      string `json:"html" jsonschema:"the chat page HTML"`
	UserOpen  string `json:"user_open,omitempty" jsonschema:"marker placed before user turns"`
	UserClose string `json:"user_close,omitempty" jsonschema:"marker placed after user turns"`
	AIOpen    string `json:"ai_open,omitempty" jsonschema:"marker placed before AI turns"`
	AIClose   string `json:"ai_close,omitempty" jsonschema:"marker placed after AI turns"`
}

type ListHistoryArgs struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

type GetHistoryArgs struct {
	ID string `json:"id" jsonschema:"entry ID or a unique prefix of it"`
}

// New creates a Core serving a. tags are the markers used when a request
// does not name its own.
func New(a *api.API, tags config.TagSet, logger *log.Logger) *Core {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Core{api: a, tags: tags.WithDefaults(), logger: logger}
}

// Server builds the MCP server with every tool registered.
func (c *Core) Server() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "turncopy", Version: Version}, nil)
	c.registerTools(server)
	return server
}

// ServeStdio serves MCP over standard input and output until ctx is done or
// the client disconnects.
func (c *Core) ServeStdio(ctx context.Context) error {
	c.logger.Printf("Starting turncopy MCP server with stdio transport")
	t := &mcp.LoggingTransport{Transport: &mcp.StdioTransport{}, Writer: os.Stderr}
	return c.Server().Run(ctx, t)
}

// Handler returns the streamable HTTP handler, wrapped in request logging.
func (c *Core) Handler() http.Handler {
	server := c.Server()
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
	return loggingHandler(c.logger, handler)
}

// ServeHTTP listens on httpAddress until ctx is done.
func (c *Core) ServeHTTP(ctx context.Context, httpAddress string) error {
	srv := &http.Server{Addr: httpAddress, Handler: c.Handler()}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Printf("turncopy MCP handler listening at %s", httpAddress)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (c *Core) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "format_html",
		Description: "Convert an HTML fragment of a chat answer to Markdown.",
	}, c.formatHTML)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_conversation",
		Description: "Extract the user and AI turns of a chat page and assemble them with tag markers.",
	}, c.extractConversation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_history",
		Description: "List copied conversations, newest first, with pagination.",
	}, c.listHistory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_history",
		Description: "Get a copied conversation by ID or ID prefix.",
	}, c.getHistory)
}

func (c *Core) formatHTML(ctx context.Context, req *mcp.CallToolRequest, args FormatHTMLArgs) (*mcp.CallToolResult, any, error) {
	doc, err := dom.ParseString(args.HTML)
	if err != nil {
		return nil, nil, err
	}
	if args.Generic {
		md, err := c.api.Generic(doc)
		if err != nil {
			return nil, nil, err
		}
		return textResult(md), nil, nil
	}
	return textResult(c.api.Convert(doc)), nil, nil
}

func (c *Core) extractConversation(ctx context.Context, req *mcp.CallToolRequest, args ExtractConversationArgs) (*mcp.CallToolResult, any, error) {
	doc, err := dom.ParseString(args.HTML)
	if err != nil {
		return nil, nil, err
	}
	tags := c.tags
	if args.UserOpen != "" {
		tags.UserOpen = args.UserOpen
	}
	if args.UserClose != "" {
		tags.UserClose = args.UserClose
	}
	if args.AIOpen != "" {
		tags.AIOpen = args.AIOpen
	}
	if args.AIClose != "" {
		tags.AIClose = args.AIClose
	}

	conv := c.api.Conversation(doc, tags)
	result, err := conv.JSON()
	if err != nil {
		return nil, nil, err
	}
	return textResult(string(result)), nil, nil
}

func (c *Core) listHistory(ctx context.Context, req *mcp.CallToolRequest, args ListHistoryArgs) (*mcp.CallToolResult, any, error) {
	entries, err := c.api.ListHistory(0)
	if err != nil {
		return nil, nil, err
	}
	start := min(max(args.Offset, 0), len(entries))
	end := len(entries)
	if args.Limit > 0 {
		end = min(start+args.Limit, len(entries))
	}
	result, err := json.Marshal(map[string]interface{}{"entries": entries[start:end], "total": len(entries)})
	if err != nil {
		return nil, nil, err
	}
	return textResult(string(result)), nil, nil
}

func (c *Core) getHistory(ctx context.Context, req *mcp.CallToolRequest, args GetHistoryArgs) (*mcp.CallToolResult, any, error) {
	entry, err := c.api.GetHistory(args.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("history entry %q: %w", args.ID, err)
	}
	result, err := json.Marshal(entry)
	if err != nil {
		return nil, nil, err
	}
	return textResult(string(result)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}
