// Package report renders command output for the terminal: banners, tables
// of turns and history entries, copy status lines and Markdown previews.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tesh254/turncopy/internal/clipboard"
	"github.com/tesh254/turncopy/internal/config"
	"github.com/tesh254/turncopy/internal/dom"
	"github.com/tesh254/turncopy/internal/extract"
	"github.com/tesh254/turncopy/internal/markdown"
	"github.com/tesh254/turncopy/internal/storage"
)

const (
	rule       = "=============================================================================="
	previewLen = 60
)

// Field is one labelled line of a banner.
type Field struct {
	Label string
	Value any
}

// Printer writes reports to out. Banners are progress information and go to
// diag, so they never mix with command output; a nil diag drops them.
type Printer struct {
	out  io.Writer
	diag io.Writer
}

// New returns a Printer writing reports to out and banners to diag.
func New(out, diag io.Writer) *Printer {
	return &Printer{out: out, diag: diag}
}

// Banner prints a titled block of fields to the diagnostics writer.
func (p *Printer) Banner(title string, fields ...Field) {
	if p.diag == nil {
		return
	}
	green := color.New(color.FgGreen).SprintFunc()
	banner := rule + "\n"
	banner += "        " + green(title) + "\n"
	banner += rule + "\n"
	for _, f := range fields {
		banner += fmt.Sprintf("%s: %v\n", f.Label, f.Value)
	}
	banner += rule
	fmt.Fprintln(p.diag, banner)
}

func (p *Printer) table() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleLight)
	return t
}

// Messages prints one row per turn.
func (p *Printer) Messages(messages []extract.Message) {
	t := p.table()
	t.AppendHeader(table.Row{"#", "Role", "Chars", "Preview"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignLeft, WidthMax: previewLen},
	})
	for _, m := range messages {
		t.AppendRow(table.Row{m.Index, m.Role, len(m.Text), preview(m.Text)})
	}
	t.Render()
}

// Segments prints how each child of a content container was classified.
func (p *Printer) Segments(segs []markdown.Segment) {
	t := p.table()
	t.AppendHeader(table.Row{"Kind", "Tag", "Label", "Text"})
	for _, s := range segs {
		tag := dom.Tag(s.Node)
		if tag == "" {
			tag = "#text"
		}
		t.AppendRow(table.Row{s.Kind, tag, s.Label, preview(dom.Text(s.Node))})
	}
	t.Render()
}

// History prints one row per history entry.
func (p *Printer) History(entries []*storage.Entry) {
	t := p.table()
	t.AppendHeader(table.Row{"ID", "Source", "Turns", "Copied", "Preview"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 5, Align: text.AlignLeft, WidthMax: previewLen},
	})
	for _, e := range entries {
		t.AppendRow(table.Row{shortID(e.ID), e.Source, strconv.Itoa(e.Turns), e.CreatedAt.Format(time.DateTime), preview(e.Content)})
	}
	t.AppendSeparator()
	t.Render()
}

// Tags prints the tag set.
func (p *Printer) Tags(tags config.TagSet) {
	t := p.table()
	t.AppendHeader(table.Row{"Tag", "Value"})
	t.AppendRow(table.Row{"user_open", tags.UserOpen})
	t.AppendRow(table.Row{"user_close", tags.UserClose})
	t.AppendRow(table.Row{"ai_open", tags.AIOpen})
	t.AppendRow(table.Row{"ai_close", tags.AIClose})
	t.Render()
}

// Result prints the outcome of a clipboard delivery of what.
func (p *Printer) Result(res clipboard.Result, what string) {
	if res.Success {
		fmt.Fprintf(p.out, "%s %s copied!\n", color.GreenString("✔"), what)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", color.RedString("✘"), res.Error)
}

// Error prints err in a box.
func (p *Printer) Error(err error) {
	red := color.New(color.FgRed).SprintFunc()
	msg := err.Error()
	width := len(msg)
	if width < 20 {
		width = 20
	}
	box := "┌────── " + red("⚠ Error") + " " + strings.Repeat("─", width-13) + "┐\n"
	box += fmt.Sprintf("│ %-*s │\n", width, msg)
	box += "└" + strings.Repeat("─", width+2) + "┘"
	fmt.Fprintln(p.out, box)
}

// RenderMarkdown renders md for display in a terminal of the given width.
func RenderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return text.Trim(s, previewLen)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
