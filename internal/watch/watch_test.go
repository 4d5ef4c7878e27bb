package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesh254/turncopy/internal/config"
	"github.com/tesh254/turncopy/internal/dom"
	"github.com/tesh254/turncopy/internal/extract"
	"github.com/tesh254/turncopy/internal/source"
)

// chat renders a page holding one turn per text, alternating user and AI.
// An empty text renders an AI turn whose content has not arrived yet.
func chat(texts ...string) string {
	var b strings.Builder
	b.WriteString("<main>")
	for i, text := range texts {
		if i%2 == 0 {
			fmt.Fprintf(&b, `<div data-content="user-message"><div class="whitespace-pre-wrap">%s</div></div>`, text)
			continue
		}
		if text == "" {
			b.WriteString(`<div data-content="ai-message"></div>`)
			continue
		}
		fmt.Fprintf(&b, `<div data-content="ai-message"><div class="space-y-3 break-words"><p>%s</p></div></div>`, text)
	}
	b.WriteString("</main>")
	return b.String()
}

// pages serves a fixed sequence of pages, repeating the last one.
type pages struct {
	mu    sync.Mutex
	html  []string
	calls int
}

func (p *pages) Load(_ context.Context, location string) (*source.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	if i >= len(p.html) {
		i = len(p.html) - 1
	}
	p.calls++
	doc, err := dom.ParseString(p.html[i])
	if err != nil {
		return nil, err
	}
	return &source.Page{Location: location, Raw: p.html[i], Doc: doc}, nil
}

type recorder struct {
	mu   sync.Mutex
	seen []extract.Message
}

func (r *recorder) add(m extract.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, m)
}

func (r *recorder) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.seen))
	for i, m := range r.seen {
		out[i] = m.Text
	}
	return out
}

func TestScanReportsEachTextOnce(t *testing.T) {
	loader := &pages{html: []string{
		chat("q1"),
		chat("q1", ""),
		chat("q1", "a1"),
		chat("q1", "a1", "q2"),
		chat("new"),
	}}
	rec := &recorder{}
	w := New("chat.html", loader, extract.New(config.DefaultSelectors()), 0, nil, rec.add)

	var counts []int
	for range loader.html {
		n, err := w.Scan(context.Background())
		require.NoError(t, err)
		counts = append(counts, n)
	}

	assert.Equal(t, []int{1, 0, 1, 1, 1}, counts)
	assert.Equal(t, []string{"q1", "a1", "q2", "new"}, rec.texts())
}

func TestScanReportsGrowingAnswer(t *testing.T) {
	loader := &pages{html: []string{
		chat("q", "Hel"),
		chat("q", "Hello, the full answer"),
		chat("q", "Hello, the full answer"),
	}}
	rec := &recorder{}
	w := New("chat.html", loader, extract.New(config.DefaultSelectors()), 0, nil, rec.add)

	var counts []int
	for range loader.html {
		n, err := w.Scan(context.Background())
		require.NoError(t, err)
		counts = append(counts, n)
	}

	assert.Equal(t, []int{2, 1, 0}, counts)
	assert.Equal(t, []string{"q", "Hel", "Hello, the full answer"}, rec.texts())
	assert.Equal(t, 1, rec.seen[2].Index)
}

func TestRunPollsRemotePages(t *testing.T) {
	loader := &pages{html: []string{chat("q1"), chat("q1", "a1")}}
	rec := &recorder{}
	w := New("https://chat.example.com/c/1", loader, extract.New(config.DefaultSelectors()), 10*time.Millisecond, nil, rec.add)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return len(rec.texts()) == 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, []string{"q1", "a1"}, rec.texts())
}

func TestRunWatchesFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.html")
	require.NoError(t, os.WriteFile(path, []byte(chat("q1")), 0o600))

	rec := &recorder{}
	w := New(path, source.New(nil), extract.New(config.DefaultSelectors()), 0, nil, rec.add)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return len(rec.texts()) == 1 }, 2*time.Second, 10*time.Millisecond)

	// The watcher may still be registering; keep rewriting until it sees a change.
	require.Eventually(t, func() bool {
		replace(path, chat("q1", "a1"))
		return len(rec.texts()) == 2
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, []string{"q1", "a1"}, rec.texts())
}

// replace swaps the file at path for one holding content in a single step,
// the way browsers save pages.
func replace(path, content string) {
	tmp := path + ".part"
	if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, path)
}

func TestRunFailsOnUnreadablePage(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing.html"), source.New(nil), extract.New(config.DefaultSelectors()), 0, nil, nil)
	assert.Error(t, w.Run(context.Background()))
}
