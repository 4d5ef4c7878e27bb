// Package watch reports chat turns as they appear in a page.
//
// A local page file is watched for writes; a URL is polled. After every
// change the page is re-extracted and OnMessage is called for each turn whose
// text is new or has changed since it was last reported, so an answer still
// streaming in is reported again once it grows.
package watch

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tesh254/turncopy/internal/extract"
	"github.com/tesh254/turncopy/internal/source"
)

// debounce is how long a file has to stay quiet before it is re-read.
const debounce = 100 * time.Millisecond

// Loader loads a page.
type Loader interface {
	Load(ctx context.Context, location string) (*source.Page, error)
}

// Watcher watches one page location.
type Watcher struct {
	location  string
	loader    Loader
	extractor *extract.Extractor
	interval  time.Duration
	logger    *log.Logger
	onMessage func(extract.Message)

	// reported holds the last text reported per message index.
	reported map[int]string
	count    int
}

// New creates a watcher calling onMessage for each newly observed turn.
// interval is the polling period for URLs.
func New(location string, loader Loader, ext *extract.Extractor, interval time.Duration, logger *log.Logger, onMessage func(extract.Message)) *Watcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Watcher{
		location:  location,
		loader:    loader,
		extractor: ext,
		interval:  interval,
		logger:    logger,
		onMessage: onMessage,
		reported:  make(map[int]string),
	}
}

// Scan loads the page once and reports the turns that are new or whose text
// differs from what was last reported for them. It returns how many were
// reported. When the page holds fewer turns than the
// previous scan, a new conversation is assumed and every turn is eligible
// again.
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	page, err := w.loader.Load(ctx, w.location)
	if err != nil {
		return 0, err
	}

	messages := w.extractor.Messages(page.Doc)
	if len(messages) < w.count {
		w.logger.Printf("Message count dropped from %d to %d, starting over", w.count, len(messages))
		w.reported = make(map[int]string)
	}
	w.count = len(messages)

	n := 0
	for _, m := range messages {
		if m.Text == "" {
			continue
		}
		if last, ok := w.reported[m.Index]; ok && last == m.Text {
			continue
		}
		w.reported[m.Index] = m.Text
		n++
		if w.onMessage != nil {
			w.onMessage(m)
		}
	}
	return n, nil
}

// Run scans the page and then rescans on every change until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.Scan(ctx); err != nil {
		return err
	}
	if source.IsRemote(w.location) {
		return w.poll(ctx)
	}
	return w.watchFile(ctx)
}

func (w *Watcher) rescan(ctx context.Context) {
	n, err := w.Scan(ctx)
	if err != nil {
		w.logger.Printf("Scan of %s failed: %v", w.location, err)
		return
	}
	if n > 0 {
		w.logger.Printf("Reported %d new messages", n)
	}
}

func (w *Watcher) poll(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.rescan(ctx)
		}
	}
}

func (w *Watcher) watchFile(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	target, err := filepath.Abs(w.location)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", w.location, err)
	}
	// Editors and browsers replace files on save, so the directory is
	// watched rather than the file itself.
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	w.logger.Printf("Watching %s", target)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			settle = time.After(debounce)

		case <-settle:
			settle = nil
			w.rescan(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("watcher error: %v", err)
		}
	}
}
