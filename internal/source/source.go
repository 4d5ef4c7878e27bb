// Package source loads chat pages into node trees.
//
// A location is a local file path, "-" for standard input, or an http(s)
// URL. URLs are either fetched as served or, since chat pages render their
// messages client side, loaded in a headless browser and captured after
// rendering.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/tesh254/turncopy/internal/dom"
)

// Config holds configuration options for the loader.
type Config struct {
	// UserAgent is the User-Agent header value sent with HTTP requests
	UserAgent string
	// Timeout bounds a single fetch or browser render
	Timeout time.Duration
	// RequestDelay is the minimum time between two remote requests
	RequestDelay time.Duration
	// Render loads URLs in a headless browser instead of fetching them
	Render bool
	// WaitSelector is the element a browser render waits for before
	// capturing the page
	WaitSelector string
}

// DefaultConfig returns a default configuration with reasonable values.
func DefaultConfig() *Config {
	return &Config{
		UserAgent:    "Mozilla/5.0 (compatible; turncopy/1.0)",
		Timeout:      10 * time.Second,
		RequestDelay: 1 * time.Second,
		WaitSelector: "body",
	}
}

// Page is a loaded document.
type Page struct {
	// Location is where the page was loaded from
	Location string
	// Raw is the HTML as loaded
	Raw string
	// Doc is the parsed document
	Doc *html.Node
}

// Loader loads pages.
type Loader struct {
	config  *Config
	client  *http.Client
	limiter *rate.Limiter
	stdin   io.Reader
}

// New creates a loader. If config is nil, default configuration will be used.
func New(config *Config) *Loader {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	limit := rate.Inf
	if config.RequestDelay > 0 {
		limit = rate.Every(config.RequestDelay)
	}
	return &Loader{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		stdin:   os.Stdin,
	}
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Load reads and parses the page at location.
func (l *Loader) Load(ctx context.Context, location string) (*Page, error) {
	var (
		raw string
		err error
	)
	switch {
	case location == "-":
		raw, err = readAll(l.stdin)
	case IsRemote(location) && l.config.Render:
		raw, err = l.render(ctx, location)
	case IsRemote(location):
		raw, err = l.fetch(ctx, location)
	default:
		raw, err = readFile(location)
	}
	if err != nil {
		return nil, err
	}

	doc, err := dom.ParseString(raw)
	if err != nil {
		return nil, err
	}
	return &Page{Location: location, Raw: raw, Doc: doc}, nil
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(b), nil
}

func readAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(b), nil
}

// ErrNotHTML is returned when a URL does not serve HTML.
var ErrNotHTML = errors.New("not HTML content")

// fetch fetches the content of a URL
func (l *Loader) fetch(ctx context.Context, urlStr string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", l.config.UserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		return "", fmt.Errorf("%w: %s", ErrNotHTML, contentType)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return buf.String(), nil
}
