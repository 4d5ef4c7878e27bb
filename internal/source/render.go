package source

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// render loads urlStr in a headless browser and returns the rendered
// document once the wait selector is visible.
func (l *Loader) render(ctx context.Context, urlStr string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(l.config.UserAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, l.config.Timeout)
	defer cancelTimeout()

	wait := l.config.WaitSelector
	if wait == "" {
		wait = "body"
	}

	var out string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitVisible(wait, chromedp.ByQuery),
		chromedp.OuterHTML("html", &out, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", urlStr, err)
	}
	return out, nil
}
