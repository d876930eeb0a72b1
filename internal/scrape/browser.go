package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultRenderTimeout bounds a single headless render.
const DefaultRenderTimeout = 30 * time.Second

// RenderPage loads pageURL in headless Chromium and returns the DOM HTML
// after scripts have run. Some league launch pages build the town dropdown
// client-side, so the plain HTTP body carries no <option> elements; this is
// the fallback path for those pages.
func RenderPage(parentCtx context.Context, pageURL string, timeout time.Duration) ([]byte, error) {
	if pageURL == "" {
		return nil, fmt.Errorf("render: URL is required")
	}
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, timeout)
	defer timeoutCancel()

	var html string
	tasks := chromedp.Tasks{
		chromedp.Navigate(pageURL),
		// Wait for the town dropdown to be populated; fall through on the
		// timeout and hand back whatever rendered.
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("render: chromedp run failed: %w", err)
	}
	return []byte(html), nil
}
