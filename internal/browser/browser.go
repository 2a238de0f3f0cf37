// Package browser drives a real Chrome instance against a served chart page.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Options configures the browser session
type Options struct {
	Visible bool // show the browser window
	Width   int64
	Height  int64
	Timeout time.Duration
}

// TooltipState is what the overlay looked like when it was read
type TooltipState struct {
	Opacity  float64 `json:"opacity"`
	Text     string  `json:"text"`
	Left     string  `json:"left"`
	Top      string  `json:"top"`
	FontSize string  `json:"fontSize"`
}

// TooltipReport is the result of hovering one marker
type TooltipReport struct {
	Markers    int          `json:"markers"`
	Index      int          `json:"index"`
	Value      string       `json:"value"`
	Hovered    TooltipState `json:"hovered"`
	AfterLeave TooltipState `json:"afterLeave"`
}

// NewContext starts a browser and returns a context bound to one tab
func NewContext(parent context.Context, opts Options) (context.Context, context.CancelFunc) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !opts.Visible),
		chromedp.WindowSize(int(width(opts)), int(height(opts))),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	cancelTimeout := context.CancelFunc(func() {})
	if opts.Timeout > 0 {
		browserCtx, cancelTimeout = context.WithTimeout(browserCtx, opts.Timeout)
	}

	return browserCtx, func() {
		cancelTimeout()
		cancelBrowser()
		cancelAlloc()
	}
}

// InspectTooltip loads the chart page, hovers the marker at index and reads the
// tooltip. It then leaves the marker, waits out the fade and reads it again.
func InspectTooltip(ctx context.Context, url string, index int, fade time.Duration) (*TooltipReport, error) {
	if err := open(ctx, url); err != nil {
		return nil, err
	}

	report := &TooltipReport{Index: index}
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(`document.querySelectorAll("circle.dot").length`, &report.Markers),
	); err != nil {
		return nil, fmt.Errorf("counting markers: %w", err)
	}
	if index < 0 || index >= report.Markers {
		return nil, fmt.Errorf("marker %d out of range (page has %d)", index, report.Markers)
	}

	if err := chromedp.Run(ctx,
		chromedp.Evaluate(hoverScript(index), &report.Value, awaitPromise),
		chromedp.Evaluate(readTooltipScript, &report.Hovered),
		chromedp.Evaluate(leaveScript(index), nil, awaitPromise),
		// Let the transition finish before reading the final state
		chromedp.Sleep(fade+50*time.Millisecond),
		chromedp.Evaluate(readTooltipScript, &report.AfterLeave),
	); err != nil {
		return nil, fmt.Errorf("capturing tooltip: %w", err)
	}

	return report, nil
}

// Screenshot captures the full page as PNG. A non-negative hoverIndex hovers
// that marker first so the tooltip shows in the capture.
func Screenshot(ctx context.Context, url string, hoverIndex int) ([]byte, error) {
	if err := open(ctx, url); err != nil {
		return nil, err
	}

	if hoverIndex >= 0 {
		if err := chromedp.Run(ctx, chromedp.Evaluate(hoverScript(hoverIndex), nil, awaitPromise)); err != nil {
			return nil, fmt.Errorf("hovering marker %d: %w", hoverIndex, err)
		}
	}

	var buf []byte
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}
	return buf, nil
}

func open(ctx context.Context, url string) error {
	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady(`#chart-container`, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

func width(opts Options) int64 {
	if opts.Width <= 0 {
		return 1200
	}
	return opts.Width
}

func height(opts Options) int64 {
	if opts.Height <= 0 {
		return 900
	}
	return opts.Height
}
