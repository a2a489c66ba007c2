package browser

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// DefaultNavigationTimeout bounds a single navigation.
const DefaultNavigationTimeout = 30 * time.Second

// DefaultUserAgent is presented by headless tabs.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Options configures the headless browser.
type Options struct {
	Headless          bool
	NavigationTimeout time.Duration
	UserAgent         string
	WindowWidth       int
	WindowHeight      int
	Verbose           bool
}

// DefaultOptions returns sensible defaults for a headless session.
func DefaultOptions() Options {
	return Options{
		Headless:          true,
		NavigationTimeout: DefaultNavigationTimeout,
		UserAgent:         DefaultUserAgent,
		WindowWidth:       1366,
		WindowHeight:      900,
	}
}

// Browser owns a Chrome process. Each NewPage call opens an independent tab.
// Requires Chrome/Chromium to be installed on the system.
type Browser struct {
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancel      context.CancelFunc
	opts        Options
}

// Launch starts Chrome with the given options.
func Launch(ctx context.Context, opts Options) (*Browser, error) {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = DefaultNavigationTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.WindowWidth == 0 || opts.WindowHeight == 0 {
		opts.WindowWidth, opts.WindowHeight = 1366, 900
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.UserAgent(opts.UserAgent),
			chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
		)...,
	)

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	// start the browser process now so launch failures surface here
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if opts.Verbose {
		log.Printf("[BROWSER] Started (headless=%v)", opts.Headless)
	}

	return &Browser{ctx: browserCtx, cancelAlloc: cancelAlloc, cancel: cancel, opts: opts}, nil
}

// NewPage opens a new tab.
func (b *Browser) NewPage() (*ChromePage, error) {
	tabCtx, cancel := chromedp.NewContext(b.ctx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	return &ChromePage{ctx: tabCtx, cancel: cancel, opts: b.opts}, nil
}

// Close shuts down the browser and every tab.
func (b *Browser) Close() {
	b.cancel()
	b.cancelAlloc()
}

// ChromePage implements Page on a chromedp tab.
type ChromePage struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options
}

// Close closes the tab.
func (p *ChromePage) Close() {
	p.cancel()
}

// run executes actions on the tab, aborting when ctx is done.
func (p *ChromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// Goto navigates, waits for the body and tries to dismiss cookie banners.
func (p *ChromePage) Goto(ctx context.Context, url string) error {
	if p.opts.Verbose {
		log.Printf("[BROWSER] Navigating to: %s", url)
	}

	navCtx, cancel := context.WithTimeout(ctx, p.opts.NavigationTimeout)
	defer cancel()

	err := p.run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// Additional wait for JavaScript to render content
		chromedp.Sleep(2*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Click common "Accept" buttons - don't fail if not found
			var nodes []*cdp.Node
			sel := `button[id*="accept"], button[class*="accept"], #onetrust-accept-btn-handler`
			if err := chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)).Do(ctx); err != nil || len(nodes) == 0 {
				return nil
			}
			_ = chromedp.MouseClickNode(nodes[0]).Do(ctx)
			return nil
		}),
	)
	if err != nil {
		return &NavigationError{URL: url, Cause: err}
	}
	return nil
}

// URL returns the current location.
func (p *ChromePage) URL(ctx context.Context) (string, error) {
	var location string
	err := p.run(ctx, chromedp.Location(&location))
	return location, err
}

// Screenshot captures the viewport.
func (p *ChromePage) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := p.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// HTML returns the outer HTML of the document element.
func (p *ChromePage) HTML(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// Query returns the first match or nil.
func (p *ChromePage) Query(ctx context.Context, selector string) (Element, error) {
	elements, err := p.QueryAll(ctx, selector)
	if err != nil || len(elements) == 0 {
		return nil, err
	}
	return elements[0], nil
}

// QueryAll returns all matches without waiting for any to appear.
func (p *ChromePage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	if err := p.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("query %q failed: %w", selector, err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, &chromeElement{page: p, node: node})
	}
	return elements, nil
}

// Wait sleeps for d and waits for the body again (after submits and in-page navigation).
func (p *ChromePage) Wait(ctx context.Context, d time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, d+p.opts.NavigationTimeout)
	defer cancel()
	return p.run(waitCtx, chromedp.Sleep(d), chromedp.WaitReady("body", chromedp.ByQuery))
}

type chromeElement struct {
	page *ChromePage
	node *cdp.Node
}

func (e *chromeElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

// call runs a JavaScript function with the element bound to this.
func (e *chromeElement) call(ctx context.Context, fn string, res any, args ...any) error {
	return e.page.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return fmt.Errorf("resolve node: %w", err)
		}
		// release fails once the page navigates away; nothing to clean up then
		defer func() { _ = runtime.ReleaseObject(obj.ObjectID).Do(ctx) }()

		return chromedp.CallFunctionOn(fn, res, func(p *runtime.CallFunctionOnParams) *runtime.CallFunctionOnParams {
			return p.WithObjectID(obj.ObjectID)
		}, args...).Do(ctx)
	}))
}

const visibleFn = `function() {
	const r = this.getBoundingClientRect();
	const s = window.getComputedStyle(this);
	return r.width > 0 && r.height > 0 && s.visibility !== 'hidden' && s.display !== 'none';
}`

func (e *chromeElement) IsVisible(ctx context.Context) (bool, error) {
	var visible bool
	err := e.call(ctx, visibleFn, &visible)
	return visible, err
}

func (e *chromeElement) ScrollIntoView(ctx context.Context) error {
	return e.page.run(ctx, chromedp.ScrollIntoView(e.ids(), chromedp.ByNodeID))
}

func (e *chromeElement) Click(ctx context.Context) error {
	return e.page.run(ctx, chromedp.Click(e.ids(), chromedp.ByNodeID))
}

func (e *chromeElement) Clear(ctx context.Context) error {
	return e.page.run(ctx, chromedp.Clear(e.ids(), chromedp.ByNodeID))
}

func (e *chromeElement) Type(ctx context.Context, text string) error {
	return e.page.run(ctx, chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID))
}

func (e *chromeElement) PressEnter(ctx context.Context) error {
	return e.page.run(ctx, chromedp.SendKeys(e.ids(), kb.Enter, chromedp.ByNodeID))
}

func (e *chromeElement) SetFiles(ctx context.Context, paths []string) error {
	return e.page.run(ctx, chromedp.SetUploadFiles(e.ids(), paths, chromedp.ByNodeID))
}

const selectFn = `function(v) {
	this.value = v;
	this.dispatchEvent(new Event('input', {bubbles: true}));
	this.dispatchEvent(new Event('change', {bubbles: true}));
	return this.value === v;
}`

func (e *chromeElement) SelectOption(ctx context.Context, value string) error {
	var ok bool
	if err := e.call(ctx, selectFn, &ok, value); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("option %q not accepted", value)
	}
	return nil
}

const optionsFn = `function() {
	return Array.from(this.options || []).map(o => ({value: o.value, text: o.text.trim()}));
}`

func (e *chromeElement) Options(ctx context.Context) ([]Option, error) {
	var opts []Option
	err := e.call(ctx, optionsFn, &opts)
	return opts, err
}

func (e *chromeElement) SelectedIndex(ctx context.Context) (int, error) {
	var idx int
	err := e.page.run(ctx, chromedp.JavascriptAttribute(e.ids(), "selectedIndex", &idx, chromedp.ByNodeID))
	return idx, err
}

func (e *chromeElement) Value(ctx context.Context) (string, error) {
	var value string
	err := e.page.run(ctx, chromedp.Value(e.ids(), &value, chromedp.ByNodeID))
	return value, err
}

func (e *chromeElement) IsChecked(ctx context.Context) (bool, error) {
	var checked bool
	err := e.page.run(ctx, chromedp.JavascriptAttribute(e.ids(), "checked", &checked, chromedp.ByNodeID))
	return checked, err
}

func (e *chromeElement) Attribute(ctx context.Context, name string) (string, error) {
	var value string
	var ok bool
	err := e.page.run(ctx, chromedp.AttributeValue(e.ids(), name, &value, &ok, chromedp.ByNodeID))
	if err != nil || !ok {
		return "", err
	}
	return value, nil
}

const labelFn = `function() {
	if (this.labels && this.labels.length) return this.labels[0].innerText.trim();
	const wrapping = this.closest('label');
	if (wrapping) return wrapping.innerText.trim();
	return (this.getAttribute('aria-label') || '').trim();
}`

func (e *chromeElement) Label(ctx context.Context) (string, error) {
	var label string
	err := e.call(ctx, labelFn, &label)
	return label, err
}
