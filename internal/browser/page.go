// Package browser defines the page provider the hunting pipeline drives (navigation,
// snapshots, element queries and interaction) and its headless Chrome implementation.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/job-hunter/internal/types"
)

// Page is one rendered browser tab. A Page must not be shared between concurrent hunts.
type Page interface {
	// Goto navigates to url and waits for the document to be ready.
	Goto(ctx context.Context, url string) error
	// URL returns the current location.
	URL(ctx context.Context) (string, error)
	// Screenshot captures the current viewport as PNG.
	Screenshot(ctx context.Context) ([]byte, error)
	// HTML returns the serialized document.
	HTML(ctx context.Context) (string, error)
	// Query returns the first element matching selector, or nil when there is none.
	Query(ctx context.Context, selector string) (Element, error)
	// QueryAll returns every element matching selector.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// Wait pauses for d and then waits for the document to be ready again.
	Wait(ctx context.Context, d time.Duration) error
}

// Element is a handle to a single DOM element.
type Element interface {
	IsVisible(ctx context.Context) (bool, error)
	ScrollIntoView(ctx context.Context) error
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	// Type sends text as key events to the focused element.
	Type(ctx context.Context, text string) error
	PressEnter(ctx context.Context) error
	SetFiles(ctx context.Context, paths []string) error
	// SelectOption selects the option with the given value and fires change events.
	SelectOption(ctx context.Context, value string) error
	Options(ctx context.Context) ([]Option, error)
	SelectedIndex(ctx context.Context) (int, error)
	Value(ctx context.Context) (string, error)
	IsChecked(ctx context.Context) (bool, error)
	// Attribute returns the attribute value, or "" when it is absent.
	Attribute(ctx context.Context, name string) (string, error)
	// Label returns the rendered text of the element's label.
	Label(ctx context.Context) (string, error)
}

// Option is one entry of a select element.
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// NavigationError represents a page that failed to load or render
type NavigationError struct {
	URL   string
	Cause error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Cause)
}

func (e *NavigationError) Unwrap() error {
	return e.Cause
}

// Snapshot captures the screenshot, HTML and location of the current page.
func Snapshot(ctx context.Context, page Page) (types.PageSnapshot, error) {
	png, err := page.Screenshot(ctx)
	if err != nil {
		return types.PageSnapshot{}, fmt.Errorf("failed to capture screenshot: %w", err)
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return types.PageSnapshot{}, fmt.Errorf("failed to read page HTML: %w", err)
	}

	// location is informational only
	location, _ := page.URL(ctx)

	return types.PageSnapshot{
		URL:        location,
		Screenshot: png,
		HTML:       html,
	}, nil
}

// FirstVisible returns the first visible element matching any selector, in order.
func FirstVisible(ctx context.Context, page Page, selectors []string) (Element, string, error) {
	for _, selector := range selectors {
		el, err := page.Query(ctx, selector)
		if err != nil || el == nil {
			continue
		}
		visible, err := el.IsVisible(ctx)
		if err == nil && visible {
			return el, selector, nil
		}
	}
	return nil, "", nil
}
