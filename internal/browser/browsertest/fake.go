// Package browsertest provides an in-memory browser.Page for tests.
package browsertest

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/job-hunter/internal/browser"
)

// Page is a scripted browser.Page. Elements are registered per selector.
type Page struct {
	CurrentURL string
	Content    string
	PNG        []byte
	Elements   map[string][]*Element

	// OnGoto, when set, runs after every navigation so tests can swap page content.
	OnGoto  func(p *Page, url string) error
	Visits  []string
	Waits   int
	Queries []string
}

// NewPage returns an empty page at url.
func NewPage(url string) *Page {
	return &Page{
		CurrentURL: url,
		Content:    "<html><body></body></html>",
		PNG:        []byte{0x89, 'P', 'N', 'G'},
		Elements:   make(map[string][]*Element),
	}
}

// Add registers elements under a selector and returns the first one.
func (p *Page) Add(selector string, elements ...*Element) *Element {
	if p.Elements == nil {
		p.Elements = make(map[string][]*Element)
	}
	p.Elements[selector] = append(p.Elements[selector], elements...)
	if len(elements) == 0 {
		return nil
	}
	return elements[0]
}

// Reset drops every registered element.
func (p *Page) Reset() {
	p.Elements = make(map[string][]*Element)
}

func (p *Page) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Visits = append(p.Visits, url)
	p.CurrentURL = url
	if p.OnGoto != nil {
		return p.OnGoto(p, url)
	}
	return nil
}

func (p *Page) URL(_ context.Context) (string, error) {
	return p.CurrentURL, nil
}

func (p *Page) Screenshot(_ context.Context) ([]byte, error) {
	return p.PNG, nil
}

func (p *Page) HTML(_ context.Context) (string, error) {
	return p.Content, nil
}

func (p *Page) Query(ctx context.Context, selector string) (browser.Element, error) {
	elements, _ := p.QueryAll(ctx, selector)
	if len(elements) == 0 {
		return nil, nil
	}
	return elements[0], nil
}

func (p *Page) QueryAll(_ context.Context, selector string) ([]browser.Element, error) {
	p.Queries = append(p.Queries, selector)
	registered := p.Elements[selector]
	out := make([]browser.Element, 0, len(registered))
	for _, el := range registered {
		out = append(out, el)
	}
	return out, nil
}

func (p *Page) Wait(ctx context.Context, _ time.Duration) error {
	p.Waits++
	return ctx.Err()
}

// Kind selects the behaviour of Click on an Element.
type Kind string

const (
	KindInput    Kind = "input"
	KindCheckbox Kind = "checkbox"
	KindRadio    Kind = "radio"
	KindSelect   Kind = "select"
	KindButton   Kind = "button"
)

// Element is a scripted browser.Element that records every interaction.
type Element struct {
	Kind      Kind
	Hidden    bool
	Val       string
	Checked   bool
	Opts      []browser.Option
	Selected  int
	Attrs     map[string]string
	LabelText string

	// Group holds every radio of the same name, including this one.
	Group []*Element
	// Err is returned by every interaction when set.
	Err error
	// OnClick runs after a successful click.
	OnClick func()

	Typed    []string
	Clicks   int
	Clears   int
	Enters   int
	Files    []string
	Scrolled int
}

// Input returns a visible text input with the given current value.
func Input(value string) *Element {
	return &Element{Kind: KindInput, Val: value}
}

// Button returns a visible button.
func Button() *Element {
	return &Element{Kind: KindButton}
}

// Checkbox returns a visible checkbox.
func Checkbox(checked bool) *Element {
	return &Element{Kind: KindCheckbox, Checked: checked}
}

// Select returns a visible select element with the given options.
func Select(opts ...browser.Option) *Element {
	return &Element{Kind: KindSelect, Opts: opts}
}

// RadioGroup returns linked radios sharing name, one per value/label pair.
func RadioGroup(name string, labels map[string]string, order ...string) []*Element {
	group := make([]*Element, 0, len(order))
	for _, value := range order {
		group = append(group, &Element{
			Kind:      KindRadio,
			Val:       value,
			LabelText: labels[value],
			Attrs:     map[string]string{"name": name, "value": value, "type": "radio"},
		})
	}
	for _, el := range group {
		el.Group = group
	}
	return group
}

func (e *Element) IsVisible(_ context.Context) (bool, error) {
	return !e.Hidden, nil
}

func (e *Element) ScrollIntoView(_ context.Context) error {
	e.Scrolled++
	return e.Err
}

func (e *Element) Click(_ context.Context) error {
	if e.Err != nil {
		return e.Err
	}
	e.Clicks++
	switch e.Kind {
	case KindCheckbox:
		e.Checked = !e.Checked
	case KindRadio:
		for _, other := range e.Group {
			other.Checked = false
		}
		e.Checked = true
	}
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

func (e *Element) Clear(_ context.Context) error {
	if e.Err != nil {
		return e.Err
	}
	e.Clears++
	e.Val = ""
	return nil
}

func (e *Element) Type(_ context.Context, text string) error {
	if e.Err != nil {
		return e.Err
	}
	e.Typed = append(e.Typed, text)
	e.Val += text
	return nil
}

func (e *Element) PressEnter(_ context.Context) error {
	if e.Err != nil {
		return e.Err
	}
	e.Enters++
	return nil
}

func (e *Element) SetFiles(_ context.Context, paths []string) error {
	if e.Err != nil {
		return e.Err
	}
	e.Files = append(e.Files, paths...)
	return nil
}

func (e *Element) SelectOption(_ context.Context, value string) error {
	if e.Err != nil {
		return e.Err
	}
	for i, opt := range e.Opts {
		if opt.Value == value {
			e.Selected = i
			e.Val = value
			return nil
		}
	}
	return fmt.Errorf("no option with value %q", value)
}

func (e *Element) Options(_ context.Context) ([]browser.Option, error) {
	return e.Opts, nil
}

func (e *Element) SelectedIndex(_ context.Context) (int, error) {
	return e.Selected, nil
}

func (e *Element) Value(_ context.Context) (string, error) {
	return e.Val, nil
}

func (e *Element) IsChecked(_ context.Context) (bool, error) {
	return e.Checked, nil
}

func (e *Element) Attribute(_ context.Context, name string) (string, error) {
	return e.Attrs[name], nil
}

func (e *Element) Label(_ context.Context) (string, error) {
	return e.LabelText, nil
}

var (
	_ browser.Page    = (*Page)(nil)
	_ browser.Element = (*Element)(nil)
)
