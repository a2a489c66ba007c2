package form

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jonathan/job-hunter/internal/browser"
	"github.com/jonathan/job-hunter/internal/classifier"
	"github.com/jonathan/job-hunter/internal/resolution"
	"github.com/jonathan/job-hunter/internal/types"
)

// ErrNoFormFields is recorded when the page analysis has nothing to fill.
var ErrNoFormFields = errors.New("no form fields found on page")

// ValueResolver resolves the value for one field.
type ValueResolver interface {
	Resolve(ctx context.Context, field types.FormField, profile *types.UserProfile, job types.JobContext) resolution.Resolution
}

// PageClassifier classifies the current page when no analysis is supplied.
type PageClassifier interface {
	ClassifyPage(ctx context.Context, page browser.Page) (classifier.ParseResult, error)
}

// Options configures a Filler.
type Options struct {
	Verbose bool
}

// Filler drives form completion. It is safe to reuse across forms but not across
// concurrent pages sharing one Pacing with state.
type Filler struct {
	resolver   ValueResolver
	classifier PageClassifier
	pacing     Pacing
	verbose    bool
}

// NewFiller creates a Filler. pageClassifier may be nil when callers always pass an analysis.
func NewFiller(resolver ValueResolver, pageClassifier PageClassifier, pacing Pacing, opts Options) *Filler {
	if pacing == nil {
		pacing = NoPacing{}
	}
	return &Filler{
		resolver:   resolver,
		classifier: pageClassifier,
		pacing:     pacing,
		verbose:    opts.Verbose,
	}
}

// FillForm fills every field of the analysis in order. A nil analysis classifies the
// current page first. Field problems are recorded in the result and never abort the form;
// the result is unsuccessful only when there were errors and nothing was filled.
func (f *Filler) FillForm(ctx context.Context, page browser.Page, profile *types.UserProfile, job types.JobContext, analysis *types.PageAnalysis) types.FillResult {
	result := types.FillResult{Errors: []string{}}

	if analysis == nil {
		classified, err := f.classify(ctx, page)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			result.Finalize()
			return result
		}
		analysis = &classified
	}

	if !analysis.HasForm() {
		result.Errors = append(result.Errors, ErrNoFormFields.Error())
		result.Finalize()
		return result
	}

	for _, field := range analysis.FormFields {
		f.fillField(ctx, page, profile, job, field, &result)
	}

	result.Finalize()
	f.logf("Filled %d, skipped %d, errors %d", result.FieldsFilled, result.FieldsSkipped, len(result.Errors))
	return result
}

func (f *Filler) classify(ctx context.Context, page browser.Page) (types.PageAnalysis, error) {
	if f.classifier == nil {
		return types.PageAnalysis{}, errors.New("no page analysis supplied and no classifier configured")
	}
	parsed, err := f.classifier.ClassifyPage(ctx, page)
	if err != nil {
		return types.PageAnalysis{}, err
	}
	return parsed.Analysis(), nil
}

func (f *Filler) fillField(ctx context.Context, page browser.Page, profile *types.UserProfile, job types.JobContext, field types.FormField, result *types.FillResult) {
	entry := types.FillEntry{
		Selector: field.Selector,
		Label:    field.Label,
		Type:     field.Type,
		Source:   types.SourceNone,
	}
	skip := func(detail string, isError bool) {
		entry.Status = types.FillStatusSkipped
		entry.Detail = detail
		if isError {
			entry.Status = types.FillStatusError
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", fieldName(field), detail))
		}
		result.FieldsSkipped++
		result.Entries = append(result.Entries, entry)
	}

	if !knownType(field.Type) {
		skip(fmt.Sprintf("unknown field type %q", field.Type), true)
		return
	}

	el, err := page.Query(ctx, field.Selector)
	if err != nil || el == nil {
		skip("element not found", false)
		return
	}

	// file inputs are routinely hidden behind styled upload buttons
	if field.Type != types.FieldFile {
		visible, err := el.IsVisible(ctx)
		if err != nil || !visible {
			skip("element not visible", false)
			return
		}
	}

	if f.alreadySatisfied(ctx, page, el, field) {
		entry.Status = types.FillStatusAlreadyFilled
		result.FieldsFilled++
		result.Entries = append(result.Entries, entry)
		return
	}

	res := f.resolver.Resolve(ctx, field, profile, job)
	entry.Source = res.Source
	if res.Value == "" {
		switch {
		case field.Required && res.Err != nil:
			skip("no value resolved: "+res.Err.Error(), true)
		case field.Required:
			skip("required field has no value", true)
		default:
			skip("no value", false)
		}
		return
	}
	entry.Value = res.Value

	if err := pause(ctx, f.pacing, ActionField); err != nil {
		skip(err.Error(), true)
		return
	}
	if err := el.ScrollIntoView(ctx); err != nil {
		f.logf("Scroll failed for %s: %v", field.Selector, err)
	}
	if err := pause(ctx, f.pacing, ActionScroll); err != nil {
		skip(err.Error(), true)
		return
	}

	detail, changed, err := f.dispatch(ctx, page, el, field, res.Value)
	if err != nil {
		skip(err.Error(), true)
		return
	}
	if !changed {
		skip(detail, false)
		return
	}

	entry.Status = types.FillStatusFilled
	entry.Detail = detail
	result.FieldsFilled++
	result.Entries = append(result.Entries, entry)
	f.logf("Filled %s (%s) from %s", fieldName(field), field.Type, res.Source)
}

// dispatch performs the type-specific fill. changed is false when nothing needed doing.
func (f *Filler) dispatch(ctx context.Context, page browser.Page, el browser.Element, field types.FormField, value string) (detail string, changed bool, err error) {
	switch field.Type {
	case types.FieldText, types.FieldEmail, types.FieldPhone, types.FieldTextarea:
		return "", true, f.typeText(ctx, el, value)
	case types.FieldFile:
		return "", true, f.upload(ctx, el, value)
	case types.FieldSelect:
		return f.selectOption(ctx, el, value)
	case types.FieldCheckbox:
		return f.setCheckbox(ctx, el, value)
	case types.FieldRadio:
		return f.chooseRadio(ctx, page, el, value)
	default:
		return "", false, fmt.Errorf("unknown field type %q", field.Type)
	}
}

func (f *Filler) typeText(ctx context.Context, el browser.Element, value string) error {
	if err := pause(ctx, f.pacing, ActionClick); err != nil {
		return err
	}
	if err := el.Click(ctx); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	if err := el.Clear(ctx); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	for _, r := range value {
		if err := pause(ctx, f.pacing, ActionKeystroke); err != nil {
			return err
		}
		if err := el.Type(ctx, string(r)); err != nil {
			return fmt.Errorf("typing failed: %w", err)
		}
	}
	return nil
}

func (f *Filler) upload(ctx context.Context, el browser.Element, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file %s not readable: %w", path, err)
	}
	if err := pause(ctx, f.pacing, ActionUpload); err != nil {
		return err
	}
	if err := el.SetFiles(ctx, []string{path}); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}

func (f *Filler) selectOption(ctx context.Context, el browser.Element, value string) (string, bool, error) {
	options, err := el.Options(ctx)
	if err != nil {
		return "", false, fmt.Errorf("reading options failed: %w", err)
	}

	idx, fallback := MatchOption(options, value)
	if idx < 0 {
		return "", false, errors.New("no selectable option")
	}
	if err := pause(ctx, f.pacing, ActionSelect); err != nil {
		return "", false, err
	}
	if err := el.SelectOption(ctx, options[idx].Value); err != nil {
		return "", false, fmt.Errorf("select failed: %w", err)
	}

	detail := fmt.Sprintf("selected %q", options[idx].Text)
	if fallback {
		detail += " (fallback: no option matched)"
	}
	return detail, true, nil
}

func (f *Filler) setCheckbox(ctx context.Context, el browser.Element, value string) (string, bool, error) {
	want := ParseBool(value)
	checked, err := el.IsChecked(ctx)
	if err != nil {
		return "", false, fmt.Errorf("reading checkbox failed: %w", err)
	}
	if checked == want {
		return "left unchanged", false, nil
	}
	if err := pause(ctx, f.pacing, ActionClick); err != nil {
		return "", false, err
	}
	if err := el.Click(ctx); err != nil {
		return "", false, fmt.Errorf("click failed: %w", err)
	}
	return "", true, nil
}

func (f *Filler) chooseRadio(ctx context.Context, page browser.Page, el browser.Element, value string) (string, bool, error) {
	group := radioGroup(ctx, page, el)
	choices := make([]radioChoice, len(group))
	for i, member := range group {
		v, _ := member.Attribute(ctx, "value")
		label, _ := member.Label(ctx)
		choices[i] = radioChoice{value: v, label: label}
	}

	idx, fallback := matchRadio(choices, value)
	if idx < 0 {
		return "", false, errors.New("empty radio group")
	}
	if err := pause(ctx, f.pacing, ActionClick); err != nil {
		return "", false, err
	}
	if err := group[idx].Click(ctx); err != nil {
		return "", false, fmt.Errorf("click failed: %w", err)
	}

	chosen := choices[idx].label
	if chosen == "" {
		chosen = choices[idx].value
	}
	detail := fmt.Sprintf("chose %q", chosen)
	if fallback {
		detail += " (fallback: first option)"
	}
	return detail, true, nil
}

// RadioGroupSelector selects every radio input sharing name.
func RadioGroupSelector(name string) string {
	return fmt.Sprintf(`input[type="radio"][name="%s"]`, strings.ReplaceAll(name, `"`, `\"`))
}

// radioGroup returns the radios sharing el's name, or el alone.
func radioGroup(ctx context.Context, page browser.Page, el browser.Element) []browser.Element {
	name, err := el.Attribute(ctx, "name")
	if err != nil || name == "" {
		return []browser.Element{el}
	}
	members, err := page.QueryAll(ctx, RadioGroupSelector(name))
	if err != nil || len(members) == 0 {
		return []browser.Element{el}
	}
	return members
}

// alreadySatisfied reports whether the page already holds a value for the field,
// which makes repeated fill passes idempotent.
func (f *Filler) alreadySatisfied(ctx context.Context, page browser.Page, el browser.Element, field types.FormField) bool {
	switch field.Type {
	case types.FieldCheckbox:
		checked, err := el.IsChecked(ctx)
		return err == nil && checked
	case types.FieldSelect:
		idx, err := el.SelectedIndex(ctx)
		return err == nil && idx > 0
	case types.FieldRadio:
		for _, member := range radioGroup(ctx, page, el) {
			if checked, err := member.IsChecked(ctx); err == nil && checked {
				return true
			}
		}
		return false
	default:
		value, err := el.Value(ctx)
		return err == nil && strings.TrimSpace(value) != ""
	}
}

func knownType(t types.FieldType) bool {
	switch t {
	case types.FieldText, types.FieldEmail, types.FieldPhone, types.FieldTextarea,
		types.FieldFile, types.FieldSelect, types.FieldCheckbox, types.FieldRadio:
		return true
	}
	return false
}

func fieldName(field types.FormField) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Selector
}

func (f *Filler) logf(format string, args ...any) {
	if f.verbose {
		log.Printf("[FORM] "+format, args...)
	}
}
