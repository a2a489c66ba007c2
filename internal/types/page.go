package types

// PageType is the closed set of page kinds the classifier can report.
type PageType string

const (
	PageJobListing      PageType = "job_listing"
	PageJobDetails      PageType = "job_details"
	PageApplicationForm PageType = "application_form"
	PageLogin           PageType = "login"
	PageOther           PageType = "other"
)

// NormalizePageType maps any unrecognized value to PageOther.
func NormalizePageType(s string) PageType {
	switch pt := PageType(s); pt {
	case PageJobListing, PageJobDetails, PageApplicationForm, PageLogin, PageOther:
		return pt
	default:
		return PageOther
	}
}

// FieldType is the kind of interactive control a form field is.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldFile     FieldType = "file"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
	FieldTextarea FieldType = "textarea"
)

// IsTextLike reports whether the field is filled by typing.
func (t FieldType) IsTextLike() bool {
	switch t {
	case FieldText, FieldEmail, FieldPhone, FieldTextarea:
		return true
	}
	return false
}

// PageSnapshot is a point-in-time capture of a rendered page.
type PageSnapshot struct {
	URL        string `json:"url"`
	Screenshot []byte `json:"-"`
	HTML       string `json:"-"`
}

// PageAnalysis is the classifier's structured view of one page visit.
type PageAnalysis struct {
	PageType      PageType    `json:"page_type"`
	Title         string      `json:"title,omitempty"`
	Jobs          []JobRef    `json:"jobs,omitempty"`
	FormFields    []FormField `json:"form_fields,omitempty"`
	SubmitButton  string      `json:"submit_button,omitempty"`
	NextButton    string      `json:"next_button,omitempty"`
	LoginRequired bool        `json:"login_required"`
	Errors        []string    `json:"errors"`
}

// HasForm reports whether the analysis found any fillable fields.
func (a *PageAnalysis) HasForm() bool {
	return a != nil && len(a.FormFields) > 0
}

// JobRef is a job entry listed on a careers or search page.
type JobRef struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Location string `json:"location,omitempty"`
	Company  string `json:"company,omitempty"`
}

// FormField describes one interactive element of an application form.
type FormField struct {
	Selector       string    `json:"selector"`
	Type           FieldType `json:"type"`
	Label          string    `json:"label"`
	Required       bool      `json:"required"`
	ProfileMapping string    `json:"profile_mapping,omitempty"` // canonical profile attribute, e.g. firstName
	Options        []string  `json:"options,omitempty"`
	Value          string    `json:"value,omitempty"`
}
