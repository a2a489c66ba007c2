package types

// FillStatus records what happened to a single field during a fill pass.
type FillStatus string

const (
	FillStatusFilled        FillStatus = "filled"
	FillStatusAlreadyFilled FillStatus = "already_filled"
	FillStatusSkipped       FillStatus = "skipped"
	FillStatusError         FillStatus = "error"
)

// ValueSource names the resolution step that produced a value.
type ValueSource string

const (
	SourceNone           ValueSource = "none"
	SourceExplicit       ValueSource = "explicit"
	SourceProfileMapping ValueSource = "profile_mapping"
	SourceLabelHeuristic ValueSource = "label_heuristic"
	SourceGenerated      ValueSource = "generated"
)

// FillEntry is one line of the audit trail: what was typed into which field and why.
type FillEntry struct {
	Selector string      `json:"selector"`
	Label    string      `json:"label"`
	Type     FieldType   `json:"type"`
	Value    string      `json:"value,omitempty"`
	Source   ValueSource `json:"source"`
	Status   FillStatus  `json:"status"`
	Detail   string      `json:"detail,omitempty"`
}

// FillResult aggregates the outcome of filling one form.
type FillResult struct {
	Success       bool        `json:"success"`
	FieldsFilled  int         `json:"fields_filled"`
	FieldsSkipped int         `json:"fields_skipped"`
	Errors        []string    `json:"errors"`
	Entries       []FillEntry `json:"entries,omitempty"`
}

// Finalize sets Success: a fill only fails when there were errors and nothing was filled.
func (r *FillResult) Finalize() {
	r.Success = !(len(r.Errors) > 0 && r.FieldsFilled == 0)
}

// Merge folds another pass (e.g. the next step of a multi-page form) into r.
func (r *FillResult) Merge(other FillResult) {
	r.FieldsFilled += other.FieldsFilled
	r.FieldsSkipped += other.FieldsSkipped
	r.Errors = append(r.Errors, other.Errors...)
	r.Entries = append(r.Entries, other.Entries...)
	r.Finalize()
}
