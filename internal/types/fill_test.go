package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillResult_Finalize(t *testing.T) {
	tests := []struct {
		name     string
		result   FillResult
		expected bool
	}{
		{"partial success", FillResult{FieldsFilled: 2, FieldsSkipped: 1, Errors: []string{"x"}}, true},
		{"errors and nothing filled", FillResult{FieldsFilled: 0, Errors: []string{"x"}}, false},
		{"nothing to do", FillResult{}, true},
		{"clean fill", FillResult{FieldsFilled: 4}, true},
		{"all skipped without errors", FillResult{FieldsSkipped: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.result
			r.Finalize()
			assert.Equal(t, tt.expected, r.Success)
		})
	}
}

func TestFillResult_Merge(t *testing.T) {
	first := FillResult{Errors: []string{"required field \"Phone\" could not be resolved"}}
	first.Finalize()
	assert.False(t, first.Success)

	first.Merge(FillResult{FieldsFilled: 3, Entries: []FillEntry{{Selector: "#a", Status: FillStatusFilled}}})

	assert.True(t, first.Success)
	assert.Equal(t, 3, first.FieldsFilled)
	assert.Len(t, first.Errors, 1)
	assert.Len(t, first.Entries, 1)
}
