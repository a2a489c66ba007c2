package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/job-hunter/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaFiles = []string{
	"page_analysis.schema.json",
	"match_result.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			schemaPath := filepath.Join(".", schemaFile)
			data, err := os.ReadFile(schemaPath)
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			err = json.Unmarshal(data, &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
		})
	}
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj))

			assert.Equal(t, "object", schemaObj["type"])
			assert.Contains(t, schemaObj, "$schema")
			assert.Contains(t, schemaObj, "properties")
		})
	}
}

func TestEmbeddedSchemasMatchFiles(t *testing.T) {
	data, err := os.ReadFile("page_analysis.schema.json")
	require.NoError(t, err)
	assert.Equal(t, string(data), PageAnalysis)

	data, err = os.ReadFile("match_result.schema.json")
	require.NoError(t, err)
	assert.Equal(t, string(data), MatchResult)
}

func TestPageAnalysisSchema_AcceptsUnknownPageType(t *testing.T) {
	// unknown page types are coerced after validation, so the schema must not reject them
	doc := `{"page_type": "checkout", "errors": []}`
	assert.NoError(t, schemas.ValidateJSONString(PageAnalysis, doc))
}

func TestPageAnalysisSchema_RejectsFieldWithoutSelector(t *testing.T) {
	doc := `{"page_type": "application_form", "form_fields": [{"type": "text", "label": "Name"}]}`
	err := schemas.ValidateJSONString(PageAnalysis, doc)
	require.Error(t, err)

	var verr *schemas.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Errors)
}
