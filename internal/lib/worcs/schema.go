package worcs

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// responseSchemaJSON is the shape every GetInsuranceCoverage reply must have.
// Extra properties are tolerated; missing or mistyped ones are not.
const responseSchemaJSON = `{
  "type": "object",
  "required": ["success", "result", "errors", "errorsHtml"],
  "properties": {
    "success": {"type": "boolean"},
    "result": {
      "type": "object",
      "required": ["data", "totalRecords", "currentPage"],
      "properties": {
        "data": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["employerId", "employerName", "address", "city", "state", "zipCode", "overallCount"],
            "properties": {
              "employerId":   {"type": "integer"},
              "employerName": {"type": "string"},
              "address":      {"type": "string"},
              "city":         {"type": "string"},
              "state":        {"type": "string"},
              "zipCode":      {"type": "string"},
              "overallCount": {"type": "integer"}
            }
          }
        },
        "totalRecords": {"type": "integer"},
        "currentPage":  {"type": "integer"}
      }
    },
    "errors":     {"type": "array", "items": {"type": "string"}},
    "errorsHtml": {"type": "string"}
  }
}`

var responseSchema = mustCompileSchema(responseSchemaJSON)

func mustCompileSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("worcs: invalid response schema: %v", err))
	}
	return schema
}

// SchemaError reports a response body that does not match the expected shape.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "worcs: unexpected response shape: " + strings.Join(e.Violations, "; ")
}

// validateResponse checks body against responseSchema. Malformed JSON is
// returned as the loader's error; shape mismatches as *SchemaError.
func validateResponse(body []byte) error {
	result, err := responseSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err
	}

	if !result.Valid() {
		violations := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			violations[i] = desc.String()
		}
		return &SchemaError{Violations: violations}
	}

	return nil
}
