package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins every error into one line for logs.
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Contract is a compiled JSON schema for one response shape.
type Contract struct {
	name   string
	schema *gojsonschema.Schema
}

// MustCompile compiles a schema literal; it panics on a malformed schema.
func MustCompile(name, schema string) *Contract {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", name, err))
	}
	return &Contract{name: name, schema: compiled}
}

func (c *Contract) Name() string {
	return c.name
}

// Validate checks a raw JSON document against the contract.
func (c *Contract) Validate(document []byte) (*ValidationResult, error) {
	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", c.name, err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out, nil
}

const projectSchema = `{
  "type": "object",
  "required": ["title", "parsed_content"],
  "properties": {
    "title": {"type": "string"},
    "project_url": {"type": "string"},
    "thumbnail_url": {"type": "string"},
    "parsed_content": {
      "type": "object",
      "properties": {
        "description_markdown": {"type": "string"},
        "submissions": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {"awards": {"type": "array", "items": {"type": "string"}}}
          }
        }
      }
    }
  }
}`

// SimilarResponse is the /similar contract: an array of [score, project] tuples.
var SimilarResponse = MustCompile("similar", `{
  "type": "array",
  "items": {
    "type": "array",
    "minItems": 2,
    "maxItems": 2,
    "items": [
      {"type": "number", "minimum": 0, "maximum": 1},
      `+projectSchema+`
    ]
  }
}`)

// StringListResponse is the /what-they-did and /how-they-won contract.
var StringListResponse = MustCompile("string-list", `{
  "type": "array",
  "items": {"type": "string"}
}`)

// ArenaResponse is the /arena contract.
var ArenaResponse = MustCompile("arena", `{
  "type": "object",
  "required": ["sorted_suggestions"],
  "properties": {
    "similar_projects": {"type": "array"},
    "sorted_suggestions": {"type": "array", "items": {"type": "string"}}
  }
}`)
