// internal/genai/json.go
package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedOutput marks model text that could not be turned into the
// expected JSON document.
var ErrMalformedOutput = errors.New("LLM_MALFORMED_OUTPUT")

var fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// ExtractJSON recovers the JSON object embedded in raw model text. Markdown
// code fences are stripped first, then the slice from the first '{' to the
// last '}' is taken. Returns ErrMalformedOutput when no object is present.
func ExtractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedOutput)
	}
	return text[start : end+1], nil
}

// ParseAndValidate extracts the JSON object from raw model text, validates
// it against the given schema and unmarshals it into v.
func ParseAndValidate(raw string, schema string, v interface{}) error {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if !result.Valid() {
		var reasons []string
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrMalformedOutput, strings.Join(reasons, "; "))
	}

	if err := json.Unmarshal([]byte(doc), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// BulletsSchema constrains the summary payload: a non-empty array of strings.
const BulletsSchema = `{
	"type": "object",
	"required": ["bullets"],
	"properties": {
		"bullets": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string"}
		}
	}
}`

// RecommendationsSchema constrains the recommendation payload. follow_up is
// optional; each entry must at least name a title.
const RecommendationsSchema = `{
	"type": "object",
	"required": ["recommendations"],
	"properties": {
		"recommendations": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["title"],
				"properties": {
					"title": {"type": "string"},
					"author": {"type": "string"},
					"reason": {"type": "string"},
					"in_stock": {"type": "boolean"}
				}
			}
		},
		"follow_up": {"type": "string"}
	}
}`
