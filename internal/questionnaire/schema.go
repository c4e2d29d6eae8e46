package questionnaire

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://questionnaire.json"

// resourceSchema describes the static question resource. The questions member
// is either a map keyed by question id (branching graph) or an ordered list
// (legacy linear questionnaire).
var resourceSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"initialQuestionId": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"questions": map[string]any{
			"oneOf": []any{
				map[string]any{
					"type":                 "object",
					"minProperties":        1,
					"additionalProperties": map[string]any{"$ref": "#/$defs/question"},
				},
				map[string]any{
					"type":     "array",
					"minItems": 1,
					"items":    map[string]any{"$ref": "#/$defs/question"},
				},
			},
		},
	},
	"required": []any{"questions"},
	"$defs": map[string]any{
		"question": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items":    map[string]any{"$ref": "#/$defs/option"},
				},
			},
			"required": []any{"text", "options"},
		},
		"option": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":  map[string]any{"type": "string", "minLength": 1},
				"score": map[string]any{"type": "number"},
				"radarScore": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "number"},
				},
				"nextQuestionId": map[string]any{"type": []any{"string", "null"}},
			},
			"required": []any{"text"},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a plain decoded JSON value.
		defBytes, err := json.Marshal(resourceSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateShape checks raw JSON against the resource schema.
func validateShape(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
