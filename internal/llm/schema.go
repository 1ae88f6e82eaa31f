package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ResumeSchema is the JSON Schema of a structured resume. Unknown properties are
// allowed so that extra fields from the model are ignored rather than rejected.
func ResumeSchema() map[string]any {
	nullableString := map[string]any{"type": []any{"string", "null"}}
	requiredString := map[string]any{"type": "string"}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties": map[string]any{
			"firstName": nullableString,
			"lastName":  nullableString,
			"email":     nullableString,
			"phone":     nullableString,
			"address":   nullableString,
			"education": map[string]any{
				"type": []any{"object", "null"},
				"properties": map[string]any{
					"degree":      nullableString,
					"institution": nullableString,
					"year":        nullableString,
				},
			},
			"experience": map[string]any{
				"type": []any{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"role":         requiredString,
						"organization": requiredString,
						"period":       requiredString,
						"description":  requiredString,
					},
					"required": []any{"role", "organization", "period", "description"},
				},
			},
			"skills":    nullableString,
			"objective": nullableString,
			"language":  nullableString,
		},
	}
}

var (
	resumeSchemaOnce sync.Once
	resumeSchema     *jsonschema.Schema
	resumeSchemaErr  error
)

// ValidateResumeJSON checks data against ResumeSchema. The schema is compiled once.
func ValidateResumeJSON(data []byte) error {
	resumeSchemaOnce.Do(func() {
		resumeSchema, resumeSchemaErr = compileSchema(ResumeSchema())
	})
	if resumeSchemaErr != nil {
		return resumeSchemaErr
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := resumeSchema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("resume.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("resume.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
