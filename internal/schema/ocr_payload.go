package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// OCRPayload is the document shape the OCR collaborator hands us.
type OCRPayload struct {
	Text              string           `json:"text"`
	Confidence        *float64         `json:"confidence,omitempty"`
	PerWordConfidence []WordConfidence `json:"perWordConfidence,omitempty"`
}

// WordConfidence is one recognized word with its engine confidence.
type WordConfidence struct {
	Word       string  `json:"word"`
	Confidence float64 `json:"confidence"`
}

// BuildOCRPayloadSchema returns the JSON-Schema the collaborator payload
// must satisfy, as a generic map (compiled once per validator).
func BuildOCRPayloadSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"text"},
		"properties": map[string]any{
			"text":       map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 100.0},
			"perWordConfidence": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"word", "confidence"},
					"properties": map[string]any{
						"word":       map[string]any{"type": "string"},
						"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 100.0},
					},
				},
			},
		},
	}
}

// ParseOCRPayload validates raw JSON against the payload schema and decodes
// it.
func ParseOCRPayload(raw []byte) (*OCRPayload, error) {
	if err := validateJSONAgainstSchema(BuildOCRPayloadSchema(), raw); err != nil {
		return nil, err
	}
	var p OCRPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode ocr payload: %w", err)
	}
	return &p, nil
}

// validateJSONAgainstSchema validates data against schemaMap.
func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
