package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOCRPayload(t *testing.T) {
	raw := []byte(`{
		"text": "Invoice Number: INV-001",
		"confidence": 87.5,
		"perWordConfidence": [
			{"word": "Invoice", "confidence": 99},
			{"word": "INV-001", "confidence": 76}
		]
	}`)

	p, err := ParseOCRPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "Invoice Number: INV-001", p.Text)
	require.NotNil(t, p.Confidence)
	assert.Equal(t, 87.5, *p.Confidence)
	assert.Len(t, p.PerWordConfidence, 2)
}

func TestParseOCRPayloadTextOnly(t *testing.T) {
	p, err := ParseOCRPayload([]byte(`{"text": "hello"}`))
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Text)
	assert.Nil(t, p.Confidence)
}

func TestParseOCRPayloadRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing text", `{"confidence": 80}`},
		{"text wrong type", `{"text": 42}`},
		{"confidence over 100", `{"text": "x", "confidence": 101}`},
		{"confidence negative", `{"text": "x", "confidence": -1}`},
		{"unknown field", `{"text": "x", "pages": 3}`},
		{"word entry missing confidence", `{"text": "x", "perWordConfidence": [{"word": "a"}]}`},
		{"not an object", `["text"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOCRPayload([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}
