package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare array",
			input: `[{"title":"Sapiens"}]`,
			want:  `[{"title":"Sapiens"}]`,
		},
		{
			name:  "fenced array",
			input: "```json\n[{\"title\":\"Sapiens\"}]\n```",
			want:  `[{"title":"Sapiens"}]`,
		},
		{
			name:  "commentary around object",
			input: `Claro! Aqui está o resultado: {"rating": 4.8} Espero que ajude.`,
			want:  `{"rating": 4.8}`,
		},
		{
			name:  "brackets inside strings ignored",
			input: `[{"relevance":"lista [essencial] de leitura"}]`,
			want:  `[{"relevance":"lista [essencial] de leitura"}]`,
		},
		{
			name:  "escaped quotes inside strings",
			input: `{"synopsis":"ele disse \"leia\" e saiu"}`,
			want:  `{"synopsis":"ele disse \"leia\" e saiu"}`,
		},
		{
			name:  "trailing commentary after array",
			input: "[1, 2, 3]\n\nEssa é a lista.",
			want:  `[1, 2, 3]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, json.Valid([]byte(got)), "extracted value must be valid JSON")
		})
	}
}

func TestExtractJSONFailures(t *testing.T) {
	for _, input := range []string{
		"",
		"no json here at all",
		`{"unterminated": "value`,
		"[1, 2, 3",
	} {
		_, err := ExtractJSON(input)
		assert.ErrorIs(t, err, ErrNoJSONFound, "input: %q", input)
	}
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences(`{"a":1}`))
}
