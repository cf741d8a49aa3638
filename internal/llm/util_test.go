package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON unchanged",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language identifier",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"key\": \"value\"}\n  ",
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "chatty preamble and trailer",
			input:    "Sure, here is the analysis:\n{\"skills\": []}\nLet me know if you need more.",
			expected: `{"skills": []}`,
		},
		{
			name:     "trailing comma in object",
			input:    `{"skills": ["go", "sql"],}`,
			expected: `{"skills": ["go", "sql"]}`,
		},
		{
			name:     "trailing comma in array",
			input:    `{"skills": ["go",]}`,
			expected: `{"skills": ["go"]}`,
		},
		{
			name:     "fenced and chatty",
			input:    "```json\nHere you go: {\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "no object found",
			input:    "I could not analyze this resume.",
			expected: "I could not analyze this resume.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSONObject(tt.input))
		})
	}
}
