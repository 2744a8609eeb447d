package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "plain prose",
			input:    "Button with primary variant",
			expected: []string{"button", "with", "primary", "variant"},
		},
		{
			name:     "camelCase identifier",
			input:    "primaryButton",
			expected: []string{"primary", "button"},
		},
		{
			name:     "snake_case identifier",
			input:    "font_size_small",
			expected: []string{"font", "size", "small"},
		},
		{
			name:     "kebab-case identifier",
			input:    "card-container-elevation",
			expected: []string{"card", "container", "elevation"},
		},
		{
			name:     "PascalCase with acronym",
			input:    "HTTPServerConfig",
			expected: []string{"http", "server", "config"},
		},
		{
			name:     "letter digit boundary",
			input:    "heading2xl",
			expected: []string{"heading", "2", "xl"},
		},
		{
			name:     "mixed punctuation",
			input:    "onClick, isDisabled; aria-label",
			expected: []string{"on", "click", "is", "disabled", "aria", "label"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "punctuation only",
			input:    "--- ///",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestTokenizeSymmetry(t *testing.T) {
	// Catalog text and queries must tokenize identically for the same words
	catalog := Tokenize("PrimaryButton loading_state")
	query := Tokenize("primary button loading state")
	assert.Equal(t, catalog, query)
}

func TestTokenSet(t *testing.T) {
	set := TokenSet("Button button primaryButton primary")
	assert.Equal(t, []string{"button", "primary"}, set)

	assert.Nil(t, TokenSet(""))
}
