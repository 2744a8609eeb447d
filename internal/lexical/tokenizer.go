package lexical

import (
	"strings"
	"unicode"
)

// Tokenize produces lowercase tokens from free text or identifiers.
//
// Two splitting passes are applied: non-alphanumeric runes act as
// delimiters (covering snake_case, kebab-case, and ordinary prose), then
// case and letter/digit boundaries split the remaining words so that
// camelCase and PascalCase identifiers break into sub-words:
//
//	"primaryButton"    -> ["primary", "button"]
//	"font_size_small"  -> ["font", "size", "small"]
//	"HTTPServer"       -> ["http", "server"]
//
// The same function is applied to catalog text and queries, which keeps
// lexical matching symmetric.
func Tokenize(s string) []string {
	var tokens []string
	var word []rune

	flush := func() {
		if len(word) > 0 {
			tokens = append(tokens, splitCase(word)...)
			word = word[:0]
		}
	}

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word = append(word, r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// TokenSet tokenizes s and deduplicates the result, preserving first
// occurrence order. Used to derive Pattern.Keywords at catalog load.
func TokenSet(s string) []string {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tokens))
	set := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		set = append(set, tok)
	}
	return set
}

// splitCase splits one alphanumeric word on case and letter/digit
// boundaries and lowercases the pieces. Acronym runs stay together until a
// lowercase letter follows ("JSONValue" -> ["json", "value"]).
func splitCase(word []rune) []string {
	if len(word) == 0 {
		return nil
	}

	parts := make([]string, 0, 2)
	start := 0
	for i := 1; i < len(word); i++ {
		prev, cur := word[i-1], word[i]

		boundary := unicode.IsLower(prev) && unicode.IsUpper(cur) ||
			unicode.IsDigit(prev) != unicode.IsDigit(cur) ||
			// End of an acronym run: "HTTPServer" splits before 'S'
			unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
				i+1 < len(word) && unicode.IsLower(word[i+1])

		if boundary {
			parts = append(parts, strings.ToLower(string(word[start:i])))
			start = i
		}
	}
	parts = append(parts, strings.ToLower(string(word[start:])))

	return parts
}
