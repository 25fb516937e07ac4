package tokenizer

import "unicode/utf8"

// charactersPerToken is the crude ratio used for estimates.
const charactersPerToken = 4

// EstimateTokens approximates the token cost of text as its character count divided
// by four, rounded down.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / charactersPerToken
}
