package tokenizer

import "errors"

// CountResult captures the outcome of counting a piece of content.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountText counts tokens in text with counter. A nil counter yields an uncounted result.
func CountText(counter Counter, text string) (CountResult, error) {
	if counter == nil {
		return CountResult{}, nil
	}
	tokens, err := counter.CountString(text)
	if err != nil {
		return CountResult{}, err
	}
	if tokens < 0 {
		return CountResult{}, errors.New("tokenizer returned a negative count")
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}
