package driven

// TokenCounter measures text in model tokens.
type TokenCounter interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Name identifies the encoding.
	Name() string
}
