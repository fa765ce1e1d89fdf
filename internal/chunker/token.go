package chunker

import "strings"

const tokensPerWord = 1.33

// EstimateTokens approximates a token count from the number of words.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	tokens := int(float64(words) * tokensPerWord)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
