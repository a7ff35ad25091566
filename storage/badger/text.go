package badger

import "strings"

// tokenize splits text into lowercase words with surrounding punctuation trimmed.
func tokenize(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}¿¡"))
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}

	return tokens
}

// containsAllTerms reports whether every query term appears as a word of document.
// An empty term list matches everything.
func containsAllTerms(document string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}

	docWords := tokenize(document)
	docWordSet := make(map[string]bool, len(docWords))
	for _, word := range docWords {
		docWordSet[word] = true
	}

	for _, term := range terms {
		if !docWordSet[term] {
			return false
		}
	}
	return true
}
