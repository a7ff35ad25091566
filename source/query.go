package source

import "strings"

// DefaultStopWords are dropped from queries before discovery.
var DefaultStopWords = []string{
	"y", "o", "e", "con", "para", "en", "de", "la", "el", "del", "un", "una",
	"es", "son", "por", "pero", "más", "menos", "si", "no", "así", "entonces",
	"cuando", "donde", "cómo", "qué", "quién", "cuyo", "sobre", "bajo", "entre",
}

// CleanQuery lowercases query, drops stop words and rejoins the remaining
// words with single spaces. A nil stopWords uses DefaultStopWords.
func CleanQuery(query string, stopWords []string) string {
	if stopWords == nil {
		stopWords = DefaultStopWords
	}
	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}

	words := strings.Fields(strings.ToLower(query))
	kept := words[:0]
	for _, w := range words {
		if _, ok := stop[w]; !ok {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
