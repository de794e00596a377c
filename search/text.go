package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Interrogative leads that mark a query as a question.
var interrogatives = map[string]bool{
	"what": true, "how": true, "why": true, "when": true, "where": true,
	"who": true, "which": true, "can": true, "could": true, "should": true,
	"does": true, "do": true, "is": true, "are": true,
}

// maxExpansionRunes is the hard ceiling for an accepted query expansion.
const maxExpansionRunes = 512

// shouldExpandQuery judges whether a query would benefit from expansion.
// Short queries, questions, and queries carrying a proper-noun-like token
// embed poorly as-is.
func shouldExpandQuery(query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return false
	}
	if len(tokens) <= 3 {
		return true
	}
	if strings.Contains(query, "?") {
		return true
	}
	if interrogatives[strings.ToLower(strings.Trim(tokens[0], ".,!?;:'\""))] {
		return true
	}
	// A capitalized token past the sentence start suggests a proper noun
	for _, token := range tokens[1:] {
		r, _ := utf8.DecodeRuneInString(token)
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// saneExpansion checks that an expansion is usable: a genuine elaboration of
// the original, and not runaway model output.
func saneExpansion(original, expanded string) bool {
	if expanded == "" {
		return false
	}
	origLen := utf8.RuneCountInString(original)
	expLen := utf8.RuneCountInString(expanded)
	return expLen > origLen && expLen <= maxExpansionRunes
}

// snippetRuneLimit is the display length for result snippets.
const snippetRuneLimit = 200

// snippet truncates content for display.
func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetRuneLimit {
		return content
	}
	return string(runes[:snippetRuneLimit]) + "..."
}
