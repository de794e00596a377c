package discovery

import (
	"strings"
	"unicode"
)

// Stop words excluded from hub title terms
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// maxTitleSources caps how many member titles contribute terms.
const maxTitleSources = 3

// suggestHubTitle derives a hub title from its member document titles: the
// most frequent non-stopword terms longer than two characters shared by at
// least two of the first three titles, title-cased and joined with " & ".
// Ties break by frequency then first-seen order. With no shared terms the
// first title is used verbatim.
func suggestHubTitle(titles []string) string {
	if len(titles) == 0 {
		return "Untitled Hub"
	}

	use := titles
	if len(use) > maxTitleSources {
		use = use[:maxTitleSources]
	}

	counts := make(map[string]int)
	var firstSeen []string
	for _, title := range use {
		seen := make(map[string]bool)
		for _, token := range titleTokens(title) {
			// Count each term once per title
			if seen[token] {
				continue
			}
			seen[token] = true
			if counts[token] == 0 {
				firstSeen = append(firstSeen, token)
			}
			counts[token]++
		}
	}

	var shared []string
	for _, token := range firstSeen {
		if counts[token] >= 2 {
			shared = append(shared, token)
		}
	}

	if len(shared) == 0 {
		return "Hub: " + titles[0]
	}

	// Stable sort: frequency descending, first-seen order for ties
	for i := 1; i < len(shared); i++ {
		for j := i; j > 0 && counts[shared[j]] > counts[shared[j-1]]; j-- {
			shared[j], shared[j-1] = shared[j-1], shared[j]
		}
	}

	if len(shared) > 3 {
		shared = shared[:3]
	}
	for i, token := range shared {
		shared[i] = titleCase(token)
	}
	return "Hub: " + strings.Join(shared, " & ")
}

func titleCase(token string) string {
	runes := []rune(token)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// titleTokens lowercases a title and drops stop words and short tokens.
func titleTokens(title string) []string {
	words := strings.Fields(title)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if len(cleaned) <= 2 || stopWords[cleaned] {
			continue
		}
		tokens = append(tokens, cleaned)
	}
	return tokens
}

// journeyTitle derives a journey title from its hub's display title.
func journeyTitle(hubTitle string) string {
	base := strings.TrimSpace(strings.TrimPrefix(hubTitle, "Hub:"))
	if base == "" {
		base = hubTitle
	}
	return "Journey: " + base
}
