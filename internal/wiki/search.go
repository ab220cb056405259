package wiki

import (
	"sort"
	"strings"
)

// Relevance scoring weights. A verbatim query match in a section title
// dominates; individual word hits in the title outweigh hits in the body.
const (
	titlePhraseBonus = 2.0
	titleWordBonus   = 0.5
	contentWordBonus = 0.1
)

// SearchResult pairs a section with its relevance score.
type SearchResult struct {
	Section Section
	Score   float64
}

// SearchSections ranks a page's sections against a free-text query and
// returns up to maxResults of the best matches. Scoring is deliberately a
// cheap bag-of-words heuristic: one page holds a handful of sections, so
// anything richer than keyword overlap would add complexity without better
// results. Zero-score sections are excluded; ties keep document order.
func SearchSections(page *Page, query string, maxResults int) []SearchResult {
	queryLower := strings.ToLower(query)
	queryWords := wordSet(queryLower)

	var results []SearchResult
	for _, section := range page.Sections {
		title := strings.ToLower(section.Title)
		content := strings.ToLower(section.Content)

		var score float64
		if strings.Contains(title, queryLower) {
			score += titlePhraseBonus
		}
		score += float64(countMatches(queryWords, wordSet(title))) * titleWordBonus
		score += float64(countMatches(queryWords, wordSet(content))) * contentWordBonus

		if score > 0 {
			results = append(results, SearchResult{Section: section, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func countMatches(query, words map[string]struct{}) int {
	n := 0
	for w := range query {
		if _, ok := words[w]; ok {
			n++
		}
	}
	return n
}
