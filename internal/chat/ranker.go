package chat

import (
	"regexp"
	"sort"
	"strings"
)

// locationVariants maps canonical location names to the surface forms users
// and the report both use. Scoring is additive per variant on purpose: a
// page matching two variants of the same location counts twice.
var locationVariants = map[string][]string{
	"lahore":      {"lahore", "lhr"},
	"karachi":     {"karachi", "khi"},
	"islamabad":   {"islamabad", "isl"},
	"sindh":       {"sindh"},
	"punjab":      {"punjab"},
	"balochistan": {"balochistan", "baluchistan"},
	"kp":          {"khyber pakhtunkhwa", " kp ", "kpk"},
	"peshawar":    {"peshawar"},
	"quetta":      {"quetta"},
	"gilgit":      {"gilgit", "baltistan", "gb"},
	"kashmir":     {"kashmir", "ajk", "azad jammu"},
}

var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// Scoring weights. Locations dominate, years are strong, free keywords
// accumulate per occurrence.
const (
	locationWeight = 100
	yearWeight     = 50
	keywordWeight  = 3
)

// rankedPage is one scored corpus page, transient per query.
type rankedPage struct {
	content string
	page    int
	score   int
}

// queryKeywords returns the lowercased query tokens longer than 3 runes.
func queryKeywords(query string) []string {
	var out []string
	for _, tok := range strings.Fields(query) {
		if len([]rune(tok)) > 3 {
			out = append(out, strings.ToLower(tok))
		}
	}
	return out
}

// queryLocations returns canonical locations whose any variant appears in
// the query.
func queryLocations(query string) []string {
	lower := strings.ToLower(query)
	var out []string
	for loc, variants := range locationVariants {
		for _, v := range variants {
			if strings.Contains(lower, v) {
				out = append(out, loc)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// rank scores every corpus page against the query and returns the topK by
// descending score. Pages scoring zero are dropped entirely; ties keep the
// original corpus order.
func (e *Engine) rank(query string, topK int) []rankedPage {
	locations := queryLocations(query)
	years := yearPattern.FindAllString(query, -1)
	keywords := queryKeywords(query)

	var results []rankedPage
	for _, page := range e.index.Pages() {
		contentLower := strings.ToLower(page.Content)
		score := 0

		for _, loc := range locations {
			for _, variant := range locationVariants[loc] {
				if strings.Contains(contentLower, variant) {
					score += locationWeight
				}
			}
		}

		for _, year := range years {
			if strings.Contains(page.Content, year) {
				score += yearWeight
			}
		}

		for _, kw := range keywords {
			score += keywordWeight * strings.Count(contentLower, kw)
		}

		if score > 0 {
			results = append(results, rankedPage{
				content: page.Content,
				page:    page.Page,
				score:   score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
