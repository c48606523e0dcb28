package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdme/floodwatch/internal/corpus"
	"github.com/pdme/floodwatch/internal/observability"
)

// Engine answers natural-language questions about flood history by ranking
// the knowledge-base pages and assembling contextual passages. It holds no
// mutable state after construction and is safe for concurrent use.
type Engine struct {
	index   *corpus.Index
	metrics *observability.Metrics
}

// NewEngine creates an Engine over a loaded corpus index. metrics may be nil.
func NewEngine(index *corpus.Index, m *observability.Metrics) *Engine {
	return &Engine{index: index, metrics: m}
}

const (
	// topK bounds how many ranked pages feed passage extraction.
	topK = 8
	// maxWindowsPerPage bounds context windows collected per page.
	maxWindowsPerPage = 150
	// maxAnswerChunks bounds passages in the final answer.
	maxAnswerChunks = 6
	// dedupPrefixLen is the coarse second-pass dedup key length.
	dedupPrefixLen = 40
	// snippetLen bounds fallback snippets when no window survives.
	snippetLen = 300
	// maxCitedPages bounds the citation line.
	maxCitedPages = 6
)

const flashFloodAnswer = `## Flash Floods vs Regular Floods

**Flash Floods:**
- Occur within 6 hours of heavy rainfall
- Sudden with little to no warning
- Extremely high velocity, very destructive
- Common in mountains (KP, GB)

**Regular (Riverine) Floods:**
- Develop over days/weeks
- Caused by persistent rain or snowmelt
- Gradual rise with advance warning
- Affect plains (Punjab, Sindh)

*Pakistan faces both types regularly.*`

const floodWarningAnswer = `## Emergency Response to Flood Warning:

1. **Evacuate** if advised by authorities
2. **Move to higher ground** immediately
3. **Never cross floodwater** (6 inches can knock you down, 2 feet sweeps vehicles)
4. **Disconnect utilities** if safe
5. **Take emergency kit** (water, food, meds, documents)
6. **Monitor** NDMA alerts (1166 helpline)
7. **Don't return** until cleared by authorities`

const notFoundAnswer = "I couldn't find information on that topic. Try:\n" +
	"- Specific years (2010, 2022)\n" +
	"- Cities (Lahore, Karachi)\n" +
	"- Provinces (Sindh, Punjab, KP)\n" +
	"- General topics (damages, casualties, preparedness)"

// Ask composes an answer for the query. Branches are evaluated in order,
// first match wins: canned intents, retrieval, snippet fallback. Every path
// terminates in a usable answer string, never an error.
func (e *Engine) Ask(query string) string {
	queryLower := strings.ToLower(query)

	if strings.Contains(queryLower, "flash flood") &&
		(strings.Contains(queryLower, "different") ||
			strings.Contains(queryLower, "difference") ||
			strings.Contains(queryLower, "what is")) {
		e.metrics.IncChat("canned")
		return flashFloodAnswer
	}

	if strings.Contains(queryLower, "flood warning") ||
		(strings.Contains(queryLower, "what") &&
			strings.Contains(queryLower, "do") &&
			strings.Contains(queryLower, "flood")) {
		e.metrics.IncChat("canned")
		return floodWarningAnswer
	}

	passages := e.rank(query, topK)
	if len(passages) == 0 {
		e.metrics.IncChat("not_found")
		return notFoundAnswer
	}

	keywords := queryKeywords(query)

	type scoredChunk struct {
		score int
		text  string
		page  int
	}
	var chunks []scoredChunk
	seen := make(map[string]bool)

	for _, p := range passages {
		cleaned := cleanText(p.content)
		for _, chunk := range extractChunks(cleaned, keywords, maxWindowsPerPage) {
			// A recurring regional-overview passage matches almost any short
			// query; suppress it unless the query is specific enough.
			if strings.Contains(strings.ToLower(chunk), "asian countries") && len(keywords) <= 2 {
				continue
			}
			if seen[chunk] {
				continue
			}
			seen[chunk] = true
			chunks = append(chunks, scoredChunk{
				score: countKeywords(chunk, keywords),
				text:  chunk,
				page:  p.page,
			})
		}
	}

	sourcePages := make(map[int]bool)

	if len(chunks) == 0 {
		e.metrics.IncChat("snippet_fallback")
		var sb strings.Builder
		sb.WriteString("**Historical Flood Data:**\n\n")
		for _, p := range passages[:min(2, len(passages))] {
			fmt.Fprintf(&sb, "• %s...\n\n", truncateRunes(cleanText(p.content), snippetLen))
			sourcePages[p.page] = true
		}
		fmt.Fprintf(&sb, "\n📄 *Pages %s*", pagesLine(sourcePages, len(sourcePages)))
		return sb.String()
	}

	e.metrics.IncChat("retrieval")

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].score > chunks[j].score
	})

	var sb strings.Builder
	sb.WriteString("**Historical Flood Records:**\n\n")

	seenPrefix := make(map[string]bool)
	count := 0
	for _, c := range chunks {
		if count >= maxAnswerChunks {
			break
		}
		key := truncateRunes(c.text, dedupPrefixLen)
		if seenPrefix[key] {
			continue
		}
		seenPrefix[key] = true
		fmt.Fprintf(&sb, "• %s\n\n", c.text)
		sourcePages[c.page] = true
		count++
	}

	fmt.Fprintf(&sb, "\n📄 *Source: Pages %s*", pagesLine(sourcePages, maxCitedPages))
	return sb.String()
}

// LocationSummary composes the history-risk answer for a location by
// delegating a synthetic query to Ask.
func (e *Engine) LocationSummary(location string) string {
	return e.Ask("flood history damages risks " + location)
}

// pagesLine renders up to limit distinct page numbers in ascending order.
func pagesLine(pages map[int]bool, limit int) string {
	nums := make([]int, 0, len(pages))
	for p := range pages {
		nums = append(nums, p)
	}
	sort.Ints(nums)
	if len(nums) > limit {
		nums = nums[:limit]
	}
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
