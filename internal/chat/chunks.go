package chat

import (
	"regexp"
	"sort"
	"strings"
)

var (
	linkPattern     = regexp.MustCompile(`http\S+`)
	spacePattern    = regexp.MustCompile(`\s+`)
	ellipsisPattern = regexp.MustCompile(`\.{3,}`)
)

// cleanText strips link-like tokens, collapses whitespace runs, and removes
// the dot leaders PDF extraction leaves behind.
func cleanText(s string) string {
	s = linkPattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, " ")
	s = ellipsisPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// contextWindow is the reach, in bytes, on each side of a keyword hit.
const contextWindow = 100

// minChunkLen drops windows too short to read as a passage.
const minChunkLen = 20

// extractChunks scans content for every occurrence of every keyword and
// emits bounded text windows around the hits, best-scoring first. A window
// scores by how many distinct keywords appear inside it; exact duplicates
// are kept once. Deterministic for identical inputs.
func extractChunks(content string, keywords []string, maxWindows int) []string {
	contentLower := strings.ToLower(content)

	type window struct {
		score int
		text  string
	}
	var windows []window
	seen := make(map[string]bool)

	for _, kw := range keywords {
		k := strings.ToLower(kw)
		if k == "" {
			continue
		}
		pos := 0
		for {
			i := strings.Index(contentLower[pos:], k)
			if i < 0 {
				break
			}
			i += pos

			start := max(0, i-contextWindow)
			end := min(len(content), i+contextWindow)
			chunk := strings.TrimSpace(content[start:end])

			if len(chunk) > minChunkLen && !seen[chunk] {
				seen[chunk] = true
				windows = append(windows, window{
					score: countKeywords(chunk, keywords),
					text:  chunk,
				})
			}
			pos = i + 1
		}
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].score > windows[j].score
	})
	if len(windows) > maxWindows {
		windows = windows[:maxWindows]
	}

	out := make([]string, len(windows))
	for i, w := range windows {
		out[i] = w.text
	}
	return out
}

// countKeywords reports how many distinct keywords appear in the chunk,
// case-insensitively.
func countKeywords(chunk string, keywords []string) int {
	chunkLower := strings.ToLower(chunk)
	n := 0
	for _, kw := range keywords {
		if strings.Contains(chunkLower, strings.ToLower(kw)) {
			n++
		}
	}
	return n
}
