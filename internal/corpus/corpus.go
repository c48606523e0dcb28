// Package corpus loads the page-indexed historical flood report that backs
// the chat surface. The knowledge base is read once at process start and is
// read-only afterward, so concurrent queries share it without locking.
package corpus

import (
	"encoding/json"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/pdme/floodwatch/internal/model"
)

// Pages 1-6 are the table of contents and 149 onward are references;
// neither carries retrievable flood history.
const (
	minPage = 6
	maxPage = 149

	// Boilerplate heuristics: pages dominated by links or dot leaders are
	// navigation artifacts of the PDF extraction, not prose.
	maxLinkMarkers = 5
	maxEllipses    = 10
)

// Index is the in-memory, load-once page collection.
type Index struct {
	pages []model.CorpusPage
}

// Load reads the knowledge base JSON and applies the boilerplate filter.
// A missing or corrupt file is logged and yields an empty index: every
// retrieval then deterministically lands in the not-found branch.
func Load(path string) *Index {
	data, err := os.ReadFile(path)
	if err != nil {
		zap.L().Warn("knowledge base not loaded",
			zap.String("path", path),
			zap.Error(err),
		)
		return &Index{}
	}

	var raw []model.CorpusPage
	if err := json.Unmarshal(data, &raw); err != nil {
		zap.L().Warn("knowledge base malformed",
			zap.String("path", path),
			zap.Error(err),
		)
		return &Index{}
	}

	pages := make([]model.CorpusPage, 0, len(raw))
	for _, p := range raw {
		if !retain(p) {
			continue
		}
		// PDF extraction leaves mixed-form accents; normalize once at load.
		p.Content = norm.NFC.String(p.Content)
		pages = append(pages, p)
	}

	zap.L().Info("knowledge base loaded",
		zap.String("path", path),
		zap.Int("pages", len(pages)),
		zap.Int("filtered", len(raw)-len(pages)),
	)
	return &Index{pages: pages}
}

func retain(p model.CorpusPage) bool {
	if p.Page <= minPage || p.Page >= maxPage {
		return false
	}
	if strings.Count(p.Content, "http") > maxLinkMarkers {
		return false
	}
	if strings.Count(p.Content, "...") > maxEllipses {
		return false
	}
	return true
}

// FromPages builds an index directly, bypassing the file load. Intended for
// tests and tooling; the same filters apply.
func FromPages(raw []model.CorpusPage) *Index {
	pages := make([]model.CorpusPage, 0, len(raw))
	for _, p := range raw {
		if retain(p) {
			pages = append(pages, p)
		}
	}
	return &Index{pages: pages}
}

// Pages returns the retained pages in original order.
func (i *Index) Pages() []model.CorpusPage {
	return i.pages
}

// Len reports how many pages survived filtering.
func (i *Index) Len() int {
	return len(i.pages)
}
