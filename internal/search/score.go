// Package search ranks wiki pages against free-text queries. The
// in-memory scorer is the authoritative ranking policy; the bleve index
// in index.go serves the category-scoped fast path.
package search

import (
	"sort"
	"strings"
)

// Field weights. Title outranks subtitle at every match tier, and the
// two fields contribute independently, so a page can score on both.
const (
	titleExact    = 100
	titlePrefix   = 50
	titleWord     = 30
	titleContains = 10

	subtitleExact    = 20
	subtitlePrefix   = 10
	subtitleWord     = 5
	subtitleContains = 2
)

// Document is the minimal view of a page the scorer needs.
type Document struct {
	ID       int64
	Title    string
	Subtitle string
}

// Score computes the relevance of a title/subtitle pair for a query.
// The query is expected to be lowercased and trimmed already; fields are
// lowercased here. A zero score means no match.
func Score(query, title, subtitle string) int {
	if query == "" {
		return 0
	}
	score := fieldScore(query, title, titleExact, titlePrefix, titleWord, titleContains)
	score += fieldScore(query, subtitle, subtitleExact, subtitlePrefix, subtitleWord, subtitleContains)
	return score
}

// fieldScore awards at most one tier per field: exact beats prefix beats
// whole word beats substring.
func fieldScore(query, field string, exact, prefix, word, contains int) int {
	lower := strings.ToLower(field)
	switch {
	case lower == query:
		return exact
	case strings.HasPrefix(lower, query):
		return prefix
	case hasWord(lower, query):
		return word
	case strings.Contains(lower, query):
		return contains
	}
	return 0
}

func hasWord(field, query string) bool {
	for _, w := range strings.Fields(field) {
		if w == query {
			return true
		}
	}
	return false
}

// Rank scores the documents against the query, drops non-matches, sorts
// descending by score and truncates to limit. Equal scores keep their
// input order. An empty or whitespace-only query ranks nothing.
func Rank(docs []Document, query string, limit int) []Document {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	type scored struct {
		doc   Document
		score int
	}
	matches := make([]scored, 0, len(docs))
	for _, d := range docs {
		if s := Score(query, d.Title, d.Subtitle); s > 0 {
			matches = append(matches, scored{doc: d, score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	ranked := make([]Document, len(matches))
	for i, m := range matches {
		ranked[i] = m.doc
	}
	return ranked
}
