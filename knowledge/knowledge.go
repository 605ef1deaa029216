// Package knowledge is an in-process knowledge-base index.
//
// It serves as the development backend for solution-context retrieval:
// documents are scored by token overlap with the query, which is enough for
// tests and local runs. Production deployments swap in a vector-similarity
// backend behind the same workflow.Searcher interface.
package knowledge

import (
	"sort"
	"strings"
	"sync"

	"github.com/deskgraph/deskgraph/workflow"
)

// Index stores documents and answers overlap-scored searches. Safe for
// concurrent use.
type Index struct {
	mu   sync.RWMutex
	docs []workflow.Document
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Add appends one plain-text document with optional metadata.
func (idx *Index) Add(text string, metadata map[string]string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.docs = append(idx.docs, workflow.Document{Content: text, Metadata: metadata})
}

// Len returns the number of stored documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Search returns up to k documents ordered by descending token overlap with
// the query. Documents sharing no token with the query are omitted, so an
// unrelated query yields an empty result rather than arbitrary documents.
// It implements workflow.Searcher and never returns an error.
func (idx *Index) Search(query string, k int) ([]workflow.Document, error) {
	if k <= 0 {
		return []workflow.Document{}, nil
	}

	queryTokens := tokenize(query)

	idx.mu.RLock()
	type scored struct {
		doc   workflow.Document
		score int
		order int
	}
	var matches []scored
	for i, doc := range idx.docs {
		score := overlap(queryTokens, tokenize(doc.Content))
		if score > 0 {
			matches = append(matches, scored{doc: doc, score: score, order: i})
		}
	}
	idx.mu.RUnlock()

	// Stable ranking: score first, insertion order as tiebreaker.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].order < matches[j].order
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	results := make([]workflow.Document, 0, len(matches))
	for _, match := range matches {
		results = append(results, match.doc)
	}
	return results, nil
}

// tokenize lowercases text and splits it into a set of word tokens.
func tokenize(text string) map[string]bool {
	tokens := map[string]bool{}
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		tokens[field] = true
	}
	return tokens
}

// overlap counts tokens present in both sets.
func overlap(a, b map[string]bool) int {
	count := 0
	for token := range a {
		if b[token] {
			count++
		}
	}
	return count
}
