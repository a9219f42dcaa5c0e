package catalog

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// ValidationError rejects bad input shape before any state change.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog validation: %s", e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Index holds catalog items and answers nearest-neighbor queries by cosine
// similarity. Read-mostly: unlimited concurrent readers, writes replace a
// single item atomically under the write lock.
type Index struct {
	mu    sync.RWMutex
	dim   int
	items map[string]Item
}

// NewIndex creates an index with a fixed vector width.
func NewIndex(dim int) *Index {
	return &Index{
		dim:   dim,
		items: make(map[string]Item),
	}
}

// Dim returns the fixed vector width of the index.
func (ix *Index) Dim() int {
	return ix.dim
}

// Len returns the number of items currently indexed.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.items)
}

// Upsert inserts or replaces an item. The vector must match the index width
// and have non-zero magnitude.
func (ix *Index) Upsert(item Item) error {
	if item.ID == "" {
		return &ValidationError{Reason: "item id is empty"}
	}
	if len(item.Vector) != ix.dim {
		return &ValidationError{Reason: fmt.Sprintf("vector dimension %d, index expects %d", len(item.Vector), ix.dim)}
	}
	if magnitude(item.Vector) == 0 {
		return &ValidationError{Reason: "vector has zero magnitude"}
	}

	ix.mu.Lock()
	ix.items[item.ID] = item
	ix.mu.Unlock()
	return nil
}

// Get returns the item by id.
func (ix *Index) Get(id string) (Item, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	item, ok := ix.items[id]
	return item, ok
}

// Query returns up to limit candidates sorted by descending similarity,
// ties broken by item id ascending. Filters are applied before ranking so
// the results are always the best filtered matches. An empty result is not
// an error.
func (ix *Index) Query(vector []float32, filters Filters, limit int) ([]Candidate, error) {
	if len(vector) != ix.dim {
		return nil, &ValidationError{Reason: fmt.Sprintf("query vector dimension %d, index expects %d", len(vector), ix.dim)}
	}
	if limit <= 0 {
		limit = 5
	}

	ix.mu.RLock()
	candidates := make([]Candidate, 0, len(ix.items))
	for _, item := range ix.items {
		if !filters.Matches(item) {
			continue
		}
		candidates = append(candidates, Candidate{
			Item:    item,
			Score:   cosineSimilarity(vector, item.Vector),
			Filters: filters,
		})
	}
	ix.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Item.ID < candidates[j].Item.ID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// Browse returns up to limit filtered items without ranking, ordered by id
// ascending. It needs no query vector, so it keeps working when the
// embedding collaborator is down.
func (ix *Index) Browse(filters Filters, limit int) []Item {
	if limit <= 0 {
		limit = 5
	}

	ix.mu.RLock()
	items := make([]Item, 0, len(ix.items))
	for _, item := range ix.items {
		if !filters.Matches(item) {
			continue
		}
		items = append(items, item)
	}
	ix.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// cosineSimilarity returns dot(a,b) / (|a| * |b|), clamped to [0,1].
// Upsert rejects zero-magnitude vectors so the denominator is never zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
