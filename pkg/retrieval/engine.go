package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"ship-consultant-be/pkg/catalog"
	"ship-consultant-be/pkg/embedding"
)

// ErrUnavailable means the embedding collaborator failed or timed out.
// Recoverable: the consultant falls back to a clarifying question.
var ErrUnavailable = errors.New("retrieval unavailable")

const (
	minTopK = 1
	maxTopK = 10

	// DefaultMinConfidence is the match-score floor below which a result
	// set is tagged low-confidence rather than presented as a confident
	// recommendation.
	DefaultMinConfidence = 0.15
)

// Constraints are the structured preferences applied as catalog filters.
// Absent fields impose no restriction.
type Constraints struct {
	PriceMaxUSD  *float64
	PriceMinUSD  *float64
	CargoMinSCU  *int
	CrewMax      *int
	Manufacturer string
	Focus        string
	Type         string
	ExcludeIDs   []string

	// RoleKeywords boost candidates whose focus matches a stated interest.
	RoleKeywords []string
}

// Filters exposes the catalog predicate mapping for callers that rank
// outside the in-memory index.
func (c Constraints) Filters() catalog.Filters {
	return c.filters()
}

func (c Constraints) filters() catalog.Filters {
	return catalog.Filters{
		PriceMaxUSD:  c.PriceMaxUSD,
		PriceMinUSD:  c.PriceMinUSD,
		CargoMinSCU:  c.CargoMinSCU,
		CrewMax:      c.CrewMax,
		Manufacturer: c.Manufacturer,
		Focus:        c.Focus,
		Type:         c.Type,
		ExcludeIDs:   c.ExcludeIDs,
	}
}

// Result is one retrieval outcome. Candidates may be empty; LowConfidence
// tells the consultant to ask for more detail instead of presenting a weak
// recommendation.
type Result struct {
	Candidates    []catalog.Candidate
	LowConfidence bool
	Query         string
}

// Engine turns a natural-language need plus structured constraints into
// ranked candidates against the catalog index.
type Engine struct {
	embeddingProvider embedding.EmbeddingProvider
	index             *catalog.Index
	minConfidence     float64
	timeout           time.Duration
	logger            *log.Logger
}

func NewEngine(embeddingProvider embedding.EmbeddingProvider, index *catalog.Index, minConfidence float64, timeout time.Duration, logger *log.Logger) *Engine {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Engine{
		embeddingProvider: embeddingProvider,
		index:             index,
		minConfidence:     minConfidence,
		timeout:           timeout,
		logger:            logger,
	}
}

// MinConfidence returns the configured match-score floor.
func (e *Engine) MinConfidence() float64 {
	return e.minConfidence
}

// Retrieve embeds the query, clamps topK to [1,10] and ranks filtered
// candidates. Embedding failure or timeout yields ErrUnavailable.
func (e *Engine) Retrieve(ctx context.Context, queryText string, constraints Constraints, topK int) (*Result, error) {
	if topK < minTopK {
		topK = minTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}

	embedCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	embeddingRes, err := e.embeddingProvider.Generate(embedCtx, queryText, embedding.TaskRetrievalQuery)
	if err != nil {
		e.logger.Printf("[RETRIEVAL] Embedding failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Over-fetch when boosting so re-sorting cannot push a deserving
	// candidate out of the window.
	fetchK := topK
	if len(constraints.RoleKeywords) > 0 {
		fetchK = topK * 2
		if fetchK > maxTopK*2 {
			fetchK = maxTopK * 2
		}
	}

	candidates, err := e.index.Query(embeddingRes.Embedding.Values, constraints.filters(), fetchK)
	if err != nil {
		return nil, err
	}

	if len(constraints.RoleKeywords) > 0 {
		candidates = boostByRole(candidates, constraints.RoleKeywords)
	}
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	result := &Result{
		Candidates: candidates,
		Query:      queryText,
	}
	if len(candidates) == 0 || candidates[0].Score < e.minConfidence {
		result.LowConfidence = true
	}

	e.logger.Printf("[RETRIEVAL] query=%q candidates=%d lowConfidence=%v", queryText, len(candidates), result.LowConfidence)
	return result, nil
}

// Fallback returns filter-only matches for when embedding is unavailable.
// Scores are zero, so callers must treat the result as low-confidence.
func (e *Engine) Fallback(constraints Constraints, limit int) []catalog.Candidate {
	if limit < minTopK {
		limit = minTopK
	}
	if limit > maxTopK {
		limit = maxTopK
	}

	items := e.index.Browse(constraints.filters(), limit)
	candidates := make([]catalog.Candidate, len(items))
	for i, item := range items {
		candidates[i] = catalog.Candidate{Item: item}
	}
	e.logger.Printf("[RETRIEVAL] fallback browse candidates=%d", len(candidates))
	return candidates
}

// boostByRole adds 0.1 to candidates whose focus matches a stated role
// interest, then re-sorts keeping the deterministic id tie-break.
func boostByRole(candidates []catalog.Candidate, roles []string) []catalog.Candidate {
	boosted := make([]catalog.Candidate, len(candidates))
	copy(boosted, candidates)
	for i := range boosted {
		for _, role := range roles {
			if role != "" && containsFold(boosted[i].Item.Focus, role) {
				boosted[i].Score += 0.1
				break
			}
		}
		if boosted[i].Score > 1 {
			boosted[i].Score = 1
		}
	}
	sort.Slice(boosted, func(i, j int) bool {
		if boosted[i].Score != boosted[j].Score {
			return boosted[i].Score > boosted[j].Score
		}
		return boosted[i].Item.ID < boosted[j].Item.ID
	})
	return boosted
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
