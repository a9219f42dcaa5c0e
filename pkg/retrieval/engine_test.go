package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ship-consultant-be/pkg/catalog"
	"ship-consultant-be/pkg/embedding"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	delay  time.Duration
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: f.vector},
	}, nil
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func seededIndex(t *testing.T) *catalog.Index {
	t.Helper()
	ix := catalog.NewIndex(3)
	items := []catalog.Item{
		{ID: "ship-a", Name: "Aurora MR", Focus: "Starter", CrewMin: 1, PriceUSD: 25, Vector: []float32{1, 0, 0}},
		{ID: "ship-b", Name: "Caterpillar", Focus: "Freight", CrewMin: 4, PriceUSD: 330, CargoCapacity: 576, Vector: []float32{0.85, 0.5, 0}},
		{ID: "ship-c", Name: "Gladius", Focus: "Light Fighter", CrewMin: 1, PriceUSD: 90, Vector: []float32{0.9, 0.4, 0}},
	}
	for _, item := range items {
		require.NoError(t, ix.Upsert(item))
	}
	return ix
}

func TestRetrieveRanksAndClamps(t *testing.T) {
	ix := seededIndex(t)
	eng := NewEngine(&fakeEmbedder{vector: []float32{1, 0, 0}}, ix, 0.15, time.Second, discard())

	// topK above the max clamps down to 10; below 1 clamps up to 1.
	res, err := eng.Retrieve(context.Background(), "starter ship", Constraints{}, 50)
	require.NoError(t, err)
	assert.Equal(t, "ship-a", res.Candidates[0].Item.ID)
	assert.False(t, res.LowConfidence)

	res, err = eng.Retrieve(context.Background(), "starter ship", Constraints{}, 0)
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 1)
}

func TestRetrieveEmptyCatalogIsLowConfidenceNotError(t *testing.T) {
	ix := catalog.NewIndex(3)
	eng := NewEngine(&fakeEmbedder{vector: []float32{1, 0, 0}}, ix, 0.15, time.Second, discard())

	res, err := eng.Retrieve(context.Background(), "cheap fast ship", Constraints{}, 5)
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
	assert.True(t, res.LowConfidence)
}

func TestRetrieveEmbedderFailureIsUnavailable(t *testing.T) {
	ix := seededIndex(t)
	eng := NewEngine(&fakeEmbedder{err: errors.New("boom")}, ix, 0.15, time.Second, discard())

	_, err := eng.Retrieve(context.Background(), "anything", Constraints{}, 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRetrieveEmbedderTimeoutIsUnavailable(t *testing.T) {
	ix := seededIndex(t)
	eng := NewEngine(&fakeEmbedder{vector: []float32{1, 0, 0}, delay: 200 * time.Millisecond}, ix, 0.15, 20*time.Millisecond, discard())

	_, err := eng.Retrieve(context.Background(), "anything", Constraints{}, 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRetrieveLowConfidenceTagging(t *testing.T) {
	ix := seededIndex(t)
	// Query vector nearly orthogonal to everything indexed.
	eng := NewEngine(&fakeEmbedder{vector: []float32{0, 0, 1}}, ix, 0.15, time.Second, discard())

	res, err := eng.Retrieve(context.Background(), "submarine", Constraints{}, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Candidates, "weak candidates are still returned")
	assert.True(t, res.LowConfidence)
}

func TestRetrieveAppliesExclusions(t *testing.T) {
	ix := seededIndex(t)
	eng := NewEngine(&fakeEmbedder{vector: []float32{1, 0, 0}}, ix, 0.15, time.Second, discard())

	res, err := eng.Retrieve(context.Background(), "starter ship", Constraints{ExcludeIDs: []string{"ship-a"}}, 5)
	require.NoError(t, err)
	for _, c := range res.Candidates {
		assert.NotEqual(t, "ship-a", c.Item.ID)
	}
}

func TestRetrieveRoleBoost(t *testing.T) {
	ix := seededIndex(t)
	eng := NewEngine(&fakeEmbedder{vector: []float32{1, 0, 0}}, ix, 0.15, time.Second, discard())

	// Without boost ship-a (score 1.0) wins; a freight interest lifts
	// ship-b past ship-c.
	res, err := eng.Retrieve(context.Background(), "haul cargo", Constraints{RoleKeywords: []string{"freight"}}, 3)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 3)

	posB, posC := -1, -1
	for i, c := range res.Candidates {
		switch c.Item.ID {
		case "ship-b":
			posB = i
		case "ship-c":
			posC = i
		}
	}
	assert.Less(t, posB, posC, "boosted freight ship must outrank the fighter")
}

func TestFallbackBrowsesWithoutEmbedding(t *testing.T) {
	ix := seededIndex(t)
	// Embedder always fails; Fallback must not touch it.
	eng := NewEngine(&fakeEmbedder{err: errors.New("down")}, ix, 0.15, time.Second, discard())

	crewMax := 1
	got := eng.Fallback(Constraints{CrewMax: &crewMax}, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "ship-a", got[0].Item.ID)
	assert.Equal(t, "ship-c", got[1].Item.ID)
	assert.Zero(t, got[0].Score)

	got = eng.Fallback(Constraints{ExcludeIDs: []string{"ship-a", "ship-b", "ship-c"}}, 10)
	assert.Empty(t, got)
}
