package service

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"ship-consultant-be/internal/dto"
	"ship-consultant-be/internal/entity"
	"ship-consultant-be/internal/pkg/serverutils"
	"ship-consultant-be/internal/repository/contract"
	"ship-consultant-be/pkg/catalog"
	"ship-consultant-be/pkg/retrieval"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShipService(t *testing.T, uow *fakeUnitOfWork, embedder *stubEmbedder, items ...catalog.Item) IShipService {
	t.Helper()

	index := catalog.NewIndex(3)
	for _, item := range items {
		require.NoError(t, index.Upsert(item))
	}

	engine := retrieval.NewEngine(embedder, index, 0.15, time.Second, log.New(io.Discard, "", 0))
	return NewShipService(&fakeFactory{uow: uow}, embedder, index, engine, nopLogger{})
}

func TestSearch_EmbedderDownReturnsBadGateway(t *testing.T) {
	uow := newFakeUnitOfWork()
	embedder := &stubEmbedder{err: errors.New("provider timeout")}
	svc := testShipService(t, uow, embedder, catalog.Item{
		ID:     uuid.NewString(),
		Name:   "Gladius",
		Vector: []float32{1, 0, 0},
	})

	_, err := svc.Search(context.Background(), &dto.SearchShipsRequest{Query: "light fighter"})

	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusBadGateway, apiErr.Status)
}

func TestSearch_ColdIndexRanksInDatabase(t *testing.T) {
	hauler := &entity.Ship{
		Id:            uuid.New(),
		Name:          "Freelancer MAX",
		Slug:          "freelancer-max",
		Focus:         "Hauling",
		CargoCapacity: 120,
		CrewMin:       1,
		CrewMax:       4,
		PriceUSD:      150,
	}
	fighter := &entity.Ship{
		Id:       uuid.New(),
		Name:     "Gladius",
		Slug:     "gladius",
		Focus:    "Fighter",
		CrewMin:  1,
		CrewMax:  1,
		PriceUSD: 90,
	}

	uow := newFakeUnitOfWork()
	uow.ships = newFakeShipRepo(hauler, fighter)
	uow.embeddings.scored = []*contract.ScoredShipEmbedding{
		{Embedding: &entity.ShipEmbedding{ShipId: hauler.Id}, Similarity: 0.91},
		{Embedding: &entity.ShipEmbedding{ShipId: fighter.Id}, Similarity: 0.74},
	}

	embedder := &stubEmbedder{vector: []float32{1, 0, 0}}
	svc := testShipService(t, uow, embedder) // no items: index stays cold

	res, err := svc.Search(context.Background(), &dto.SearchShipsRequest{Query: "cargo hauler", TopK: 5})
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	assert.Equal(t, "Freelancer MAX", res.Results[0].Ship.Name)
	assert.InDelta(t, 0.91, res.Results[0].Score, 1e-9)
	assert.Equal(t, "Gladius", res.Results[1].Ship.Name)
	assert.False(t, res.LowConfidence)
}

func TestSearch_ColdIndexAppliesConstraints(t *testing.T) {
	cheap := &entity.Ship{Id: uuid.New(), Name: "Avenger Titan", Slug: "avenger-titan", CrewMin: 1, CrewMax: 1, PriceUSD: 70}
	pricey := &entity.Ship{Id: uuid.New(), Name: "Constellation Andromeda", Slug: "constellation-andromeda", CrewMin: 3, CrewMax: 5, PriceUSD: 240}

	uow := newFakeUnitOfWork()
	uow.ships = newFakeShipRepo(cheap, pricey)
	uow.embeddings.scored = []*contract.ScoredShipEmbedding{
		{Embedding: &entity.ShipEmbedding{ShipId: pricey.Id}, Similarity: 0.88},
		{Embedding: &entity.ShipEmbedding{ShipId: cheap.Id}, Similarity: 0.80},
	}

	svc := testShipService(t, uow, &stubEmbedder{vector: []float32{1, 0, 0}})

	res, err := svc.Search(context.Background(), &dto.SearchShipsRequest{
		Query:       "starter ship",
		MaxPriceUSD: 100,
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 1)
	assert.Equal(t, "Avenger Titan", res.Results[0].Ship.Name)
}

func TestSearch_ColdIndexEmbedderDownReturnsBadGateway(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := testShipService(t, uow, &stubEmbedder{err: errors.New("provider timeout")})

	_, err := svc.Search(context.Background(), &dto.SearchShipsRequest{Query: "anything"})

	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusBadGateway, apiErr.Status)
}

func TestSearch_ColdIndexTagsLowConfidence(t *testing.T) {
	dim := &entity.Ship{Id: uuid.New(), Name: "Mystery Hull", Slug: "mystery-hull", CrewMin: 1, CrewMax: 1}

	uow := newFakeUnitOfWork()
	uow.ships = newFakeShipRepo(dim)
	uow.embeddings.scored = []*contract.ScoredShipEmbedding{
		{Embedding: &entity.ShipEmbedding{ShipId: dim.Id}, Similarity: 0.05},
	}

	svc := testShipService(t, uow, &stubEmbedder{vector: []float32{1, 0, 0}})

	res, err := svc.Search(context.Background(), &dto.SearchShipsRequest{Query: "submarine"})
	require.NoError(t, err)

	require.Len(t, res.Results, 1)
	assert.True(t, res.LowConfidence)
}
