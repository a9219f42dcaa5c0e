package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ship-consultant-be/internal/dto"
	"ship-consultant-be/internal/entity"
	"ship-consultant-be/internal/pkg/logger"
	"ship-consultant-be/internal/pkg/serverutils"
	"ship-consultant-be/internal/repository/specification"
	"ship-consultant-be/internal/repository/unitofwork"
	"ship-consultant-be/pkg/catalog"
	"ship-consultant-be/pkg/embedding"
	"ship-consultant-be/pkg/retrieval"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	ErrShipNotFound  = serverutils.NewApiError(fiber.StatusNotFound, "Ship not found")
	ErrShipSlugTaken = serverutils.NewApiError(fiber.StatusConflict, "A ship with this slug already exists")
)

type IShipService interface {
	Create(ctx context.Context, req *dto.CreateShipRequest) (*dto.ShipResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShipResponse, error)
	GetAll(ctx context.Context) ([]*dto.ShipResponse, error)
	Search(ctx context.Context, req *dto.SearchShipsRequest) (*dto.SearchShipsResponse, error)
	// LoadIndex hydrates the in-memory catalog from Postgres. Runs at boot
	// and after ingestion.
	LoadIndex(ctx context.Context) (int, error)
}

type shipService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	index             *catalog.Index
	engine            *retrieval.Engine
	logger            logger.ILogger
}

func NewShipService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	index *catalog.Index,
	engine *retrieval.Engine,
	log logger.ILogger,
) IShipService {
	return &shipService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		index:             index,
		engine:            engine,
		logger:            log,
	}
}

func (s *shipService) Create(ctx context.Context, req *dto.CreateShipRequest) (*dto.ShipResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ShipRepository().FindOne(ctx, specification.BySlug{Slug: req.Slug})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrShipSlugTaken
	}

	ship := entity.Ship{
		Id:            uuid.New(),
		Name:          req.Name,
		Slug:          req.Slug,
		Manufacturer:  req.Manufacturer,
		Focus:         req.Focus,
		Type:          req.Type,
		CargoCapacity: req.CargoCapacity,
		CrewMin:       req.CrewMin,
		CrewMax:       req.CrewMax,
		PriceUSD:      req.PriceUSD,
		PriceAUEC:     req.PriceAUEC,
		MaxSpeed:      req.MaxSpeed,
		ImageURL:      req.ImageURL,
		StoreURL:      req.StoreURL,
		Description:   req.Description,
		Raw:           req.Raw,
	}
	if ship.CrewMin == 0 {
		ship.CrewMin = 1
	}
	if ship.CrewMax < ship.CrewMin {
		ship.CrewMax = ship.CrewMin
	}

	if err := uow.ShipRepository().Create(ctx, &ship); err != nil {
		return nil, err
	}

	if err := s.embedShip(ctx, uow, &ship); err != nil {
		// The ship row exists; the embedding can be rebuilt on the next
		// ingestion pass.
		s.logger.Error("ShipService", "Failed to embed ship", map[string]interface{}{
			"ship_id": ship.Id.String(),
			"error":   err.Error(),
		})
	}

	return shipToDTO(&ship), nil
}

func (s *shipService) embedShip(ctx context.Context, uow unitofwork.UnitOfWork, ship *entity.Ship) error {
	document := buildShipDocument(ship)

	res, err := s.embeddingProvider.Generate(ctx, document, embedding.TaskRetrievalDocument)
	if err != nil {
		return err
	}

	emb := entity.ShipEmbedding{
		Id:             uuid.New(),
		ShipId:         ship.Id,
		Document:       document,
		EmbeddingValue: res.Embedding.Values,
		Model:          res.Model,
	}
	if err := uow.ShipEmbeddingRepository().Upsert(ctx, &emb); err != nil {
		return err
	}

	return s.index.Upsert(shipToItem(ship, res.Embedding.Values))
}

func (s *shipService) Show(ctx context.Context, id uuid.UUID) (*dto.ShipResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ship, err := uow.ShipRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if ship == nil {
		return nil, ErrShipNotFound
	}
	return shipToDTO(ship), nil
}

func (s *shipService) GetAll(ctx context.Context) ([]*dto.ShipResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ships, err := uow.ShipRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ShipResponse, len(ships))
	for i, ship := range ships {
		out[i] = shipToDTO(ship)
	}
	return out, nil
}

func (s *shipService) Search(ctx context.Context, req *dto.SearchShipsRequest) (*dto.SearchShipsResponse, error) {
	constraints := retrieval.Constraints{
		Manufacturer: req.Manufacturer,
		Focus:        req.Focus,
	}
	if req.MaxPriceUSD > 0 {
		v := req.MaxPriceUSD
		constraints.PriceMaxUSD = &v
	}
	if req.MinCargoSCU > 0 {
		v := req.MinCargoSCU
		constraints.CargoMinSCU = &v
	}
	if req.MaxCrew > 0 {
		v := req.MaxCrew
		constraints.CrewMax = &v
	}

	// Cold index (fresh boot before warm-up, or an empty catalog snapshot):
	// rank in Postgres with pgvector instead of serving nothing.
	if s.index.Len() == 0 {
		return s.searchDatabase(ctx, req, constraints)
	}

	result, err := s.engine.Retrieve(ctx, req.Query, constraints, req.TopK)
	if err != nil {
		if catalog.IsValidationError(err) {
			return nil, serverutils.WrapApiError(fiber.StatusUnprocessableEntity, "Invalid search query", err)
		}
		if errors.Is(err, retrieval.ErrUnavailable) {
			return nil, serverutils.WrapApiError(fiber.StatusBadGateway, "Search temporarily unavailable", err)
		}
		return nil, err
	}

	results := make([]dto.ScoredShipResponse, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		id, err := uuid.Parse(c.Item.ID)
		if err != nil {
			continue
		}
		results = append(results, dto.ScoredShipResponse{
			Ship: dto.ShipResponse{
				Id:            id,
				Name:          c.Item.Name,
				Slug:          c.Item.Slug,
				Manufacturer:  c.Item.Manufacturer,
				Focus:         c.Item.Focus,
				Type:          c.Item.Type,
				CargoCapacity: c.Item.CargoCapacity,
				CrewMin:       c.Item.CrewMin,
				CrewMax:       c.Item.CrewMax,
				PriceUSD:      c.Item.PriceUSD,
				Description:   c.Item.Description,
			},
			Score: c.Score,
		})
	}

	return &dto.SearchShipsResponse{
		Results:       results,
		LowConfidence: result.LowConfidence,
	}, nil
}

// searchDatabase ranks in Postgres with the pgvector distance operator when
// the in-memory index holds nothing. Constraint filtering happens after the
// ranking, so the ANN query over-fetches.
func (s *shipService) searchDatabase(ctx context.Context, req *dto.SearchShipsRequest, constraints retrieval.Constraints) (*dto.SearchShipsResponse, error) {
	topK := req.TopK
	if topK < 1 {
		topK = 1
	}
	if topK > 10 {
		topK = 10
	}

	res, err := s.embeddingProvider.Generate(ctx, req.Query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, serverutils.WrapApiError(fiber.StatusBadGateway, "Search temporarily unavailable", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.ShipEmbeddingRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, topK*4, 0)
	if err != nil {
		s.logger.Error("ShipService", "Database similarity search failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	filters := constraints.Filters()
	results := make([]dto.ScoredShipResponse, 0, topK)
	for _, sc := range scored {
		ship, err := uow.ShipRepository().FindOne(ctx, specification.ByID{ID: sc.Embedding.ShipId})
		if err != nil {
			return nil, err
		}
		if ship == nil || !filters.Matches(shipToItem(ship, nil)) {
			continue
		}
		results = append(results, dto.ScoredShipResponse{
			Ship:  *shipToDTO(ship),
			Score: sc.Similarity,
		})
		if len(results) == topK {
			break
		}
	}

	return &dto.SearchShipsResponse{
		Results:       results,
		LowConfidence: len(results) == 0 || results[0].Score < s.engine.MinConfidence(),
	}, nil
}

func (s *shipService) LoadIndex(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ships, err := uow.ShipRepository().FindAll(ctx)
	if err != nil {
		return 0, err
	}
	byId := make(map[uuid.UUID]*entity.Ship, len(ships))
	for _, ship := range ships {
		byId[ship.Id] = ship
	}

	embeddings, err := uow.ShipEmbeddingRepository().FindAll(ctx)
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, emb := range embeddings {
		ship, ok := byId[emb.ShipId]
		if !ok {
			continue
		}
		if err := s.index.Upsert(shipToItem(ship, emb.EmbeddingValue)); err != nil {
			s.logger.Warn("ShipService", "Skipping catalog entry with bad embedding", map[string]interface{}{
				"ship_id": ship.Id.String(),
				"error":   err.Error(),
			})
			continue
		}
		loaded++
	}

	s.logger.Info("ShipService", "Catalog index loaded", map[string]interface{}{"ships": loaded})
	return loaded, nil
}

// buildShipDocument renders the flat profile text that gets embedded for
// semantic search.
func buildShipDocument(ship *entity.Ship) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ship: %s\n", ship.Name)
	if ship.Manufacturer != "" {
		fmt.Fprintf(&b, "Manufacturer: %s\n", ship.Manufacturer)
	}
	if ship.Focus != "" {
		fmt.Fprintf(&b, "Role: %s\n", ship.Focus)
	}
	if ship.Type != "" {
		fmt.Fprintf(&b, "Type: %s\n", ship.Type)
	}
	fmt.Fprintf(&b, "Crew: %d-%d\n", ship.CrewMin, ship.CrewMax)
	fmt.Fprintf(&b, "Cargo capacity: %d SCU\n", ship.CargoCapacity)
	if ship.MaxSpeed > 0 {
		fmt.Fprintf(&b, "Top speed: %d m/s\n", ship.MaxSpeed)
	}
	if ship.PriceUSD > 0 {
		fmt.Fprintf(&b, "Price: $%.0f USD\n", ship.PriceUSD)
	}
	if ship.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", ship.Description)
	}
	return b.String()
}

func shipToItem(ship *entity.Ship, vector []float32) catalog.Item {
	return catalog.Item{
		ID:            ship.Id.String(),
		Name:          ship.Name,
		Slug:          ship.Slug,
		Manufacturer:  ship.Manufacturer,
		Focus:         ship.Focus,
		Type:          ship.Type,
		CargoCapacity: ship.CargoCapacity,
		CrewMin:       ship.CrewMin,
		CrewMax:       ship.CrewMax,
		PriceUSD:      ship.PriceUSD,
		Description:   ship.Description,
		Vector:        vector,
	}
}

func shipToDTO(ship *entity.Ship) *dto.ShipResponse {
	return &dto.ShipResponse{
		Id:            ship.Id,
		Name:          ship.Name,
		Slug:          ship.Slug,
		Manufacturer:  ship.Manufacturer,
		Focus:         ship.Focus,
		Type:          ship.Type,
		CargoCapacity: ship.CargoCapacity,
		CrewMin:       ship.CrewMin,
		CrewMax:       ship.CrewMax,
		PriceUSD:      ship.PriceUSD,
		PriceAUEC:     ship.PriceAUEC,
		MaxSpeed:      ship.MaxSpeed,
		ImageURL:      ship.ImageURL,
		StoreURL:      ship.StoreURL,
		Description:   ship.Description,
	}
}
