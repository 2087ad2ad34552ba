package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/cardwise/coach_api/internal/cache"
	"github.com/cardwise/coach_api/internal/generator"
	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/predict"
	"github.com/cardwise/coach_api/internal/repository"
)

// DatasetService manages the synthetic dataset lifecycle: regeneration,
// model retraining, and stats for the admin dashboard.
type DatasetService struct {
	agentRepo *repository.AgentRepository
	cardRepo  *repository.CardRepository
	saleRepo  *repository.SaleRepository
	suite     *predict.Suite
	perfCache *cache.PerformanceCache
}

// NewDatasetService constructs a DatasetService. suite and perfCache may
// be nil (the seed command runs without them).
func NewDatasetService(agentRepo *repository.AgentRepository, cardRepo *repository.CardRepository,
	saleRepo *repository.SaleRepository, suite *predict.Suite, perfCache *cache.PerformanceCache) *DatasetService {
	return &DatasetService{
		agentRepo: agentRepo,
		cardRepo:  cardRepo,
		saleRepo:  saleRepo,
		suite:     suite,
		perfCache: perfCache,
	}
}

// DatasetStats summarizes the current dataset.
type DatasetStats struct {
	Agents  int                     `json:"agents"`
	Cards   int                     `json:"cards"`
	Sales   int                     `json:"sales"`
	Network *models.NetworkStats    `json:"network"`
	Trend   []repository.DailyTrend `json:"daily_trend,omitempty"`
}

// Generate replaces the stored dataset with a freshly generated one, then
// retrains the prediction models and invalidates the performance cache.
func (s *DatasetService) Generate(ctx context.Context, cfg generator.Config) (*DatasetStats, error) {
	ds := generator.Generate(cfg)

	log.Info().
		Int("agents", len(ds.Agents)).
		Int("cards", len(ds.Cards)).
		Int("sales", len(ds.Sales)).
		Int64("seed", cfg.Seed).
		Msg("Generated dataset, replacing stored data")

	// Sales reference agents and cards, so they go first.
	if err := s.saleRepo.DeleteAll(); err != nil {
		return nil, err
	}
	if err := s.agentRepo.DeleteAll(); err != nil {
		return nil, err
	}
	if err := s.cardRepo.DeleteAll(); err != nil {
		return nil, err
	}

	if err := s.cardRepo.BulkInsert(ds.Cards); err != nil {
		return nil, err
	}
	if err := s.agentRepo.BulkInsert(ds.Agents); err != nil {
		return nil, err
	}
	if err := s.saleRepo.BulkInsert(ds.Sales); err != nil {
		return nil, err
	}

	if s.suite != nil {
		cardsByID := make(map[string]*models.Card, len(ds.Cards))
		for i := range ds.Cards {
			cardsByID[ds.Cards[i].CardID] = &ds.Cards[i]
		}
		if aErr, cErr := s.suite.Retrain(ds.Sales, cardsByID); aErr != nil || cErr != nil {
			log.Warn().AnErr("approval", aErr).AnErr("commission", cErr).
				Msg("Model retraining incomplete after dataset generation")
		}
	}

	if s.perfCache != nil {
		if err := s.perfCache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate performance cache")
		}
	}

	return s.Stats(true)
}

// Stats reports current dataset counts, network statistics, and
// optionally the 30-day daily trend.
func (s *DatasetService) Stats(withTrend bool) (*DatasetStats, error) {
	agents, err := s.agentRepo.Count()
	if err != nil {
		return nil, err
	}
	cards, err := s.cardRepo.Count()
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.Count()
	if err != nil {
		return nil, err
	}
	network, err := s.saleRepo.GetNetworkStats()
	if err != nil {
		return nil, err
	}

	stats := &DatasetStats{
		Agents:  agents,
		Cards:   cards,
		Sales:   sales,
		Network: network,
	}
	if withTrend {
		trend, err := s.saleRepo.GetDailyTrend(30)
		if err != nil {
			return nil, err
		}
		stats.Trend = trend
	}
	return stats, nil
}
