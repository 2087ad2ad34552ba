package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/predict"
	"github.com/cardwise/coach_api/internal/repository"
)

// RetrainWorker periodically re-trains the prediction models from the
// stored sales so runtime dataset changes are picked up.
type RetrainWorker struct {
	saleRepo *repository.SaleRepository
	cardRepo *repository.CardRepository
	suite    *predict.Suite
	interval time.Duration
}

// NewRetrainWorker constructs a RetrainWorker.
func NewRetrainWorker(saleRepo *repository.SaleRepository, cardRepo *repository.CardRepository, suite *predict.Suite, interval time.Duration) *RetrainWorker {
	return &RetrainWorker{
		saleRepo: saleRepo,
		cardRepo: cardRepo,
		suite:    suite,
		interval: interval,
	}
}

// Start begins the periodic retrain loop and listens for context cancellation.
func (w *RetrainWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting retrain worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Retrain worker stopped")
			return
		}
	}
}

func (w *RetrainWorker) run() {
	start := time.Now()

	sales, err := w.saleRepo.ListAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load sales for retraining")
		return
	}
	cards, err := w.cardRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load cards for retraining")
		return
	}

	byID := make(map[string]*models.Card, len(cards))
	for i := range cards {
		byID[cards[i].CardID] = &cards[i]
	}

	approvalErr, commissionErr := w.suite.Retrain(sales, byID)
	if approvalErr != nil {
		log.Warn().Err(approvalErr).Msg("Approval model not retrained")
	}
	if commissionErr != nil {
		log.Warn().Err(commissionErr).Msg("Commission model not retrained")
	}

	log.Info().
		Int("sales", len(sales)).
		Bool("approval_ready", w.suite.Approval.Ready()).
		Bool("commission_ready", w.suite.Commission.Ready()).
		Dur("duration", time.Since(start)).
		Msg("Prediction models retrained")
}
