// File: internal/infra/sched/offer_expiry_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"municipal-benefits/internal/infra/metrics"
	"municipal-benefits/internal/usecase"
)

// OfferExpiryWorker periodically flips past-expiry active offers to expired.
type OfferExpiryWorker struct {
	interval time.Duration
	offerUC  usecase.OfferUseCase
	log      *zerolog.Logger
}

func NewOfferExpiryWorker(interval time.Duration, offerUC usecase.OfferUseCase, logger *zerolog.Logger) *OfferExpiryWorker {
	compLog := logger.With().Str("component", "OfferExpiryWorker").Logger()
	return &OfferExpiryWorker{
		interval: interval,
		offerUC:  offerUC,
		log:      &compLog,
	}
}

func (w *OfferExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting offer expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping offer expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.offerUC.ExpireDue(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("offer expiry sweep failed")
			}
			if n > 0 {
				metrics.IncOffersExpired(n)
				w.log.Info().Int("count", n).Msg("offers expired")
			}
		}
	}
}
