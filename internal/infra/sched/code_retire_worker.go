// File: internal/infra/sched/code_retire_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"municipal-benefits/internal/domain/ports/repository"
	"municipal-benefits/internal/infra/metrics"
)

// CodeRetireWorker deactivates discount codes whose offer has expired.
// Redemption already rejects such codes; the sweep keeps the lookup path fast
// and the data honest.
type CodeRetireWorker struct {
	interval time.Duration
	codes    repository.DiscountCodeRepository
	log      *zerolog.Logger
}

func NewCodeRetireWorker(interval time.Duration, codes repository.DiscountCodeRepository, logger *zerolog.Logger) *CodeRetireWorker {
	compLog := logger.With().Str("component", "CodeRetireWorker").Logger()
	return &CodeRetireWorker{
		interval: interval,
		codes:    codes,
		log:      &compLog,
	}
}

func (w *CodeRetireWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting code retire worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping code retire worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.codes.DeactivateForExpiredOffers(ctx, repository.NoTX)
			if err != nil {
				w.log.Error().Err(err).Msg("code retire sweep failed")
			}
			if n > 0 {
				metrics.IncCodesRetired(n)
				w.log.Info().Int("count", n).Msg("codes retired")
			}
		}
	}
}
