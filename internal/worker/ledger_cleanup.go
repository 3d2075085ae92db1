package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mediconnect/clinic-api/internal/repository"
)

// LedgerCleanupWorker prunes ledger rows that have aged out of the
// booking window. Date-keys are plain strings, so retention goes by
// row creation time rather than the encoded date.
type LedgerCleanupWorker struct {
	slots         repository.SlotRepository
	retentionDays int
	interval      time.Duration
	logger        zerolog.Logger
}

func NewLedgerCleanupWorker(slots repository.SlotRepository, retentionDays int, interval time.Duration, logger zerolog.Logger) *LedgerCleanupWorker {
	if retentionDays <= 0 {
		retentionDays = 14
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &LedgerCleanupWorker{
		slots:         slots,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        logger,
	}
}

func (w *LedgerCleanupWorker) Start(ctx context.Context) {
	// Prune once up front so a daily interval does not leave stale rows
	// sitting for a full cycle after every restart.
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *LedgerCleanupWorker) run(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -w.retentionDays)

	pruned, err := w.slots.PruneBefore(ctx, cutoff)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to prune slot ledger")
		return
	}
	if pruned > 0 {
		w.logger.Info().Int64("rows", pruned).Time("cutoff", cutoff).Msg("pruned slot ledger")
	}
}
