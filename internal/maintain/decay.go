// Package maintain holds the batch maintenance jobs that keep the
// catalog honest between ingestion runs: staleness decay, keyword
// rescoring and duplicate cleanup. Jobs are best-effort: a bad row is
// logged and counted, never aborting the run.
package maintain

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atelierhq/trend-cli/internal/catalog"
	"github.com/atelierhq/trend-cli/internal/config"
	"github.com/atelierhq/trend-cli/internal/model"
)

// scoreFloor is the absolute minimum trend score. Decay converges here
// and stops.
const scoreFloor = 10

// Decayer applies staleness decay to entries that ingestion has not
// refreshed recently. The decrement is flat per run, not per elapsed
// hour, so missed runs are not compounded retroactively.
type Decayer struct {
	store catalog.Store
	cfg   config.DecayConfig
	now   func() time.Time
}

func NewDecayer(store catalog.Store, cfg config.DecayConfig) *Decayer {
	if cfg.StaleAfterHours <= 0 {
		cfg.StaleAfterHours = 22
	}
	if cfg.Step <= 0 {
		cfg.Step = 0.2
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	return &Decayer{store: store, cfg: cfg, now: time.Now}
}

// Run walks the whole catalog in pages and decays every stale entry.
func (d *Decayer) Run(ctx context.Context) (model.JobSummary, error) {
	var summary model.JobSummary
	cutoff := d.now().UTC().Add(-time.Duration(d.cfg.StaleAfterHours * float64(time.Hour)))

	offset := 0
	for {
		page, err := d.store.List(ctx, catalog.EntryFilter{Limit: d.cfg.BatchSize, Offset: offset})
		if err != nil {
			return summary, eris.Wrap(err, "decay: list entries")
		}
		if len(page) == 0 {
			break
		}

		for i := range page {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			d.decayOne(ctx, &page[i], cutoff, &summary)
		}

		offset += len(page)
	}

	zap.L().Info("decay run complete",
		zap.Int("processed", summary.Processed),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errored", summary.Errored),
	)
	return summary, nil
}

func (d *Decayer) decayOne(ctx context.Context, e *model.CatalogEntry, cutoff time.Time, summary *model.JobSummary) {
	summary.Processed++

	if !e.UpdatedAt.Before(cutoff) {
		summary.Skipped++
		return
	}

	newScore := e.TrendScore - d.cfg.Step
	if newScore < scoreFloor {
		newScore = scoreFloor
	}
	newGrowth := -d.cfg.Step

	// Already fully decayed: writing again would be a no-op.
	if newScore == e.TrendScore && e.TrendGrowthPct != nil && *e.TrendGrowthPct == newGrowth {
		summary.Skipped++
		return
	}

	if err := d.store.UpdateDecay(ctx, e.ID, newScore, newGrowth); err != nil {
		zap.L().Warn("decay update failed", zap.String("id", e.ID), zap.Error(err))
		summary.Errored++
		return
	}
	summary.Updated++
}
