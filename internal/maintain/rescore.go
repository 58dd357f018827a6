package maintain

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atelierhq/trend-cli/internal/catalog"
	"github.com/atelierhq/trend-cli/internal/model"
	"github.com/atelierhq/trend-cli/internal/scoring"
)

// Rescorer recomputes keyword-path scores across the catalog, typically
// after a vocabulary change. Entries carrying a source growth signal are
// left alone: their score comes from the growth path, not the keyword
// engine.
type Rescorer struct {
	store     catalog.Store
	engine    *scoring.Engine
	batchSize int
}

func NewRescorer(store catalog.Store, engine *scoring.Engine, batchSize int) *Rescorer {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Rescorer{store: store, engine: engine, batchSize: batchSize}
}

func (r *Rescorer) Run(ctx context.Context) (model.JobSummary, error) {
	var summary model.JobSummary

	offset := 0
	for {
		page, err := r.store.List(ctx, catalog.EntryFilter{Limit: r.batchSize, Offset: offset})
		if err != nil {
			return summary, eris.Wrap(err, "rescore: list entries")
		}
		if len(page) == 0 {
			break
		}

		for i := range page {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			r.rescoreOne(ctx, &page[i], &summary)
		}

		offset += len(page)
	}

	zap.L().Info("rescore run complete",
		zap.Int("processed", summary.Processed),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errored", summary.Errored),
	)
	return summary, nil
}

func (r *Rescorer) rescoreOne(ctx context.Context, e *model.CatalogEntry, summary *model.JobSummary) {
	summary.Processed++

	if e.TrendGrowthPct != nil || e.TrendLabel != nil {
		summary.Skipped++
		return
	}

	brand := ""
	if e.Brand != nil {
		brand = *e.Brand
	}
	score, cut, style := r.engine.KeywordScore(e.Name, brand, e.Price)

	if score == e.TrendScore && cut == e.Cut && style == e.Style {
		summary.Skipped++
		return
	}

	if err := r.store.UpdateRescore(ctx, e.ID, score, cut, style); err != nil {
		zap.L().Warn("rescore update failed", zap.String("id", e.ID), zap.Error(err))
		summary.Errored++
		return
	}
	summary.Updated++
}
