package maintain

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atelierhq/trend-cli/internal/catalog"
	"github.com/atelierhq/trend-cli/internal/model"
	"github.com/atelierhq/trend-cli/internal/pipeline"
)

// Deduper removes catalog entries that collapse to the same normalized
// (brand, name) pair within one segment. The oldest entry survives; the
// same pair appearing across segments is legitimate (a homme and a femme
// version of the same product) and is kept.
type Deduper struct {
	store     catalog.Store
	batchSize int
}

func NewDeduper(store catalog.Store, batchSize int) *Deduper {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Deduper{store: store, batchSize: batchSize}
}

func (d *Deduper) Run(ctx context.Context) (model.JobSummary, error) {
	var summary model.JobSummary

	// Collect victims over a full stable listing first, then delete, so
	// pagination never walks a shifting offset.
	seen := make(map[string]bool)
	var victims []string

	offset := 0
	for {
		page, err := d.store.List(ctx, catalog.EntryFilter{Limit: d.batchSize, Offset: offset})
		if err != nil {
			return summary, eris.Wrap(err, "dedup: list entries")
		}
		if len(page) == 0 {
			break
		}

		for i := range page {
			e := &page[i]
			summary.Processed++

			key := dedupKey(e)
			if seen[key] {
				victims = append(victims, e.ID)
				continue
			}
			seen[key] = true
			summary.Skipped++
		}

		offset += len(page)
	}

	for start := 0; start < len(victims); start += d.batchSize {
		end := start + d.batchSize
		if end > len(victims) {
			end = len(victims)
		}
		n, err := d.store.DeleteByIDs(ctx, victims[start:end])
		if err != nil {
			zap.L().Warn("dedup delete failed", zap.Int("batch", start/d.batchSize), zap.Error(err))
			summary.Errored += end - start
			continue
		}
		summary.Deleted += n
	}

	zap.L().Info("dedup run complete",
		zap.Int("processed", summary.Processed),
		zap.Int("deleted", summary.Deleted),
		zap.Int("errored", summary.Errored),
	)
	return summary, nil
}

// dedupKey is the duplicate grouping key: folded brand and name plus the
// segment. Entries are listed oldest first, so the first holder of a key
// is the survivor.
func dedupKey(e *model.CatalogEntry) string {
	brand := ""
	if e.Brand != nil {
		brand = pipeline.Fold(*e.Brand)
	}
	segment := ""
	if e.Segment != nil {
		segment = string(*e.Segment)
	}
	return strings.Join([]string{brand, pipeline.Fold(e.Name), segment}, "\x00")
}
