// Package ingest runs the batch ingestion pipeline: normalize raw
// listings, filter exclusions, resolve brands, classify, score and
// upsert into the canonical catalog.
package ingest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atelierhq/trend-cli/internal/catalog"
	"github.com/atelierhq/trend-cli/internal/config"
	"github.com/atelierhq/trend-cli/internal/enrich"
	"github.com/atelierhq/trend-cli/internal/model"
	"github.com/atelierhq/trend-cli/internal/pipeline"
	"github.com/atelierhq/trend-cli/internal/scoring"
)

// Options tunes a single ingestion run.
type Options struct {
	// Source and MarketZone fill in items that arrive without one.
	Source     string
	MarketZone string

	// Rescore re-runs keyword scoring on refreshed entries. By default a
	// refresh updates descriptive fields only and leaves scores to the
	// maintenance jobs.
	Rescore bool
}

// Service ingests raw listing batches.
type Service struct {
	store      catalog.Store
	engine     *scoring.Engine
	enricher   *enrich.Client
	cfg        config.IngestConfig
	exclusions []string
	brands     []string
	locks      *keyedLocks
}

// New builds an ingestion Service. The vocab override may be nil.
func New(store catalog.Store, engine *scoring.Engine, enricher *enrich.Client, cfg config.IngestConfig, override *pipeline.VocabOverride) *Service {
	var exclusions, extraBrands []string
	if override != nil {
		exclusions = override.Exclusions
		extraBrands = override.Brands
	}
	return &Service{
		store:      store,
		engine:     engine,
		enricher:   enricher,
		cfg:        cfg,
		exclusions: exclusions,
		brands:     pipeline.MergeBrands(extraBrands),
		locks:      newKeyedLocks(256),
	}
}

// Run processes one batch. Items are independent: a bad item is counted
// and skipped, never aborting the batch. Only context cancellation stops
// a run early.
func (s *Service) Run(ctx context.Context, items []model.RawItem, opts Options) (model.IngestReport, error) {
	var (
		mu     sync.Mutex
		report model.IngestReport
	)
	report.Received = len(items)

	workers := s.cfg.MaxWorkers
	if workers <= 0 {
		workers = 8
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, item := range items {
		item := item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome := s.processItem(ctx, item, opts)

			mu.Lock()
			defer mu.Unlock()
			switch outcome.kind {
			case outcomeCreated:
				report.Created++
				report.Saved++
			case outcomeUpdated:
				report.Updated++
				report.Saved++
			case outcomeSkipped:
				report.Skipped++
			case outcomeExcluded:
				report.Excluded++
			case outcomeDropped:
				report.Dropped++
			case outcomeErrored:
				report.Errored++
			}
			if outcome.enrichFailed {
				report.EnrichFailed++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	zap.L().Info("ingestion batch complete",
		zap.Int("received", report.Received),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("excluded", report.Excluded),
		zap.Int("dropped", report.Dropped),
		zap.Int("errored", report.Errored),
	)
	return report, nil
}

type outcomeKind int

const (
	outcomeCreated outcomeKind = iota
	outcomeUpdated
	outcomeSkipped
	outcomeExcluded
	outcomeDropped
	outcomeErrored
)

type itemOutcome struct {
	kind         outcomeKind
	enrichFailed bool
}

func (s *Service) processItem(ctx context.Context, item model.RawItem, opts Options) itemOutcome {
	if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.SourceURL) == "" {
		return itemOutcome{kind: outcomeSkipped}
	}

	source := firstNonEmpty(item.Source, opts.Source, s.cfg.DefaultSource)
	zone := firstNonEmpty(item.MarketZone, opts.MarketZone, s.cfg.DefaultMarketZone)
	if source == "" || zone == "" {
		return itemOutcome{kind: outcomeSkipped}
	}

	clean := pipeline.CleanTitle(item.Name)
	if pipeline.IsExcluded(clean, s.exclusions) {
		return itemOutcome{kind: outcomeExcluded}
	}

	brand, name := s.resolveBrand(item, clean)
	if pipeline.ShouldDrop(name, brand) {
		zap.L().Debug("dropped degenerate listing",
			zap.String("name", name),
			zap.String("source_url", item.SourceURL),
		)
		return itemOutcome{kind: outcomeDropped}
	}

	key := model.ListingKey{SourceURL: strings.TrimSpace(item.SourceURL), MarketZone: zone, Source: source}

	// Same-key writes serialize here, keeping read-modify-write upserts
	// atomic within the process.
	unlock := s.locks.lock(key)
	defer unlock()

	existing, err := s.store.GetByKey(ctx, key)
	if err != nil {
		zap.L().Error("lookup failed", zap.String("source_url", key.SourceURL), zap.Error(err))
		return itemOutcome{kind: outcomeErrored}
	}

	if existing == nil {
		return s.create(ctx, item, key, brand, name)
	}
	return s.refresh(ctx, item, existing, brand, name, opts)
}

// resolveBrand picks the brand and the final display name. An explicit
// product brand from the source wins; otherwise the combined title is
// split against the brand vocabulary, falling back to the first word.
func (s *Service) resolveBrand(item model.RawItem, clean string) (brand, name string) {
	name = clean

	explicit := firstNonEmpty(item.ProductBrand, item.SourceBrand)
	if explicit != "" {
		brand = strings.TrimSpace(explicit)
		if canon := pipeline.MatchKnownBrand(brand, s.brands); canon != "" {
			brand = canon
		}
		// Strip a leading brand repeat from the title when present.
		if b, n, ok := pipeline.SplitBrandAndName(clean, []string{brand}); ok {
			brand, name = b, n
		}
		return brand, name
	}

	if b, n, ok := pipeline.SplitBrandAndName(clean, s.brands); ok {
		return b, n
	}
	return pipeline.FallbackBrand(clean), clean
}

func (s *Service) create(ctx context.Context, item model.RawItem, key model.ListingKey, brand, name string) itemOutcome {
	category, cut, style := pipeline.Classify(name)
	segment := model.ParseSegment(item.Segment)
	price := 0.0
	if item.Price != nil {
		price = *item.Price
	}

	var trendScore float64
	hasGrowthSignal := item.TrendGrowthPct != nil || item.TrendLabel != ""
	if hasGrowthSignal {
		trendScore = scoring.ComputeTrendScore(item.TrendGrowthPct, item.TrendLabel)
	} else {
		trendScore, cut, style = s.engine.KeywordScore(name, brand, price)
	}

	similar, err := s.store.CountSimilar(ctx, category, segment)
	if err != nil {
		zap.L().Warn("count similar failed, assuming uncrowded", zap.String("category", category), zap.Error(err))
		similar = 0
	}
	saturability := scoring.ComputeSaturability(item.TrendGrowthPct, item.TrendLabel, similar)

	now := time.Now().UTC()
	entry := &model.CatalogEntry{
		ID:            uuid.NewString(),
		SourceURL:     key.SourceURL,
		MarketZone:    key.MarketZone,
		Source:        key.Source,
		Name:          name,
		Category:      category,
		Cut:           cut,
		Style:         style,
		Material:      strings.TrimSpace(item.Composition),
		Price:         price,
		ImageURL:      item.ImageURL,
		Description:   item.Description,
		ArticleNumber: item.ArticleNumber,
		Segment:       segment,
		TrendScore:    trendScore,
		Saturability:  saturability,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if brand != "" {
		entry.Brand = &brand
	}
	if c := strings.TrimSpace(item.Color); c != "" {
		entry.Color = &c
	}
	entry.TrendGrowthPct = item.TrendGrowthPct
	if item.TrendLabel != "" {
		label := item.TrendLabel
		entry.TrendLabel = &label
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		zap.L().Error("insert failed", zap.String("source_url", key.SourceURL), zap.Error(err))
		return itemOutcome{kind: outcomeErrored}
	}

	return itemOutcome{kind: outcomeCreated, enrichFailed: s.enrichEntry(ctx, entry)}
}

func (s *Service) refresh(ctx context.Context, item model.RawItem, existing *model.CatalogEntry, brand, name string, opts Options) itemOutcome {
	category, cut, style := pipeline.Classify(name)

	entry := *existing
	entry.Name = name
	entry.Category = category
	entry.Cut = cut
	entry.Style = style
	if brand != "" {
		entry.Brand = &brand
	}
	if m := strings.TrimSpace(item.Composition); m != "" {
		entry.Material = m
	}
	if c := strings.TrimSpace(item.Color); c != "" {
		entry.Color = &c
	}
	if item.Price != nil {
		entry.Price = *item.Price
	}
	if item.ImageURL != "" {
		entry.ImageURL = item.ImageURL
	}
	if item.Description != "" {
		entry.Description = item.Description
	}
	if item.ArticleNumber != "" {
		entry.ArticleNumber = item.ArticleNumber
	}
	if seg := model.ParseSegment(item.Segment); seg != nil {
		entry.Segment = seg
	}
	if item.TrendGrowthPct != nil {
		entry.TrendGrowthPct = item.TrendGrowthPct
	}
	if item.TrendLabel != "" {
		label := item.TrendLabel
		entry.TrendLabel = &label
	}

	if err := s.store.RefreshFields(ctx, &entry); err != nil {
		zap.L().Error("refresh failed", zap.String("id", entry.ID), zap.Error(err))
		return itemOutcome{kind: outcomeErrored}
	}

	if opts.Rescore {
		resolvedBrand := ""
		if entry.Brand != nil {
			resolvedBrand = *entry.Brand
		}
		score, cut, style := s.engine.KeywordScore(entry.Name, resolvedBrand, entry.Price)
		if err := s.store.UpdateRescore(ctx, entry.ID, score, cut, style); err != nil {
			zap.L().Error("rescore on refresh failed", zap.String("id", entry.ID), zap.Error(err))
			return itemOutcome{kind: outcomeErrored}
		}
	}

	return itemOutcome{kind: outcomeUpdated, enrichFailed: s.enrichEntry(ctx, &entry)}
}

// enrichEntry is best-effort: a failure is reported in the batch counts
// but never fails the item.
func (s *Service) enrichEntry(ctx context.Context, entry *model.CatalogEntry) (failed bool) {
	if !s.enricher.Enabled() {
		return false
	}

	req := enrich.Request{
		Name:        entry.Name,
		Category:    entry.Category,
		Description: entry.Description,
		ImageURL:    entry.ImageURL,
		Price:       entry.Price,
	}
	if entry.Brand != nil {
		req.Brand = *entry.Brand
	}
	if entry.Segment != nil {
		req.Segment = string(*entry.Segment)
	}

	enr, err := s.enricher.Enrich(ctx, req)
	if err != nil {
		zap.L().Warn("enrichment failed", zap.String("id", entry.ID), zap.Error(err))
		return true
	}
	if enr.Empty() {
		return false
	}

	if err := s.store.MergeEnrichment(ctx, entry.ID, enr); err != nil {
		zap.L().Warn("enrichment merge failed", zap.String("id", entry.ID), zap.Error(err))
		return true
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
