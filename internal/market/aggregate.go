// Package market computes read-time category aggregates over the
// catalog. Nothing here is persisted: every overview is derived fresh
// from the entries at query time.
package market

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/atelierhq/trend-cli/internal/catalog"
	"github.com/atelierhq/trend-cli/internal/config"
	"github.com/atelierhq/trend-cli/internal/model"
)

// Query scopes an overview request.
type Query struct {
	Segment    *model.Segment
	MarketZone string
}

// Aggregator builds market overviews from the catalog.
type Aggregator struct {
	store catalog.Store
	cfg   config.MarketConfig
	now   func() time.Time
}

func NewAggregator(store catalog.Store, cfg config.MarketConfig) *Aggregator {
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}
	return &Aggregator{store: store, cfg: cfg, now: time.Now}
}

// Overview lists catalog entries for the requested slice and aggregates
// them into ranked winners and losers.
func (a *Aggregator) Overview(ctx context.Context, q Query) (*model.MarketOverview, error) {
	entries, err := a.store.List(ctx, catalog.EntryFilter{
		Segment:    q.Segment,
		MarketZone: q.MarketZone,
	})
	if err != nil {
		return nil, eris.Wrap(err, "market: list entries")
	}

	if a.cfg.WindowHours > 0 {
		cutoff := a.now().UTC().Add(-time.Duration(a.cfg.WindowHours) * time.Hour)
		filtered := entries[:0]
		for _, e := range entries {
			if !e.UpdatedAt.Before(cutoff) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	overview := &model.MarketOverview{MarketZone: q.MarketZone}
	if q.Segment != nil {
		overview.Segment = string(*q.Segment)
	}
	overview.Winners, overview.Losers = ComputeMovers(entries, a.cfg)
	return overview, nil
}

// ComputeMovers aggregates entries per category and splits the result
// into ranked winners (positive growth, descending) and losers (negative
// growth, ascending, worst first). Entries without a growth signal count
// as flat growth. Categories with fewer than MinArticles entries are
// omitted entirely.
func ComputeMovers(entries []model.CatalogEntry, cfg config.MarketConfig) (winners, losers []model.MarketMover) {
	type bucket struct {
		growthSum float64
		scoreSum  float64
		count     int
	}
	buckets := make(map[string]*bucket)

	for _, e := range entries {
		if e.Category == "" {
			continue
		}
		b := buckets[e.Category]
		if b == nil {
			b = &bucket{}
			buckets[e.Category] = b
		}
		// Entries without a source growth signal count as flat growth;
		// they still belong to the category's size and score mean.
		if e.TrendGrowthPct != nil {
			b.growthSum += *e.TrendGrowthPct
		}
		b.scoreSum += e.TrendScore
		b.count++
	}

	minArticles := cfg.MinArticles
	if minArticles <= 0 {
		minArticles = 1
	}
	topN := cfg.TopN
	if topN <= 0 {
		topN = 10
	}

	var movers []model.MarketMover
	for category, b := range buckets {
		if b.count < minArticles {
			continue
		}
		growth := round2(b.growthSum / float64(b.count))
		avgScore := round2(b.scoreSum / float64(b.count))
		movers = append(movers, model.MarketMover{
			Category:      category,
			GrowthPct:     growth,
			AvgTrendScore: avgScore,
			ArticleCount:  b.count,
			Signal:        classifySignal(growth, avgScore, b.count, cfg),
		})
	}

	for _, m := range movers {
		switch {
		case m.GrowthPct > 0:
			winners = append(winners, m)
		case m.GrowthPct < 0:
			losers = append(losers, m)
		}
	}

	sort.Slice(winners, func(i, j int) bool {
		if winners[i].GrowthPct != winners[j].GrowthPct {
			return winners[i].GrowthPct > winners[j].GrowthPct
		}
		return winners[i].Category < winners[j].Category
	})
	sort.Slice(losers, func(i, j int) bool {
		if losers[i].GrowthPct != losers[j].GrowthPct {
			return losers[i].GrowthPct < losers[j].GrowthPct
		}
		return losers[i].Category < losers[j].Category
	})

	if len(winners) > topN {
		winners = winners[:topN]
	}
	if len(losers) > topN {
		losers = losers[:topN]
	}
	return winners, losers
}

// classifySignal maps a category aggregate to its trading-style label.
// EMERGING flags thin but hot categories: near-flat growth, a high
// average score and very few articles.
func classifySignal(growth, avgScore float64, count int, cfg config.MarketConfig) model.Signal {
	buy := cfg.BuyThresholdPct
	if buy == 0 {
		buy = 5
	}
	sell := cfg.SellThresholdPct
	if sell == 0 {
		sell = -5
	}
	emergingScore := cfg.EmergingMinScore
	if emergingScore == 0 {
		emergingScore = 70
	}
	emergingMax := cfg.EmergingMaxArticles
	if emergingMax == 0 {
		emergingMax = 5
	}

	switch {
	case growth >= buy:
		return model.SignalBuy
	case growth <= sell:
		return model.SignalSell
	case avgScore >= emergingScore && count <= emergingMax:
		return model.SignalEmerging
	default:
		return model.SignalHold
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
