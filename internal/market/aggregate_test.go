package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/trend-cli/internal/config"
	"github.com/atelierhq/trend-cli/internal/model"
)

func testMarketConfig() config.MarketConfig {
	return config.MarketConfig{
		BuyThresholdPct:     5,
		SellThresholdPct:    -5,
		EmergingMinScore:    70,
		EmergingMaxArticles: 5,
		MinArticles:         2,
		TopN:                10,
	}
}

func entry(category string, growth, score float64) model.CatalogEntry {
	return model.CatalogEntry{
		Category:       category,
		TrendGrowthPct: &growth,
		TrendScore:     score,
	}
}

func TestComputeMovers_MeansAndSplit(t *testing.T) {
	entries := []model.CatalogEntry{
		entry("Cargo", 10, 80),
		entry("Cargo", 20, 60),
		entry("Jean", -8, 40),
		entry("Jean", -12, 50),
	}

	winners, losers := ComputeMovers(entries, testMarketConfig())

	require.Len(t, winners, 1)
	assert.Equal(t, "Cargo", winners[0].Category)
	assert.InDelta(t, 15.0, winners[0].GrowthPct, 0.001)
	assert.InDelta(t, 70.0, winners[0].AvgTrendScore, 0.001)
	assert.Equal(t, 2, winners[0].ArticleCount)
	assert.Equal(t, model.SignalBuy, winners[0].Signal)

	require.Len(t, losers, 1)
	assert.Equal(t, "Jean", losers[0].Category)
	assert.InDelta(t, -10.0, losers[0].GrowthPct, 0.001)
	assert.Equal(t, model.SignalSell, losers[0].Signal)
}

func TestComputeMovers_MinArticlesOmitsThinCategories(t *testing.T) {
	entries := []model.CatalogEntry{
		entry("Cargo", 10, 80),
		entry("Cargo", 20, 60),
		entry("Veste", 30, 90), // only one article
	}

	winners, losers := ComputeMovers(entries, testMarketConfig())
	require.Len(t, winners, 1)
	assert.Equal(t, "Cargo", winners[0].Category)
	assert.Empty(t, losers)
}

func TestComputeMovers_NilGrowthCountsAsFlat(t *testing.T) {
	entries := []model.CatalogEntry{
		{Category: "Cargo", TrendScore: 80}, // keyword-scored, no growth signal
		entry("Cargo", 10, 70),
	}

	winners, losers := ComputeMovers(entries, testMarketConfig())

	// The keyword-scored entry contributes zero growth but still counts
	// toward the category size and the score mean.
	require.Len(t, winners, 1)
	assert.Equal(t, "Cargo", winners[0].Category)
	assert.InDelta(t, 5.0, winners[0].GrowthPct, 0.001)
	assert.InDelta(t, 75.0, winners[0].AvgTrendScore, 0.001)
	assert.Equal(t, 2, winners[0].ArticleCount)
	assert.Empty(t, losers)
}

func TestComputeMovers_KeywordOnlyCategoryCanEmerge(t *testing.T) {
	cfg := testMarketConfig()

	entries := []model.CatalogEntry{
		{Category: "Veste", TrendScore: 82},
		{Category: "Veste", TrendScore: 78},
		entry("Veste", 2, 80),
	}

	movers, _ := ComputeMovers(entries, cfg)
	require.Len(t, movers, 1)
	assert.Equal(t, 3, movers[0].ArticleCount)
	assert.InDelta(t, 80.0, movers[0].AvgTrendScore, 0.001)
	assert.Equal(t, model.SignalEmerging, movers[0].Signal)
}

func TestComputeMovers_FlatGrowthExcludedFromBothLists(t *testing.T) {
	entries := []model.CatalogEntry{
		entry("Polo", 0, 50),
		entry("Polo", 0, 50),
	}

	winners, losers := ComputeMovers(entries, testMarketConfig())
	assert.Empty(t, winners)
	assert.Empty(t, losers)
}

func TestComputeMovers_OrderingAndTopN(t *testing.T) {
	cfg := testMarketConfig()
	cfg.MinArticles = 1
	cfg.TopN = 2

	entries := []model.CatalogEntry{
		entry("Cargo", 10, 60),
		entry("Veste", 30, 60),
		entry("Hoodie", 20, 60),
		entry("Jean", -4, 60),
		entry("Polo", -9, 60),
		entry("Short", -1, 60),
	}

	winners, losers := ComputeMovers(entries, cfg)

	require.Len(t, winners, 2)
	assert.Equal(t, "Veste", winners[0].Category)
	assert.Equal(t, "Hoodie", winners[1].Category)

	// Losers rank worst first.
	require.Len(t, losers, 2)
	assert.Equal(t, "Polo", losers[0].Category)
	assert.Equal(t, "Jean", losers[1].Category)
}

func TestClassifySignal(t *testing.T) {
	cfg := testMarketConfig()

	tests := []struct {
		name     string
		growth   float64
		avgScore float64
		count    int
		want     model.Signal
	}{
		{"strong growth", 8, 50, 10, model.SignalBuy},
		{"exactly at buy threshold", 5, 50, 10, model.SignalBuy},
		{"strong decline", -8, 50, 10, model.SignalSell},
		{"exactly at sell threshold", -5, 50, 10, model.SignalSell},
		{"flat and unremarkable", 1, 50, 10, model.SignalHold},
		{"flat, hot and thin", 1, 75, 3, model.SignalEmerging},
		{"hot but crowded", 1, 75, 8, model.SignalHold},
		{"thin but cold", 1, 40, 3, model.SignalHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifySignal(tt.growth, tt.avgScore, tt.count, cfg)
			assert.Equal(t, tt.want, got)
		})
	}
}
