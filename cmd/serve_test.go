package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/trend-cli/internal/catalog"
	"github.com/atelierhq/trend-cli/internal/config"
	"github.com/atelierhq/trend-cli/internal/ingest"
	"github.com/atelierhq/trend-cli/internal/market"
	"github.com/atelierhq/trend-cli/internal/model"
	"github.com/atelierhq/trend-cli/internal/scoring"
)

func newTestRouter(t *testing.T) (http.Handler, catalog.Store) {
	t.Helper()

	store, err := catalog.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() }) //nolint:errcheck
	require.NoError(t, store.Migrate(context.Background()))

	engine := scoring.NewEngine(config.ScoringConfig{
		Base: 50, Floor: 10, HypeBrandBonus: 15,
		PremiumPriceThreshold: 70, BargainPriceThreshold: 15,
		PremiumPriceBonus: 10, BargainPricePenalty: 10,
	}, nil)
	svc := ingest.New(store, engine, nil, config.IngestConfig{
		MaxWorkers: 2, DefaultSource: "webhook", DefaultMarketZone: "FR",
	}, nil)
	aggregator := market.NewAggregator(store, config.MarketConfig{
		BuyThresholdPct: 5, SellThresholdPct: -5,
		EmergingMinScore: 70, EmergingMaxArticles: 5,
		MinArticles: 1, TopN: 10,
	})

	return newRouter(store, svc, aggregator), store
}

func TestServe_Health(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestServe_WebhookIngest(t *testing.T) {
	router, store := newTestRouter(t)

	body := `{"items": [
		{"name": "Nike - Tech Fleece Hoodie", "source_url": "https://example.com/p/1", "price": 89.99},
		{"name": "Sac à main cuir", "source_url": "https://example.com/p/2"}
	]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/ingest", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report model.IngestReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Received)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Excluded)

	entries, err := store.List(context.Background(), catalog.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "webhook", entries[0].Source)
}

func TestServe_WebhookIngest_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/ingest", strings.NewReader("not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/ingest", strings.NewReader(`{"items": []}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServe_CatalogListAndGet(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"items": [{"name": "Carhartt WIP - Detroit Jacket", "source_url": "https://example.com/p/1", "price": 189.0}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/ingest", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog?market_zone=FR", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Entries []model.CatalogEntry `json:"entries"`
		Count   int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	id := list.Entries[0].ID

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entry model.CatalogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "Detroit Jacket", entry.Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/no-such-id", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_CatalogList_EmptyIsArray(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"entries":[]`)
}

func TestServe_CatalogList_InvalidFilter(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog?min_price=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServe_MarketOverview(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"items": [
		{"name": "Pantalon cargo ripstop", "source_url": "https://example.com/p/1", "trend_growth_pct": 12, "trend_label": "hausse"},
		{"name": "Pantalon skinny basique", "source_url": "https://example.com/p/2", "trend_growth_pct": -9, "trend_label": "baisse"}
	]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/ingest", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/market/overview?market_zone=FR", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var overview model.MarketOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	require.Len(t, overview.Winners, 1)
	assert.Equal(t, "Cargo", overview.Winners[0].Category)
	assert.Equal(t, model.SignalBuy, overview.Winners[0].Signal)
	require.Len(t, overview.Losers, 1)
	assert.Equal(t, "Pantalon", overview.Losers[0].Category)
	assert.Equal(t, model.SignalSell, overview.Losers[0].Signal)
}
