package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/trend-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testEntry(sourceURL string) *model.CatalogEntry {
	brand := "Nike"
	seg := model.SegmentHomme
	now := time.Now().UTC().Truncate(time.Second)
	return &model.CatalogEntry{
		ID:         uuid.NewString(),
		SourceURL:  sourceURL,
		MarketZone: "FR",
		Source:     "zalando",
		Name:       "Tech Fleece Hoodie",
		Brand:      &brand,
		Category:   "Hoodie",
		Cut:        "STANDARD",
		Style:      "",
		Price:      89.99,
		Segment:    &seg,
		TrendScore: 65,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestSQLite_InsertAndGetByKey(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	e := testEntry("https://example.com/p/1")
	require.NoError(t, st.Insert(ctx, e))

	got, err := st.GetByKey(ctx, e.Key())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "Tech Fleece Hoodie", got.Name)
	require.NotNil(t, got.Brand)
	assert.Equal(t, "Nike", *got.Brand)
	require.NotNil(t, got.Segment)
	assert.Equal(t, model.SegmentHomme, *got.Segment)
	assert.InDelta(t, 65.0, got.TrendScore, 0.001)
}

func TestSQLite_GetByKey_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetByKey(context.Background(), model.ListingKey{
		SourceURL: "https://example.com/nope", MarketZone: "FR", Source: "zalando",
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_IdentityUnique(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	e1 := testEntry("https://example.com/p/1")
	require.NoError(t, st.Insert(ctx, e1))

	// Same identity triple, different row id.
	e2 := testEntry("https://example.com/p/1")
	require.Error(t, st.Insert(ctx, e2))

	// Same URL in a different market zone is a distinct listing.
	e3 := testEntry("https://example.com/p/1")
	e3.MarketZone = "UK"
	require.NoError(t, st.Insert(ctx, e3))
}

func TestSQLite_RefreshFields_BumpsUpdatedAt(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	e := testEntry("https://example.com/p/1")
	e.UpdatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, st.Insert(ctx, e))

	e.Name = "Tech Fleece Hoodie V2"
	e.Price = 79.99
	e.TrendScore = 999 // must NOT be written by a refresh
	require.NoError(t, st.RefreshFields(ctx, e))

	got, err := st.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tech Fleece Hoodie V2", got.Name)
	assert.InDelta(t, 79.99, got.Price, 0.001)
	assert.InDelta(t, 65.0, got.TrendScore, 0.001)
	assert.WithinDuration(t, time.Now().UTC(), got.UpdatedAt, 5*time.Second)
}

func TestSQLite_UpdateDecay_DoesNotTouchUpdatedAt(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	stale := time.Now().UTC().Add(-48 * time.Hour).Truncate(time.Second)
	e := testEntry("https://example.com/p/1")
	e.UpdatedAt = stale
	require.NoError(t, st.Insert(ctx, e))

	require.NoError(t, st.UpdateDecay(ctx, e.ID, 64.8, -0.2))

	got, err := st.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.InDelta(t, 64.8, got.TrendScore, 0.001)
	require.NotNil(t, got.TrendGrowthPct)
	assert.InDelta(t, -0.2, *got.TrendGrowthPct, 0.001)
	assert.Equal(t, stale, got.UpdatedAt.UTC().Truncate(time.Second))
}

func TestSQLite_UpdateDecay_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)
	err := st.UpdateDecay(context.Background(), "no-such-id", 50, -0.2)
	require.Error(t, err)
}

func TestSQLite_UpdateRescore(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	e := testEntry("https://example.com/p/1")
	require.NoError(t, st.Insert(ctx, e))

	require.NoError(t, st.UpdateRescore(ctx, e.ID, 72, "OVERSIZE", "WORKWEAR"))

	got, err := st.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.InDelta(t, 72.0, got.TrendScore, 0.001)
	assert.Equal(t, "OVERSIZE", got.Cut)
	assert.Equal(t, "WORKWEAR", got.Style)
}

func TestSQLite_MergeEnrichment_AdditiveOnly(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	e := testEntry("https://example.com/p/1")
	require.NoError(t, st.Insert(ctx, e))

	analysis := "strong streetwear crossover appeal"
	complexity := 7.5
	require.NoError(t, st.MergeEnrichment(ctx, e.ID, model.Enrichment{
		BusinessAnalysis: &analysis,
		ComplexityScore:  &complexity,
	}))

	got, err := st.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BusinessAnalysis)
	assert.Equal(t, analysis, *got.BusinessAnalysis)
	require.NotNil(t, got.ComplexityScore)
	assert.InDelta(t, 7.5, *got.ComplexityScore, 0.001)
	// Fields absent from the enrichment payload stay as they were.
	assert.Equal(t, "Hoodie", got.Category)
	require.NotNil(t, got.Brand)
	assert.Equal(t, "Nike", *got.Brand)

	// A second merge with only one field set leaves earlier fields intact.
	visual := 8.0
	require.NoError(t, st.MergeEnrichment(ctx, e.ID, model.Enrichment{VisualScore: &visual}))

	got, err = st.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BusinessAnalysis)
	require.NotNil(t, got.VisualScore)
}

func TestSQLite_List_Filters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	femme := model.SegmentFemme
	for i, seed := range []struct {
		url      string
		category string
		zone     string
		segment  *model.Segment
		price    float64
	}{
		{"https://example.com/p/1", "Hoodie", "FR", nil, 89.99},
		{"https://example.com/p/2", "Jean", "FR", &femme, 49.99},
		{"https://example.com/p/3", "Hoodie", "UK", nil, 19.99},
	} {
		e := testEntry(seed.url)
		e.Category = seed.category
		e.MarketZone = seed.zone
		e.Price = seed.price
		if seed.segment != nil {
			e.Segment = seed.segment
		}
		e.CreatedAt = e.CreatedAt.Add(time.Duration(i) * time.Second)
		require.NoError(t, st.Insert(ctx, e))
	}

	byCategory, err := st.List(ctx, EntryFilter{Category: "Hoodie"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byZone, err := st.List(ctx, EntryFilter{MarketZone: "UK"})
	require.NoError(t, err)
	require.Len(t, byZone, 1)
	assert.Equal(t, "https://example.com/p/3", byZone[0].SourceURL)

	bySegment, err := st.List(ctx, EntryFilter{Segment: &femme})
	require.NoError(t, err)
	require.Len(t, bySegment, 1)
	assert.Equal(t, "Jean", bySegment[0].Category)

	byPrice, err := st.List(ctx, EntryFilter{MinPrice: 40, MaxPrice: 60})
	require.NoError(t, err)
	require.Len(t, byPrice, 1)
	assert.InDelta(t, 49.99, byPrice[0].Price, 0.001)

	limited, err := st.List(ctx, EntryFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLite_List_OrderedByCreation(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, url := range []string{
		"https://example.com/p/b",
		"https://example.com/p/a",
		"https://example.com/p/c",
	} {
		e := testEntry(url)
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, st.Insert(ctx, e))
	}

	got, err := st.List(ctx, EntryFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "https://example.com/p/b", got[0].SourceURL)
	assert.Equal(t, "https://example.com/p/a", got[1].SourceURL)
	assert.Equal(t, "https://example.com/p/c", got[2].SourceURL)
}

func TestSQLite_CountSimilar(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	femme := model.SegmentFemme
	for i := 0; i < 3; i++ {
		e := testEntry("https://example.com/p/h" + string(rune('0'+i)))
		e.Category = "Hoodie"
		require.NoError(t, st.Insert(ctx, e))
	}
	e := testEntry("https://example.com/p/f")
	e.Category = "Hoodie"
	e.Segment = &femme
	require.NoError(t, st.Insert(ctx, e))

	all, err := st.CountSimilar(ctx, "Hoodie", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, all)

	homme := model.SegmentHomme
	scoped, err := st.CountSimilar(ctx, "Hoodie", &homme)
	require.NoError(t, err)
	assert.Equal(t, 3, scoped)

	none, err := st.CountSimilar(ctx, "Jean", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, none)
}

func TestSQLite_DeleteByIDs(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	var ids []string
	for _, url := range []string{"https://example.com/p/1", "https://example.com/p/2", "https://example.com/p/3"} {
		e := testEntry(url)
		require.NoError(t, st.Insert(ctx, e))
		ids = append(ids, e.ID)
	}

	n, err := st.DeleteByIDs(ctx, ids[:2])
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	remaining, err := st.List(ctx, EntryFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, ids[2], remaining[0].ID)

	n, err = st.DeleteByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
