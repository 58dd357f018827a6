package ingest

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/atelierhq/trend-cli/internal/catalog"
	"github.com/atelierhq/trend-cli/internal/model"
)

// mockStore is an in-memory catalog.Store for ingestion tests.
type mockStore struct {
	mu      sync.Mutex
	entries map[model.ListingKey]*model.CatalogEntry

	insertErr  error
	lookupErr  error
	refreshErr error

	merged map[string][]model.Enrichment
}

var _ catalog.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		entries: make(map[model.ListingKey]*model.CatalogEntry),
		merged:  make(map[string][]model.Enrichment),
	}
}

func (m *mockStore) GetByKey(_ context.Context, key model.ListingKey) (*model.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *mockStore) Insert(_ context.Context, e *model.CatalogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	key := e.Key()
	if _, exists := m.entries[key]; exists {
		return eris.New("duplicate identity")
	}
	cp := *e
	m.entries[key] = &cp
	return nil
}

func (m *mockStore) RefreshFields(_ context.Context, e *model.CatalogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refreshErr != nil {
		return m.refreshErr
	}
	for key, existing := range m.entries {
		if existing.ID == e.ID {
			cp := *e
			cp.TrendScore = existing.TrendScore
			cp.Saturability = existing.Saturability
			m.entries[key] = &cp
			return nil
		}
	}
	return eris.Errorf("entry not found: %s", e.ID)
}

func (m *mockStore) UpdateDecay(_ context.Context, id string, trendScore, growthPct float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			e.TrendScore = trendScore
			e.TrendGrowthPct = &growthPct
			return nil
		}
	}
	return eris.Errorf("entry not found: %s", id)
}

func (m *mockStore) UpdateRescore(_ context.Context, id string, trendScore float64, cut, style string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			e.TrendScore = trendScore
			e.Cut = cut
			e.Style = style
			return nil
		}
	}
	return eris.Errorf("entry not found: %s", id)
}

func (m *mockStore) MergeEnrichment(_ context.Context, id string, enr model.Enrichment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.merged[id] = append(m.merged[id], enr)
	return nil
}

func (m *mockStore) GetEntry(_ context.Context, id string) (*model.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, eris.Errorf("entry not found: %s", id)
}

func (m *mockStore) List(_ context.Context, _ catalog.EntryFilter) ([]model.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CatalogEntry
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockStore) CountSimilar(_ context.Context, category string, segment *model.Segment) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.Category != category {
			continue
		}
		if segment != nil && (e.Segment == nil || *e.Segment != *segment) {
			continue
		}
		n++
	}
	return n, nil
}

func (m *mockStore) DeleteByIDs(_ context.Context, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		for key, e := range m.entries {
			if e.ID == id {
				delete(m.entries, key)
				deleted++
				break
			}
		}
	}
	return deleted, nil
}

func (m *mockStore) Migrate(context.Context) error { return nil }
func (m *mockStore) Close() error                  { return nil }

func (m *mockStore) byURL(url string) *model.CatalogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.SourceURL == url {
			cp := *e
			return &cp
		}
	}
	return nil
}

func (m *mockStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
