// Package catalog persists the canonical trend catalog. Write ownership
// is split across three method groups: Insert/RefreshFields belong to
// ingestion (and are the only writers of updated_at), UpdateDecay and
// UpdateRescore belong to the maintenance jobs (and never touch
// updated_at), MergeEnrichment belongs to the enrichment collaborator.
package catalog

import (
	"context"

	"github.com/atelierhq/trend-cli/internal/model"
)

// EntryFilter specifies criteria for listing catalog entries.
type EntryFilter struct {
	Segment    *model.Segment `json:"segment,omitempty"`
	MarketZone string         `json:"market_zone,omitempty"`
	Category   string         `json:"category,omitempty"`
	Style      string         `json:"style,omitempty"`
	MinPrice   float64        `json:"min_price,omitempty"`
	MaxPrice   float64        `json:"max_price,omitempty"`
	Limit      int            `json:"limit,omitempty"`
	Offset     int            `json:"offset,omitempty"`
}

// Store defines the persistence interface for the trend catalog.
type Store interface {
	// Identity-keyed access. GetByKey returns (nil, nil) when absent.
	GetByKey(ctx context.Context, key model.ListingKey) (*model.CatalogEntry, error)
	Insert(ctx context.Context, e *model.CatalogEntry) error
	// RefreshFields replaces all ingestion-owned fields and bumps
	// updated_at. Scores are left untouched.
	RefreshFields(ctx context.Context, e *model.CatalogEntry) error

	// Maintenance writes. Neither bumps updated_at.
	UpdateDecay(ctx context.Context, id string, trendScore, growthPct float64) error
	UpdateRescore(ctx context.Context, id string, trendScore float64, cut, style string) error

	// MergeEnrichment applies the additive enrichment fields only.
	MergeEnrichment(ctx context.Context, id string, enr model.Enrichment) error

	// Reads.
	GetEntry(ctx context.Context, id string) (*model.CatalogEntry, error)
	List(ctx context.Context, filter EntryFilter) ([]model.CatalogEntry, error)
	CountSimilar(ctx context.Context, category string, segment *model.Segment) (int, error)

	// DeleteByIDs is used exclusively by the dedup cleanup pass.
	DeleteByIDs(ctx context.Context, ids []string) (int, error)

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}
