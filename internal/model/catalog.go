package model

import (
	"strings"
	"time"
)

// Segment splits the catalog into menswear and womenswear lines.
type Segment string

const (
	SegmentHomme Segment = "homme"
	SegmentFemme Segment = "femme"
)

// ParseSegment returns the Segment for a raw string, or nil when the
// value is empty or unknown.
func ParseSegment(s string) *Segment {
	switch Segment(strings.ToLower(strings.TrimSpace(s))) {
	case SegmentHomme:
		seg := SegmentHomme
		return &seg
	case SegmentFemme:
		seg := SegmentFemme
		return &seg
	}
	return nil
}

// ListingKey uniquely identifies one physical listing from one source in
// one market zone. Re-ingesting the same key must update, never duplicate.
type ListingKey struct {
	SourceURL  string `json:"source_url"`
	MarketZone string `json:"market_zone"`
	Source     string `json:"source"`
}

// RawItem is a single raw listing as produced by a scraper run or pushed
// via the ingestion webhook. Only Name and SourceURL are required.
type RawItem struct {
	Name           string   `json:"name"`
	SourceURL      string   `json:"source_url"`
	Source         string   `json:"source,omitempty"`
	MarketZone     string   `json:"market_zone,omitempty"`
	Segment        string   `json:"segment,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	Description    string   `json:"description,omitempty"`
	SourceBrand    string   `json:"source_brand,omitempty"`
	ProductBrand   string   `json:"product_brand,omitempty"`
	Composition    string   `json:"composition,omitempty"`
	Color          string   `json:"color,omitempty"`
	ArticleNumber  string   `json:"article_number,omitempty"`
	TrendGrowthPct *float64 `json:"trend_growth_pct,omitempty"`
	TrendLabel     string   `json:"trend_label,omitempty"`
}

// Enrichment is the optional bag of additive fields returned by the
// external enrichment collaborator. The pipeline never computes these,
// it only merges them in.
type Enrichment struct {
	BusinessAnalysis    *string  `json:"business_analysis,omitempty"`
	ComplexityScore     *float64 `json:"complexity_score,omitempty"`
	SustainabilityScore *float64 `json:"sustainability_score,omitempty"`
	VisualScore         *float64 `json:"visual_score,omitempty"`
	DominantAttribute   *string  `json:"dominant_attribute,omitempty"`
	Category            *string  `json:"category,omitempty"`
	Brand               *string  `json:"brand,omitempty"`
	Style               *string  `json:"style,omitempty"`
}

// Empty reports whether the enrichment carries no usable field.
func (e Enrichment) Empty() bool {
	return e.BusinessAnalysis == nil && e.ComplexityScore == nil &&
		e.SustainabilityScore == nil && e.VisualScore == nil &&
		e.DominantAttribute == nil && e.Category == nil &&
		e.Brand == nil && e.Style == nil
}

// CatalogEntry is the canonical, persisted unit of trend data.
type CatalogEntry struct {
	ID string `json:"id"`

	// Identity key.
	SourceURL  string `json:"source_url"`
	MarketZone string `json:"market_zone"`
	Source     string `json:"source"`

	// Ingestion-owned descriptive fields.
	Name          string   `json:"name"`
	Brand         *string  `json:"brand,omitempty"`
	Category      string   `json:"category"`
	Cut           string   `json:"cut"`
	Style         string   `json:"style"`
	Material      string   `json:"material,omitempty"`
	Color         *string  `json:"color,omitempty"`
	Price         float64  `json:"price"`
	ImageURL      string   `json:"image_url,omitempty"`
	Description   string   `json:"description,omitempty"`
	ArticleNumber string   `json:"article_number,omitempty"`
	Segment       *Segment `json:"segment,omitempty"`

	// Scoring fields. TrendScore has an absolute floor of 10.
	TrendScore     float64  `json:"trend_score"`
	Saturability   float64  `json:"saturability"`
	TrendGrowthPct *float64 `json:"trend_growth_pct,omitempty"`
	TrendLabel     *string  `json:"trend_label,omitempty"`

	// Enrichment-owned fields, merged additively.
	BusinessAnalysis    *string  `json:"business_analysis,omitempty"`
	ComplexityScore     *float64 `json:"complexity_score,omitempty"`
	SustainabilityScore *float64 `json:"sustainability_score,omitempty"`
	VisualScore         *float64 `json:"visual_score,omitempty"`
	DominantAttribute   *string  `json:"dominant_attribute,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the staleness clock: bumped by ingestion refreshes
	// only, never by decay or rescoring.
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the entry's identity key.
func (e *CatalogEntry) Key() ListingKey {
	return ListingKey{SourceURL: e.SourceURL, MarketZone: e.MarketZone, Source: e.Source}
}

// IngestReport summarizes one ingestion batch.
type IngestReport struct {
	Received     int `json:"received"`
	Saved        int `json:"saved"`
	Created      int `json:"created"`
	Updated      int `json:"updated"`
	Skipped      int `json:"skipped"`
	Excluded     int `json:"excluded"`
	Dropped      int `json:"dropped"`
	Errored      int `json:"errored"`
	EnrichFailed int `json:"enrich_failed"`
}

// JobSummary is the best-effort report of a maintenance batch run
// (decay, rescore, dedup). A run always completes and reports counts
// rather than failing on the first bad row.
type JobSummary struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Deleted   int `json:"deleted,omitempty"`
	Errored   int `json:"errored"`
}
