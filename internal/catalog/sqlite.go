package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/atelierhq/trend-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS catalog_entries (
	id                   TEXT PRIMARY KEY,
	source_url           TEXT NOT NULL,
	market_zone          TEXT NOT NULL,
	source               TEXT NOT NULL,
	name                 TEXT NOT NULL,
	brand                TEXT,
	category             TEXT NOT NULL DEFAULT '',
	cut                  TEXT NOT NULL DEFAULT '',
	style                TEXT NOT NULL DEFAULT '',
	material             TEXT NOT NULL DEFAULT '',
	color                TEXT,
	price                REAL NOT NULL DEFAULT 0,
	image_url            TEXT NOT NULL DEFAULT '',
	description          TEXT NOT NULL DEFAULT '',
	article_number       TEXT NOT NULL DEFAULT '',
	segment              TEXT,
	trend_score          REAL NOT NULL DEFAULT 10,
	saturability         REAL NOT NULL DEFAULT 0,
	trend_growth_pct     REAL,
	trend_label          TEXT,
	business_analysis    TEXT,
	complexity_score     REAL,
	sustainability_score REAL,
	visual_score         REAL,
	dominant_attribute   TEXT,
	created_at           DATETIME NOT NULL,
	updated_at           DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_identity
	ON catalog_entries(source_url, market_zone, source);
CREATE INDEX IF NOT EXISTS idx_entries_category ON catalog_entries(category);
CREATE INDEX IF NOT EXISTS idx_entries_segment_zone ON catalog_entries(segment, market_zone);
CREATE INDEX IF NOT EXISTS idx_entries_updated_at ON catalog_entries(updated_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// entryColumns is the canonical column list shared by every SELECT.
const entryColumns = `id, source_url, market_zone, source, name, brand, category, cut, style,
	material, color, price, image_url, description, article_number, segment,
	trend_score, saturability, trend_growth_pct, trend_label,
	business_analysis, complexity_score, sustainability_score, visual_score, dominant_attribute,
	created_at, updated_at`

func (s *SQLiteStore) GetByKey(ctx context.Context, key model.ListingKey) (*model.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM catalog_entries
		 WHERE source_url = ? AND market_zone = ? AND source = ?`,
		key.SourceURL, key.MarketZone, key.Source,
	)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get by key")
	}
	return e, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, e *model.CatalogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO catalog_entries (`+entryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SourceURL, e.MarketZone, e.Source, e.Name, e.Brand,
		e.Category, e.Cut, e.Style, e.Material, e.Color, e.Price,
		e.ImageURL, e.Description, e.ArticleNumber, segmentValue(e.Segment),
		e.TrendScore, e.Saturability, e.TrendGrowthPct, e.TrendLabel,
		e.BusinessAnalysis, e.ComplexityScore, e.SustainabilityScore,
		e.VisualScore, e.DominantAttribute,
		e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert entry %s", e.SourceURL)
}

func (s *SQLiteStore) RefreshFields(ctx context.Context, e *model.CatalogEntry) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE catalog_entries SET
			name = ?, brand = ?, category = ?, cut = ?, style = ?,
			material = ?, color = ?, price = ?, image_url = ?, description = ?,
			article_number = ?, segment = ?, trend_growth_pct = ?, trend_label = ?,
			updated_at = ?
		 WHERE id = ?`,
		e.Name, e.Brand, e.Category, e.Cut, e.Style,
		e.Material, e.Color, e.Price, e.ImageURL, e.Description,
		e.ArticleNumber, segmentValue(e.Segment), e.TrendGrowthPct, e.TrendLabel,
		time.Now().UTC(), e.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: refresh entry %s", e.ID)
	}
	return checkRowsAffected(res, "entry", e.ID)
}

func (s *SQLiteStore) UpdateDecay(ctx context.Context, id string, trendScore, growthPct float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE catalog_entries SET trend_score = ?, trend_growth_pct = ? WHERE id = ?`,
		trendScore, growthPct, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: decay entry %s", id)
	}
	return checkRowsAffected(res, "entry", id)
}

func (s *SQLiteStore) UpdateRescore(ctx context.Context, id string, trendScore float64, cut, style string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE catalog_entries SET trend_score = ?, cut = ?, style = ? WHERE id = ?`,
		trendScore, cut, style, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: rescore entry %s", id)
	}
	return checkRowsAffected(res, "entry", id)
}

func (s *SQLiteStore) MergeEnrichment(ctx context.Context, id string, enr model.Enrichment) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE catalog_entries SET
			business_analysis    = COALESCE(?, business_analysis),
			complexity_score     = COALESCE(?, complexity_score),
			sustainability_score = COALESCE(?, sustainability_score),
			visual_score         = COALESCE(?, visual_score),
			dominant_attribute   = COALESCE(?, dominant_attribute),
			category             = COALESCE(?, category),
			brand                = COALESCE(?, brand),
			style                = COALESCE(?, style)
		 WHERE id = ?`,
		enr.BusinessAnalysis, enr.ComplexityScore, enr.SustainabilityScore,
		enr.VisualScore, enr.DominantAttribute,
		enr.Category, enr.Brand, enr.Style, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: merge enrichment %s", id)
	}
	return checkRowsAffected(res, "entry", id)
}

func (s *SQLiteStore) GetEntry(ctx context.Context, id string) (*model.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM catalog_entries WHERE id = ?`, id,
	)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("entry not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get entry %s", id)
	}
	return e, nil
}

func (s *SQLiteStore) List(ctx context.Context, filter EntryFilter) ([]model.CatalogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM catalog_entries WHERE 1=1`
	var args []any

	if filter.Segment != nil {
		query += ` AND segment = ?`
		args = append(args, string(*filter.Segment))
	}
	if filter.MarketZone != "" {
		query += ` AND market_zone = ?`
		args = append(args, filter.MarketZone)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Style != "" {
		query += ` AND style = ?`
		args = append(args, filter.Style)
	}
	if filter.MinPrice > 0 {
		query += ` AND price >= ?`
		args = append(args, filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query += ` AND price <= ?`
		args = append(args, filter.MaxPrice)
	}
	query += ` ORDER BY created_at, id`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list entries")
	}
	defer rows.Close()

	var entries []model.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan entry")
		}
		entries = append(entries, *e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list entries iterate")
}

func (s *SQLiteStore) CountSimilar(ctx context.Context, category string, segment *model.Segment) (int, error) {
	query := `SELECT COUNT(*) FROM catalog_entries WHERE category = ?`
	args := []any{category}
	if segment != nil {
		query += ` AND segment = ?`
		args = append(args, string(*segment))
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "sqlite: count similar")
	}
	return n, nil
}

func (s *SQLiteStore) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM catalog_entries WHERE id IN (%s)`, placeholders),
		args...,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete entries")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func segmentValue(seg *model.Segment) any {
	if seg == nil {
		return nil
	}
	return string(*seg)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (*model.CatalogEntry, error) {
	var e model.CatalogEntry
	var segment sql.NullString

	err := row.Scan(
		&e.ID, &e.SourceURL, &e.MarketZone, &e.Source, &e.Name, &e.Brand,
		&e.Category, &e.Cut, &e.Style, &e.Material, &e.Color, &e.Price,
		&e.ImageURL, &e.Description, &e.ArticleNumber, &segment,
		&e.TrendScore, &e.Saturability, &e.TrendGrowthPct, &e.TrendLabel,
		&e.BusinessAnalysis, &e.ComplexityScore, &e.SustainabilityScore,
		&e.VisualScore, &e.DominantAttribute,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if segment.Valid {
		e.Segment = model.ParseSegment(segment.String)
	}
	return &e, nil
}
