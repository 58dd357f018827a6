package catalog

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/atelierhq/trend-cli/internal/config"
	"github.com/atelierhq/trend-cli/internal/db"
	"github.com/atelierhq/trend-cli/internal/model"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// preparedStatements are installed on every new connection. These are the
// hot-path queries driven per item during ingestion.
var preparedStatements = map[string]string{
	"get_entry_by_key": `SELECT ` + entryColumns + ` FROM catalog_entries
		WHERE source_url = $1 AND market_zone = $2 AND source = $3`,
	"count_similar": `SELECT COUNT(*) FROM catalog_entries
		WHERE category = $1 AND ($2::text IS NULL OR segment = $2)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *config.PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
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
	price                DOUBLE PRECISION NOT NULL DEFAULT 0,
	image_url            TEXT NOT NULL DEFAULT '',
	description          TEXT NOT NULL DEFAULT '',
	article_number       TEXT NOT NULL DEFAULT '',
	segment              TEXT,
	trend_score          DOUBLE PRECISION NOT NULL DEFAULT 10,
	saturability         DOUBLE PRECISION NOT NULL DEFAULT 0,
	trend_growth_pct     DOUBLE PRECISION,
	trend_label          TEXT,
	business_analysis    TEXT,
	complexity_score     DOUBLE PRECISION,
	sustainability_score DOUBLE PRECISION,
	visual_score         DOUBLE PRECISION,
	dominant_attribute   TEXT,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (source_url, market_zone, source)
);

CREATE INDEX IF NOT EXISTS idx_entries_category ON catalog_entries(category);
CREATE INDEX IF NOT EXISTS idx_entries_segment_zone ON catalog_entries(segment, market_zone);
CREATE INDEX IF NOT EXISTS idx_entries_updated_at ON catalog_entries(updated_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetByKey(ctx context.Context, key model.ListingKey) (*model.CatalogEntry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM catalog_entries
		 WHERE source_url = $1 AND market_zone = $2 AND source = $3`,
		key.SourceURL, key.MarketZone, key.Source,
	)
	e, err := scanEntry(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get by key")
	}
	return e, nil
}

func (s *PostgresStore) Insert(ctx context.Context, e *model.CatalogEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO catalog_entries (`+entryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		         $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`,
		e.ID, e.SourceURL, e.MarketZone, e.Source, e.Name, e.Brand,
		e.Category, e.Cut, e.Style, e.Material, e.Color, e.Price,
		e.ImageURL, e.Description, e.ArticleNumber, segmentValue(e.Segment),
		e.TrendScore, e.Saturability, e.TrendGrowthPct, e.TrendLabel,
		e.BusinessAnalysis, e.ComplexityScore, e.SustainabilityScore,
		e.VisualScore, e.DominantAttribute,
		e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: insert entry %s", e.SourceURL)
}

func (s *PostgresStore) RefreshFields(ctx context.Context, e *model.CatalogEntry) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE catalog_entries SET
			name = $1, brand = $2, category = $3, cut = $4, style = $5,
			material = $6, color = $7, price = $8, image_url = $9, description = $10,
			article_number = $11, segment = $12, trend_growth_pct = $13, trend_label = $14,
			updated_at = now()
		 WHERE id = $15`,
		e.Name, e.Brand, e.Category, e.Cut, e.Style,
		e.Material, e.Color, e.Price, e.ImageURL, e.Description,
		e.ArticleNumber, segmentValue(e.Segment), e.TrendGrowthPct, e.TrendLabel,
		e.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: refresh entry %s", e.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("entry not found: %s", e.ID)
	}
	return nil
}

func (s *PostgresStore) UpdateDecay(ctx context.Context, id string, trendScore, growthPct float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE catalog_entries SET trend_score = $1, trend_growth_pct = $2 WHERE id = $3`,
		trendScore, growthPct, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: decay entry %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("entry not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateRescore(ctx context.Context, id string, trendScore float64, cut, style string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE catalog_entries SET trend_score = $1, cut = $2, style = $3 WHERE id = $4`,
		trendScore, cut, style, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: rescore entry %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("entry not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) MergeEnrichment(ctx context.Context, id string, enr model.Enrichment) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE catalog_entries SET
			business_analysis    = COALESCE($1, business_analysis),
			complexity_score     = COALESCE($2, complexity_score),
			sustainability_score = COALESCE($3, sustainability_score),
			visual_score         = COALESCE($4, visual_score),
			dominant_attribute   = COALESCE($5, dominant_attribute),
			category             = COALESCE($6, category),
			brand                = COALESCE($7, brand),
			style                = COALESCE($8, style)
		 WHERE id = $9`,
		enr.BusinessAnalysis, enr.ComplexityScore, enr.SustainabilityScore,
		enr.VisualScore, enr.DominantAttribute,
		enr.Category, enr.Brand, enr.Style, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: merge enrichment %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("entry not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) GetEntry(ctx context.Context, id string) (*model.CatalogEntry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM catalog_entries WHERE id = $1`, id,
	)
	e, err := scanEntry(row)
	if err == pgx.ErrNoRows {
		return nil, eris.Errorf("entry not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get entry %s", id)
	}
	return e, nil
}

func (s *PostgresStore) List(ctx context.Context, filter EntryFilter) ([]model.CatalogEntry, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + ` FROM catalog_entries WHERE 1=1`)
	var args []any

	addClause := func(clause string, value any) {
		args = append(args, value)
		sb.WriteString(" AND " + clause + placeholder(len(args)))
	}
	if filter.Segment != nil {
		addClause("segment = ", string(*filter.Segment))
	}
	if filter.MarketZone != "" {
		addClause("market_zone = ", filter.MarketZone)
	}
	if filter.Category != "" {
		addClause("category = ", filter.Category)
	}
	if filter.Style != "" {
		addClause("style = ", filter.Style)
	}
	if filter.MinPrice > 0 {
		addClause("price >= ", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		addClause("price <= ", filter.MaxPrice)
	}
	sb.WriteString(" ORDER BY created_at, id")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(" LIMIT " + placeholder(len(args)))
		if filter.Offset > 0 {
			args = append(args, filter.Offset)
			sb.WriteString(" OFFSET " + placeholder(len(args)))
		}
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list entries")
	}
	defer rows.Close()

	var entries []model.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan entry")
		}
		entries = append(entries, *e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list entries iterate")
}

func (s *PostgresStore) CountSimilar(ctx context.Context, category string, segment *model.Segment) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM catalog_entries
		 WHERE category = $1 AND ($2::text IS NULL OR segment = $2)`,
		category, segmentValue(segment),
	).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: count similar")
	}
	return n, nil
}

func (s *PostgresStore) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM catalog_entries WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete entries")
	}
	return int(tag.RowsAffected()), nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
