package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"refugeflow/internal/geo/models"
	"refugeflow/pkg/platform/sentinel"
)

// Postgres persists the country dimension in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed geo store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) FindRecognizedByISO2(ctx context.Context, iso2 string) (*models.Country, error) {
	query := `
		SELECT id, name, iso, COALESCE(iso_2, ''), is_recognized, region_id
		FROM country
		WHERE UPPER(iso_2) = UPPER($1) AND is_recognized
	`
	return s.scanCountry(s.db.QueryRowContext(ctx, query, iso2))
}

func (s *Postgres) FindByISO(ctx context.Context, iso string) (*models.Country, error) {
	query := `
		SELECT id, name, iso, COALESCE(iso_2, ''), is_recognized, region_id
		FROM country
		WHERE UPPER(iso) = UPPER($1)
	`
	return s.scanCountry(s.db.QueryRowContext(ctx, query, iso))
}

func (s *Postgres) ListISO(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT iso FROM country ORDER BY iso`)
	if err != nil {
		return nil, fmt.Errorf("list country iso codes: %w", err)
	}
	defer rows.Close()

	var isos []string
	for rows.Next() {
		var iso string
		if err := rows.Scan(&iso); err != nil {
			return nil, fmt.Errorf("scan country iso: %w", err)
		}
		isos = append(isos, iso)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate country iso codes: %w", err)
	}
	return isos, nil
}

func (s *Postgres) UpsertContinent(ctx context.Context, continent *models.Continent) (*models.Continent, error) {
	query := `
		INSERT INTO continent (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`
	out := &models.Continent{}
	err := s.db.QueryRowContext(ctx, query, continent.ID, continent.Name).Scan(&out.ID, &out.Name)
	if err != nil {
		return nil, fmt.Errorf("upsert continent: %w", err)
	}
	return out, nil
}

func (s *Postgres) UpsertRegion(ctx context.Context, region *models.Region) (*models.Region, error) {
	query := `
		INSERT INTO region (id, name, continent_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET continent_id = EXCLUDED.continent_id
		RETURNING id, name, continent_id
	`
	out := &models.Region{}
	err := s.db.QueryRowContext(ctx, query, region.ID, region.Name, region.ContinentID).
		Scan(&out.ID, &out.Name, &out.ContinentID)
	if err != nil {
		return nil, fmt.Errorf("upsert region: %w", err)
	}
	return out, nil
}

func (s *Postgres) UpsertCountry(ctx context.Context, country *models.Country) (*models.Country, error) {
	query := `
		INSERT INTO country (id, name, iso, iso_2, is_recognized, region_id)
		VALUES ($1, $2, UPPER($3), NULLIF($4, ''), $5, $6)
		ON CONFLICT (iso) DO UPDATE SET
			name = EXCLUDED.name,
			iso_2 = EXCLUDED.iso_2,
			is_recognized = EXCLUDED.is_recognized,
			region_id = EXCLUDED.region_id
		RETURNING id, name, iso, COALESCE(iso_2, ''), is_recognized, region_id
	`
	out := &models.Country{}
	err := s.db.QueryRowContext(ctx, query,
		country.ID, country.Name, country.ISO, country.ISO2, country.IsRecognized, country.RegionID,
	).Scan(&out.ID, &out.Name, &out.ISO, &out.ISO2, &out.IsRecognized, &out.RegionID)
	if err != nil {
		return nil, fmt.Errorf("upsert country: %w", err)
	}
	return out, nil
}

func (s *Postgres) scanCountry(row *sql.Row) (*models.Country, error) {
	c := &models.Country{}
	err := row.Scan(&c.ID, &c.Name, &c.ISO, &c.ISO2, &c.IsRecognized, &c.RegionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan country: %w", err)
	}
	return c, nil
}
