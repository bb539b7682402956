package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"refugeflow/internal/population/models"
	"refugeflow/pkg/platform/sentinel"
)

// Postgres runs the aggregation engine as SQL over the population and country
// tables. One parameterized builder covers every variant: the grouping
// dimension, the fixed filters, and the join side all come from the Query.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed population store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// roleColumn maps the Role to the fact-table foreign key it joins on.
func roleColumn(role models.Role) string {
	if role == models.RoleArrival {
		return "country_arrival_id"
	}
	return "country_id"
}

func counterpartColumn(role models.Role) string {
	if role == models.RoleArrival {
		return "country_id"
	}
	return "country_arrival_id"
}

// filterClause accumulates WHERE conditions and their placeholder args.
type filterClause struct {
	conds []string
	args  []any
}

func (f *filterClause) add(format string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, fmt.Sprintf(format, len(f.args)))
}

func (f *filterClause) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.conds, " AND ")
}

func (s *Postgres) SeriesByYear(ctx context.Context, q models.Query) ([]models.YearCount, error) {
	var joins []string
	var f filterClause

	if q.Year != 0 {
		f.add("p.year = $%d", q.Year)
	}
	if q.Category != "" {
		f.add("p.category = $%d", string(q.Category))
	}
	if q.Country != "" {
		joins = append(joins, fmt.Sprintf("JOIN country rc ON rc.id = p.%s", roleColumn(q.Role)))
		f.add("UPPER(rc.iso_2) = UPPER($%d)", q.Country)
	}
	if q.Counterpart != "" {
		joins = append(joins, fmt.Sprintf("JOIN country cc ON cc.id = p.%s", counterpartColumn(q.Role)))
		f.add("UPPER(cc.iso_2) = UPPER($%d)", q.Counterpart)
	}

	// No HAVING here: zero-valued years stay in a trend series.
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(p.number), 0)::BIGINT AS number, p.year
		FROM population p
		%s
		%s
		GROUP BY p.year
		ORDER BY p.year ASC
	`, strings.Join(joins, "\n\t\t"), f.where())

	rows, err := s.db.QueryContext(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("series by year: %w", err)
	}
	defer rows.Close()

	var out []models.YearCount
	for rows.Next() {
		var yc models.YearCount
		if err := rows.Scan(&yc.Number, &yc.Year); err != nil {
			return nil, fmt.Errorf("scan year count: %w", err)
		}
		out = append(out, yc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate year counts: %w", err)
	}
	return out, nil
}

// rankingSQL builds the shared grouped-sum-per-country query. The recognized
// filter binds to the ranked side only; a fixed counterpart is joined without it.
func rankingSQL(q models.Query) (string, []any) {
	joins := []string{fmt.Sprintf("JOIN country c ON c.id = p.%s", roleColumn(q.Role))}
	f := filterClause{conds: []string{"c.is_recognized"}}

	if q.Year != 0 {
		f.add("p.year = $%d", q.Year)
	}
	if q.Category != "" {
		f.add("p.category = $%d", string(q.Category))
	}
	if q.Country != "" {
		f.add("UPPER(c.iso_2) = UPPER($%d)", q.Country)
	}
	if q.Counterpart != "" {
		joins = append(joins, fmt.Sprintf("JOIN country x ON x.id = p.%s", counterpartColumn(q.Role)))
		f.add("UPPER(x.iso_2) = UPPER($%d)", q.Counterpart)
	}

	query := fmt.Sprintf(`
		SELECT SUM(p.number)::BIGINT AS number, c.name, c.iso_2
		FROM population p
		%s
		%s
		GROUP BY c.name, c.iso_2
		HAVING SUM(p.number) > 0
	`, strings.Join(joins, "\n\t\t"), f.where())

	return query, f.args
}

func (s *Postgres) RankCountries(ctx context.Context, q models.Query) ([]models.CountryCount, error) {
	base, args := rankingSQL(q)
	query := base + "ORDER BY number DESC, c.name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("rank countries: %w", err)
	}
	defer rows.Close()
	return scanRanking(rows)
}

func (s *Postgres) TopCountries(ctx context.Context, q models.Query) ([]models.CountryCount, error) {
	base, args := rankingSQL(q)

	// Single round trip: rank, keep the first ten, and sum the remainder into
	// one unconditioned aggregate row so "Others" can never fragment. The
	// remainder branch emits nothing when ten or fewer countries qualify, and
	// the synthetic ordering column keeps "Others" last however large it is.
	query := fmt.Sprintf(`
		WITH ranked AS (
			%s
		), positioned AS (
			SELECT number, name, iso_2,
			       ROW_NUMBER() OVER (ORDER BY number DESC, name ASC) AS pos
			FROM ranked
		)
		SELECT number, name, iso_2, FALSE AS is_others
		FROM positioned
		WHERE pos <= %d
		UNION ALL
		SELECT SUM(number)::BIGINT, '%s', NULL, TRUE
		FROM positioned
		WHERE pos > %d
		HAVING COUNT(*) > 0
		ORDER BY is_others ASC, number DESC, name ASC
	`, base, models.TopN, models.OthersName, models.TopN)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top countries: %w", err)
	}
	defer rows.Close()

	var out []models.CountryCount
	for rows.Next() {
		var (
			cc       models.CountryCount
			iso2     sql.NullString
			isOthers bool
		)
		if err := rows.Scan(&cc.Number, &cc.Name, &iso2, &isOthers); err != nil {
			return nil, fmt.Errorf("scan top country: %w", err)
		}
		if iso2.Valid {
			cc.ISO2 = &iso2.String
		}
		out = append(out, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top countries: %w", err)
	}
	return out, nil
}

func (s *Postgres) LastYear(ctx context.Context) (int32, error) {
	var year int32
	err := s.db.QueryRowContext(ctx,
		`SELECT year FROM population ORDER BY year DESC LIMIT 1`,
	).Scan(&year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, sentinel.ErrNotFound
		}
		return 0, fmt.Errorf("last year: %w", err)
	}
	return year, nil
}

func (s *Postgres) LastYearForCountry(ctx context.Context, countryID uuid.UUID) (int32, error) {
	var year int32
	err := s.db.QueryRowContext(ctx, `
		SELECT year FROM population
		WHERE country_id = $1 OR country_arrival_id = $1
		ORDER BY year DESC
		LIMIT 1
	`, countryID).Scan(&year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, sentinel.ErrNotFound
		}
		return 0, fmt.Errorf("last year for country: %w", err)
	}
	return year, nil
}

// Insert bulk-loads fact rows via COPY inside one transaction.
func (s *Postgres) Insert(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin population insert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("population",
		"id", "number", "year", "category", "country_id", "country_arrival_id", "created",
	))
	if err != nil {
		return fmt.Errorf("prepare population copy: %w", err)
	}

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Number, r.Year, string(r.Category), r.CountryID, r.CountryArrivalID, r.Created,
		); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("copy population record: %w", err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush population copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close population copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit population insert tx: %w", err)
	}
	return nil
}

func scanRanking(rows *sql.Rows) ([]models.CountryCount, error) {
	var out []models.CountryCount
	for rows.Next() {
		var (
			cc   models.CountryCount
			iso2 sql.NullString
		)
		if err := rows.Scan(&cc.Number, &cc.Name, &iso2); err != nil {
			return nil, fmt.Errorf("scan country count: %w", err)
		}
		if iso2.Valid {
			cc.ISO2 = &iso2.String
		}
		out = append(out, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate country counts: %w", err)
	}
	return out, nil
}
