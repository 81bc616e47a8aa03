package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/elev8sports/elev8-api/internal/store"
)

// StatRepository handles player stat data access.
type StatRepository struct {
	db *store.Database
}

// NewStatRepository creates a new stat repository
func NewStatRepository(db *store.Database) *StatRepository {
	return &StatRepository{db: db}
}

// Create inserts one stat row. Rows are created individually and are each
// independently meaningful, so a batch that fails partway leaves usable data.
func (r *StatRepository) Create(ctx context.Context, stat *store.PlayerStat) error {
	query := `
		INSERT INTO player_stats
			(stat_id, child_id, sport, season, stat_type, stat_value, category, source, import_id, game_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		stat.StatID, stat.ChildID, stat.Sport, stat.Season, stat.StatType,
		stat.StatValue, stat.Category, stat.Source, stat.ImportID, stat.GameDate,
	).Scan(&stat.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting stat: %w", err)
	}
	return nil
}

// StatFilter narrows stat listings. Empty fields match everything.
type StatFilter struct {
	Sport  string
	Season string
	Source string
}

// StatWithImport is a stat row joined with compact import context.
type StatWithImport struct {
	*store.PlayerStat
	Import *ImportSummary `json:"import"`
}

// ListByChild returns a child's stats, newest game first then newest
// import first, with import context attached.
func (r *StatRepository) ListByChild(ctx context.Context, childID string, filter StatFilter) ([]*StatWithImport, error) {
	query := `
		SELECT s.stat_id, s.child_id, s.sport, s.season, s.stat_type, s.stat_value,
			s.category, s.source, s.import_id, s.game_date, s.created_at,
			i.sport, i.season, i.team_name, i.imported_at
		FROM player_stats s
		JOIN gamechanger_imports i ON i.import_id = s.import_id
		WHERE s.child_id = $1
			AND ($2 = '' OR s.sport = $2)
			AND ($3 = '' OR s.season = $3)
			AND ($4 = '' OR s.source = $4)
		ORDER BY s.game_date DESC NULLS LAST, s.created_at DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, childID, filter.Sport, filter.Season, filter.Source)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	stats := make([]*StatWithImport, 0)
	for rows.Next() {
		stat := &StatWithImport{PlayerStat: &store.PlayerStat{}, Import: &ImportSummary{}}
		var importedAt time.Time
		err := rows.Scan(
			&stat.StatID, &stat.ChildID, &stat.Sport, &stat.Season, &stat.StatType, &stat.StatValue,
			&stat.Category, &stat.Source, &stat.ImportID, &stat.GameDate, &stat.CreatedAt,
			&stat.Import.Sport, &stat.Import.Season, &stat.Import.TeamName, &importedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning stat: %w", err)
		}
		stat.Import.ImportID = stat.ImportID
		stat.Import.ImportedAt = importedAt.Format(time.RFC3339)
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}

// ListForSummary returns the raw observations feeding a season summary.
func (r *StatRepository) ListForSummary(ctx context.Context, childID string, filter StatFilter) ([]*store.PlayerStat, error) {
	query := `
		SELECT stat_id, child_id, sport, season, stat_type, stat_value, category, source, import_id, game_date, created_at
		FROM player_stats
		WHERE child_id = $1
			AND ($2 = '' OR sport = $2)
			AND ($3 = '' OR season = $3)
	`

	rows, err := r.db.DB().QueryContext(ctx, query, childID, filter.Sport, filter.Season)
	if err != nil {
		return nil, fmt.Errorf("querying stats for summary: %w", err)
	}
	defer rows.Close()

	stats := make([]*store.PlayerStat, 0)
	for rows.Next() {
		stat := &store.PlayerStat{}
		err := rows.Scan(
			&stat.StatID, &stat.ChildID, &stat.Sport, &stat.Season, &stat.StatType, &stat.StatValue,
			&stat.Category, &stat.Source, &stat.ImportID, &stat.GameDate, &stat.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning stat: %w", err)
		}
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}

// SportCount is the number of stat rows a child has per sport.
type SportCount struct {
	Sport string `json:"sport"`
	Count int    `json:"count"`
}

// CountBySport groups a child's stat rows by sport.
func (r *StatRepository) CountBySport(ctx context.Context, childID string) ([]*SportCount, error) {
	query := `
		SELECT sport, COUNT(*)
		FROM player_stats
		WHERE child_id = $1
		GROUP BY sport
		ORDER BY sport
	`

	rows, err := r.db.DB().QueryContext(ctx, query, childID)
	if err != nil {
		return nil, fmt.Errorf("counting stats by sport: %w", err)
	}
	defer rows.Close()

	counts := make([]*SportCount, 0)
	for rows.Next() {
		c := &SportCount{}
		if err := rows.Scan(&c.Sport, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning sport count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// DeleteByImport removes every stat row produced by one import. Used when
// an import is reprocessed from its stored raw CSV.
func (r *StatRepository) DeleteByImport(ctx context.Context, importID string) (int64, error) {
	result, err := r.db.DB().ExecContext(ctx,
		`DELETE FROM player_stats WHERE import_id = $1`, importID)
	if err != nil {
		return 0, fmt.Errorf("deleting stats for import: %w", err)
	}
	return result.RowsAffected()
}
