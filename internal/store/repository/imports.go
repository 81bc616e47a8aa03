package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/elev8sports/elev8-api/internal/store"
)

// ImportRepository handles GameChanger import records.
type ImportRepository struct {
	db *store.Database
}

// NewImportRepository creates a new import repository
func NewImportRepository(db *store.Database) *ImportRepository {
	return &ImportRepository{db: db}
}

// Create inserts a new import record
func (r *ImportRepository) Create(ctx context.Context, imp *store.GameChangerImport) error {
	query := `
		INSERT INTO gamechanger_imports
			(import_id, user_id, child_id, sport, import_type, raw_csv, parsed_players, row_count, season, team_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING imported_at
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		imp.ImportID, imp.UserID, imp.ChildID, imp.Sport, imp.ImportType,
		imp.RawCSV, []byte(imp.ParsedPlayers), imp.RowCount, imp.Season, imp.TeamName,
	).Scan(&imp.ImportedAt)

	if err != nil {
		return fmt.Errorf("inserting import: %w", err)
	}
	return nil
}

// GetOwned finds an import by ID, restricted to the uploading user.
func (r *ImportRepository) GetOwned(ctx context.Context, importID, userID string) (*store.GameChangerImport, error) {
	query := `
		SELECT import_id, user_id, child_id, sport, import_type, raw_csv, parsed_players, row_count, season, team_name, imported_at
		FROM gamechanger_imports
		WHERE import_id = $1 AND user_id = $2
	`

	imp := &store.GameChangerImport{}
	var parsed []byte
	err := r.db.DB().QueryRowContext(ctx, query, importID, userID).Scan(
		&imp.ImportID, &imp.UserID, &imp.ChildID, &imp.Sport, &imp.ImportType,
		&imp.RawCSV, &parsed, &imp.RowCount, &imp.Season, &imp.TeamName, &imp.ImportedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("import %s: %w", importID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying import: %w", err)
	}

	imp.ParsedPlayers = parsed
	return imp, nil
}

// ImportSummary is the compact import shape embedded in stat listings and
// summaries.
type ImportSummary struct {
	ImportID   string         `json:"import_id"`
	Sport      string         `json:"sport"`
	Season     sql.NullString `json:"season,omitempty"`
	TeamName   sql.NullString `json:"team_name,omitempty"`
	ImportedAt string         `json:"imported_at"`
}

// ListRecentByChild returns the most recent imports for a child, newest first.
func (r *ImportRepository) ListRecentByChild(ctx context.Context, childID string, limit int) ([]*ImportSummary, error) {
	query := `
		SELECT import_id, sport, season, team_name, imported_at
		FROM gamechanger_imports
		WHERE child_id = $1
		ORDER BY imported_at DESC
		LIMIT $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, childID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying imports: %w", err)
	}
	defer rows.Close()

	imports := make([]*ImportSummary, 0)
	for rows.Next() {
		imp := &ImportSummary{}
		var importedAt sql.NullTime
		if err := rows.Scan(&imp.ImportID, &imp.Sport, &imp.Season, &imp.TeamName, &importedAt); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		if importedAt.Valid {
			imp.ImportedAt = importedAt.Time.Format(time.RFC3339)
		}
		imports = append(imports, imp)
	}

	return imports, rows.Err()
}

// UserImport is one import row in a user's history, enriched with the child
// name and how many stat rows the import produced.
type UserImport struct {
	*store.GameChangerImport
	ChildFirstName string `json:"child_first_name"`
	ChildLastName  string `json:"child_last_name"`
	StatCount      int    `json:"stat_count"`
}

// ListByUser returns all imports for a user with child names and stat
// counts, newest first. Raw CSV text is not loaded here.
func (r *ImportRepository) ListByUser(ctx context.Context, userID string) ([]*UserImport, error) {
	query := `
		SELECT i.import_id, i.user_id, i.child_id, i.sport, i.import_type, i.row_count,
			i.season, i.team_name, i.imported_at,
			c.first_name, c.last_name,
			COUNT(s.stat_id) AS stat_count
		FROM gamechanger_imports i
		JOIN children c ON c.child_id = i.child_id
		LEFT JOIN player_stats s ON s.import_id = i.import_id
		WHERE i.user_id = $1
		GROUP BY i.import_id, c.first_name, c.last_name
		ORDER BY i.imported_at DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying user imports: %w", err)
	}
	defer rows.Close()

	imports := make([]*UserImport, 0)
	for rows.Next() {
		imp := &UserImport{GameChangerImport: &store.GameChangerImport{}}
		err := rows.Scan(
			&imp.ImportID, &imp.UserID, &imp.ChildID, &imp.Sport, &imp.ImportType, &imp.RowCount,
			&imp.Season, &imp.TeamName, &imp.ImportedAt,
			&imp.ChildFirstName, &imp.ChildLastName,
			&imp.StatCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning user import: %w", err)
		}
		imports = append(imports, imp)
	}

	return imports, rows.Err()
}

// UpdateParsedSnapshot replaces the parsed-players snapshot and row count
// after a reprocess.
func (r *ImportRepository) UpdateParsedSnapshot(ctx context.Context, importID string, parsedPlayers []byte, rowCount int) error {
	_, err := r.db.DB().ExecContext(ctx,
		`UPDATE gamechanger_imports SET parsed_players = $2, row_count = $3 WHERE import_id = $1`,
		importID, parsedPlayers, rowCount)
	if err != nil {
		return fmt.Errorf("updating import snapshot: %w", err)
	}
	return nil
}
