package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Child represents a child profile owned by a parent user.
type Child struct {
	ChildID     string         `json:"child_id" db:"child_id"`
	ParentID    string         `json:"parent_id" db:"parent_id"`
	FirstName   string         `json:"first_name" db:"first_name"`
	LastName    string         `json:"last_name" db:"last_name"`
	DateOfBirth sql.NullTime   `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Sport       sql.NullString `json:"sport,omitempty" db:"sport"`
	Positions   pq.StringArray `json:"positions" db:"positions"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// GameChangerImport is one upload-and-parse event. The raw CSV text is kept
// verbatim so an import can be reprocessed after parser changes, and the
// parsed player records are snapshotted as JSON for diagnostics.
type GameChangerImport struct {
	ImportID      string          `json:"import_id" db:"import_id"`
	UserID        string          `json:"user_id" db:"user_id"`
	ChildID       string          `json:"child_id" db:"child_id"`
	Sport         string          `json:"sport" db:"sport"`
	ImportType    string          `json:"import_type" db:"import_type"`
	RawCSV        string          `json:"-" db:"raw_csv"`
	ParsedPlayers json.RawMessage `json:"parsed_players,omitempty" db:"parsed_players"`
	RowCount      int             `json:"row_count" db:"row_count"`
	Season        sql.NullString  `json:"season,omitempty" db:"season"`
	TeamName      sql.NullString  `json:"team_name,omitempty" db:"team_name"`
	ImportedAt    time.Time       `json:"imported_at" db:"imported_at"`
}

// PlayerStat is one persisted stat value for a child. Source is always
// tagged so records from different ingestion pipelines cannot collide.
type PlayerStat struct {
	StatID    string         `json:"stat_id" db:"stat_id"`
	ChildID   string         `json:"child_id" db:"child_id"`
	Sport     string         `json:"sport" db:"sport"`
	Season    sql.NullString `json:"season,omitempty" db:"season"`
	StatType  string         `json:"stat_type" db:"stat_type"`
	StatValue float64        `json:"stat_value" db:"stat_value"`
	Category  string         `json:"category" db:"category"`
	Source    string         `json:"source" db:"source"`
	ImportID  string         `json:"import_id" db:"import_id"`
	GameDate  sql.NullTime   `json:"game_date,omitempty" db:"game_date"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// Stat sources. Only GameChanger exists today; the tag keeps future
// pipelines from colliding with it.
const (
	SourceGameChanger = "GAMECHANGER"
)

// Import types.
const (
	ImportTypeCSV = "CSV"
)
