package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elev8sports/elev8-api/internal/cache"
	"github.com/elev8sports/elev8-api/internal/ingest/gamechanger"
	"github.com/elev8sports/elev8-api/internal/publisher"
	"github.com/elev8sports/elev8-api/internal/store"
	"github.com/elev8sports/elev8-api/internal/store/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var validate = validator.New()

// ImportService handles GameChanger CSV ingestion: parse, match to a
// child, persist, and announce.
type ImportService struct {
	childRepo  *repository.ChildRepository
	importRepo *repository.ImportRepository
	statRepo   *repository.StatRepository
	cache      *cache.RedisCache
	publisher  *publisher.RedisPublisher
	log        *logrus.Logger
}

// NewImportService creates a new import service
func NewImportService(db *store.Database, rc *cache.RedisCache, pub *publisher.RedisPublisher, log *logrus.Logger) *ImportService {
	return &ImportService{
		childRepo:  repository.NewChildRepository(db),
		importRepo: repository.NewImportRepository(db),
		statRepo:   repository.NewStatRepository(db),
		cache:      rc,
		publisher:  pub,
		log:        log,
	}
}

// UploadRequest is the body of an upload-csv call.
type UploadRequest struct {
	CSVData  string `json:"csv_data" validate:"required"`
	ChildID  string `json:"child_id" validate:"required,uuid"`
	Sport    string `json:"sport" validate:"omitempty,oneof=BASEBALL SOFTBALL"`
	Season   string `json:"season"`
	TeamName string `json:"team_name"`
}

// UploadResult is returned to the client after a successful import.
// MatchedPlayer is the "all" sentinel when no narrowing occurred.
type UploadResult struct {
	Import        *store.GameChangerImport `json:"import"`
	StatsCreated  int                      `json:"stats_created"`
	PlayersFound  []string                 `json:"players_found"`
	MatchedPlayer string                   `json:"matched_player"`
	Duplicate     bool                     `json:"duplicate,omitempty"`
}

// parsedSnapshot is the parse output persisted on the import record.
type parsedSnapshot struct {
	Players  []gamechanger.ParsedPlayerStat `json:"players"`
	RowCount int                            `json:"rowCount"`
}

// UploadCSV runs the full ingestion pipeline for one upload. Persistence
// happens only after a successful parse; a parse failure leaves no partial
// state. Stat rows are created individually - a row-level insert failure is
// logged and skipped, not fatal, because each row is independently
// meaningful.
func (s *ImportService) UploadCSV(ctx context.Context, userID string, req *UploadRequest) (*UploadResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	child, err := s.childRepo.GetOwned(ctx, req.ChildID, userID)
	if err != nil {
		return nil, err
	}

	parsed, err := gamechanger.Parse(req.CSVData, gamechanger.Sport(req.Sport))
	if err != nil {
		return nil, err
	}

	resolvedSport := req.Sport
	if resolvedSport == "" {
		resolvedSport = string(parsed.Sport)
	}
	resolvedSeason := req.Season
	if resolvedSeason == "" {
		resolvedSeason = parsed.Season
	}
	resolvedTeamName := req.TeamName
	if resolvedTeamName == "" {
		resolvedTeamName = parsed.TeamName
	}

	duplicate := false
	if s.cache != nil {
		duplicate, err = s.cache.MarkUpload(ctx, cache.UploadFingerprint(child.ChildID, req.CSVData))
		if err != nil {
			// Duplicate detection is advisory only.
			s.log.WithError(err).Warn("Upload fingerprint check failed")
			duplicate = false
		}
	}

	snapshot, err := json.Marshal(parsedSnapshot{Players: parsed.Players, RowCount: parsed.RowCount})
	if err != nil {
		return nil, fmt.Errorf("marshaling parse snapshot: %w", err)
	}

	imp := &store.GameChangerImport{
		ImportID:      uuid.NewString(),
		UserID:        userID,
		ChildID:       child.ChildID,
		Sport:         resolvedSport,
		ImportType:    store.ImportTypeCSV,
		RawCSV:        req.CSVData,
		ParsedPlayers: snapshot,
		RowCount:      parsed.RowCount,
		Season:        nullString(resolvedSeason),
		TeamName:      nullString(resolvedTeamName),
	}
	if err := s.importRepo.Create(ctx, imp); err != nil {
		return nil, err
	}

	playersFound := gamechanger.UniquePlayerNames(parsed.Players)
	matched, narrowed := gamechanger.MatchChild(parsed.Players, child.FirstName, child.LastName)

	created := s.createStatRows(ctx, imp, matched, resolvedSport, resolvedSeason)

	matchedPlayer := "all"
	if narrowed {
		matchedPlayer = strings.ToLower(child.FirstName + " " + child.LastName)
	}

	s.announce(ctx, imp, created, playersFound)

	s.log.WithFields(logrus.Fields{
		"import_id":     imp.ImportID,
		"child_id":      child.ChildID,
		"stats_created": created,
		"players_found": len(playersFound),
	}).Info("GameChanger CSV imported")

	return &UploadResult{
		Import:        imp,
		StatsCreated:  created,
		PlayersFound:  playersFound,
		MatchedPlayer: matchedPlayer,
		Duplicate:     duplicate,
	}, nil
}

// ReprocessResult reports the outcome of re-running the parser over a
// stored import.
type ReprocessResult struct {
	ImportID     string `json:"import_id"`
	StatsDeleted int64  `json:"stats_deleted"`
	StatsCreated int    `json:"stats_created"`
}

// ReprocessImport re-parses the raw CSV stored on an owned import and
// replaces that import's stat rows. Useful after parser improvements.
func (s *ImportService) ReprocessImport(ctx context.Context, userID, importID string) (*ReprocessResult, error) {
	imp, err := s.importRepo.GetOwned(ctx, importID, userID)
	if err != nil {
		return nil, err
	}

	child, err := s.childRepo.GetByID(ctx, imp.ChildID)
	if err != nil {
		return nil, err
	}

	parsed, err := gamechanger.Parse(imp.RawCSV, gamechanger.Sport(imp.Sport))
	if err != nil {
		return nil, err
	}

	deleted, err := s.statRepo.DeleteByImport(ctx, imp.ImportID)
	if err != nil {
		return nil, err
	}

	matched, _ := gamechanger.MatchChild(parsed.Players, child.FirstName, child.LastName)
	created := s.createStatRows(ctx, imp, matched, imp.Sport, imp.Season.String)

	snapshot, err := json.Marshal(parsedSnapshot{Players: parsed.Players, RowCount: parsed.RowCount})
	if err != nil {
		return nil, fmt.Errorf("marshaling parse snapshot: %w", err)
	}
	if err := s.importRepo.UpdateParsedSnapshot(ctx, imp.ImportID, snapshot, parsed.RowCount); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"import_id":     imp.ImportID,
		"stats_deleted": deleted,
		"stats_created": created,
	}).Info("Import reprocessed")

	return &ReprocessResult{
		ImportID:     imp.ImportID,
		StatsDeleted: deleted,
		StatsCreated: created,
	}, nil
}

// ListUserImports returns the requesting user's import history.
func (s *ImportService) ListUserImports(ctx context.Context, userID string) ([]*repository.UserImport, error) {
	return s.importRepo.ListByUser(ctx, userID)
}

func (s *ImportService) createStatRows(ctx context.Context, imp *store.GameChangerImport, records []gamechanger.ParsedPlayerStat, sport, season string) int {
	created := 0
	for _, record := range records {
		stat := &store.PlayerStat{
			StatID:    uuid.NewString(),
			ChildID:   imp.ChildID,
			Sport:     sport,
			Season:    nullString(season),
			StatType:  string(record.StatType),
			StatValue: record.StatValue,
			Category:  string(record.Category),
			Source:    store.SourceGameChanger,
			ImportID:  imp.ImportID,
			GameDate:  nullTime(record.GameDate),
		}
		if err := s.statRepo.Create(ctx, stat); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"import_id": imp.ImportID,
				"stat_type": record.StatType,
			}).Warn("Failed to insert stat row")
			continue
		}
		created++
	}
	return created
}

func (s *ImportService) announce(ctx context.Context, imp *store.GameChangerImport, created int, playersFound []string) {
	if s.publisher == nil {
		return
	}
	event := &publisher.ImportEvent{
		ImportID:     imp.ImportID,
		UserID:       imp.UserID,
		ChildID:      imp.ChildID,
		Sport:        imp.Sport,
		Season:       imp.Season.String,
		TeamName:     imp.TeamName.String,
		StatsCreated: created,
		PlayersFound: playersFound,
	}
	if err := s.publisher.PublishImportCompleted(ctx, event); err != nil {
		s.log.WithError(err).Warn("Failed to publish import event")
	}
}
