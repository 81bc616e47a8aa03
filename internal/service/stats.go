package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/elev8sports/elev8-api/internal/ingest/gamechanger"
	"github.com/elev8sports/elev8-api/internal/store"
	"github.com/elev8sports/elev8-api/internal/store/repository"
)

// recentImportLimit is how many imports accompany a stat summary.
const recentImportLimit = 10

// StatsService serves stored stats and derived summaries for a child.
type StatsService struct {
	childRepo  *repository.ChildRepository
	importRepo *repository.ImportRepository
	statRepo   *repository.StatRepository
}

// NewStatsService creates a new stats service
func NewStatsService(db *store.Database) *StatsService {
	return &StatsService{
		childRepo:  repository.NewChildRepository(db),
		importRepo: repository.NewImportRepository(db),
		statRepo:   repository.NewStatRepository(db),
	}
}

// ChildStats is a child's raw stat rows with import context.
type ChildStats struct {
	Child *store.Child                 `json:"child"`
	Stats []*repository.StatWithImport `json:"stats"`
	Total int                          `json:"total"`
}

// GetChildStats lists a child's stat rows, newest first. Ownership is
// checked before anything is read.
func (s *StatsService) GetChildStats(ctx context.Context, userID, childID string, filter repository.StatFilter) (*ChildStats, error) {
	child, err := s.childRepo.GetOwned(ctx, childID, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.statRepo.ListByChild(ctx, childID, filter)
	if err != nil {
		return nil, err
	}

	return &ChildStats{
		Child: child,
		Stats: stats,
		Total: len(stats),
	}, nil
}

// StatSummaryView is the summary payload for one child: aggregated values
// per stat type, recent imports, and per-sport row counts.
type StatSummaryView struct {
	Child          *store.Child                `json:"child"`
	Summary        gamechanger.StatSummary     `json:"summary"`
	TotalStats     int                         `json:"total_stats"`
	Imports        []*repository.ImportSummary `json:"imports"`
	SportBreakdown []*repository.SportCount    `json:"sport_breakdown"`
}

// GetChildStatSummary aggregates a child's stored stats. The summary is
// recomputed from the rows on every call, never cached, so it always
// reflects the current imports. A child with no stats gets an empty
// summary, not an error.
func (s *StatsService) GetChildStatSummary(ctx context.Context, userID, childID string, filter repository.StatFilter) (*StatSummaryView, error) {
	child, err := s.childRepo.GetOwned(ctx, childID, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.statRepo.ListForSummary(ctx, childID, filter)
	if err != nil {
		return nil, err
	}

	observations := make([]gamechanger.StatObservation, 0, len(stats))
	for _, stat := range stats {
		obs := gamechanger.StatObservation{
			StatType:  gamechanger.StatType(stat.StatType),
			StatValue: stat.StatValue,
		}
		if stat.GameDate.Valid {
			gameDate := stat.GameDate.Time
			obs.GameDate = &gameDate
		}
		observations = append(observations, obs)
	}

	imports, err := s.importRepo.ListRecentByChild(ctx, childID, recentImportLimit)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.statRepo.CountBySport(ctx, childID)
	if err != nil {
		return nil, err
	}

	return &StatSummaryView{
		Child:          child,
		Summary:        gamechanger.Summarize(observations),
		TotalStats:     len(stats),
		Imports:        imports,
		SportBreakdown: breakdown,
	}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
