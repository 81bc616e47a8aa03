package gamechanger

import "time"

// Sport identifies which GameChanger export variant a sheet came from.
type Sport string

const (
	SportBaseball Sport = "BASEBALL"
	SportSoftball Sport = "SOFTBALL"
)

// Category identifies which stat column table applies to a sheet.
// One upload is always a single category.
type Category string

const (
	CategoryBatting  Category = "BATTING"
	CategoryPitching Category = "PITCHING"
)

// StatType is a canonical, vendor-abbreviation-independent identifier for
// one measured quantity.
type StatType string

// Batting stat types.
const (
	StatAtBats           StatType = "AT_BATS"
	StatRuns             StatType = "RUNS"
	StatHits             StatType = "HITS"
	StatDoubles          StatType = "DOUBLES"
	StatTriples          StatType = "TRIPLES"
	StatHomeRuns         StatType = "HOME_RUNS"
	StatRBI              StatType = "RBI"
	StatWalks            StatType = "WALKS"
	StatStrikeouts       StatType = "STRIKEOUTS"
	StatBattingAvg       StatType = "BATTING_AVG"
	StatOnBasePct        StatType = "ON_BASE_PCT"
	StatSluggingPct      StatType = "SLUGGING_PCT"
	StatOPS              StatType = "OPS"
	StatHitByPitch       StatType = "HIT_BY_PITCH"
	StatSacrifices       StatType = "SACRIFICES"
	StatSacFlies         StatType = "SAC_FLIES"
	StatStolenBases      StatType = "STOLEN_BASES"
	StatCaughtStealing   StatType = "CAUGHT_STEALING"
	StatGamesPlayed      StatType = "GAMES_PLAYED"
	StatPlateAppearances StatType = "PLATE_APPEARANCES"
	StatTotalBases       StatType = "TOTAL_BASES"
)

// Pitching stat types.
const (
	StatInningsPitched      StatType = "INNINGS_PITCHED"
	StatWins                StatType = "WINS"
	StatLosses              StatType = "LOSSES"
	StatSaves               StatType = "SAVES"
	StatERA                 StatType = "ERA"
	StatPitchingStrikeouts  StatType = "PITCHING_STRIKEOUTS"
	StatPitchingWalks       StatType = "PITCHING_WALKS"
	StatPitchingHitsAllowed StatType = "PITCHING_HITS_ALLOWED"
	StatPitchingRuns        StatType = "PITCHING_RUNS"
	StatEarnedRuns          StatType = "EARNED_RUNS"
	StatWHIP                StatType = "WHIP"
	StatBattersFaced        StatType = "BATTERS_FACED"
	StatPitchCount          StatType = "PITCH_COUNT"
	StatPitchingHBP         StatType = "PITCHING_HBP"
	StatWildPitches         StatType = "WILD_PITCHES"
)

// ParsedPlayerStat is one observed value for one player on one statistic.
// GameDate is reserved for exports that carry per-row dates; the current
// column tables never populate it.
type ParsedPlayerStat struct {
	PlayerName string     `json:"playerName"`
	StatType   StatType   `json:"statType"`
	StatValue  float64    `json:"statValue"`
	Category   Category   `json:"category"`
	GameDate   *time.Time `json:"gameDate,omitempty"`
}

// ParseResult is the output of one parse operation over a full CSV export.
type ParseResult struct {
	Players    []ParsedPlayerStat `json:"players"`
	TeamName   string             `json:"teamName,omitempty"`
	Season     string             `json:"season,omitempty"`
	Sport      Sport              `json:"sport"`
	RawHeaders []string           `json:"rawHeaders"`
	RowCount   int                `json:"rowCount"`
}
