// Package gamechanger parses GameChanger CSV stat exports for baseball and
// softball. The format is semi-structured: optional team/season metadata
// lines, a header row somewhere in the first ten lines, then one data row
// per player plus vendor summary rows. Parsing is best-effort by design -
// unrecognized columns, non-numeric cells, and summary rows are skipped
// rather than rejected, because a partial import of a messy real-world
// export beats a hard failure.
package gamechanger

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrInsufficientInput is the only error Parse returns: the CSV does not
// contain enough non-blank lines to hold a header row and anything else.
var ErrInsufficientInput = errors.New("CSV must have at least a header row and one data row")

// battingColumns maps GameChanger batting header abbreviations to canonical
// stat types.
var battingColumns = map[string]StatType{
	"AB":  StatAtBats,
	"R":   StatRuns,
	"H":   StatHits,
	"2B":  StatDoubles,
	"3B":  StatTriples,
	"HR":  StatHomeRuns,
	"RBI": StatRBI,
	"BB":  StatWalks,
	"SO":  StatStrikeouts,
	"AVG": StatBattingAvg,
	"OBP": StatOnBasePct,
	"SLG": StatSluggingPct,
	"OPS": StatOPS,
	"HBP": StatHitByPitch,
	"SAC": StatSacrifices,
	"SF":  StatSacFlies,
	"SB":  StatStolenBases,
	"CS":  StatCaughtStealing,
	"GP":  StatGamesPlayed,
	"PA":  StatPlateAppearances,
	"TB":  StatTotalBases,
}

// pitchingColumns maps GameChanger pitching header abbreviations to canonical
// stat types. Note that BB, H, R, and HBP appear in both tables but resolve
// to different stat types; only the table for the detected category is
// consulted for a given sheet.
var pitchingColumns = map[string]StatType{
	"IP":   StatInningsPitched,
	"W":    StatWins,
	"L":    StatLosses,
	"SV":   StatSaves,
	"ERA":  StatERA,
	"K":    StatPitchingStrikeouts,
	"BB":   StatPitchingWalks,
	"H":    StatPitchingHitsAllowed,
	"R":    StatPitchingRuns,
	"ER":   StatEarnedRuns,
	"WHIP": StatWHIP,
	"BF":   StatBattersFaced,
	"PC":   StatPitchCount,
	"HBP":  StatPitchingHBP,
	"WP":   StatWildPitches,
}

var (
	lineSplitter = regexp.MustCompile(`\r?\n`)
	teamPrefix   = regexp.MustCompile(`(?i)team:?\s*`)
	seasonPrefix = regexp.MustCompile(`(?i)season:?\s*`)
)

// parseCSVLine splits one line into trimmed fields, honoring double-quoted
// fields that contain literal commas. A quote always toggles state; embedded
// escaped quotes are not part of the vendor format and are not supported.
// Malformed quoting shifts field boundaries but never fails.
func parseCSVLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	result = append(result, strings.TrimSpace(current.String()))
	return result
}

// detectCategory classifies a sheet as pitching when any pitching-only
// column is present, batting otherwise.
func detectCategory(upperHeaders []string) Category {
	for _, h := range upperHeaders {
		if h == "IP" || h == "ERA" || h == "BF" {
			return CategoryPitching
		}
	}
	return CategoryBatting
}

// detectSport looks for a "softball" marker anywhere in the export text.
func detectSport(csvText string) Sport {
	if strings.Contains(strings.ToLower(csvText), "softball") {
		return SportSoftball
	}
	return SportBaseball
}

// stripPrefix removes the first occurrence of the metadata label from a
// field, e.g. "Team: Thunder" -> "Thunder".
func stripPrefix(re *regexp.Regexp, s string) string {
	if loc := re.FindStringIndex(s); loc != nil {
		return s[:loc[0]] + s[loc[1]:]
	}
	return s
}

// metadataValue extracts the value portion of a metadata line, preferring
// the second tokenized field and falling back to the first field with the
// label stripped.
func metadataValue(fields []string, re *regexp.Regexp) string {
	if len(fields) > 1 && fields[1] != "" {
		return fields[1]
	}
	if len(fields) > 0 {
		return stripPrefix(re, fields[0])
	}
	return ""
}

// Parse processes a full GameChanger CSV export. sportOverride forces the
// sport when non-empty; otherwise the sport is detected from the text.
// The only failure mode is ErrInsufficientInput; everything else degrades
// to a partial or empty result.
func Parse(csvText string, sportOverride Sport) (*ParseResult, error) {
	var lines []string
	for _, l := range lineSplitter.Split(csvText, -1) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	if len(lines) < 2 {
		return nil, ErrInsufficientInput
	}

	// GameChanger sometimes prepends team/season metadata rows before the
	// header. Scan the first few lines for them and remember where the
	// header search should start.
	var teamName, season string
	headerLineIndex := 0

	metaLimit := len(lines)
	if metaLimit > 5 {
		metaLimit = 5
	}
	for i := 0; i < metaLimit; i++ {
		lower := strings.ToLower(lines[i])
		if strings.Contains(lower, "team:") || strings.Contains(lower, "team name") {
			teamName = metadataValue(parseCSVLine(lines[i]), teamPrefix)
			headerLineIndex = i + 1
		}
		if strings.Contains(lower, "season") {
			season = metadataValue(parseCSVLine(lines[i]), seasonPrefix)
			headerLineIndex = i + 1
		}
	}

	// A metadata line can be the last non-blank line of the input, leaving
	// no line left to be the header.
	if headerLineIndex >= len(lines) {
		return nil, ErrInsufficientInput
	}

	// Find the actual header row: the first line carrying a name-identifying
	// column or a recognizable stat abbreviation. If nothing matches within
	// the first ten lines, the line at the search start is used as-is.
	searchLimit := len(lines)
	if searchLimit > 10 {
		searchLimit = 10
	}
	for i := headerLineIndex; i < searchLimit; i++ {
		cols := parseCSVLine(lines[i])
		found := false
		for _, c := range cols {
			upper := strings.ToUpper(c)
			if upper == "PLAYER" || upper == "NAME" || upper == "#" ||
				upper == "AB" || upper == "IP" || upper == "AVG" {
				found = true
				break
			}
		}
		if found {
			headerLineIndex = i
			break
		}
	}

	headers := parseCSVLine(lines[headerLineIndex])
	upperHeaders := make([]string, len(headers))
	for i, h := range headers {
		upperHeaders[i] = strings.ToUpper(strings.TrimSpace(h))
	}

	// The player name column, defaulting to the first column.
	nameColIndex := 0
	for i, h := range upperHeaders {
		if h == "PLAYER" || h == "NAME" || h == "PLAYER NAME" || h == "PLAYERNAME" {
			nameColIndex = i
			break
		}
	}

	category := detectCategory(upperHeaders)
	sport := sportOverride
	if sport == "" {
		sport = detectSport(csvText)
	}
	statColumns := battingColumns
	if category == CategoryPitching {
		statColumns = pitchingColumns
	}

	var players []ParsedPlayerStat

	for i := headerLineIndex + 1; i < len(lines); i++ {
		values := parseCSVLine(lines[i])
		if len(values) < 2 {
			continue
		}

		playerName := ""
		if nameColIndex < len(values) {
			playerName = values[nameColIndex]
		}
		lowerName := strings.ToLower(playerName)
		if playerName == "" || lowerName == "totals" || lowerName == "team" {
			// Vendor summary rows, not players.
			continue
		}

		for j, header := range upperHeaders {
			statType, ok := statColumns[header]
			if !ok || j >= len(values) {
				continue
			}

			rawValue := values[j]
			if rawValue == "" || rawValue == "-" {
				continue
			}

			numValue, err := strconv.ParseFloat(rawValue, 64)
			if err != nil {
				continue
			}

			players = append(players, ParsedPlayerStat{
				PlayerName: playerName,
				StatType:   statType,
				StatValue:  numValue,
				Category:   category,
			})
		}
	}

	return &ParseResult{
		Players:    players,
		TeamName:   teamName,
		Season:     season,
		Sport:      sport,
		RawHeaders: headers,
		RowCount:   len(lines) - headerLineIndex - 1,
	}, nil
}
