package gamechanger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"trims whitespace", " a , b ,c ", []string{"a", "b", "c"}},
		{"quoted comma", `"Smith, Jane",4,2`, []string{"Smith, Jane", "4", "2"}},
		{"trailing empty field", "a,b,", []string{"a", "b", ""}},
		{"single field", "solo", []string{"solo"}},
		{"empty line", "", []string{""}},
		{"unbalanced quote swallows commas", `"a,b,c`, []string{"a,b,c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCSVLine(tt.line))
		})
	}
}

func TestParseFullExport(t *testing.T) {
	csv := "Team: Thunder 12U\n" +
		"Season: Spring 2026\n" +
		"Player,AB,H,HR,AVG\n" +
		"Jane Smith,4,2,1,.500\n" +
		"Totals,4,2,1,.500\n"

	result, err := Parse(csv, "")
	require.NoError(t, err)

	assert.Equal(t, "Thunder 12U", result.TeamName)
	assert.Equal(t, "Spring 2026", result.Season)
	assert.Equal(t, SportBaseball, result.Sport)
	assert.Equal(t, []string{"Player", "AB", "H", "HR", "AVG"}, result.RawHeaders)

	// The Totals row is excluded from records but still counted as a data
	// row, since row counting happens before extraction.
	assert.Equal(t, 2, result.RowCount)

	require.Len(t, result.Players, 4)
	for _, p := range result.Players {
		assert.Equal(t, "Jane Smith", p.PlayerName)
		assert.Equal(t, CategoryBatting, p.Category)
		assert.Nil(t, p.GameDate)
	}
	assert.Equal(t, StatAtBats, result.Players[0].StatType)
	assert.Equal(t, 4.0, result.Players[0].StatValue)
	assert.Equal(t, StatHits, result.Players[1].StatType)
	assert.Equal(t, 2.0, result.Players[1].StatValue)
	assert.Equal(t, StatHomeRuns, result.Players[2].StatType)
	assert.Equal(t, 1.0, result.Players[2].StatValue)
	assert.Equal(t, StatBattingAvg, result.Players[3].StatType)
	assert.Equal(t, 0.5, result.Players[3].StatValue)
}

func TestParseInsufficientInput(t *testing.T) {
	for _, csv := range []string{"", "\n\n\n", "Player,AB", "Player,AB\n\n"} {
		_, err := Parse(csv, "")
		assert.ErrorIs(t, err, ErrInsufficientInput, "input %q", csv)
	}
}

func TestTrailingMetadataLineRejected(t *testing.T) {
	// Metadata as the final non-blank line leaves no line for the header
	// row; that is the fatal-input case, not a panic.
	for _, csv := range []string{
		"Player,AB\nSeason: Spring 2026",
		"Team: Hawks\nSeason: 2026",
		"Team: Hawks\nSeason: 2026\n\n",
	} {
		_, err := Parse(csv, "")
		assert.ErrorIs(t, err, ErrInsufficientInput, "input %q", csv)
	}
}

func TestParseHeaderOnlyAfterMetadata(t *testing.T) {
	// Two non-blank lines where the second is the header: accepted with
	// zero data rows, not rejected.
	result, err := Parse("Team: Hawks\nPlayer,AB,H\n", "")
	require.NoError(t, err)
	assert.Empty(t, result.Players)
	assert.Equal(t, 0, result.RowCount)
	assert.Equal(t, "Hawks", result.TeamName)
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		name    string
		headers string
		want    Category
	}{
		{"era forces pitching", "Player,AB,ERA,H", CategoryPitching},
		{"ip forces pitching", "Player,IP,K", CategoryPitching},
		{"bf forces pitching", "Player,BF,PC", CategoryPitching},
		{"no pitching markers", "Player,AB,H,HR,AVG,OPS", CategoryBatting},
		{"name only", "Player,GP", CategoryBatting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.headers+"\nJane,1,2\n", "")
			require.NoError(t, err)
			if len(result.Players) > 0 {
				assert.Equal(t, tt.want, result.Players[0].Category)
			}
			assert.Equal(t, tt.want, detectCategory(parseCSVLine(tt.headers)))
		})
	}
}

func TestCategoryColumnTablesDiverge(t *testing.T) {
	// BB, H, R, HBP resolve differently depending on the detected category.
	batting, err := Parse("Player,BB,H,R,HBP\nJane,1,2,3,4\n", "")
	require.NoError(t, err)
	require.Len(t, batting.Players, 4)
	assert.Equal(t, StatWalks, batting.Players[0].StatType)
	assert.Equal(t, StatHits, batting.Players[1].StatType)
	assert.Equal(t, StatRuns, batting.Players[2].StatType)
	assert.Equal(t, StatHitByPitch, batting.Players[3].StatType)

	pitching, err := Parse("Player,IP,BB,H,R,HBP\nJane,5,1,2,3,4\n", "")
	require.NoError(t, err)
	require.Len(t, pitching.Players, 5)
	assert.Equal(t, StatInningsPitched, pitching.Players[0].StatType)
	assert.Equal(t, StatPitchingWalks, pitching.Players[1].StatType)
	assert.Equal(t, StatPitchingHitsAllowed, pitching.Players[2].StatType)
	assert.Equal(t, StatPitchingRuns, pitching.Players[3].StatType)
	assert.Equal(t, StatPitchingHBP, pitching.Players[4].StatType)
}

func TestSportDetection(t *testing.T) {
	result, err := Parse("Eastside Softball League\nPlayer,AB\nJane,4\n", "")
	require.NoError(t, err)
	assert.Equal(t, SportSoftball, result.Sport)

	result, err = Parse("Player,AB\nJane,4\n", "")
	require.NoError(t, err)
	assert.Equal(t, SportBaseball, result.Sport)

	// Caller override always wins over detection.
	result, err = Parse("Player,AB\nJane,4\n", SportSoftball)
	require.NoError(t, err)
	assert.Equal(t, SportSoftball, result.Sport)
}

func TestSummaryRowsExcluded(t *testing.T) {
	csv := "Player,AB,H\n" +
		"Jane Smith,4,2\n" +
		"TOTALS,10,5\n" +
		"Team,10,5\n" +
		"totals,10,5\n"

	result, err := Parse(csv, "")
	require.NoError(t, err)
	for _, p := range result.Players {
		assert.Equal(t, "Jane Smith", p.PlayerName)
	}
	assert.Len(t, result.Players, 2)
	assert.Equal(t, 4, result.RowCount)
}

func TestMissingCellsSkipped(t *testing.T) {
	csv := "Player,AB,H,HR,AVG\n" +
		"Jane,4,-,,abc\n"

	result, err := Parse(csv, "")
	require.NoError(t, err)
	require.Len(t, result.Players, 1)
	assert.Equal(t, StatAtBats, result.Players[0].StatType)
}

func TestShortRowsSkipped(t *testing.T) {
	csv := "Player,AB,H\n" +
		"stray\n" +
		"Jane,4,2\n"

	result, err := Parse(csv, "")
	require.NoError(t, err)
	assert.Len(t, result.Players, 2)
	assert.Equal(t, 2, result.RowCount)
}

func TestNameColumnFallback(t *testing.T) {
	// No recognized name header: column 0 is the name unconditionally.
	result, err := Parse("Who,AB,H\nJane,4,2\n", "")
	require.NoError(t, err)
	require.NotEmpty(t, result.Players)
	assert.Equal(t, "Jane", result.Players[0].PlayerName)

	// Recognized name headers, in any position.
	result, err = Parse("#,Name,AB\n12,Jane,4\n", "")
	require.NoError(t, err)
	require.NotEmpty(t, result.Players)
	assert.Equal(t, "Jane", result.Players[0].PlayerName)
}

func TestMetadataPrefixStripping(t *testing.T) {
	// Single-field metadata lines fall back to stripping the label.
	result, err := Parse("Team: Thunder 12U\nPlayer,AB\nJane,4\n", "")
	require.NoError(t, err)
	assert.Equal(t, "Thunder 12U", result.TeamName)

	// Tokenized metadata lines prefer the second field.
	result, err = Parse("Team Name,Hawks\nSeason,Fall 2025\nPlayer,AB\nJane,4\n", "")
	require.NoError(t, err)
	assert.Equal(t, "Hawks", result.TeamName)
	assert.Equal(t, "Fall 2025", result.Season)
}

func TestHeaderFoundPastMetadata(t *testing.T) {
	// The header search starts after the metadata lines and picks the
	// first line carrying a recognizable column.
	csv := "Team: Hawks\n" +
		"Exported by GameChanger\n" +
		"Player,AB,H\n" +
		"Jane,4,2\n"

	result, err := Parse(csv, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Player", "AB", "H"}, result.RawHeaders)
	assert.Equal(t, 1, result.RowCount)
	require.Len(t, result.Players, 2)
}

func TestQuotedPlayerNames(t *testing.T) {
	csv := "Player,AB,H\n" +
		"\"Smith, Jane\",4,2\n"

	result, err := Parse(csv, "")
	require.NoError(t, err)
	require.Len(t, result.Players, 2)
	assert.Equal(t, "Smith, Jane", result.Players[0].PlayerName)
}
