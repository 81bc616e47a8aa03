package gamechanger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obs(statType StatType, values ...float64) []StatObservation {
	stats := make([]StatObservation, 0, len(values))
	for _, v := range values {
		stats = append(stats, StatObservation{StatType: statType, StatValue: v})
	}
	return stats
}

func TestSummarizeSumsCountingStats(t *testing.T) {
	summary := Summarize(obs(StatHits, 2, 3, 0, 1))

	entry, ok := summary[StatHits]
	require.True(t, ok)
	assert.Equal(t, AggregationSum, entry.Type)
	assert.Equal(t, 6.0, entry.Value)
	assert.Equal(t, 4, entry.Count)
}

func TestSummarizeAveragesRateStats(t *testing.T) {
	summary := Summarize(obs(StatBattingAvg, 0.25, 0.30, 0.28))

	entry, ok := summary[StatBattingAvg]
	require.True(t, ok)
	assert.Equal(t, AggregationAverage, entry.Type)
	// mean 0.27666... rounds to three decimal places
	assert.Equal(t, 0.277, entry.Value)
	assert.Equal(t, 3, entry.Count)
}

func TestSummarizeAggregationKindIsFixedPerType(t *testing.T) {
	rate := []StatType{StatBattingAvg, StatOnBasePct, StatSluggingPct, StatOPS, StatERA, StatWHIP}
	for _, statType := range rate {
		summary := Summarize(obs(statType, 1, 2))
		assert.Equal(t, AggregationAverage, summary[statType].Type, string(statType))
	}

	counting := []StatType{StatAtBats, StatHits, StatHomeRuns, StatInningsPitched, StatWins, StatPitchCount}
	for _, statType := range counting {
		summary := Summarize(obs(statType, 1, 2))
		assert.Equal(t, AggregationSum, summary[statType].Type, string(statType))
		assert.Equal(t, 3.0, summary[statType].Value, string(statType))
	}
}

func TestSummarizeMixedTypes(t *testing.T) {
	stats := append(obs(StatHits, 2, 1), obs(StatERA, 3.0, 4.5)...)
	stats = append(stats, obs(StatHomeRuns, 1)...)

	summary := Summarize(stats)
	require.Len(t, summary, 3)
	assert.Equal(t, 3.0, summary[StatHits].Value)
	assert.Equal(t, 3.75, summary[StatERA].Value)
	assert.Equal(t, 1.0, summary[StatHomeRuns].Value)
	assert.Equal(t, 1, summary[StatHomeRuns].Count)
}

func TestSummarizeEmptyInput(t *testing.T) {
	summary := Summarize(nil)
	assert.Empty(t, summary)
}
