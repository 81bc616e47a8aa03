package gamechanger

import (
	"math"
	"time"
)

// rateStats are the stat types whose seasonal summary is a mean of
// observations rather than a sum. Membership here is the only thing that
// decides the aggregation kind - never the runtime data.
var rateStats = map[StatType]bool{
	StatBattingAvg:  true,
	StatOnBasePct:   true,
	StatSluggingPct: true,
	StatOPS:         true,
	StatERA:         true,
	StatWHIP:        true,
}

// AggregationSum and AggregationAverage name the two rollup rules.
const (
	AggregationSum     = "sum"
	AggregationAverage = "average"
)

// StatObservation is one persisted stat value feeding a season summary.
type StatObservation struct {
	StatType  StatType
	StatValue float64
	GameDate  *time.Time
}

// SummaryEntry is the seasonal rollup for one stat type. Averages are
// rounded to three decimal places; sums are exact.
type SummaryEntry struct {
	Value float64 `json:"value"`
	Type  string  `json:"type"`
	Count int     `json:"count"`
}

// StatSummary maps stat types to their seasonal rollups.
type StatSummary map[StatType]SummaryEntry

// Summarize groups observations by stat type and computes either a sum or
// an average per type. It is a pure function and is recomputed on every
// read so the summary always reflects the live stat rows, which grow with
// each import.
func Summarize(stats []StatObservation) StatSummary {
	type group struct {
		total float64
		count int
	}

	grouped := make(map[StatType]*group)
	var order []StatType
	for _, s := range stats {
		g, ok := grouped[s.StatType]
		if !ok {
			g = &group{}
			grouped[s.StatType] = g
			order = append(order, s.StatType)
		}
		g.total += s.StatValue
		g.count++
	}

	summary := make(StatSummary, len(order))
	for _, statType := range order {
		g := grouped[statType]
		if rateStats[statType] {
			summary[statType] = SummaryEntry{
				Value: math.Round(g.total/float64(g.count)*1000) / 1000,
				Type:  AggregationAverage,
				Count: g.count,
			}
		} else {
			summary[statType] = SummaryEntry{
				Value: g.total,
				Type:  AggregationSum,
				Count: g.count,
			}
		}
	}

	return summary
}
