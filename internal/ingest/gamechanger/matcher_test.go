package gamechanger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, statType StatType, value float64) ParsedPlayerStat {
	return ParsedPlayerStat{PlayerName: name, StatType: statType, StatValue: value, Category: CategoryBatting}
}

func TestUniquePlayerNames(t *testing.T) {
	players := []ParsedPlayerStat{
		record("Jane Smith", StatAtBats, 4),
		record("Jane Smith", StatHits, 2),
		record("Alex Cruz", StatAtBats, 3),
	}
	assert.Equal(t, []string{"Jane Smith", "Alex Cruz"}, UniquePlayerNames(players))
	assert.Nil(t, UniquePlayerNames(nil))
}

func TestMatchChildSinglePlayerImportsEverything(t *testing.T) {
	players := []ParsedPlayerStat{
		record("Jane Smith", StatAtBats, 4),
		record("Jane Smith", StatHits, 2),
	}

	matched, narrowed := MatchChild(players, "Someone", "Else")
	assert.Equal(t, players, matched)
	assert.False(t, narrowed)
}

func TestMatchChildNarrowsByName(t *testing.T) {
	players := []ParsedPlayerStat{
		record("Jane Smith", StatAtBats, 4),
		record("Alex Cruz", StatAtBats, 3),
		record("Jane Smith", StatHits, 2),
	}

	tests := []struct {
		name      string
		firstName string
		lastName  string
	}{
		{"exact full name", "Jane", "Smith"},
		{"case insensitive", "JANE", "SMITH"},
		{"first name only match", "Jane", "Smythe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, narrowed := MatchChild(players, tt.firstName, tt.lastName)
			require.Len(t, matched, 2)
			for _, p := range matched {
				assert.Equal(t, "Jane Smith", p.PlayerName)
			}
			assert.True(t, narrowed)
		})
	}
}

func TestMatchChildNameContainedByFullName(t *testing.T) {
	// Sheet uses a short form of the child's name.
	players := []ParsedPlayerStat{
		record("Jane", StatAtBats, 4),
		record("Alex", StatAtBats, 3),
	}

	matched, narrowed := MatchChild(players, "Jane", "Smith")
	require.Len(t, matched, 1)
	assert.Equal(t, "Jane", matched[0].PlayerName)
	assert.True(t, narrowed)
}

func TestMatchChildFallsBackToAllOnNoMatch(t *testing.T) {
	players := []ParsedPlayerStat{
		record("Jane Smith", StatAtBats, 4),
		record("Alex Cruz", StatAtBats, 3),
	}

	matched, narrowed := MatchChild(players, "Taylor", "Nguyen")
	assert.Equal(t, players, matched)
	assert.False(t, narrowed)
}

func TestMatchChildAllRowsMatching(t *testing.T) {
	// Every distinct name relates to the child: no narrowing occurred.
	players := []ParsedPlayerStat{
		record("Jane Smith", StatAtBats, 4),
		record("Jane", StatHits, 2),
	}

	matched, narrowed := MatchChild(players, "Jane", "Smith")
	assert.Equal(t, players, matched)
	assert.False(t, narrowed)
}
