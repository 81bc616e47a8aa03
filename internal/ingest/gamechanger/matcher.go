package gamechanger

import "strings"

// UniquePlayerNames returns the distinct player names in a parse result,
// in first-seen order.
func UniquePlayerNames(players []ParsedPlayerStat) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range players {
		if !seen[p.PlayerName] {
			seen[p.PlayerName] = true
			names = append(names, p.PlayerName)
		}
	}
	return names
}

// MatchChild narrows a multi-player sheet down to the records that belong
// to one child. Matching is deliberately permissive: a record survives when
// its player name contains the child's full name, is contained by the full
// name, or contains just the first name (all case-insensitive).
//
// Single-player sheets are imported whole without matching. When no record
// matches at all, every record is returned - over-importing is preferred to
// silently importing nothing, since the user can delete stats later.
// The second return value reports whether any narrowing occurred.
func MatchChild(players []ParsedPlayerStat, firstName, lastName string) ([]ParsedPlayerStat, bool) {
	if len(UniquePlayerNames(players)) <= 1 {
		return players, false
	}

	fullName := strings.ToLower(firstName + " " + lastName)
	first := strings.ToLower(firstName)

	var matched []ParsedPlayerStat
	for _, p := range players {
		name := strings.ToLower(p.PlayerName)
		if strings.Contains(name, fullName) ||
			strings.Contains(fullName, name) ||
			strings.Contains(name, first) {
			matched = append(matched, p)
		}
	}

	if len(matched) == 0 {
		return players, false
	}
	return matched, len(matched) < len(players)
}
