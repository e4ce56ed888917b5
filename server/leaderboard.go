package main

import "sort"

// LeaderboardSize is how many players the leaderboard shows
const LeaderboardSize = 10

// Leaderboard ranks players by descending score and keeps the top ten.
// Equal scores keep the order of the input, which for World snapshots is
// join order: the player who connected first ranks higher.
func Leaderboard(players []Player) []Player {
	ranked := make([]Player, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > LeaderboardSize {
		ranked = ranked[:LeaderboardSize]
	}
	return ranked
}
