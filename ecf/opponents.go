/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import "sort"

// DefaultTopOpponents is how many opponents GroupByOpponent returns.
const DefaultTopOpponents = 10

// OpponentStats tallies a player's results against one opponent.
type OpponentStats struct {
	Name string `json:"name"`
	// OpponentNo is the first player code seen for Name.
	OpponentNo string `json:"opponent_no"`
	// OpponentNos lists every distinct code seen for Name. More than one
	// entry means different players with the same name were merged.
	OpponentNos []string `json:"opponent_nos"`
	TotalGames  int      `json:"totalGames"`
	Wins        int      `json:"wins"`
	Losses      int      `json:"losses"`
	Draws       int      `json:"draws"`
	Games       []Game   `json:"games"`
}

// GroupByOpponent returns the DefaultTopOpponents most frequent opponents.
func GroupByOpponent(games []Game) []OpponentStats {
	return TopOpponents(games, DefaultTopOpponents)
}

// TopOpponents groups games by opponent name and returns the n opponents
// with the most games, most games first. Opponents with equal game counts
// keep first-seen order. n <= 0 returns every opponent.
func TopOpponents(games []Game, n int) []OpponentStats {
	var order []*OpponentStats
	stats := make(map[string]*OpponentStats)

	for _, g := range games {
		st, ok := stats[g.OpponentName]
		if !ok {
			st = &OpponentStats{
				Name:       g.OpponentName,
				OpponentNo: g.OpponentNo,
			}
			stats[g.OpponentName] = st
			order = append(order, st)
		}
		if !containsString(st.OpponentNos, g.OpponentNo) {
			st.OpponentNos = append(st.OpponentNos, g.OpponentNo)
		}

		st.TotalGames++
		switch g.Score {
		case ScoreWin:
			st.Wins++
		case ScoreLoss:
			st.Losses++
		case ScoreDraw:
			st.Draws++
		}
		st.Games = append(st.Games, g)
	}

	ret := make([]OpponentStats, len(order))
	for i, st := range order {
		ret[i] = *st
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].TotalGames > ret[j].TotalGames
	})
	if n > 0 && len(ret) > n {
		ret = ret[:n]
	}

	return ret
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
