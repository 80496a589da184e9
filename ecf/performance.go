/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package ecf

import "math"

// Performance rating estimator.
//
// This is the linear approximation of the usual performance rating:
//
//	Rp = Ra + 800*p - 400
//
// where Ra is the mean opponent rating and p the fraction of points scored.
// FIDE uses a lookup table for the dp term; we use the linear form. It is
// unclamped: a clean sweep is always Ra+400 and a whitewash Ra-400.

// PerformanceRating computes the performance rating over games. An empty
// slice yields 0.
func PerformanceRating(games []Game) int {
	gameCount := len(games)
	if gameCount == 0 {
		return 0
	}

	ratingSum := 0.0
	totalScore := 0.0
	for i := range games {
		ratingSum += float64(games[i].OpponentRating)
		totalScore += games[i].Score.Points()
	}

	avgOpponentRating := ratingSum / float64(gameCount)
	p := totalScore / float64(gameCount)
	ratingDifference := 800.0*p - 400.0

	return roundHalfUp(avgOpponentRating + ratingDifference)
}

// RecentPerformance computes the performance rating over the n most recent
// games in canonical order. n <= 0 or n > len(games) uses every game.
func RecentPerformance(games []Game, n int) int {
	sorted := SortCanonical(games)
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return PerformanceRating(sorted)
}

// roundHalfUp rounds halves toward +Inf, e.g. 1899.5 -> 1900 and
// -0.5 -> 0.
func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}
