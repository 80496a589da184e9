/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"sort"
	"time"
)

const (
	DefaultPerformanceCount = 10
	DefaultBestResults      = 3
	DefaultGamesPerPage     = 20
)

// BestResults returns up to n wins and draws ranked by opponent strength.
// A win counts as the opponent's rating plus 400 and a draw as the
// opponent's rating; losses never qualify.
func BestResults(games []Game, n int) []Game {
	var ret []Game
	for _, g := range games {
		if g.Score == ScoreWin || g.Score == ScoreDraw {
			ret = append(ret, g)
		}
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return comparisonScore(&ret[i]) > comparisonScore(&ret[j])
	})
	if n >= 0 && len(ret) > n {
		ret = ret[:n]
	}

	return ret
}

func comparisonScore(g *Game) int {
	switch g.Score {
	case ScoreWin:
		return g.OpponentRating + 400
	case ScoreDraw:
		return g.OpponentRating
	}
	return 0
}

// RatingPoint is one point of the rating-over-time chart.
type RatingPoint struct {
	Date   Date `json:"date"`
	Rating int  `json:"rating"`
}

// RatingSeries returns the player's rating after each game in ascending date
// order. Games played on the same day keep the canonical opponent-name order.
// Games without a player rating or a date are skipped.
func RatingSeries(games []Game) []RatingPoint {
	sorted := SortCanonical(games)
	ret := make([]RatingPoint, 0, len(sorted))
	for i := range sorted {
		g := &sorted[i]
		if g.PlayerRating == nil || g.GameDate.IsZero() {
			continue
		}
		ret = append(ret, RatingPoint{Date: g.GameDate, Rating: *g.PlayerRating})
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Date.Before(ret[j].Date.Time)
	})

	return ret
}

// WithLiveRating returns a copy of series whose final point carries rating.
func WithLiveRating(series []RatingPoint, rating int) []RatingPoint {
	ret := make([]RatingPoint, len(series))
	copy(ret, series)
	if len(ret) > 0 {
		ret[len(ret)-1].Rating = rating
	}
	return ret
}

// Paginate returns the 1-based page of games along with the total number of
// pages. Out of range pages are clamped.
func Paginate(games []Game, page int, perPage int) ([]Game, int) {
	if perPage <= 0 {
		perPage = DefaultGamesPerPage
	}
	totalPages := (len(games) + perPage - 1) / perPage
	if totalPages == 0 {
		return nil, 0
	}
	if page < 1 {
		page = 1
	} else if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(games) {
		end = len(games)
	}

	return games[start:end], totalPages
}

// SummaryOptions selects the windows a Summary is computed over.
type SummaryOptions struct {
	Window           Window
	PerformanceCount int
	TopOpponents     int
	BestResults      int
	// Now anchors the time window and the live rating's staleness check.
	Now time.Time
}

// Summary is everything the dashboard shows for one player and game type.
type Summary struct {
	Window           Window          `json:"window"`
	Games            []Game          `json:"games"`
	PerformanceCount int             `json:"performanceCount"`
	Performance      int             `json:"performanceRating"`
	Events           []Event         `json:"events"`
	Opponents        []OpponentStats `json:"opponents"`
	BestResults      []Game          `json:"bestResults"`
	LiveRating       *int            `json:"liveRating"`
	Series           []RatingPoint   `json:"series"`
}

// Summarize runs the full aggregation pass over one batch of raw games in
// api order.
//
// The recent performance rating is computed over every valid game, not just
// the windowed ones, so that the "last N games" figure does not change as the
// window tabs are switched.
func Summarize(raw []Game, opts SummaryOptions) *Summary {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Window == "" {
		opts.Window = WindowAll
	}
	if opts.PerformanceCount <= 0 {
		opts.PerformanceCount = DefaultPerformanceCount
	}
	if opts.TopOpponents <= 0 {
		opts.TopOpponents = DefaultTopOpponents
	}
	if opts.BestResults <= 0 {
		opts.BestResults = DefaultBestResults
	}

	valid := NormalizeAndSort(raw)
	windowed := FilterByWindow(valid, opts.Window, opts.Now)

	summary := &Summary{
		Window:           opts.Window,
		Games:            windowed,
		PerformanceCount: opts.PerformanceCount,
		Events:           GroupByEvent(windowed),
		Opponents:        TopOpponents(windowed, opts.TopOpponents),
		BestResults:      BestResults(windowed, opts.BestResults),
		Series:           RatingSeries(windowed),
	}
	if len(valid) > 0 {
		summary.Performance = RecentPerformance(valid, opts.PerformanceCount)
	}
	if live, ok := EstimateLiveRating(raw, opts.Now); ok {
		summary.LiveRating = &live
	}

	return summary
}
