/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func eventGame(date Date, event string, oppRating int, score Score) Game {
	g := newGame(date, "Opp "+event, oppRating, score)
	g.EventCode = event
	g.EventName = "Event " + event
	return g
}

func TestGroupByEvent(t *testing.T) {
	games := []Game{
		eventGame(NewDate(2024, 5, 4), "A", 1800, ScoreWin),
		eventGame(NewDate(2024, 5, 2), "B", 2000, ScoreLoss),
		eventGame(NewDate(2024, 5, 1), "A", 2000, ScoreDraw),
		eventGame(NewDate(2024, 4, 1), "B", 1900, ScoreWin),
		eventGame(NewDate(2024, 5, 4), "C", 1700, ScoreWin),
	}

	events := GroupByEvent(games)
	require.Len(t, events, 3)

	var codes []string
	for _, ev := range events {
		codes = append(codes, ev.EventCode)
	}
	// A and C both end on 5/4 and keep first-seen order
	if diff := cmp.Diff([]string{"A", "C", "B"}, codes); diff != "" {
		t.Errorf("unexpected event order (-want +got):\n%v", diff)
	}

	a := events[0]
	require.Equal(t, "Event A", a.EventName)
	require.Equal(t, NewDate(2024, 5, 1), a.StartDate)
	require.Equal(t, NewDate(2024, 5, 4), a.EndDate)
	require.Len(t, a.Games, 2)
	// 1900 avg, 0.75 -> +200
	require.Equal(t, 2100, a.PerformanceRating)
	require.False(t, a.Reliable(UnreliableEventGames))
	require.True(t, a.Reliable(2))

	b := events[2]
	require.Equal(t, NewDate(2024, 4, 1), b.StartDate)
	require.Equal(t, NewDate(2024, 5, 2), b.EndDate)
	require.Equal(t, 1950, b.PerformanceRating)
}

func TestGroupByEventProperties(t *testing.T) {
	for seed := uint64(100); seed < 120; seed++ {
		games := NormalizeAndSort(fakeGames(seed, 200))
		events := GroupByEvent(games)

		counts := make(map[string]int)
		for _, g := range games {
			counts[g.EventCode]++
		}
		require.Len(t, events, len(counts), "seed %v", seed)

		for i, ev := range events {
			require.Equal(t, counts[ev.EventCode], len(ev.Games), "seed %v", seed)
			require.False(t, ev.StartDate.After(ev.EndDate.Time), "seed %v", seed)
			require.Equal(t, PerformanceRating(ev.Games), ev.PerformanceRating)
			if i > 0 {
				require.False(t, ev.EndDate.After(events[i-1].EndDate.Time),
					"seed %v: events not sorted by end date", seed)
			}
		}
	}
}

func TestGroupByEventEmpty(t *testing.T) {
	require.Empty(t, GroupByEvent(nil))
}
