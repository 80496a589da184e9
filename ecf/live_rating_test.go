/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"testing"
	"time"
)

func liveGame(date Date, rating *int, increment *int) Game {
	g := newGame(date, "Opponent", 1500, ScoreWin)
	g.PlayerRating = rating
	g.Increment = increment
	return g
}

func TestEstimateLiveRating(t *testing.T) {
	asOf := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	sameDay := NewDate(2024, 3, 9)
	dayBefore := NewDate(2024, 3, 8)
	lastMonth := NewDate(2024, 2, 28)

	tests := []struct {
		name       string
		games      []Game
		expectedOK bool
		expected   int
	}{
		{
			name:       "no games",
			games:      nil,
			expectedOK: false,
		},
		{
			name:       "single game",
			games:      []Game{liveGame(sameDay, intPtr(1500), nil)},
			expectedOK: true,
			expected:   1500,
		},
		{
			name: "different dates use most recent",
			games: []Game{
				liveGame(sameDay, intPtr(1500), nil),
				liveGame(dayBefore, intPtr(1490), nil),
			},
			expectedOK: true,
			expected:   1500,
		},
		{
			name: "same day game0 consistent",
			games: []Game{
				liveGame(sameDay, intPtr(1500), intPtr(10)),
				liveGame(sameDay, intPtr(1490), intPtr(-10)),
			},
			expectedOK: true,
			expected:   1500,
		},
		{
			// 1500-(1490+8)=2 fails, 1490-(1500-10)=0 passes
			name: "same day game1 consistent",
			games: []Game{
				liveGame(sameDay, intPtr(1500), intPtr(8)),
				liveGame(sameDay, intPtr(1490), intPtr(-10)),
			},
			expectedOK: true,
			expected:   1490,
		},
		{
			// 1500-(1490+8)=2 and 1490-(1500-20)=10 both fail
			name: "same day ambiguous falls back to game0",
			games: []Game{
				liveGame(sameDay, intPtr(1500), intPtr(8)),
				liveGame(sameDay, intPtr(1490), intPtr(-20)),
			},
			expectedOK: true,
			expected:   1500,
		},
		{
			name: "same day missing game1 increment",
			games: []Game{
				liveGame(sameDay, intPtr(1500), intPtr(8)),
				liveGame(sameDay, intPtr(1490), nil),
			},
			expectedOK: false,
		},
		{
			name: "same day missing game0 increment",
			games: []Game{
				liveGame(sameDay, intPtr(1500), nil),
				liveGame(sameDay, intPtr(1490), intPtr(-10)),
			},
			expectedOK: false,
		},
		{
			name: "same day missing game1 rating",
			games: []Game{
				liveGame(sameDay, intPtr(1500), intPtr(8)),
				liveGame(sameDay, nil, intPtr(-10)),
			},
			expectedOK: false,
		},
		{
			name:       "missing game0 rating",
			games:      []Game{liveGame(sameDay, nil, nil)},
			expectedOK: false,
		},
		{
			name:       "missing game0 date",
			games:      []Game{liveGame(Date{}, intPtr(1500), nil)},
			expectedOK: false,
		},
		{
			name: "stale before first of month",
			games: []Game{
				liveGame(lastMonth, intPtr(1500), nil),
			},
			expectedOK: false,
		},
		{
			name: "first of month is current",
			games: []Game{
				liveGame(NewDate(2024, 3, 1), intPtr(1512), nil),
			},
			expectedOK: true,
			expected:   1512,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := EstimateLiveRating(tc.games, asOf)
			if ok != tc.expectedOK {
				t.Fatalf("expected ok=%v, got ok=%v (rating %v)", tc.expectedOK,
					ok, got)
			}
			if ok && got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestEstimateLiveRatingUsesRawOrder(t *testing.T) {
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	// the first raw record is not a valid game but still drives the estimate
	g0 := liveGame(NewDate(2024, 3, 10), intPtr(1620), nil)
	g0.OpponentName = ""
	g1 := liveGame(NewDate(2024, 3, 2), intPtr(1600), nil)

	got, ok := EstimateLiveRating([]Game{g0, g1}, asOf)
	if !ok || got != 1620 {
		t.Errorf("expected 1620 from raw record 0, got %v (ok=%v)", got, ok)
	}
}
