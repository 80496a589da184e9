/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

func intPtr(v int) *int {
	return &v
}

func newGame(date Date, opponent string, oppRating int, score Score) Game {
	return Game{
		GameDate:       date,
		Colour:         "white",
		Score:          score,
		OpponentName:   opponent,
		OpponentNo:     opponent + "-code",
		OpponentRating: oppRating,
		PlayerRating:   intPtr(1800),
		Increment:      intPtr(0),
		EventCode:      "EV1",
		EventName:      "Test Congress",
	}
}

// fakeGames generates count raw games, some deliberately malformed, drawn
// from a small pool of opponents and events so that grouping has something
// to do.
func fakeGames(seed uint64, count int) []Game {
	f := gofakeit.New(seed)

	opponents := []string{"", "  "}
	for i := 0; i < 12; i++ {
		opponents = append(opponents, f.Name())
	}
	events := []string{"E100", "E200", "E300", "E400", "E500"}
	scores := []Score{ScoreWin, ScoreLoss, ScoreDraw, ScoreWin, ScoreLoss,
		ScoreDraw, ScoreInvalid, Score(2)}

	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	games := make([]Game, 0, count)
	for i := 0; i < count; i++ {
		opp := opponents[f.Number(0, len(opponents)-1)]
		ev := events[f.Number(0, len(events)-1)]
		g := Game{
			GameDate:       DateOf(f.DateRange(start, end)),
			Colour:         f.RandomString([]string{"white", "black"}),
			Score:          scores[f.Number(0, len(scores)-1)],
			OpponentName:   opp,
			OpponentNo:     f.LetterN(6),
			OpponentRating: f.Number(800, 2700),
			EventCode:      ev,
			EventName:      "Event " + ev,
		}
		if f.Number(0, 19) == 0 {
			g.OpponentRating = InvalidRating
		}
		if f.Number(0, 9) > 0 {
			g.PlayerRating = intPtr(f.Number(1000, 2500))
			g.Increment = intPtr(f.Number(-20, 20))
		}
		games = append(games, g)
	}

	return games
}
