/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mikeb26/ecfdash/internal"
)

// Score is the outcome code the ECF api attaches to a game. Draws are coded as
// 5 rather than 0.5.
type Score int

const (
	ScoreLoss    Score = 0
	ScoreWin     Score = 1
	ScoreDraw    Score = 5
	ScoreInvalid Score = -1
)

// Valid reports whether s is one of the three recognized outcome codes.
func (s Score) Valid() bool {
	return s == ScoreLoss || s == ScoreWin || s == ScoreDraw
}

// Points converts the outcome code into game points (1, 0 or 0.5).
func (s Score) Points() float64 {
	switch s {
	case ScoreWin:
		return 1.0
	case ScoreDraw:
		return 0.5
	default:
		return 0.0
	}
}

func (s Score) String() string {
	switch s {
	case ScoreWin:
		return "1"
	case ScoreLoss:
		return "0"
	case ScoreDraw:
		return "½"
	default:
		return "?"
	}
}

// UnmarshalJSON accepts a JSON number or a quoted number. Anything else
// (null, fractional values, garbage) decodes to ScoreInvalid so that the game
// is dropped by NormalizeAndSort rather than failing the whole batch.
func (s *Score) UnmarshalJSON(data []byte) error {
	*s = ScoreInvalid
	if v, ok := looseInt(data); ok {
		*s = Score(v)
	}
	return nil
}

// looseInt decodes an integral JSON number or quoted number. ok is false for
// null, empty strings, fractions and anything else.
func looseInt(data []byte) (v int, ok bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return 0, false
	}
	str := strings.TrimSpace(strings.Trim(string(data), `"`))
	f, err := strconv.ParseFloat(str, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(s))), nil
}

const dateLayout = "2006-01-02"

// Date is a calendar day as vended by the ECF api, e.g. "2024-03-09". The
// zero Date means the field was missing or unparseable.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if string(bytes.TrimSpace(data)) == "null" {
		d.Time = time.Time{}
		return nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		// non-string dates are treated like missing ones
		d.Time = time.Time{}
		return nil
	}
	t, err := internal.ParseDateOrZero(strings.TrimSpace(s))
	if err != nil {
		// unparseable dates are treated like missing ones
		d.Time = time.Time{}
		return nil
	}
	if t.IsZero() {
		d.Time = t
		return nil
	}
	*d = DateOf(t)

	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// InvalidRating marks an opponent rating the api sent in a form that could
// not be read. Such games fail IsValid.
const InvalidRating = -1

// Game is one rated game as reported by the ECF api. Games are treated as
// immutable; every transformation in this package returns new slices.
type Game struct {
	// ID is assigned by NormalizeAndSort and is only unique within one batch.
	ID             string `json:"id,omitempty"`
	GameDate       Date   `json:"game_date"`
	Colour         string `json:"colour"`
	Score          Score  `json:"score"`
	OpponentName   string `json:"opponent_name"`
	OpponentNo     string `json:"opponent_no"`
	OpponentRating int    `json:"opponent_rating"`
	PlayerRating   *int   `json:"player_rating"`
	Increment      *int   `json:"increment"`
	EventCode      string `json:"event_code"`
	EventName      string `json:"event_name"`
}

// UnmarshalJSON decodes the numeric fields leniently so one malformed record
// never fails a whole batch. A missing or null opponent rating is 0, an
// unreadable one is InvalidRating. Unreadable player ratings and increments
// are nil.
func (g *Game) UnmarshalJSON(data []byte) error {
	type gameFields Game
	aux := struct {
		*gameFields
		OpponentRating json.RawMessage `json:"opponent_rating"`
		PlayerRating   json.RawMessage `json:"player_rating"`
		Increment      json.RawMessage `json:"increment"`
	}{gameFields: (*gameFields)(g)}

	*g = Game{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("decoding game: %w", err)
	}

	if v, ok := looseInt(aux.OpponentRating); ok {
		g.OpponentRating = v
	} else if !isJSONNull(aux.OpponentRating) {
		g.OpponentRating = InvalidRating
	}
	if v, ok := looseInt(aux.PlayerRating); ok {
		g.PlayerRating = &v
	}
	if v, ok := looseInt(aux.Increment); ok {
		g.Increment = &v
	}

	return nil
}

func isJSONNull(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || string(data) == "null"
}

// IsValid reports whether g can take part in aggregation: it needs an
// opponent name, a recognized score and a readable opponent rating.
func (g *Game) IsValid() bool {
	return g.OpponentName != "" && g.Score.Valid() && g.OpponentRating >= 0
}

// NormalizeAndSort drops games that fail IsValid, tags each survivor with a
// batch-scoped id and returns them in canonical order. The input slice is left untouched.
func NormalizeAndSort(raw []Game) []Game {
	games := make([]Game, 0, len(raw))
	for _, g := range raw {
		if !g.IsValid() {
			continue
		}
		g.ID = fmt.Sprintf("game-%d", len(games))
		games = append(games, g)
	}

	sortCanonical(games)
	return games
}

// SortCanonical returns a copy of games ordered by descending game date with
// ties broken by ascending opponent name.
func SortCanonical(games []Game) []Game {
	ret := make([]Game, len(games))
	copy(ret, games)
	sortCanonical(ret)
	return ret
}

func sortCanonical(games []Game) {
	sort.SliceStable(games, func(i, j int) bool {
		di, dj := games[i].GameDate, games[j].GameDate
		if !di.Equal(dj.Time) {
			return di.After(dj.Time)
		}
		return strings.Compare(games[i].OpponentName, games[j].OpponentName) < 0
	})
}
