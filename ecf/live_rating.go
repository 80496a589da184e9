/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package ecf

import "time"

// Live rating estimator.
//
// The ECF publishes official ratings monthly, but every game record it
// returns carries the player's rating after that game was processed. The
// most recent record is therefore a good estimate of the next official
// rating. The feed occasionally contains two records for the same day where
// the later one is a correction; in that case we pick whichever record is
// consistent with the other record's rating plus its increment.

// EstimateLiveRating estimates the player's current rating from raw games in
// api order (most recent first). ok is false when no estimate is available:
// no games, a most recent game dated before the first of asOf's month, or a
// record missing a field the reconciliation needs.
func EstimateLiveRating(raw []Game, asOf time.Time) (rating int, ok bool) {
	if len(raw) == 0 {
		return 0, false
	}
	game0 := &raw[0]
	if game0.GameDate.IsZero() || game0.PlayerRating == nil {
		return 0, false
	}

	firstOfMonth := NewDate(asOf.Year(), asOf.Month(), 1)
	if game0.GameDate.Before(firstOfMonth.Time) {
		return 0, false
	}

	if len(raw) < 2 || !raw[1].GameDate.Equal(game0.GameDate.Time) {
		return *game0.PlayerRating, true
	}

	game1 := &raw[1]
	if game1.PlayerRating == nil || game0.Increment == nil {
		return 0, false
	}
	if *game0.PlayerRating-(*game1.PlayerRating+*game0.Increment) < 1 {
		return *game0.PlayerRating, true
	}

	if game1.Increment == nil {
		return 0, false
	}
	if *game1.PlayerRating-(*game0.PlayerRating+*game1.Increment) < 1 {
		return *game1.PlayerRating, true
	}

	// neither record explains the other; trust feed order
	return *game0.PlayerRating, true
}
