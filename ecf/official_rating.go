/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// OfficialRating is the most recently published rating in effect on a date.
// Success is false when the ECF holds no rating of the requested type.
type OfficialRating struct {
	Success        bool   `json:"success"`
	Rating         int    `json:"revised_rating"`
	Category       string `json:"revised_category"`
	OriginalRating int    `json:"original_rating,omitempty"`
	EffectiveDate  Date   `json:"effective_date"`
}

// Provisional reports whether the rating is based on too few games to be
// considered established.
func (r *OfficialRating) Provisional() bool {
	return r.Category == "P"
}

// FetchOfficialRating retrieves the player's published rating of type gt in
// effect on asOf.
func (client *Client) FetchOfficialRating(ctx context.Context, code string,
	gt GameType, asOf time.Time) (*OfficialRating, error) {

	code, err := checkPlayerCode(code)
	if err != nil {
		return nil, err
	}
	if !gt.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGameType, string(gt))
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	var rating OfficialRating
	path := fmt.Sprintf("ratings/%v/%v/%v", gt.Letter(), url.PathEscape(code),
		DateOf(asOf))
	if err := client.getJSON(ctx, client.httpClientPlayer, "rating", path,
		&rating); err != nil {
		return nil, fmt.Errorf("fetching %v rating for %v: %w", gt, code, err)
	}

	return &rating, nil
}
