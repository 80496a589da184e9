/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PlayerSummary bundles everything needed to render one player and game type.
type PlayerSummary struct {
	Player   *Player  `json:"player"`
	GameType GameType `json:"gameType"`
	// Official is nil when the ECF holds no published rating or the lookup
	// failed.
	Official *OfficialRating `json:"officialRating"`
	// Raw holds the games in api order.
	Raw     []Game   `json:"-"`
	Summary *Summary `json:"summary"`
}

// GetPlayerSummary fetches the player's details, games and official rating
// concurrently and summarizes the games according to opts.
func (client *Client) GetPlayerSummary(ctx context.Context, code string,
	gt GameType, opts SummaryOptions) (*PlayerSummary, error) {

	code, err := checkPlayerCode(code)
	if err != nil {
		return nil, err
	}
	if !gt.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGameType, string(gt))
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	ret := &PlayerSummary{GameType: gt}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		player, err := client.FetchPlayer(gctx, code)
		if err != nil {
			return err
		}
		ret.Player = player
		return nil
	})
	g.Go(func() error {
		games, err := client.FetchGames(gctx, code, gt)
		if err != nil {
			return err
		}
		ret.Raw = games
		return nil
	})
	g.Go(func() error {
		official, err := client.FetchOfficialRating(gctx, code, gt, opts.Now)
		if err != nil {
			client.log.Warn("official rating unavailable",
				zap.String("code", code), zap.String("type", string(gt)),
				zap.Error(err))
			return nil
		}
		if official.Success {
			ret.Official = official
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ret.Summary = Summarize(ret.Raw, opts)

	return ret, nil
}
