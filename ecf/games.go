/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

type apiGamesResponse struct {
	Games []Game `json:"games"`
}

// FetchGames retrieves up to the client's game limit of the player's rated
// games of type gt. Games are returned in api order, most recent first, and
// are neither validated nor sorted.
func (client *Client) FetchGames(ctx context.Context, code string,
	gt GameType) ([]Game, error) {

	code, err := checkPlayerCode(code)
	if err != nil {
		return nil, err
	}
	if !gt.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGameType, string(gt))
	}

	path := fmt.Sprintf("games/%v/player/%v/limit/%v", gt,
		url.PathEscape(code), client.gameLimit)
	var resp apiGamesResponse
	if err := client.getJSON(ctx, client.httpClientGames, "games", path,
		&resp); err != nil {
		return nil, fmt.Errorf("fetching %v games for %v: %w", gt, code, err)
	}

	return resp.Games, nil
}

func checkPlayerCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrPlayerCodeRequired
	}
	return strings.ToUpper(code), nil
}
