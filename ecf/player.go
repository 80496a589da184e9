/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const MinSearchLength = 3

// Player is an ECF member as returned by the player lookup and search
// endpoints. Search results only carry Name, Code and Club.
type Player struct {
	Name   string      `json:"full_name"`
	Code   string      `json:"ECF_code"`
	FIDENo LooseString `json:"FIDE_no,omitempty"`
	Club   string      `json:"club_name"`
	Nation string      `json:"nation,omitempty"`
	Gender string      `json:"gender,omitempty"`
}

// LooseString decodes from a JSON string, number or null. The api is not
// consistent about how it vends numeric identifiers.
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString(strings.TrimSpace(str))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding %s: %w", string(data), err)
	}
	*s = LooseString(n.String())

	return nil
}

type apiSearchResponse struct {
	Players []Player `json:"players"`
}

// FetchPlayer retrieves the member details for the given ECF code.
func (client *Client) FetchPlayer(ctx context.Context,
	code string) (*Player, error) {

	code, err := checkPlayerCode(code)
	if err != nil {
		return nil, err
	}

	var player Player
	path := fmt.Sprintf("players/code/%v", url.PathEscape(code))
	if err := client.getJSON(ctx, client.httpClientPlayer, "player", path,
		&player); err != nil {
		return nil, fmt.Errorf("fetching player %v: %w", code, err)
	}
	if player.Code == "" {
		player.Code = code
	}

	return &player, nil
}

// SearchPlayers looks up members by (partial) name.
func (client *Client) SearchPlayers(ctx context.Context,
	name string) ([]Player, error) {

	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < MinSearchLength {
		return nil, ErrSearchTooShort
	}

	var resp apiSearchResponse
	path := fmt.Sprintf("players/name/%v", url.PathEscape(name))
	if err := client.getJSON(ctx, client.httpClientSearch, "search", path,
		&resp); err != nil {
		return nil, fmt.Errorf("searching for %q: %w", name, err)
	}

	return resp.Players, nil
}
