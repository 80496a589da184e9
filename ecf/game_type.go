/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"fmt"
	"strings"
)

// GameType is the rating list a game was rated on.
type GameType string

const (
	GameTypeStandard GameType = "Standard"
	GameTypeRapid    GameType = "Rapid"
	GameTypeBlitz    GameType = "Blitz"
)

// AllGameTypes lists every game type the ECF rates.
func AllGameTypes() []GameType {
	return []GameType{GameTypeStandard, GameTypeRapid, GameTypeBlitz}
}

// ParseGameType accepts the display name or the single letter code
// (case-insensitive).
func ParseGameType(s string) (GameType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "s":
		return GameTypeStandard, nil
	case "rapid", "r":
		return GameTypeRapid, nil
	case "blitz", "b":
		return GameTypeBlitz, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidGameType, s)
}

// Letter returns the code used by the ratings endpoint.
func (gt GameType) Letter() string {
	switch gt {
	case GameTypeStandard:
		return "S"
	case GameTypeRapid:
		return "R"
	case GameTypeBlitz:
		return "B"
	}
	return ""
}

func (gt GameType) Valid() bool {
	return gt.Letter() != ""
}
