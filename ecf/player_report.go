/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"fmt"
	"strings"
)

// BuildPlayerReport renders a plain text report for the cli and the discord
// bot: the player's details, official and live ratings, recent performance,
// and the most recent events.
func BuildPlayerReport(ps *PlayerSummary, eventCount int) string {
	var sb strings.Builder

	player := ps.Player
	if player != nil {
		sb.WriteString(fmt.Sprintf("Player: %v (%v)\n", player.Name, player.Code))
		if player.Club != "" {
			sb.WriteString(fmt.Sprintf("Club: %v\n", player.Club))
		}
		if player.FIDENo != "" {
			sb.WriteString(fmt.Sprintf("FIDE ID: %v\n", player.FIDENo))
		}
	}

	sum := ps.Summary
	sb.WriteString(fmt.Sprintf("Official Rating(%v): %v\n", ps.GameType,
		officialRatingString(ps.Official)))
	if sum.LiveRating != nil {
		sb.WriteString(fmt.Sprintf("Live Rating(%v): %v\n", ps.GameType,
			*sum.LiveRating))
	} else {
		sb.WriteString(fmt.Sprintf("Live Rating(%v): <unavailable>\n",
			ps.GameType))
	}
	if len(sum.Games) > 0 || sum.Performance != 0 {
		sb.WriteString(fmt.Sprintf("Performance(last %v games): %v\n",
			sum.PerformanceCount, sum.Performance))
	}
	sb.WriteString(fmt.Sprintf("Rated Games(%v): %v\n", sum.Window.Label(),
		len(sum.Games)))

	if len(sum.Events) > 0 && eventCount > 0 {
		sb.WriteString(fmt.Sprintf("Most Recent(%v) Events:\n\n", eventCount))
		sb.WriteString(BuildEventsReport(sum.Events, eventCount,
			UnreliableEventGames))
	}

	return sb.String()
}

func officialRatingString(official *OfficialRating) string {
	if official == nil || !official.Success {
		return "<unrated>"
	}
	if official.Provisional() {
		return fmt.Sprintf("%vP", official.Rating)
	}
	return fmt.Sprintf("%v", official.Rating)
}

// BuildEventsReport renders up to eventCount events with their games. Events
// with fewer than minGames games have their performance marked with '?'.
func BuildEventsReport(events []Event, eventCount int, minGames int) string {
	var sb strings.Builder

	for i := range events {
		if i >= eventCount {
			break
		}
		ev := &events[i]
		perf := fmt.Sprintf("%v", ev.PerformanceRating)
		if !ev.Reliable(minGames) {
			perf += "?"
		}
		sb.WriteString(fmt.Sprintf("%v - %v (perf %v)\n", ev.EndDate,
			ev.EventName, perf))
		for _, g := range ev.Games {
			sb.WriteString(buildGameLine(&g))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func buildGameLine(g *Game) string {
	colour := "?"
	if c := strings.TrimSpace(g.Colour); c != "" {
		colour = strings.ToUpper(c[:1])
	}
	rating := "-"
	if g.PlayerRating != nil {
		rating = fmt.Sprintf("%v", *g.PlayerRating)
	}
	return fmt.Sprintf("  %v %v %-3v %-30v %4v -> %v\n", g.GameDate, colour,
		g.Score, g.OpponentName, g.OpponentRating, rating)
}

// BuildOpponentsReport renders win/draw/loss tallies against each opponent.
func BuildOpponentsReport(opponents []OpponentStats) string {
	var sb strings.Builder

	for _, opp := range opponents {
		sb.WriteString(fmt.Sprintf("%-30v %3v games  +%v =%v -%v\n", opp.Name,
			opp.TotalGames, opp.Wins, opp.Draws, opp.Losses))
	}

	return sb.String()
}

// BuildGamesReport renders one line per game.
func BuildGamesReport(games []Game) string {
	var sb strings.Builder

	for i := range games {
		sb.WriteString(buildGameLine(&games[i]))
	}

	return sb.String()
}
