/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"strings"
	"testing"
	"time"
)

func TestBuildPlayerReport(t *testing.T) {
	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	g0 := eventGame(NewDate(2024, 3, 9), "E1", 1900, ScoreWin)
	g0.PlayerRating = intPtr(1812)
	g1 := eventGame(NewDate(2024, 3, 2), "E1", 1700, ScoreDraw)

	ps := &PlayerSummary{
		Player:   &Player{Name: "Doe, Jane", Code: "123456A", Club: "Hastings"},
		GameType: GameTypeStandard,
		Official: &OfficialRating{Success: true, Rating: 1795, Category: "P"},
		Summary:  Summarize([]Game{g0, g1}, SummaryOptions{Now: now}),
	}

	report := BuildPlayerReport(ps, 5)

	for _, expected := range []string{
		"Player: Doe, Jane (123456A)",
		"Club: Hastings",
		"Official Rating(Standard): 1795P",
		"Live Rating(Standard): 1812",
		"Performance(last 10 games): 2000",
		"Rated Games(All-time): 2",
		"2024-03-09 - Event E1 (perf 2000?)",
	} {
		if !strings.Contains(report, expected) {
			t.Errorf("expected report to contain %q; got:\n%v", expected, report)
		}
	}
}

func TestBuildPlayerReportUnrated(t *testing.T) {
	ps := &PlayerSummary{
		GameType: GameTypeBlitz,
		Summary:  Summarize(nil, SummaryOptions{}),
	}

	report := BuildPlayerReport(ps, 5)
	if !strings.Contains(report, "Official Rating(Blitz): <unrated>") {
		t.Errorf("expected unrated official rating; got:\n%v", report)
	}
	if !strings.Contains(report, "Live Rating(Blitz): <unavailable>") {
		t.Errorf("expected unavailable live rating; got:\n%v", report)
	}
	if strings.Contains(report, "Performance") {
		t.Errorf("expected no performance line without games; got:\n%v", report)
	}
}
