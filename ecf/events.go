/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import "sort"

// UnreliableEventGames is the number of games below which an event's
// performance rating is flagged as unreliable by the dashboard.
const UnreliableEventGames = 3

// Event aggregates the games a player played in one competition.
type Event struct {
	EventCode         string `json:"eventCode"`
	EventName         string `json:"eventName"`
	Games             []Game `json:"games"`
	StartDate         Date   `json:"startDate"`
	EndDate           Date   `json:"endDate"`
	PerformanceRating int    `json:"performanceRating"`
}

// Reliable reports whether the event has enough games for its performance
// rating to mean something.
func (ev *Event) Reliable(minGames int) bool {
	return len(ev.Games) >= minGames
}

// GroupByEvent groups games by event code. Each event's games keep their
// input order and its performance rating covers all of them. Events are
// returned most recently finished first; events that finished on the same
// day keep first-seen order.
func GroupByEvent(games []Game) []Event {
	var events []*Event
	eventMap := make(map[string]*Event)

	for _, g := range games {
		ev, ok := eventMap[g.EventCode]
		if !ok {
			ev = &Event{
				EventCode: g.EventCode,
				EventName: g.EventName,
				StartDate: g.GameDate,
				EndDate:   g.GameDate,
			}
			eventMap[g.EventCode] = ev
			events = append(events, ev)
		}
		ev.Games = append(ev.Games, g)
		if g.GameDate.Before(ev.StartDate.Time) {
			ev.StartDate = g.GameDate
		}
		if g.GameDate.After(ev.EndDate.Time) {
			ev.EndDate = g.GameDate
		}
	}

	ret := make([]Event, len(events))
	for i, ev := range events {
		ev.PerformanceRating = PerformanceRating(ev.Games)
		ret[i] = *ev
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].EndDate.After(ret[j].EndDate.Time)
	})

	return ret
}
