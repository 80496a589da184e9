/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"fmt"
	"strings"
	"time"
)

// Window selects a trailing calendar range of games.
type Window string

const (
	WindowAll Window = "all"
	Window5y  Window = "5y"
	Window2y  Window = "2y"
	Window1y  Window = "1y"
	Window6m  Window = "6m"
	Window3m  Window = "3m"
)

// AllWindows lists every supported window, widest first.
func AllWindows() []Window {
	return []Window{WindowAll, Window5y, Window2y, Window1y, Window6m, Window3m}
}

// ParseWindow accepts a window value; "" and "all-time" mean WindowAll.
func ParseWindow(s string) (Window, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all-time" {
		return WindowAll, nil
	}
	for _, w := range AllWindows() {
		if string(w) == s {
			return w, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidWindow, s)
}

// Label is the human readable form used by the dashboard tabs.
func (w Window) Label() string {
	if w == WindowAll {
		return "All-time"
	}
	return string(w)
}

// Cutoff returns the first calendar day inside the window relative to now.
// ok is false for WindowAll and for unknown windows.
func (w Window) Cutoff(now time.Time) (cutoff Date, ok bool) {
	var years, months int
	switch w {
	case Window5y:
		years = 5
	case Window2y:
		years = 2
	case Window1y:
		years = 1
	case Window6m:
		months = 6
	case Window3m:
		months = 3
	default:
		return Date{}, false
	}

	return DateOf(now.AddDate(-years, -months, 0)), true
}

// FilterByWindow keeps the games dated on or after the window's cutoff and
// returns them in canonical order. WindowAll (and any unrecognized window)
// keeps every game.
func FilterByWindow(games []Game, w Window, now time.Time) []Game {
	cutoff, ok := w.Cutoff(now)
	if !ok {
		return SortCanonical(games)
	}

	ret := make([]Game, 0, len(games))
	for _, g := range games {
		if g.GameDate.Before(cutoff.Time) {
			continue
		}
		ret = append(ret, g)
	}
	sortCanonical(ret)

	return ret
}
