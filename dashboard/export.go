/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/mikeb26/ecfdash/ecf"
)

const (
	gamesSheet     = "Games"
	eventsSheet    = "Events"
	opponentsSheet = "Opponents"
)

// WriteWorkbook writes games, events and opponents as an xlsx workbook with
// one sheet each.
func WriteWorkbook(out io.Writer, sum *ecf.Summary, minEventGames int) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gamesSheet); err != nil {
		return fmt.Errorf("naming games sheet: %w", err)
	}
	for _, name := range []string{eventsSheet, opponentsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating %v sheet: %w", name, err)
		}
	}

	rows := [][]any{{"Date", "Colour", "Opponent", "Opponent Code",
		"Opponent Rating", "Score", "Rating", "Increment", "Event Code", "Event"}}
	for _, g := range sum.Games {
		rows = append(rows, []any{g.GameDate.String(), g.Colour, g.OpponentName,
			g.OpponentNo, g.OpponentRating, g.Score.Points(),
			optionalInt(g.PlayerRating), optionalInt(g.Increment), g.EventCode,
			g.EventName})
	}
	if err := writeRows(f, gamesSheet, rows); err != nil {
		return err
	}

	rows = [][]any{{"Event Code", "Event", "Start", "End", "Games",
		"Performance", "Reliable"}}
	for _, ev := range sum.Events {
		rows = append(rows, []any{ev.EventCode, ev.EventName,
			ev.StartDate.String(), ev.EndDate.String(), len(ev.Games),
			ev.PerformanceRating, ev.Reliable(minEventGames)})
	}
	if err := writeRows(f, eventsSheet, rows); err != nil {
		return err
	}

	rows = [][]any{{"Opponent", "Opponent Code", "Games", "Wins", "Draws",
		"Losses"}}
	for _, opp := range sum.Opponents {
		rows = append(rows, []any{opp.Name, opp.OpponentNo, opp.TotalGames,
			opp.Wins, opp.Draws, opp.Losses})
	}
	if err := writeRows(f, opponentsSheet, rows); err != nil {
		return err
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("writing %v row %v: %w", sheet, idx+1, err)
		}
	}
	return nil
}

func optionalInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p, err := s.parsePlayerParams(chi.URLParam(r, "code"), r)
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	raw, err := s.source.FetchGames(r.Context(), p.Code, p.GameType)
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	opts := s.summaryOptions(p)
	// the export lists every opponent rather than just the top few
	opts.TopOpponents = len(raw) + 1
	sum := ecf.Summarize(raw, opts)

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, sum, s.cfg.UnreliableEventGames); err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(
		`attachment; filename="%v-%v-%v.xlsx"`, p.Code, p.GameType, p.Window))
	_, _ = w.Write(buf.Bytes())
}
