/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mikeb26/ecfdash/ecf"
)

const (
	chartWidth   = 800
	chartHeight  = 400
	chartPadding = 25.0
)

var (
	chartLineColor  = drawing.ColorFromHex("1f77b4")
	chartDotColor   = drawing.ColorFromHex("ff7f0e")
	chartBackground = drawing.ColorWhite
	chartTextColor  = drawing.ColorFromHex("222222")
)

// RenderRatingChart draws series as a PNG line chart. Series with fewer than
// two points render a placeholder since a line needs two ends.
func RenderRatingChart(title string, series []ecf.RatingPoint) ([]byte, error) {
	if len(series) < 2 {
		return renderNoDataPlaceholder("Not enough rated games to chart")
	}

	xValues := make([]time.Time, len(series))
	yValues := make([]float64, len(series))
	minRating, maxRating := series[0].Rating, series[0].Rating
	for i, pt := range series {
		xValues[i] = pt.Date.Time
		yValues[i] = float64(pt.Rating)
		minRating = min(minRating, pt.Rating)
		maxRating = max(maxRating, pt.Rating)
	}

	mainSeries := chart.TimeSeries{
		Name:    title,
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: chartLineColor,
			StrokeWidth: 2,
			DotWidth:    3,
			DotColor:    chartDotColor,
		},
	}

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			FillColor: chartBackground,
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
			Style: chart.Style{
				FontColor: chartTextColor,
			},
		},
		YAxis: chart.YAxis{
			Name: "Rating",
			Style: chart.Style{
				FontColor: chartTextColor,
			},
			// a flat series would otherwise produce a zero height range
			Range: &chart.ContinuousRange{
				Min: float64(minRating) - chartPadding,
				Max: float64(maxRating) + chartPadding,
			},
		},
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("rendering rating chart: %w", err)
	}

	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(msg string) ([]byte, error) {
	graph := chart.Chart{
		Width:  chartWidth / 2,
		Height: chartHeight / 2,
		Background: chart.Style{
			FillColor: chartBackground,
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		XAxis: chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis: chart.YAxis{Style: chart.Style{Hidden: true}},
		// go-chart refuses to render without a series
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style:   chart.Style{Hidden: true},
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(chartTextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("rendering chart placeholder: %w", err)
	}

	return buffer.Bytes(), nil
}

// handleChart renders the windowed rating history with the last point
// replaced by the live estimate when one is available.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
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
	sum := ecf.Summarize(raw, s.summaryOptions(p))
	series := sum.Series
	if sum.LiveRating != nil {
		series = ecf.WithLiveRating(series, *sum.LiveRating)
	}

	png, err := RenderRatingChart(fmt.Sprintf("%v %v rating (%v)", p.Code,
		p.GameType, p.Window.Label()), series)
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	setCacheHeaders(w, gamesCacheControl)
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
