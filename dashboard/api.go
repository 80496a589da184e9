/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mikeb26/ecfdash/ecf"
)

// cache policies for the api routes; shared caches may serve a response for
// s-maxage seconds and a stale one while revalidating.
const (
	gamesCacheControl  = "public, s-maxage=600, stale-while-revalidate=60"
	playerCacheControl = "public, s-maxage=64800, stale-while-revalidate=600"
	searchCacheControl = "public, s-maxage=400800, stale-while-revalidate=600"
)

var ErrInvalidPerformanceCount = errors.New("invalid performance game count")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func setCacheHeaders(w http.ResponseWriter, cacheControl string) {
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Netlify-Vary", "query")
}

// errorStatus maps an error to the status a handler should reply with.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ecf.ErrPlayerCodeRequired),
		errors.Is(err, ecf.ErrInvalidGameType),
		errors.Is(err, ecf.ErrInvalidWindow),
		errors.Is(err, ecf.ErrSearchTooShort),
		errors.Is(err, ErrInvalidPerformanceCount):
		return http.StatusBadRequest
	case errors.Is(err, ecf.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Warn("api request failed", zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err))
	}
	writeError(w, status, err.Error())
}

// playerParams holds the query parameters shared by the player routes.
type playerParams struct {
	Code     string
	GameType ecf.GameType
	Window   ecf.Window
	Perf     int
}

// parseGameType falls back to the first configured game type when the
// parameter is absent. Types the dashboard doesn't offer are rejected.
func (s *Server) parseGameType(v string) (ecf.GameType, error) {
	if strings.TrimSpace(v) == "" {
		return s.menu.GameTypes[0], nil
	}
	gt, err := ecf.ParseGameType(v)
	if err != nil {
		return "", err
	}
	for _, offered := range s.menu.GameTypes {
		if offered == gt {
			return gt, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not offered", ecf.ErrInvalidGameType, v)
}

func (s *Server) parseWindow(v string) (ecf.Window, error) {
	w, err := ecf.ParseWindow(v)
	if err != nil {
		return "", err
	}
	for _, offered := range s.menu.Windows {
		if offered == w {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not offered", ecf.ErrInvalidWindow, v)
}

func (s *Server) parsePerf(v string) (int, error) {
	if strings.TrimSpace(v) == "" {
		return s.cfg.DefaultPerformance, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPerformanceCount, v)
	}
	for _, offered := range s.menu.PerformanceCounts {
		if offered == n {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %v is not offered", ErrInvalidPerformanceCount, n)
}

func (s *Server) parsePlayerParams(code string, r *http.Request) (*playerParams, error) {
	q := r.URL.Query()
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ecf.ErrPlayerCodeRequired
	}
	gt, err := s.parseGameType(firstNonEmpty(q.Get("type"), q.Get("gameType")))
	if err != nil {
		return nil, err
	}
	window, err := s.parseWindow(q.Get("window"))
	if err != nil {
		return nil, err
	}
	perf, err := s.parsePerf(q.Get("perf"))
	if err != nil {
		return nil, err
	}

	return &playerParams{Code: code, GameType: gt, Window: window, Perf: perf}, nil
}

func (s *Server) summaryOptions(p *playerParams) ecf.SummaryOptions {
	return ecf.SummaryOptions{
		Window:           p.Window,
		PerformanceCount: p.Perf,
		TopOpponents:     s.cfg.TopOpponents,
		BestResults:      s.cfg.BestResults,
		Now:              s.now(),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// handleChessResults proxies the player's raw games in api order.
func (s *Server) handleChessResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := strings.TrimSpace(q.Get("playerCode"))
	if code == "" {
		s.writeAPIError(w, r, ecf.ErrPlayerCodeRequired)
		return
	}
	gt, err := s.parseGameType(q.Get("gameType"))
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	games, err := s.source.FetchGames(r.Context(), code, gt)
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	if games == nil {
		games = []ecf.Game{}
	}

	setCacheHeaders(w, gamesCacheControl)
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

func (s *Server) handleOfficialRating(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := strings.TrimSpace(q.Get("playerCode"))
	if code == "" || strings.TrimSpace(q.Get("gameType")) == "" {
		writeError(w, http.StatusBadRequest,
			"Player code and game type are required")
		return
	}
	gt, err := s.parseGameType(q.Get("gameType"))
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	rating, err := s.source.FetchOfficialRating(r.Context(), code, gt, s.now())
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	setCacheHeaders(w, playerCacheControl)
	writeJSON(w, http.StatusOK, rating)
}

func (s *Server) handlePlayerDetails(w http.ResponseWriter, r *http.Request) {
	player, err := s.source.FetchPlayer(r.Context(),
		r.URL.Query().Get("playerCode"))
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	setCacheHeaders(w, playerCacheControl)
	writeJSON(w, http.StatusOK, player)
}

func (s *Server) handlePlayerSearch(w http.ResponseWriter, r *http.Request) {
	players, err := s.source.SearchPlayers(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	if players == nil {
		players = []ecf.Player{}
	}

	setCacheHeaders(w, searchCacheControl)
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

// handleSummary serves everything the player page shows as JSON.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	p, err := s.parsePlayerParams(r.URL.Query().Get("playerCode"), r)
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	ps, err := s.source.GetPlayerSummary(r.Context(), p.Code, p.GameType,
		s.summaryOptions(p))
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	setCacheHeaders(w, gamesCacheControl)
	writeJSON(w, http.StatusOK, ps)
}
