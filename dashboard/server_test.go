/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mikeb26/ecfdash/config"
	"github.com/mikeb26/ecfdash/ecf"
)

var testNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int {
	return &v
}

// fakeSource serves a fixed player with 25 standard games and no games of
// any other type.
type fakeSource struct {
	games      []ecf.Game
	failGames  bool
	lastOpts   ecf.SummaryOptions
	searchSeen string
}

func newFakeSource() *fakeSource {
	var games []ecf.Game
	rating := 1900
	for i := 0; i < 25; i++ {
		d := testNow.AddDate(0, 0, -3*i-1)
		score := ecf.ScoreWin
		if i%3 == 1 {
			score = ecf.ScoreDraw
		} else if i%3 == 2 {
			score = ecf.ScoreLoss
		}
		ev := fmt.Sprintf("E%v", i/4)
		games = append(games, ecf.Game{
			GameDate:       ecf.DateOf(d),
			Colour:         "W",
			Score:          score,
			OpponentName:   fmt.Sprintf("Opponent %v", i%6),
			OpponentNo:     fmt.Sprintf("%06vA", i%6),
			OpponentRating: 1800 + 10*i,
			PlayerRating:   intPtr(rating - i),
			Increment:      intPtr(1),
			EventCode:      ev,
			EventName:      "Event " + ev,
		})
	}
	return &fakeSource{games: games}
}

func (f *fakeSource) FetchGames(ctx context.Context, code string,
	gt ecf.GameType) ([]ecf.Game, error) {

	if f.failGames {
		return nil, fmt.Errorf("%w: unexpected games status 503", ecf.ErrUpstream)
	}
	if gt != ecf.GameTypeStandard {
		return nil, nil
	}
	return f.games, nil
}

func (f *fakeSource) FetchPlayer(ctx context.Context,
	code string) (*ecf.Player, error) {

	if strings.TrimSpace(code) == "" {
		return nil, ecf.ErrPlayerCodeRequired
	}
	return &ecf.Player{Name: "Doe, Jane", Code: code, Club: "Hastings"}, nil
}

func (f *fakeSource) FetchOfficialRating(ctx context.Context, code string,
	gt ecf.GameType, asOf time.Time) (*ecf.OfficialRating, error) {

	return &ecf.OfficialRating{Success: true, Rating: 1880, Category: "A",
		EffectiveDate: ecf.NewDate(2024, 3, 1)}, nil
}

func (f *fakeSource) SearchPlayers(ctx context.Context,
	name string) ([]ecf.Player, error) {

	f.searchSeen = name
	if len(name) < ecf.MinSearchLength {
		return nil, ecf.ErrSearchTooShort
	}
	return []ecf.Player{{Name: "Doe, Jane", Code: "123456A", Club: "Hastings"}}, nil
}

func (f *fakeSource) GetPlayerSummary(ctx context.Context, code string,
	gt ecf.GameType, opts ecf.SummaryOptions) (*ecf.PlayerSummary, error) {

	f.lastOpts = opts
	games, err := f.FetchGames(ctx, code, gt)
	if err != nil {
		return nil, err
	}
	player, _ := f.FetchPlayer(ctx, code)
	official, _ := f.FetchOfficialRating(ctx, code, gt, opts.Now)
	return &ecf.PlayerSummary{
		Player:   player,
		GameType: gt,
		Official: official,
		Raw:      games,
		Summary:  ecf.Summarize(games, opts),
	}, nil
}

func newTestServer(t *testing.T) (*Server, *fakeSource, http.Handler) {
	t.Helper()
	src := newFakeSource()
	cfg := config.New()
	srv, err := New(src, cfg.Dashboard)
	require.NoError(t, err)
	srv.now = func() time.Time { return testNow }
	srv.randIndex = func(n int) int { return 0 }
	return srv, src, srv.Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	return doc
}

func TestIndex(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)
	require.Equal(t, len(config.New().Dashboard.FeaturedPlayers),
		doc.Find("#featured li").Length())
	href, ok := doc.Find("#random-player").Attr("href")
	require.True(t, ok)
	require.Equal(t, "/player/"+config.New().Dashboard.FeaturedPlayers[0], href)
	require.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestIndexRedirect(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := get(t, h, "/?playerCode=123456a")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/player/123456A", rec.Header().Get("Location"))
}

func TestIndexSearch(t *testing.T) {
	_, src, h := newTestServer(t)

	rec := get(t, h, "/?name=Doe")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Doe", src.searchSeen)
	doc := parseHTML(t, rec)
	link := doc.Find("#search-results a").First()
	require.Equal(t, "Doe, Jane", link.Text())
	href, _ := link.Attr("href")
	require.Equal(t, "/player/123456A", href)

	rec = get(t, h, "/?name=Do")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	doc = parseHTML(t, rec)
	require.Contains(t, doc.Find("#error-message").Text(), "at least 3 characters")
}

func TestPlayerPage(t *testing.T) {
	_, src, h := newTestServer(t)

	rec := get(t, h, "/player/123456A?perf=5")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 5, src.lastOpts.PerformanceCount)
	require.Equal(t, ecf.WindowAll, src.lastOpts.Window)

	doc := parseHTML(t, rec)
	require.Equal(t, "Doe, Jane", doc.Find("#player h1").Text())
	require.Equal(t, "1880", strings.TrimSpace(doc.Find("#official-rating").Text()))
	require.Equal(t, "1900", strings.TrimSpace(doc.Find("#live-rating").Text()))
	require.Equal(t, 1, doc.Find("#game-types a.active").Length())
	require.Equal(t, "Standard", doc.Find("#game-types a.active").Text())
	require.Equal(t, "5", doc.Find("#perf-counts a.active").Text())
	require.Equal(t, 7, doc.Find("#events .event").Length())
	// the last event only holds one game
	require.Equal(t, 1, doc.Find("#events .event.unreliable").Length())
	require.Equal(t, 3, doc.Find("#best-results tr").Length()-1)
	require.Equal(t, 6, doc.Find("#opponents tr").Length()-1)

	src2, ok := doc.Find("#chart").Attr("src")
	require.True(t, ok)
	require.Equal(t, "/player/123456A/chart.png?type=Standard&window=all", src2)
}

func TestPlayerPageGamesPagination(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := get(t, h, "/player/123456A?group=games&page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)
	require.Equal(t, 5, doc.Find("#games tr").Length()-1)
	require.Contains(t, doc.Find("#pagination").Text(), "Page 2 of 2")
	prev, ok := doc.Find(`#pagination a[rel="prev"]`).Attr("href")
	require.True(t, ok)
	require.Contains(t, prev, "page=1")
	require.Contains(t, prev, "group=games")
	require.Zero(t, doc.Find(`#pagination a[rel="next"]`).Length())
}

func TestPlayerPageWindowAndType(t *testing.T) {
	_, src, h := newTestServer(t)

	rec := get(t, h, "/player/123456A?type=Rapid&window=3m")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, ecf.Window3m, src.lastOpts.Window)
	doc := parseHTML(t, rec)
	require.Equal(t, 1, doc.Find("#no-games").Length())
	require.Equal(t, "3m", doc.Find("#windows a.active").Text())
}

func TestPlayerPageBadInput(t *testing.T) {
	_, src, h := newTestServer(t)

	for _, target := range []string{
		"/player/123456A?type=Bullet",
		"/player/123456A?window=10y",
		"/player/123456A?perf=7",
	} {
		rec := get(t, h, target)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	src.failGames = true
	rec := get(t, h, "/player/123456A")
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAPIChessResults(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := get(t, h, "/api/chess-results?playerCode=123456A")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, gamesCacheControl, rec.Header().Get("Cache-Control"))
	require.Equal(t, "query", rec.Header().Get("Netlify-Vary"))

	var resp struct {
		Games []ecf.Game `json:"games"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Games, 25)

	rec = get(t, h, "/api/chess-results")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, ecf.ErrPlayerCodeRequired.Error(), errResp.Error)
}

func TestAPIOfficialRating(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := get(t, h, "/api/official-rating?playerCode=123456A&gameType=Standard")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, playerCacheControl, rec.Header().Get("Cache-Control"))
	var rating ecf.OfficialRating
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rating))
	require.Equal(t, 1880, rating.Rating)
	require.True(t, rating.Success)

	rec = get(t, h, "/api/official-rating?playerCode=123456A")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIPlayerDetailsAndSearch(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := get(t, h, "/api/player-details?playerCode=123456A")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"full_name":"Doe, Jane"`)

	rec = get(t, h, "/api/player-details")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h, "/api/player-search?name=Doe")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, searchCacheControl, rec.Header().Get("Cache-Control"))
	require.Contains(t, rec.Body.String(), `"ECF_code":"123456A"`)

	rec = get(t, h, "/api/player-search?name=Do")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "at least 3 characters")
}

func TestAPISummary(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := get(t, h, "/api/summary?playerCode=123456A&window=1y&perf=20")
	require.Equal(t, http.StatusOK, rec.Code)

	var ps struct {
		Summary struct {
			Window           string `json:"window"`
			PerformanceCount int    `json:"performanceCount"`
			LiveRating       *int   `json:"liveRating"`
			Games            []any  `json:"games"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ps))
	require.Equal(t, "1y", ps.Summary.Window)
	require.Equal(t, 20, ps.Summary.PerformanceCount)
	require.NotNil(t, ps.Summary.LiveRating)
	require.Len(t, ps.Summary.Games, 25)

	rec = get(t, h, "/api/summary?playerCode=123456A&gameType=Bullet")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartAndExport(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := get(t, h, "/player/123456A/chart.png")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	// no rapid games: the placeholder is still a png
	rec = get(t, h, "/player/123456A/chart.png?type=Rapid")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	require.Equal(t, chartWidth/2, img.Bounds().Dx())

	rec = get(t, h, "/player/123456A/games.xlsx?window=all")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "123456A-Standard-all.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{gamesSheet, eventsSheet, opponentsSheet}, f.GetSheetList())

	rows, err := f.GetRows(gamesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 26)
	require.Equal(t, "Date", rows[0][0])

	rows, err = f.GetRows(opponentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 7)
}

func TestHealthzAndMetrics(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ecfdash_http_requests_total")
}

func TestRateLimit(t *testing.T) {
	src := newFakeSource()
	cfg := config.New()
	cfg.Dashboard.RateLimit = 0.001
	cfg.Dashboard.RateBurst = 2
	srv, err := New(src, cfg.Dashboard)
	require.NoError(t, err)
	h := srv.Handler()

	require.Equal(t, http.StatusOK, get(t, h, "/about").Code)
	require.Equal(t, http.StatusOK, get(t, h, "/about").Code)
	require.Equal(t, http.StatusTooManyRequests, get(t, h, "/about").Code)
	// operational routes are not limited
	require.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
}

func TestRequestIDPropagation(t *testing.T) {
	_, _, h := newTestServer(t)

	const id = "5f1b1c52-3a8e-4d5c-9f8e-0c8b7a6d5e4f"
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}
