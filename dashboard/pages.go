/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mikeb26/ecfdash/config"
	"github.com/mikeb26/ecfdash/ecf"
)

var pageFuncs = template.FuncMap{
	"rating": func(r *int) string {
		if r == nil {
			return "-"
		}
		return strconv.Itoa(*r)
	},
	"add": func(a, b int) int { return a + b },
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"index.html", "player.html", "about.html",
		"error.html"} {

		t, err := template.New(name).Funcs(pageFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %v: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int,
	name string, data any) {

	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.Error("rendering template", zap.String("template", name),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

type errorPage struct {
	Status  int
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Warn("page request failed", zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err))
	}
	s.render(w, r, status, "error.html", &errorPage{Status: status,
		Message: err.Error()})
}

type indexPage struct {
	Featured []string
	Random   string
	Query    string
	Results  []ecf.Player
	Searched bool
}

// handleIndex serves the landing page. ?playerCode= jumps straight to that
// player and ?name= searches by name.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if code := strings.TrimSpace(q.Get("playerCode")); code != "" {
		http.Redirect(w, r, "/player/"+url.PathEscape(strings.ToUpper(code)),
			http.StatusFound)
		return
	}

	page := &indexPage{Featured: s.cfg.FeaturedPlayers}
	if len(page.Featured) > 0 {
		page.Random = page.Featured[s.randIndex(len(page.Featured))]
	}
	if name := strings.TrimSpace(q.Get("name")); name != "" {
		players, err := s.source.SearchPlayers(r.Context(), name)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		page.Query = name
		page.Results = players
		page.Searched = true
	}

	s.render(w, r, http.StatusOK, "index.html", page)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "about.html", nil)
}

type playerPage struct {
	Code          string
	GameType      ecf.GameType
	Window        ecf.Window
	Perf          int
	Player        *ecf.Player
	Official      *ecf.OfficialRating
	Summary       *ecf.Summary
	Menu          *config.Menu
	GroupByEvent  bool
	Page          int
	TotalPages    int
	PageGames     []ecf.Game
	MinEventGames int
}

// Link returns the url of this page with one query parameter replaced.
func (p *playerPage) Link(key string, value any) string {
	q := url.Values{}
	q.Set("type", string(p.GameType))
	q.Set("window", string(p.Window))
	q.Set("perf", strconv.Itoa(p.Perf))
	if !p.GroupByEvent {
		q.Set("group", "games")
	}
	q.Set(key, fmt.Sprint(value))
	if key != "page" {
		q.Del("page")
	}
	return "/player/" + url.PathEscape(p.Code) + "?" + q.Encode()
}

// AssetLink returns the url of one of the player's assets (chart, export)
// for the current game type and window.
func (p *playerPage) AssetLink(asset string) string {
	q := url.Values{}
	q.Set("type", string(p.GameType))
	q.Set("window", string(p.Window))
	return "/player/" + url.PathEscape(p.Code) + "/" + asset + "?" + q.Encode()
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	p, err := s.parsePlayerParams(chi.URLParam(r, "code"), r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	ps, err := s.source.GetPlayerSummary(r.Context(), p.Code, p.GameType,
		s.summaryOptions(p))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	page := &playerPage{
		Code:          p.Code,
		GameType:      p.GameType,
		Window:        p.Window,
		Perf:          p.Perf,
		Player:        ps.Player,
		Official:      ps.Official,
		Summary:       ps.Summary,
		Menu:          s.menu,
		GroupByEvent:  r.URL.Query().Get("group") != "games",
		MinEventGames: s.cfg.UnreliableEventGames,
	}
	pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
	page.PageGames, page.TotalPages = ecf.Paginate(ps.Summary.Games, pageNum,
		s.cfg.GamesPerPage)
	page.Page = clampPage(pageNum, page.TotalPages)

	s.render(w, r, http.StatusOK, "player.html", page)
}

func clampPage(page int, totalPages int) int {
	if page < 1 || totalPages == 0 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
