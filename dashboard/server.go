/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package dashboard serves the ECF rating dashboard: html pages, a rating
// chart, a spreadsheet export and a small JSON api mirroring the ECF proxy
// routes.
package dashboard

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mikeb26/ecfdash/config"
	"github.com/mikeb26/ecfdash/ecf"
	"github.com/mikeb26/ecfdash/internal"
)

//go:embed templates/*.html
var templateFS embed.FS

// PlayerSource is the subset of ecf.Client the dashboard reads from.
type PlayerSource interface {
	FetchGames(ctx context.Context, code string, gt ecf.GameType) ([]ecf.Game, error)
	FetchPlayer(ctx context.Context, code string) (*ecf.Player, error)
	FetchOfficialRating(ctx context.Context, code string, gt ecf.GameType,
		asOf time.Time) (*ecf.OfficialRating, error)
	SearchPlayers(ctx context.Context, name string) ([]ecf.Player, error)
	GetPlayerSummary(ctx context.Context, code string, gt ecf.GameType,
		opts ecf.SummaryOptions) (*ecf.PlayerSummary, error)
}

type Server struct {
	source    PlayerSource
	cfg       config.DashboardConfig
	menu      *config.Menu
	pages     map[string]*template.Template
	limiter   *IPRateLimiter
	log       *zap.Logger
	now       func() time.Time
	randIndex func(n int) int
}

func New(source PlayerSource, cfg config.DashboardConfig) (*Server, error) {
	menu, err := cfg.Menu()
	if err != nil {
		return nil, fmt.Errorf("building dashboard menus: %w", err)
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Server{
		source:    source,
		cfg:       cfg,
		menu:      menu,
		pages:     pages,
		limiter:   NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		log:       zap.L().Named("dashboard"),
		now:       time.Now,
		randIndex: rand.IntN,
	}, nil
}

// Handler returns the dashboard's routes wrapped in its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(AccessLogMiddleware(s.log))
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", internal.MetricsHandler())

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(s.limiter))

		r.Get("/", s.handleIndex)
		r.Get("/about", s.handleAbout)
		r.Route("/player/{code}", func(r chi.Router) {
			r.Get("/", s.handlePlayer)
			r.Get("/chart.png", s.handleChart)
			r.Get("/games.xlsx", s.handleExport)
		})
		r.Route("/api", func(r chi.Router) {
			r.Get("/chess-results", s.handleChessResults)
			r.Get("/official-rating", s.handleOfficialRating)
			r.Get("/player-details", s.handlePlayerDetails)
			r.Get("/player-search", s.handlePlayerSearch)
			r.Get("/summary", s.handleSummary)
		})
	})

	return r
}

// ListenAndServe serves the dashboard on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("dashboard server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
