/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package config holds the process configuration shared by the dashboard,
// the cli, the discord bot and the cache seeder.
package config

import (
	"fmt"
	"time"

	"github.com/mikeb26/ecfdash/ecf"
	"github.com/mikeb26/ecfdash/internal"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the dashboard's listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	API       APIConfig       `koanf:"api"`
	Cache     CacheConfig     `koanf:"cache"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Discord   DiscordConfig   `koanf:"discord"`
}

// APIConfig controls how the ECF rating api is reached.
type APIConfig struct {
	BaseURL string `koanf:"base_url"`
	// GameLimit is the maximum number of games requested per player.
	GameLimit int `koanf:"game_limit"`
	// RequestsPerSecond and Burst pace outgoing requests so we don't peg
	// the ECF servers; cached responses are not paced.
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	Timeout           time.Duration `koanf:"timeout"`
}

// CacheConfig controls the http response cache.
type CacheConfig struct {
	// Bucket is an S3 bucket; empty keeps the cache in memory.
	Bucket    string        `koanf:"bucket"`
	KeyPrefix string        `koanf:"key_prefix"`
	Gzip      bool          `koanf:"gzip"`
	GamesTTL  time.Duration `koanf:"games_ttl"`
	PlayerTTL time.Duration `koanf:"player_ttl"`
	SearchTTL time.Duration `koanf:"search_ttl"`
}

// DashboardConfig holds the menus and thresholds the dashboard offers.
type DashboardConfig struct {
	// FeaturedPlayers is the pool a random player is picked from when the
	// landing page is opened without a player code.
	FeaturedPlayers      []string `koanf:"featured_players"`
	GameTypes            []string `koanf:"game_types"`
	Windows              []string `koanf:"windows"`
	PerformanceCounts    []int    `koanf:"performance_counts"`
	DefaultPerformance   int      `koanf:"default_performance"`
	GamesPerPage         int      `koanf:"games_per_page"`
	TopOpponents         int      `koanf:"top_opponents"`
	BestResults          int      `koanf:"best_results"`
	UnreliableEventGames int      `koanf:"unreliable_event_games"`
	// RateLimit and RateBurst bound requests per client IP.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// DiscordConfig holds the bot's application credentials.
type DiscordConfig struct {
	Token     string `koanf:"token"`
	PublicKey string `koanf:"public_key"`
	AppID     string `koanf:"app_id"`
	// CommandID is the id of the registered /ecf command; empty registers a
	// new one.
	CommandID string `koanf:"command_id"`
	// CommandHash is the hash of the last registered command definition.
	CommandHash string `koanf:"command_hash"`
	Addr        string `koanf:"addr"`
}

// New creates a Config with every default applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = internal.ECFAPIBase
	}
	if c.API.GameLimit == 0 {
		c.API.GameLimit = 2000
	}
	if c.API.RequestsPerSecond == 0 {
		c.API.RequestsPerSecond = 2
	}
	if c.API.Burst == 0 {
		c.API.Burst = 4
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 20 * time.Second
	}

	if c.Cache.GamesTTL == 0 {
		c.Cache.GamesTTL = 10 * time.Minute
	}
	if c.Cache.PlayerTTL == 0 {
		c.Cache.PlayerTTL = 18 * time.Hour
	}
	if c.Cache.SearchTTL == 0 {
		c.Cache.SearchTTL = 400800 * time.Second
	}

	d := &c.Dashboard
	if len(d.FeaturedPlayers) == 0 {
		d.FeaturedPlayers = []string{
			"188586J", "293875D", "105483B", "170263E", "136665J",
			"245324B", "175386B", "263810B", "252763H", "300121A",
			"123515B", "103888G", "329301E", "305272C", "258871H",
		}
	}
	if len(d.GameTypes) == 0 {
		for _, gt := range ecf.AllGameTypes() {
			d.GameTypes = append(d.GameTypes, string(gt))
		}
	}
	if len(d.Windows) == 0 {
		for _, w := range ecf.AllWindows() {
			d.Windows = append(d.Windows, string(w))
		}
	}
	if len(d.PerformanceCounts) == 0 {
		d.PerformanceCounts = []int{5, 10, 15, 20, 25, 30, 40, 50}
	}
	if d.DefaultPerformance == 0 {
		d.DefaultPerformance = ecf.DefaultPerformanceCount
	}
	if d.GamesPerPage == 0 {
		d.GamesPerPage = ecf.DefaultGamesPerPage
	}
	if d.TopOpponents == 0 {
		d.TopOpponents = ecf.DefaultTopOpponents
	}
	if d.BestResults == 0 {
		d.BestResults = ecf.DefaultBestResults
	}
	if d.UnreliableEventGames == 0 {
		d.UnreliableEventGames = ecf.UnreliableEventGames
	}
	if d.RateLimit == 0 {
		d.RateLimit = 5
	}
	if d.RateBurst == 0 {
		d.RateBurst = 20
	}

	if c.Discord.Addr == "" {
		c.Discord.Addr = ":8081"
	}
}

// Validate checks that every menu entry names something the core knows.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.API.RequestsPerSecond < 0 || c.API.Burst < 1 {
		return fmt.Errorf("%w: api rate must be >= 0 with burst >= 1",
			ErrInvalidConfig)
	}
	if _, err := c.Dashboard.Menu(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, n := range c.Dashboard.PerformanceCounts {
		if n <= 0 {
			return fmt.Errorf("%w: performance count %v must be positive",
				ErrInvalidConfig, n)
		}
	}
	if !containsInt(c.Dashboard.PerformanceCounts, c.Dashboard.DefaultPerformance) {
		return fmt.Errorf("%w: default performance count %v is not offered",
			ErrInvalidConfig, c.Dashboard.DefaultPerformance)
	}

	return nil
}

// Menu is the typed form of the dashboard's selectable options.
type Menu struct {
	GameTypes         []ecf.GameType
	Windows           []ecf.Window
	PerformanceCounts []int
}

// Menu parses the configured game types and windows.
func (d *DashboardConfig) Menu() (*Menu, error) {
	m := &Menu{PerformanceCounts: d.PerformanceCounts}
	for _, s := range d.GameTypes {
		gt, err := ecf.ParseGameType(s)
		if err != nil {
			return nil, err
		}
		m.GameTypes = append(m.GameTypes, gt)
	}
	for _, s := range d.Windows {
		w, err := ecf.ParseWindow(s)
		if err != nil {
			return nil, err
		}
		m.Windows = append(m.Windows, w)
	}
	if len(m.GameTypes) == 0 || len(m.Windows) == 0 {
		return nil, fmt.Errorf("menus must offer at least one game type and window")
	}

	return m, nil
}

// ClientOptions converts the api and cache sections into ecf client options.
func (c *Config) ClientOptions() ecf.ClientOptions {
	return ecf.ClientOptions{
		BaseURL:           c.API.BaseURL,
		GameLimit:         c.API.GameLimit,
		RequestsPerSecond: c.API.RequestsPerSecond,
		Burst:             c.API.Burst,
		Timeout:           c.API.Timeout,
		Cache: internal.CacheOptions{
			Bucket:    c.Cache.Bucket,
			KeyPrefix: c.Cache.KeyPrefix,
			Gzip:      c.Cache.Gzip,
		},
		GamesTTL:  c.Cache.GamesTTL,
		PlayerTTL: c.Cache.PlayerTTL,
		SearchTTL: c.Cache.SearchTTL,
	}
}

func containsInt(list []int, v int) bool {
	for _, n := range list {
		if n == v {
			return true
		}
	}
	return false
}
