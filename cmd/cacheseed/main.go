/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mikeb26/ecfdash/config"
	"github.com/mikeb26/ecfdash/ecf"
	"github.com/mikeb26/ecfdash/internal"
)

// this program exists just to seed the http cache for the featured players

// ecfSource is the subset of ecf.Client that seeding touches.
type ecfSource interface {
	FetchPlayer(ctx context.Context, code string) (*ecf.Player, error)
	FetchGames(ctx context.Context, code string, gt ecf.GameType) ([]ecf.Game, error)
	FetchOfficialRating(ctx context.Context, code string, gt ecf.GameType,
		asOf time.Time) (*ecf.OfficialRating, error)
}

// seed fetches every featured player's details and, per game type, their
// games and official rating. Failures are logged and skipped. It returns the
// number of successful fetches.
func seed(ctx context.Context, source ecfSource, codes []string,
	gameTypes []ecf.GameType, asOf time.Time) int {

	log := zap.L().Named("cacheseed")
	seeded := 0

	for _, code := range codes {
		if ctx.Err() != nil {
			break
		}
		player, err := source.FetchPlayer(ctx, code)
		if err != nil {
			// best effort
			log.Warn("failed to seed player", zap.String("code", code),
				zap.Error(err))
			continue
		}
		seeded++
		fmt.Printf("seeded %v player data\n", player.Name)

		for _, gt := range gameTypes {
			if _, err := source.FetchGames(ctx, code, gt); err != nil {
				log.Warn("failed to seed games", zap.String("code", code),
					zap.String("type", string(gt)), zap.Error(err))
			} else {
				seeded++
				fmt.Printf("seeded %v %v games\n", player.Name, gt)
			}
			if _, err := source.FetchOfficialRating(ctx, code, gt, asOf); err != nil {
				log.Warn("failed to seed rating", zap.String("code", code),
					zap.String("type", string(gt)), zap.Error(err))
			} else {
				seeded++
			}
		}
	}

	return seeded
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cacheseed: %v\n", err)
		os.Exit(1)
	}
	log, err := internal.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cacheseed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	menu, err := cfg.Dashboard.Menu()
	if err != nil {
		log.Fatal("invalid dashboard config", zap.Error(err))
	}

	ctx := context.Background()
	// the client's limiter paces requests to the ECF
	client := ecf.NewClient(ctx, cfg.ClientOptions())
	n := seed(ctx, client, cfg.Dashboard.FeaturedPlayers, menu.GameTypes,
		time.Now())
	log.Info("seeding complete", zap.Int("fetches", n))
}
