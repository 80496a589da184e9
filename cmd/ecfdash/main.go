/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mikeb26/ecfdash/config"
	"github.com/mikeb26/ecfdash/dashboard"
	"github.com/mikeb26/ecfdash/ecf"
	"github.com/mikeb26/ecfdash/internal"
)

// ecfdash serves the rating dashboard and its json api.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ecfdash: %v\n", err)
		os.Exit(1)
	}
	log, err := internal.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ecfdash: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	client := ecf.NewClient(ctx, cfg.ClientOptions())
	srv, err := dashboard.New(client, cfg.Dashboard)
	if err != nil {
		log.Fatal("failed to initialize dashboard", zap.Error(err))
	}

	if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
		log.Error("server exited", zap.Error(err))
		stop()
		os.Exit(1)
	}
	log.Info("exiting")
}
