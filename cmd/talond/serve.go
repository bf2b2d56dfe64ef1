package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagalu/talon/internal/config"
	"github.com/sagalu/talon/internal/metrics"
	"github.com/sagalu/talon/server"
	"github.com/sagalu/talon/server/httpapi"
	"github.com/sagalu/talon/shard"
)

func newServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the talond TCP and HTTP front ends",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a .talond.yaml config file")

	return cmd
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("talond: loading config: %w", err)
	}

	log := logrus.StandardLogger()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	entry := logrus.NewEntry(log)

	reg := metrics.NewRegistry(prometheus.DefaultRegisterer)

	tbl := shard.New(cfg.DataDir, cfg.ShardCount, cfg.Resolution, reg)

	srv := server.New(
		server.Config{TCPAddr: cfg.TCPAddr, HTTPAddr: cfg.HTTPAddr},
		tbl,
		httpapi.New(tbl, entry),
		entry,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	runErr := srv.Run(ctx)

	if closeErr := tbl.Close(context.Background()); closeErr != nil {
		entry.WithError(closeErr).Error("talond: error closing timelines")
	}

	return runErr
}
