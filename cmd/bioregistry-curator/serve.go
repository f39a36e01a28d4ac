// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bioregistry-curator/internal/api"
	"github.com/pdiddy/bioregistry-curator/internal/backlog"
	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/internal/logger"
	"github.com/pdiddy/bioregistry-curator/internal/pipeline"
	"github.com/pdiddy/bioregistry-curator/internal/registry"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction and backlog API over HTTP",
	Long: `Serve starts the HTTP API used by the curation web client:

  POST /extract        draft a registry entry
  GET  /pmid-rankings  ranked backlog (also GET /backlog)
  GET  /health         liveness

The OpenAPI document is served at /openapi.json and browsable at /docs.
When backlog.source_file is set the file is reloaded whenever it changes.`,
	RunE: runServe,
}

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the OpenAPI document of the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := api.NewServer(cfg.Server, nil, nil, version)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(srv.API().OpenAPI())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(openapiCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.Logger

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	p, err := pipeline.FromConfig(ctx, cfg, loadedSecrets)
	if err != nil {
		return err
	}

	store, err := registry.Open(cfg.Registry.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	dataset := backlog.NewDataset(cfg.Backlog)
	if fd, ok := dataset.(*backlog.FileDataset); ok {
		go func() {
			if err := fd.Watch(ctx); err != nil {
				log.Warnw("backlog file watch stopped", "path", cfg.Backlog.SourceFile, "error", err)
			}
		}()
	}
	svc := backlog.NewService(dataset, store,
		backlog.ByColumn(cfg.Backlog.RankColumn, cfg.Backlog.RankDescending))

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(cfg.Server, p, svc, version),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", addr, "agent", cfg.Scrape.Agent)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
