// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bioregistry-curator CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bioregistry-curator/internal/logger"
	"github.com/pdiddy/bioregistry-curator/internal/secrets"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is decoded from viper before any subcommand runs.
	cfg types.CuratorConfig

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets *secrets.Secrets
)

// rootCmd is the base command for the bioregistry-curator CLI.
var rootCmd = &cobra.Command{
	Use:   "bioregistry-curator",
	Short: "Draft bioregistry entries from PubMed publications",
	Long: `bioregistry-curator turns the PubMed ID of a paper that describes a biological
database into a draft registry entry. It fetches the publication metadata,
picks the database homepage, scrapes structural fields from it, and merges
the results with per-field provenance.

It also ranks the publications that still need curating, keeps a local
record of what has been curated, and serves all of this over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = types.LoadConfig(viper.GetViper())
		if err != nil {
			return fmt.Errorf("decoding configuration: %w", err)
		}
		if err := logger.Initialize(cfg.Log); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		loadedSecrets, err = secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		if keys := loadedSecrets.Keys(); len(keys) > 0 {
			logger.Logger.Debugw("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bioregistry-curator.yaml or ~/.config/bioregistry-curator/bioregistry-curator.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	types.SetDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bioregistry-curator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bioregistry-curator"))
		}
	}

	viper.SetEnvPrefix("CURATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
