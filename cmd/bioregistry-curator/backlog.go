// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/pdiddy/bioregistry-curator/internal/backlog"
	"github.com/pdiddy/bioregistry-curator/internal/registry"
)

var backlogCmd = &cobra.Command{
	Use:   "backlog",
	Short: "Rank publications that still need a registry entry",
	Long: `Backlog loads the scored candidate publications, removes those already
recorded as curated (see "curated import" and "curated add"), and prints the
rest best first.`,
	RunE: runBacklog,
}

func init() {
	backlogCmd.Flags().Int("limit", 20, "maximum entries to show (0 for all)")
	backlogCmd.Flags().Bool("json", false, "output the backlog as JSON")

	rootCmd.AddCommand(backlogCmd)
}

// newBacklogService wires the configured dataset to the curated store.
func newBacklogService(store *registry.Store) *backlog.Service {
	return backlog.NewService(
		backlog.NewDataset(cfg.Backlog),
		store,
		backlog.ByColumn(cfg.Backlog.RankColumn, cfg.Backlog.RankDescending),
	)
}

func runBacklog(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := registry.Open(cfg.Registry.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := newBacklogService(store).Backlog(cmd.Context())
	if err != nil {
		return reportError(err)
	}

	total := len(res.Entries)
	entries := res.Entries
	if limit > 0 && limit < total {
		entries = entries[:limit]
	}

	if asJSON {
		return writeJSON(os.Stdout, entries)
	}

	if total == 0 {
		pterm.Success.Println("Nothing left to curate.")
		return nil
	}
	if res.Stale {
		pterm.Warning.Printfln("Candidate source unreachable; showing data loaded %s", res.CachedAt.Format("2006-01-02 15:04"))
	}

	data := pterm.TableData{{"Rank", "PMID", "Title"}}
	for _, e := range entries {
		data = append(data, []string{strconv.Itoa(e.Rank), string(e.Identifier), e.DisplayLabel})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Info.Printfln("Showing %d of %d uncurated publications", len(entries), total)
	return nil
}
