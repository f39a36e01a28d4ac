// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/pdiddy/bioregistry-curator/internal/httputil"
	"github.com/pdiddy/bioregistry-curator/internal/registry"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

var curatedCmd = &cobra.Command{
	Use:   "curated",
	Short: "Manage the record of publications that already have registry entries",
	Long: `Curated manages a local SQLite record of curated publications. The backlog
excludes every publication recorded here.`,
}

// --- import subcommand ---

var curatedImportCmd = &cobra.Command{
	Use:   "import [source]",
	Short: "Import cited PubMed IDs from a bioregistry registry export",
	Long: `Import reads a bioregistry.json export (URL or local path; default
registry.registry_url) and records the PubMed ID of every publication it
cites, together with the prefix of the citing resource.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCuratedImport,
}

func runCuratedImport(cmd *cobra.Command, args []string) error {
	source := cfg.Registry.RegistryURL
	if len(args) == 1 {
		source = args[0]
	}

	store, err := registry.Open(cfg.Registry.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	client := httputil.NewClient(types.HTTPConfig{Timeout: 2 * time.Minute, UserAgent: cfg.Backlog.UserAgent})
	spinner, _ := pterm.DefaultSpinner.Start("Importing " + source)
	n, err := registry.NewImporter(client, cfg.Backlog.MaxRetries).Import(cmd.Context(), store, source)
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success(fmt.Sprintf("Recorded %d curated publications", n))
	return nil
}

// --- add subcommand ---

var curatedAddCmd = &cobra.Command{
	Use:   "add <pmid>...",
	Short: "Mark publications as curated",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCuratedAdd,
}

func runCuratedAdd(cmd *cobra.Command, args []string) error {
	prefix, _ := cmd.Flags().GetString("prefix")

	pubs := make([]registry.Publication, 0, len(args))
	for _, raw := range args {
		id, ok := types.ParseIdentifier(raw)
		if !ok {
			return fmt.Errorf("invalid PMID %q", raw)
		}
		pubs = append(pubs, registry.Publication{Identifier: id, Prefix: prefix, Source: registry.SourceManual})
	}

	store, err := registry.Open(cfg.Registry.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.MarkCuratedBatch(cmd.Context(), pubs)
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Marked %d publication(s) curated", n)
	return nil
}

// --- list subcommand ---

var curatedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List curated publications, most recent first",
	RunE:  runCuratedList,
}

func runCuratedList(cmd *cobra.Command, args []string) error {
	prefix, _ := cmd.Flags().GetString("prefix")
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetUint64("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := registry.Open(cfg.Registry.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	pubs, err := store.List(cmd.Context(), registry.ListOptions{Prefix: prefix, Source: source, Limit: limit})
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(os.Stdout, pubs)
	}
	if len(pubs) == 0 {
		pterm.Info.Println("No curated publications recorded.")
		return nil
	}

	data := pterm.TableData{{"PMID", "Prefix", "Source", "Curated"}}
	for _, p := range pubs {
		data = append(data, []string{string(p.Identifier), p.Prefix, p.Source, p.CuratedAt.Local().Format("2006-01-02 15:04")})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func init() {
	curatedAddCmd.Flags().String("prefix", "", "registry prefix of the resource the publications describe")

	curatedListCmd.Flags().String("prefix", "", "only publications of this prefix")
	curatedListCmd.Flags().String("source", "", "only publications from this source (import or manual)")
	curatedListCmd.Flags().Uint64("limit", 50, "maximum publications to list (0 for all)")
	curatedListCmd.Flags().Bool("json", false, "output as JSON")

	curatedCmd.AddCommand(curatedImportCmd)
	curatedCmd.AddCommand(curatedAddCmd)
	curatedCmd.AddCommand(curatedListCmd)
	rootCmd.AddCommand(curatedCmd)
}
