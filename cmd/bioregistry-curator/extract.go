// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/internal/merge"
	"github.com/pdiddy/bioregistry-curator/internal/pipeline"
	"github.com/pdiddy/bioregistry-curator/internal/validation"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <pmid>",
	Short: "Draft a registry entry from a PubMed ID",
	Long: `Extract fetches the publication, resolves the database homepage from its
abstract (or uses --url), scrapes structural fields from the homepage, and
prints the merged draft entry.

A failed scrape is not an error: the draft then carries the bibliographic
fields only and the scrape failure is reported on stderr.

Formats: yaml (default), json, bioregistry (an object keyed by prefix in
the shape of the bioregistry registry).`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("url", "", "database homepage; skips URL resolution")
	extractCmd.Flags().String("contributor-name", "", "curator name credited on the draft")
	extractCmd.Flags().String("contributor-email", "", "curator email")
	extractCmd.Flags().String("contributor-orcid", "", "curator ORCID (0000-0000-0000-0000)")
	extractCmd.Flags().String("contributor-github", "", "curator GitHub handle")
	extractCmd.Flags().String("format", "yaml", "output format: yaml, json or bioregistry")
	extractCmd.Flags().String("out", "", "write the draft to this file instead of stdout")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")
	override, _ := cmd.Flags().GetString("url")

	contributor := contributorFromFlags(cmd)
	if err := validation.New().Validate(contributor); err != nil {
		return reportError(err)
	}

	ctx := cmd.Context()
	p, err := pipeline.FromConfig(ctx, cfg, loadedSecrets)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx, pipeline.Request{
		Identifier:  args[0],
		Contributor: contributor,
		URLOverride: override,
	})
	if err != nil {
		return reportError(err)
	}
	if !res.Scrape.Success && res.Scrape.ErrorDetail != nil {
		fmt.Fprintf(os.Stderr, "warning: scrape of %s failed (%s): %s\n",
			res.Scrape.SourceURL, res.Scrape.ErrorDetail.Kind, res.Scrape.ErrorDetail.Message)
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		if dir := filepath.Dir(outPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	if err := writeDraft(w, res.Entry, format); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "Draft for PMID %s written to %s\n", res.Entry.Identifier, outPath)
	}
	return nil
}

func contributorFromFlags(cmd *cobra.Command) types.ContributorInfo {
	var c types.ContributorInfo
	c.Name, _ = cmd.Flags().GetString("contributor-name")
	c.Email, _ = cmd.Flags().GetString("contributor-email")
	c.ORCID, _ = cmd.Flags().GetString("contributor-orcid")
	c.GitHub, _ = cmd.Flags().GetString("contributor-github")
	return c
}

func writeDraft(w io.Writer, entry types.DraftRegistryEntry, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("encoding draft: %w", err)
		}
		return enc.Close()
	case "json":
		return writeJSON(w, entry)
	case "bioregistry":
		return writeJSON(w, merge.ToBioregistry(entry))
	default:
		return fmt.Errorf("unknown format %q (want yaml, json or bioregistry)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportError prints the curator-facing message and hint of a kinded error.
func reportError(err error) error {
	fmt.Fprintf(os.Stderr, "%s: %s\n", errors.KindOf(err), errors.UserMessage(err))
	if hint := errors.Hint(err); hint != "" {
		fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
	}
	return err
}
