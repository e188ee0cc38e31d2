// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/hpl-deck/internal/catalog"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List and export the artifact catalog",
	Long: `Catalog reads the SQLite index of files written by convert, charts and
deck. Each entry carries the run id, command, size and SHA-256 digest.`,
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print recorded artifacts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.Open(catalogConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		arts, err := store.List(cmd.Context(), filterFromFlags(cmd))
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(arts)
		}
		return catalog.PrintTable(os.Stdout, arts)
	},
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog to index/export.yaml or export.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := catalog.Open(catalogConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		path, err := store.Export(cmd.Context(), format, filterFromFlags(cmd))
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	},
}

func filterFromFlags(cmd *cobra.Command) catalog.Filter {
	kind, _ := cmd.Flags().GetString("kind")
	command, _ := cmd.Flags().GetString("command")
	runID, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")
	return catalog.Filter{
		Kind:    types.ArtifactKind(kind),
		Command: command,
		RunID:   runID,
		Limit:   limit,
	}
}

func init() {
	// Shared filter flags, inherited by subcommands.
	pf := catalogCmd.PersistentFlags()
	pf.String("kind", "", "filter by artifact kind: markdown, chart or deck")
	pf.String("command", "", `filter by producing command (e.g. "hpl-deck charts")`)
	pf.String("run", "", "filter by run id")

	catalogListCmd.Flags().Int("limit", 50, "maximum rows")
	catalogListCmd.Flags().Bool("json", false, "output as JSON")
	catalogExportCmd.Flags().String("format", catalog.FormatYAML, "export format: yaml or json")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
