// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/hpl-deck/internal/chart"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

const defaultImagesDir = "output/images"

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render the HPL benchmark charts as PNG",
	Long: `Charts renders the benchmark chart sets into one images directory:

  presentation     laptop runs (GFLOPS, time, trend, results table)
  presentation_fr  French report charts (NB tuning, evolution, efficiency)
  gpu              A100 and H100 curves embedded by the results deck

All sets are rendered unless --set selects some.`,
	RunE: runCharts,
}

func init() {
	f := chartsCmd.Flags()
	f.String("out-dir", defaultImagesDir, "directory for PNG files")
	f.Int("dpi", chart.DefaultDPI, "raster resolution")
	f.StringSlice("set", nil, "chart sets to render: "+strings.Join(chart.SetNames(), ", "))

	bindFlag("charts.out_dir", f.Lookup("out-dir"))
	bindFlag("charts.dpi", f.Lookup("dpi"))
	bindFlag("charts.sets", f.Lookup("set"))

	rootCmd.AddCommand(chartsCmd)
}

func runCharts(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	cfg := types.ChartConfig{
		OutDir: viper.GetString("charts.out_dir"),
		DPI:    viper.GetInt("charts.dpi"),
		Sets:   viper.GetStringSlice("charts.sets"),
	}
	written, err := chart.Render(cfg, ds, os.Stdout)
	record(cmd.Context(), cmd, types.ArtifactChart, written, os.Stderr)
	return err
}
