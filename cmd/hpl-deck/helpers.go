// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/hpl-deck/internal/benchdata"
	"github.com/pdiddy/hpl-deck/internal/catalog"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

// bindFlag ties a config key to a flag so the flag, HPL_DECK_* variables
// and the config file all feed the same setting.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding %s: %v", key, err))
	}
}

// loadDataset returns the built-in benchmark tables unless --data names a
// replacement file.
func loadDataset() (*benchdata.Dataset, error) {
	path := viper.GetString("data")
	if path == "" {
		return benchdata.Default(), nil
	}
	slog.Info("loading benchmark data", "path", path)
	return benchdata.Load(path)
}

func catalogConfig() types.CatalogConfig {
	return types.CatalogConfig{
		Dir:      viper.GetString("catalog.dir"),
		Disabled: viper.GetBool("catalog.disabled"),
	}
}

// record adds the written files to the artifact catalog. Failures are
// reported as warnings on w and never fail the command.
func record(ctx context.Context, cmd *cobra.Command, kind types.ArtifactKind, paths []string, w io.Writer) {
	cfg := catalogConfig()
	if cfg.Disabled || len(paths) == 0 {
		return
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: artifact catalog unavailable: %v\n", err)
		return
	}
	defer store.Close()

	run := catalog.NewRun(cmd.CommandPath(), os.Args[1:])
	arts, err := store.Record(ctx, run, kind, paths)
	if err != nil {
		fmt.Fprintf(w, "warning: recording artifacts: %v\n", err)
		return
	}
	slog.Debug("artifacts recorded", "run", run.ID, "count", len(arts))
}
