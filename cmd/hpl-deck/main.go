// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the hpl-deck CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/hpl-deck/internal/envfile"
	"github.com/pdiddy/hpl-deck/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// closeLog releases the log file opened in PersistentPreRunE. It is safe to
// call more than once.
var closeLog = func() error { return nil }

// setupLogging installs the process logger.
var setupLogging = logging.Setup

// rootCmd is the base command for the hpl-deck CLI.
var rootCmd = &cobra.Command{
	Use:   "hpl-deck",
	Short: "Charts and slide decks for the HPL benchmark report",
	Long: `hpl-deck turns the HPL (High-Performance Linpack) benchmark results into
report material: it converts the written report from PDF to Markdown,
renders the benchmark charts, builds the results slide decks and
assembles the final presentation.

Every file written is recorded in an artifact catalog (output/index/artifacts.db)
that the catalog subcommand lists and exports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		closeFn, err := setupLogging(logging.Options{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
			File:   viper.GetString("log.file"),
		})
		if err != nil {
			return err
		}
		closeLog = sync.OnceValue(closeFn)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./hpl-deck.yaml or ~/.config/hpl-deck/config.yaml)")
	pf.String("env-file", envfile.DefaultFile, "dotenv file loaded before configuration")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.String("log-format", logging.FormatText, "log format: text or json")
	pf.String("log-file", "", "also append JSON logs to this file")
	pf.String("data", "", "benchmark data YAML replacing the built-in tables")
	pf.String("catalog-dir", "output", "artifact catalog directory (index/artifacts.db)")
	pf.Bool("no-catalog", false, "do not record written files in the catalog")

	bindFlag("log.level", pf.Lookup("log-level"))
	bindFlag("log.format", pf.Lookup("log-format"))
	bindFlag("log.file", pf.Lookup("log-file"))
	bindFlag("data", pf.Lookup("data"))
	bindFlag("catalog.dir", pf.Lookup("catalog-dir"))
	bindFlag("catalog.disabled", pf.Lookup("no-catalog"))
}

func initConfig() {
	envFile, _ := rootCmd.PersistentFlags().GetString("env-file")
	if keys, err := envfile.Load(envFile); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	} else if len(keys) > 0 {
		fmt.Fprintf(os.Stderr, "Loaded %s: %v\n", envFile, keys)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("hpl-deck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "hpl-deck"))
		}
	}

	viper.SetEnvPrefix("HPL_DECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// run executes the CLI with args. The log file is closed here as well
// because cobra skips PersistentPostRunE when a command fails.
func run(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, closeLog())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}
