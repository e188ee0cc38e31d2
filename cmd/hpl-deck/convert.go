// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/hpl-deck/internal/convert"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

const defaultUserAgent = "hpl-deck/0.1"

var convertCmd = &cobra.Command{
	Use:   "convert [pdfs...]",
	Short: "Convert PDF reports to Markdown",
	Long: `Convert transforms PDF files into Markdown with YAML frontmatter.
Without arguments it converts HPL_report_section.pdf into HPL_report.md.

Backends: docling and markitdown (container images run with docker or
podman), docling-serve (HTTP API), pdftotext (poppler) and native (built-in
text extraction with page markers). Existing output is overwritten unless
--skip-existing is given.`,
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.String("backend", string(convert.DefaultBackend), "conversion backend: "+backendNames())
	f.String("out-dir", "", "directory for Markdown output (default: next to each PDF)")
	f.String("out", "", "output file name for a single PDF (default: HPL_report.md for the default input)")
	f.String("server-url", "", "docling-serve base URL (default http://localhost:5001)")
	f.Duration("timeout", 0, "HTTP timeout for docling-serve (default 5m)")
	f.Int("max-retries", 0, "retries on HTTP 429/503 (default 5)")
	f.Bool("skip-existing", false, "leave existing Markdown untouched")

	bindFlag("convert.backend", f.Lookup("backend"))
	bindFlag("convert.out_dir", f.Lookup("out-dir"))
	bindFlag("convert.server_url", f.Lookup("server-url"))
	bindFlag("convert.timeout", f.Lookup("timeout"))
	bindFlag("convert.max_retries", f.Lookup("max-retries"))
	bindFlag("convert.skip_existing", f.Lookup("skip-existing"))

	rootCmd.AddCommand(convertCmd)
}

func backendNames() string {
	names := make([]string, len(types.Backends))
	for i, b := range types.Backends {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}

func runConvert(cmd *cobra.Command, args []string) error {
	outName, _ := cmd.Flags().GetString("out")
	if len(args) == 0 {
		args = []string{convert.DefaultInput}
		if outName == "" {
			outName = convert.DefaultOutput
		}
	}

	cfg := types.ConversionConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    viper.GetDuration("convert.timeout"),
			UserAgent:  defaultUserAgent,
			MaxRetries: viper.GetInt("convert.max_retries"),
		},
		Backend:      types.ConversionBackend(viper.GetString("convert.backend")),
		OutDir:       viper.GetString("convert.out_dir"),
		OutName:      outName,
		ServerURL:    viper.GetString("convert.server_url"),
		SkipExisting: viper.GetBool("convert.skip_existing"),
	}

	ctx := cmd.Context()
	conv, err := convert.New(ctx, cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	result := convert.ConvertPaths(ctx, conv, args, cfg, os.Stdout)
	record(ctx, cmd, types.ArtifactMarkdown, result.Written, os.Stderr)
	if result.HasFailures() {
		return fmt.Errorf("%d PDF(s) failed conversion: %w", result.Failed, result.Err())
	}
	if result.Converted > 0 {
		fmt.Fprintf(os.Stderr, "converted %d file(s) with %s in %s\n", result.Converted, conv.Name(), time.Since(start).Round(time.Millisecond))
	}
	return nil
}
