// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/hpl-deck/internal/catalog"
	"github.com/pdiddy/hpl-deck/internal/logging"
	"github.com/pdiddy/hpl-deck/internal/pptx"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

func execute(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	execute(t, "version")
	assert.Equal(t, "hpl-deck dev\n", out.String())
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	images := filepath.Join(dir, "images")
	out := filepath.Join(dir, "output")
	cat := "--catalog-dir=" + out

	execute(t, "charts", "--set", "gpu", "--dpi", "30", "--out-dir", images, cat)
	assert.FileExists(t, filepath.Join(images, "a100-h100-hpl.png"))

	execute(t, "deck", "results", "--images-dir", images, "--out-dir", out, cat)
	execute(t, "deck", "laptop", "--images-dir", images, "--out-dir", out, cat)
	execute(t, "deck", "assemble",
		"--part1", filepath.Join(out, "HPL_Presentation_Resultats.pptx"),
		"--part2", filepath.Join(out, "HPL_Resultats_Analyse.pptx"),
		cat)

	final, err := pptx.Open(filepath.Join(out, "HPL_Final.pptx"))
	require.NoError(t, err)
	assert.Equal(t, 2+7+9, final.SlideCount())

	store, err := catalog.Open(types.CatalogConfig{Dir: out})
	require.NoError(t, err)
	defer store.Close()

	charts, err := store.List(context.Background(), catalog.Filter{Kind: types.ArtifactChart})
	require.NoError(t, err)
	assert.Len(t, charts, 3)

	decks, err := store.List(context.Background(), catalog.Filter{Kind: types.ArtifactDeck})
	require.NoError(t, err)
	require.Len(t, decks, 3)
	assert.Equal(t, "hpl-deck deck assemble", decks[0].Command)
}

func TestRunClosesLogOnFailure(t *testing.T) {
	chdir(t, t.TempDir())
	closed := 0
	orig := setupLogging
	setupLogging = func(opts logging.Options) (func() error, error) {
		closeFn, err := orig(opts)
		if err != nil {
			return nil, err
		}
		return func() error {
			closed++
			return closeFn()
		}, nil
	}
	t.Cleanup(func() {
		setupLogging = orig
		_ = rootCmd.PersistentFlags().Set("log-file", "")
	})

	logFile := filepath.Join("logs", "hpl-deck.log")
	err := run(context.Background(), []string{"convert", "--backend", "native", "--no-catalog", "--log-file", logFile})
	require.Error(t, err)
	assert.Equal(t, 1, closed)
	assert.FileExists(t, logFile)

	// A second close is a no-op.
	assert.NoError(t, closeLog())
	assert.Equal(t, 1, closed)
}

func TestConvertNativeMissingInput(t *testing.T) {
	chdir(t, t.TempDir())
	rootCmd.SetArgs([]string{"convert", "--backend", "native", "--no-catalog"})
	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 PDF(s) failed conversion")
}
