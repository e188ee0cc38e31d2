// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package envfile loads KEY=value files into the process environment
// before configuration is read, so HPL_DECK_* settings can live in a
// project-local .env.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/joho/godotenv"
)

// DefaultFile is loaded from the working directory when no file is named.
const DefaultFile = ".env"

// Load reads each file in order and exports keys that are not already set.
// Variables from the real environment win, and earlier files win over
// later ones. Missing files are skipped. It returns the sorted names of
// the variables it set.
func Load(files ...string) ([]string, error) {
	if len(files) == 0 {
		files = []string{DefaultFile}
	}

	var set []string
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("env file not found", "path", f)
				continue
			}
			return set, fmt.Errorf("reading env file %s: %w", f, err)
		}
		for k, v := range vals {
			if _, ok := os.LookupEnv(k); ok {
				continue
			}
			if err := os.Setenv(k, v); err != nil {
				return set, fmt.Errorf("setting %s: %w", k, err)
			}
			set = append(set, k)
		}
		slog.Debug("env file loaded", "path", f, "keys", len(vals))
	}
	slices.Sort(set)
	return set, nil
}
