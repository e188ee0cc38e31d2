// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/hpl-deck/pkg/types"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

const exportLimit = 100000

// Export writes the artifacts matching f to index/export.yaml or
// index/export.json and returns the written path.
func (s *Store) Export(ctx context.Context, format string, f Filter) (string, error) {
	f.Limit = exportLimit
	arts, err := s.List(ctx, f)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	if arts == nil {
		arts = []types.Artifact{}
	}

	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(arts)
	case FormatJSON:
		data, err = json.MarshalIndent(arts, "", "  ")
	default:
		return "", fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", format, err)
	}

	path := filepath.Join(s.IndexDir(), "export."+format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// PrintTable writes arts as aligned columns with human-readable sizes.
func PrintTable(w io.Writer, arts []types.Artifact) error {
	if len(arts) == 0 {
		_, err := fmt.Fprintln(w, "no artifacts recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tCOMMAND\tKIND\tSIZE\tSHA256\tPATH")
	for _, a := range arts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.CreatedAt.Local().Format("2006-01-02 15:04:05"), a.Command, a.Kind,
			humanize.Bytes(uint64(a.Bytes)), a.SHA256[:min(12, len(a.SHA256))], a.Path)
	}
	return tw.Flush()
}
