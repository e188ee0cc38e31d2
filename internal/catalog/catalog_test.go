// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/hpl-deck/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(types.CatalogConfig{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return store, dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- schema tests ---

func TestOpenCreatesSchema(t *testing.T) {
	store, dir := testSetup(t)

	for _, table := range []string{"runs", "artifacts"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, indexDir, dbFile)); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

// --- record tests ---

func TestRecord(t *testing.T) {
	store, dir := testSetup(t)
	png := writeFile(t, dir, "graph1.png", "png-bytes")
	deck := writeFile(t, dir, "HPL_Final.pptx", "pptx")

	run := NewRun("deck assemble", []string{"--part1", "a.pptx"})
	arts, err := store.Record(context.Background(), run, types.ArtifactDeck, []string{png, deck})
	if err != nil {
		t.Fatal(err)
	}
	if len(arts) != 2 {
		t.Fatalf("got %d artifacts, want 2", len(arts))
	}
	if arts[0].Bytes != 9 {
		t.Errorf("bytes = %d, want 9", arts[0].Bytes)
	}
	sum := sha256.Sum256([]byte("pptx"))
	if want := hex.EncodeToString(sum[:]); arts[1].SHA256 != want {
		t.Errorf("sha256 = %q, want %q", arts[1].SHA256, want)
	}
	if arts[0].RunID != run.ID || arts[0].Command != "deck assemble" || arts[0].Kind != types.ArtifactDeck {
		t.Errorf("artifact not tagged with run: %+v", arts[0])
	}

	listed, err := store.List(context.Background(), Filter{RunID: run.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 2 {
		t.Fatalf("listed %d artifacts, want 2", len(listed))
	}
	// Newest first.
	if listed[0].Path != deck || listed[1].Path != png {
		t.Errorf("order = %s, %s", listed[0].Path, listed[1].Path)
	}
	if listed[0].SHA256 != arts[1].SHA256 {
		t.Errorf("stored digest %q != recorded %q", listed[0].SHA256, arts[1].SHA256)
	}
}

func TestRecordSameDigestForSameContent(t *testing.T) {
	store, dir := testSetup(t)
	a := writeFile(t, dir, "a.md", "# HPL")
	b := writeFile(t, dir, "b.md", "# HPL")

	arts, err := store.Record(context.Background(), NewRun("convert", nil), types.ArtifactMarkdown, []string{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if arts[0].SHA256 != arts[1].SHA256 {
		t.Errorf("identical files hashed differently: %s vs %s", arts[0].SHA256, arts[1].SHA256)
	}
}

func TestRecordMissingFileWritesNothing(t *testing.T) {
	store, dir := testSetup(t)
	ok := writeFile(t, dir, "ok.png", "x")

	_, err := store.Record(context.Background(), NewRun("charts", nil), types.ArtifactChart,
		[]string{ok, filepath.Join(dir, "missing.png")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	arts, err := store.List(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(arts) != 0 {
		t.Errorf("got %d artifacts after failed record, want 0", len(arts))
	}
}

func TestListFilters(t *testing.T) {
	store, dir := testSetup(t)
	ctx := context.Background()

	charts := NewRun("charts", nil)
	decks := NewRun("deck results", nil)
	for i, name := range []string{"g1.png", "g2.png", "g3.png"} {
		p := writeFile(t, dir, name, strings.Repeat("x", i+1))
		if _, err := store.Record(ctx, charts, types.ArtifactChart, []string{p}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.Record(ctx, decks, types.ArtifactDeck, []string{writeFile(t, dir, "d.pptx", "d")}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"by kind", Filter{Kind: types.ArtifactChart}, 3},
		{"by command", Filter{Command: "deck results"}, 1},
		{"by run", Filter{RunID: charts.ID}, 3},
		{"limit", Filter{Limit: 2}, 2},
		{"no match", Filter{Kind: types.ArtifactMarkdown}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arts, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(arts) != tt.want {
				t.Errorf("got %d artifacts, want %d", len(arts), tt.want)
			}
		})
	}
}

// --- export tests ---

func TestExportYAML(t *testing.T) {
	store, dir := testSetup(t)
	p := writeFile(t, dir, "graph.png", "png")
	if _, err := store.Record(context.Background(), NewRun("charts", nil), types.ArtifactChart, []string{p}); err != nil {
		t.Fatal(err)
	}

	path, err := store.Export(context.Background(), FormatYAML, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, indexDir, "export.yaml"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var arts []types.Artifact
	if err := yaml.Unmarshal(data, &arts); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(arts) != 1 || arts[0].Path != p || arts[0].Kind != types.ArtifactChart {
		t.Errorf("unexpected export: %+v", arts)
	}
}

func TestExportJSON(t *testing.T) {
	store, _ := testSetup(t)

	path, err := store.Export(context.Background(), FormatJSON, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var arts []types.Artifact
	if err := json.Unmarshal(data, &arts); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if arts == nil || len(arts) != 0 {
		t.Errorf("empty catalog should export [], got %s", data)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	store, _ := testSetup(t)
	if _, err := store.Export(context.Background(), "csv", Filter{}); err == nil {
		t.Fatal("expected error for csv export")
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintTable(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no artifacts recorded\n" {
		t.Errorf("empty table = %q", buf.String())
	}

	buf.Reset()
	arts := []types.Artifact{{
		Command:   "deck results",
		Kind:      types.ArtifactDeck,
		Path:      "output/HPL_Resultats_Analyse.pptx",
		Bytes:     2_500_000,
		SHA256:    "0123456789abcdef0123",
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}}
	if err := PrintTable(&buf, arts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"CREATED", "deck results", "2.5 MB", "0123456789ab ", "output/HPL_Resultats_Analyse.pptx"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
