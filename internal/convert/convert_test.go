// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/hpl-deck/pkg/types"
)

// fakeConverter implements Converter for testing. It returns canned Markdown
// or an error, depending on configuration.
type fakeConverter struct {
	output string
	err    error
	calls  int
}

func (f *fakeConverter) Name() string { return "fake" }

func (f *fakeConverter) Convert(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

// setupPDF creates a placeholder PDF and returns its path and the temp dir.
func setupPDF(t *testing.T) (pdfPath, tmpDir string) {
	t.Helper()
	tmpDir = t.TempDir()
	pdfPath = filepath.Join(tmpDir, DefaultInput)
	require.NoError(t, os.WriteFile(pdfPath, []byte("fake pdf"), 0o644))
	return pdfPath, tmpDir
}

func TestConvertDocument(t *testing.T) {
	tests := []struct {
		name       string
		converter  *fakeConverter
		preCreate  bool
		skip       bool
		wantStatus types.ConversionStatus
		wantLog    string
		wantCalls  int
	}{
		{
			name:       "successful conversion",
			converter:  &fakeConverter{output: "# Title\n\nContent here."},
			wantStatus: types.ConversionDone,
			wantLog:    "converted: HPL_report_section",
			wantCalls:  1,
		},
		{
			name:       "existing markdown is overwritten",
			converter:  &fakeConverter{output: "# Fresh"},
			preCreate:  true,
			wantStatus: types.ConversionDone,
			wantLog:    "converted: HPL_report_section",
			wantCalls:  1,
		},
		{
			name:       "skip existing markdown when asked",
			converter:  &fakeConverter{output: "should not be called"},
			preCreate:  true,
			skip:       true,
			wantStatus: types.ConversionNone,
			wantLog:    "skipped: HPL_report_section (already exists)",
		},
		{
			name:       "conversion failure",
			converter:  &fakeConverter{err: errors.New("container crashed")},
			wantStatus: types.ConversionFailed,
			wantLog:    "failed:  HPL_report_section (container crashed)",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdfPath, tmpDir := setupPDF(t)
			outDir := filepath.Join(tmpDir, "markdown")
			if tt.preCreate {
				require.NoError(t, os.MkdirAll(outDir, 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(outDir, "HPL_report_section.md"), []byte("existing"), 0o644))
			}

			var log bytes.Buffer
			cfg := types.ConversionConfig{OutDir: outDir, SkipExisting: tt.skip}
			out := ConvertDocument(context.Background(), tt.converter, NewDocument(pdfPath), cfg, &log)

			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Contains(t, log.String(), tt.wantLog)
			assert.Equal(t, tt.wantCalls, tt.converter.calls)
			if tt.wantStatus == types.ConversionFailed {
				assert.ErrorContains(t, out.Err, "converting "+pdfPath)
				assert.Empty(t, out.Path)
			} else {
				assert.Equal(t, filepath.Join(outDir, "HPL_report_section.md"), out.Path)
			}
		})
	}
}

func TestConvertDocument_MissingPDF(t *testing.T) {
	conv := &fakeConverter{output: "# never"}
	var log bytes.Buffer
	out := ConvertDocument(context.Background(), conv, NewDocument(filepath.Join(t.TempDir(), "nope.pdf")), types.ConversionConfig{}, &log)

	assert.Equal(t, types.ConversionFailed, out.Status)
	assert.ErrorIs(t, out.Err, os.ErrNotExist)
	assert.Zero(t, conv.calls)
}

func TestConvertDocument_Frontmatter(t *testing.T) {
	pdfPath, tmpDir := setupPDF(t)
	conv := &fakeConverter{output: "# HPL\r\n\r\n## Résultats\r\n\r\nTexte.\r\n\r\n\r\n"}

	var log bytes.Buffer
	cfg := types.ConversionConfig{OutName: DefaultOutput}
	out := ConvertDocument(context.Background(), conv, NewDocument(pdfPath), cfg, &log)
	require.Equal(t, types.ConversionDone, out.Status)
	require.Equal(t, filepath.Join(tmpDir, DefaultOutput), out.Path)

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "---\n"), "output should start with YAML frontmatter")
	assert.Contains(t, content, "source_pdf: \""+pdfPath+"\"\n")
	assert.Contains(t, content, "backend: \"fake\"\n")
	assert.Contains(t, content, "converted_at: ")
	assert.Contains(t, content, "headings: 2\n")
	// Body is NFC with Unix line endings.
	assert.Contains(t, content, "---\n\n# HPL\n\n## Résultats\n\nTexte.\n")
	assert.True(t, strings.HasSuffix(content, "Texte.\n"))
	assert.NotContains(t, content, "\r")
}

func TestConvertBatch(t *testing.T) {
	tmpDir := t.TempDir()
	rawDir := filepath.Join(tmpDir, "raw")
	outDir := filepath.Join(tmpDir, "markdown")
	require.NoError(t, os.MkdirAll(rawDir, 0o755))
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	// a converts, b is already there, c fails.
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(rawDir, name), []byte("pdf"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "b.md"), []byte("existing"), 0o644))

	conv := &selectiveConverter{
		outputs: map[string]string{
			filepath.Join(rawDir, "a.pdf"): "# Report A",
			filepath.Join(rawDir, "b.pdf"): "# Report B",
		},
		errors: map[string]error{
			filepath.Join(rawDir, "c.pdf"): errors.New("bad pdf"),
		},
	}
	paths := []string{
		filepath.Join(rawDir, "a.pdf"),
		filepath.Join(rawDir, "b.pdf"),
		filepath.Join(rawDir, "c.pdf"),
	}

	var log bytes.Buffer
	// OutName is ignored for batches.
	cfg := types.ConversionConfig{OutDir: outDir, OutName: DefaultOutput, SkipExisting: true}
	result := ConvertPaths(context.Background(), conv, paths, cfg, &log)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Equal(t, []string{filepath.Join(outDir, "a.md")}, result.Written)
	require.Error(t, result.Err())
	assert.Contains(t, result.Err().Error(), "bad pdf")
	assert.NoFileExists(t, filepath.Join(outDir, DefaultOutput))

	assert.Contains(t, log.String(), "\nBatch summary: 1 converted, 1 skipped, 1 failed (total: 3)\n")
}

func TestConvertPaths_SingleFile(t *testing.T) {
	pdfPath, tmpDir := setupPDF(t)
	conv := &fakeConverter{output: "# Test"}

	var log bytes.Buffer
	result := ConvertPaths(context.Background(), conv, []string{pdfPath}, types.ConversionConfig{OutName: DefaultOutput}, &log)

	assert.Equal(t, 1, result.Converted)
	assert.NoError(t, result.Err())
	assert.FileExists(t, filepath.Join(tmpDir, DefaultOutput))
	assert.Equal(t, "converted: HPL_report_section\nConversion complete! Check HPL_report.md\n", log.String())
}

func TestConvertPaths_RerunOverwrites(t *testing.T) {
	pdfPath, tmpDir := setupPDF(t)
	cfg := types.ConversionConfig{OutName: DefaultOutput}
	mdPath := filepath.Join(tmpDir, DefaultOutput)

	first := ConvertPaths(context.Background(), &fakeConverter{output: "# First"}, []string{pdfPath}, cfg, &bytes.Buffer{})
	require.Equal(t, 1, first.Converted)

	var log bytes.Buffer
	second := ConvertPaths(context.Background(), &fakeConverter{output: "# Second"}, []string{pdfPath}, cfg, &log)
	assert.Equal(t, 1, second.Converted)
	assert.Zero(t, second.Skipped)
	assert.NotContains(t, log.String(), "skipped")

	data, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Second")
	assert.NotContains(t, string(data), "# First")
}

func TestConvertBatch_Cancelled(t *testing.T) {
	pdfPath, _ := setupPDF(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := &fakeConverter{output: "# never"}
	result := ConvertPaths(ctx, conv, []string{pdfPath}, types.ConversionConfig{}, &bytes.Buffer{})

	assert.Equal(t, 1, result.Failed)
	assert.ErrorIs(t, result.Err(), context.Canceled)
	assert.Zero(t, conv.calls)
}

func TestOutputPath(t *testing.T) {
	doc := NewDocument(filepath.Join("reports", "HPL_report_section.pdf"))
	assert.Equal(t, "HPL_report_section", doc.ID)

	tests := []struct {
		name string
		cfg  types.ConversionConfig
		want string
	}{
		{"next to pdf", types.ConversionConfig{}, filepath.Join("reports", "HPL_report_section.md")},
		{"out dir", types.ConversionConfig{OutDir: "md"}, filepath.Join("md", "HPL_report_section.md")},
		{"out name", types.ConversionConfig{OutName: DefaultOutput}, filepath.Join("reports", DefaultOutput)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(doc, tt.cfg))
		})
	}
}

// selectiveConverter returns different results per file path.
type selectiveConverter struct {
	outputs map[string]string
	errors  map[string]error
}

func (s *selectiveConverter) Name() string { return "selective" }

func (s *selectiveConverter) Convert(_ context.Context, pdfPath string) (string, error) {
	if err, ok := s.errors[pdfPath]; ok {
		return "", err
	}
	if out, ok := s.outputs[pdfPath]; ok {
		return out, nil
	}
	return "", errors.New("unexpected path: " + pdfPath)
}
