// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns PDF reports into Markdown with pluggable backends.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/hpl-deck/pkg/types"
)

// Default single-file run: the report section exported from the write-up.
const (
	DefaultInput  = "HPL_report_section.pdf"
	DefaultOutput = "HPL_report.md"
)

// Converter transforms a PDF file into Markdown text. Backends (docling,
// markitdown, docling-serve, pdftotext, native) implement this interface.
type Converter interface {
	// Name is the backend identifier written to the frontmatter.
	Name() string

	// Convert reads a PDF at pdfPath and returns the Markdown content.
	Convert(ctx context.Context, pdfPath string) (string, error)
}

// Document is one PDF queued for conversion.
type Document struct {
	// ID is the file stem, e.g. "HPL_report_section".
	ID      string
	PDFPath string
}

// NewDocument derives a Document from a PDF path.
func NewDocument(pdfPath string) Document {
	return Document{
		ID:      strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath)),
		PDFPath: pdfPath,
	}
}

// Outcome is the result of converting one document.
type Outcome struct {
	Status types.ConversionStatus
	// Path is the Markdown output, set for converted and skipped documents.
	Path string
	Err  error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
	// Written lists the Markdown files produced by this run.
	Written []string
	// Errors holds one wrapped error per failed document.
	Errors []error
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Err joins the per-document failures, or returns nil.
func (r BatchResult) Err() error {
	return errors.Join(r.Errors...)
}

// OutputPath is where doc's Markdown is written: cfg.OutDir (or the PDF's
// directory) joined with cfg.OutName (or the file stem plus ".md").
func OutputPath(doc Document, cfg types.ConversionConfig) string {
	dir := cfg.OutDir
	if dir == "" {
		dir = filepath.Dir(doc.PDFPath)
	}
	name := cfg.OutName
	if name == "" {
		name = doc.ID + ".md"
	}
	return filepath.Join(dir, name)
}

// ConvertDocument converts a single PDF to Markdown, overwriting any
// previous output unless cfg.SkipExisting is set.
func ConvertDocument(ctx context.Context, c Converter, doc Document, cfg types.ConversionConfig, w io.Writer) Outcome {
	mdPath := OutputPath(doc, cfg)
	fail := func(err error) Outcome {
		fmt.Fprintf(w, "failed:  %s (%v)\n", doc.ID, err)
		return Outcome{Status: types.ConversionFailed, Err: fmt.Errorf("converting %s: %w", doc.PDFPath, err)}
	}

	if _, err := os.Stat(mdPath); err == nil && cfg.SkipExisting {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", doc.ID)
		return Outcome{Status: types.ConversionNone, Path: mdPath}
	}
	if _, err := os.Stat(doc.PDFPath); err != nil {
		return fail(err)
	}
	if err := os.MkdirAll(filepath.Dir(mdPath), 0o755); err != nil {
		return fail(err)
	}

	start := time.Now()
	raw, err := c.Convert(ctx, doc.PDFPath)
	if err != nil {
		return fail(err)
	}
	body := Normalize(raw)
	outline := Outline(body)
	slog.Debug("converted", "doc", doc.ID, "backend", c.Name(),
		"headings", len(outline), "elapsed", time.Since(start))

	content := addFrontmatter(doc, c.Name(), len(outline), body)
	if err := os.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		return fail(err)
	}

	fmt.Fprintf(w, "converted: %s\n", doc.ID)
	return Outcome{Status: types.ConversionDone, Path: mdPath}
}

// ConvertBatch processes documents through the converter, printing
// per-file status to w and returning a summary. A cancelled context stops
// the batch before the next document.
func ConvertBatch(ctx context.Context, c Converter, docs []Document, cfg types.ConversionConfig, w io.Writer) BatchResult {
	var result BatchResult
	if len(docs) > 1 {
		cfg.OutName = ""
	}
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("converting %s: %w", d.PDFPath, err))
			continue
		}
		out := ConvertDocument(ctx, c, d, cfg, w)
		switch out.Status {
		case types.ConversionDone:
			result.Converted++
			result.Written = append(result.Written, out.Path)
		case types.ConversionNone:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
			result.Errors = append(result.Errors, out.Err)
		}
	}

	if len(docs) == 1 && result.Converted == 1 {
		fmt.Fprintf(w, "Conversion complete! Check %s\n", filepath.Base(result.Written[0]))
		return result
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// ConvertPaths builds Documents from PDF paths and delegates to
// ConvertBatch. cfg.OutName only applies when a single path is given.
func ConvertPaths(ctx context.Context, c Converter, pdfPaths []string, cfg types.ConversionConfig, w io.Writer) BatchResult {
	docs := make([]Document, len(pdfPaths))
	for i, p := range pdfPaths {
		docs[i] = NewDocument(p)
	}
	return ConvertBatch(ctx, c, docs, cfg, w)
}

// Normalize puts converter output into NFC with Unix line endings and a
// single trailing newline. Backends disagree on both.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\x00", "")
	s = norm.NFC.String(s)
	return strings.TrimRight(s, "\n\t ") + "\n"
}

// addFrontmatter prepends YAML frontmatter to the converted Markdown content.
func addFrontmatter(doc Document, backend string, headings int, body string) string {
	ts := time.Now().UTC().Format(time.RFC3339)
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "source_pdf: %q\n", doc.PDFPath)
	fmt.Fprintf(&b, "backend: %q\n", backend)
	fmt.Fprintf(&b, "converted_at: %q\n", ts)
	fmt.Fprintf(&b, "headings: %d\n", headings)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}
