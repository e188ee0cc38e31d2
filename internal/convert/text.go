// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ledongthuc/pdf"
)

// commander runs an external program and returns its stdout.
type commander interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type osCommander struct{}

func (osCommander) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osCommander) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

const binPdftotext = "pdftotext"

// PdftotextConverter shells out to poppler's pdftotext in layout mode.
type PdftotextConverter struct {
	cmd commander
}

// NewPdftotextConverter fails when pdftotext is not on PATH.
func NewPdftotextConverter() (*PdftotextConverter, error) {
	return newPdftotextConverter(osCommander{})
}

func newPdftotextConverter(cmd commander) (*PdftotextConverter, error) {
	if _, err := cmd.LookPath(binPdftotext); err != nil {
		return nil, fmt.Errorf("pdftotext not found (install poppler-utils): %w", err)
	}
	return &PdftotextConverter{cmd: cmd}, nil
}

func (p *PdftotextConverter) Name() string { return "pdftotext" }

func (p *PdftotextConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	out, err := p.cmd.Output(ctx, binPdftotext, "-layout", "-enc", "UTF-8", pdfPath, "-")
	if err != nil {
		return "", fmt.Errorf("running pdftotext on %s: %w", pdfPath, err)
	}
	// pdftotext separates pages with form feeds.
	md := pagesMarkdown(strings.Split(string(out), "\f"))
	if md == "" {
		return "", fmt.Errorf("pdftotext produced empty output for %s", pdfPath)
	}
	return md, nil
}

// NativeConverter extracts page text in-process. Layout and tables are
// lost but it needs no external tools.
type NativeConverter struct{}

func (NativeConverter) Name() string { return "native" }

func (NativeConverter) Convert(_ context.Context, pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", i, pdfPath, err)
		}
		pages = append(pages, txt)
	}
	md := pagesMarkdown(pages)
	if md == "" {
		return "", fmt.Errorf("no extractable text in %s", pdfPath)
	}
	return md, nil
}

// pagesMarkdown joins page texts, each preceded by an HTML comment marking
// its 1-based page number. Trailing blank pages are dropped and an
// all-blank document yields "".
func pagesMarkdown(pages []string) string {
	last := -1
	for i, p := range pages {
		if strings.TrimSpace(p) != "" {
			last = i
		}
	}
	var b strings.Builder
	for i, p := range pages[:last+1] {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "<!-- page %d -->\n\n", i+1)
		lines := strings.Split(strings.TrimSpace(p), "\n")
		for _, l := range lines {
			b.WriteString(strings.TrimRight(l, " \t"))
			b.WriteString("\n")
		}
	}
	return b.String()
}
