// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/hpl-deck/internal/container"
)

const (
	imageMarkitdown = "markitdown:latest"
	imageDocling    = "docling:latest"
)

// MarkitdownConverter converts PDFs by piping them through the markitdown
// container image.
type MarkitdownConverter struct {
	runtime container.Runtime
}

// NewMarkitdownConverter verifies that the markitdown image exists locally
// before returning.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime) (*MarkitdownConverter, error) {
	if err := rt.ImageExists(ctx, imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt}, nil
}

func (m *MarkitdownConverter) Name() string { return "markitdown" }

// Convert pipes the PDF at pdfPath through the markitdown container.
func (m *MarkitdownConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, container.Spec{Image: imageMarkitdown, Stdin: f, Stdout: &out}); err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", pdfPath, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("markitdown produced empty output for %s", pdfPath)
	}
	return out.String(), nil
}

// DoclingConverter runs the docling CLI image with the PDF's directory
// mounted read-only and collects the Markdown it writes to a scratch
// directory.
type DoclingConverter struct {
	runtime container.Runtime
}

// NewDoclingConverter verifies that the docling image exists locally.
func NewDoclingConverter(ctx context.Context, rt container.Runtime) (*DoclingConverter, error) {
	if err := rt.ImageExists(ctx, imageDocling); err != nil {
		return nil, fmt.Errorf("docling image not available in %s: %w", rt.Name(), err)
	}
	return &DoclingConverter{runtime: rt}, nil
}

func (d *DoclingConverter) Name() string { return "docling" }

func (d *DoclingConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	abs, err := filepath.Abs(pdfPath)
	if err != nil {
		return "", err
	}
	scratch, err := os.MkdirTemp("", "hpl-deck-docling-")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	base := filepath.Base(abs)
	spec := container.Spec{
		Image: imageDocling,
		Args:  []string{"--to", "md", "--image-export-mode", "placeholder", "--output", "/out", "/in/" + base},
		Mounts: []container.Mount{
			{Host: filepath.Dir(abs), Container: "/in", ReadOnly: true},
			{Host: scratch, Container: "/out"},
		},
		Stdout: &bytes.Buffer{},
	}
	if err := d.runtime.Run(ctx, spec); err != nil {
		return "", fmt.Errorf("converting %s with docling: %w", pdfPath, err)
	}

	md := filepath.Join(scratch, strings.TrimSuffix(base, filepath.Ext(base))+".md")
	data, err := os.ReadFile(md)
	if err != nil {
		return "", fmt.Errorf("reading docling output: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("docling produced empty output for %s", pdfPath)
	}
	return string(data), nil
}
