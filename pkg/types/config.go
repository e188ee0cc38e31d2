// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests (e.g. "hpl-deck/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on 429/503 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ConversionBackend identifies the PDF conversion tool.
type ConversionBackend string

const (
	BackendDocling      ConversionBackend = "docling"
	BackendDoclingServe ConversionBackend = "docling-serve"
	BackendMarkitdown   ConversionBackend = "markitdown"
	BackendPdftotext    ConversionBackend = "pdftotext"
	BackendNative       ConversionBackend = "native"
)

// Backends lists every conversion backend accepted by the convert stage.
var Backends = []ConversionBackend{
	BackendDocling,
	BackendDoclingServe,
	BackendMarkitdown,
	BackendPdftotext,
	BackendNative,
}

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	HTTPConfig `yaml:",inline"`

	// Backend selects the conversion tool.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// OutDir is the directory Markdown files are written to. Empty means
	// next to the source PDF.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// OutName overrides the output file name for single-file runs
	// (e.g. "HPL_report.md"). Ignored for batches.
	OutName string `json:"out_name,omitempty" yaml:"out_name,omitempty"`

	// ServerURL is the base URL of a docling-serve instance.
	ServerURL string `json:"server_url,omitempty" yaml:"server_url,omitempty"`

	// SkipExisting leaves Markdown that already exists untouched instead of
	// overwriting it.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing"`
}

// ChartConfig holds settings for chart generation.
type ChartConfig struct {
	// OutDir is the directory PNG files are written to.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// DPI is the raster resolution (default 150).
	DPI int `json:"dpi" yaml:"dpi"`

	// Sets selects which chart sets to render (presentation, presentation_fr, gpu).
	Sets []string `json:"sets" yaml:"sets"`
}

// DeckConfig holds settings shared by the deck builders.
type DeckConfig struct {
	// ImagesDir is where charts and step screenshots are looked up.
	ImagesDir string `json:"images_dir" yaml:"images_dir"`

	// OutDir is the directory decks are written to.
	OutDir string `json:"out_dir" yaml:"out_dir"`
}

// AssembleConfig holds settings for deck assembly.
type AssembleConfig struct {
	// Part1 is the code-analysis deck copied first.
	Part1 string `json:"part1" yaml:"part1"`

	// Part2 is the GPU-results deck copied second; its slide size is reused.
	Part2 string `json:"part2" yaml:"part2"`

	// Output is the assembled deck path.
	Output string `json:"output" yaml:"output"`
}

// CatalogConfig holds settings for the artifact catalog.
type CatalogConfig struct {
	// Dir is the directory holding artifacts.db and exports.
	Dir string `json:"dir" yaml:"dir"`

	// Disabled turns off artifact recording.
	Disabled bool `json:"disabled" yaml:"disabled"`
}
