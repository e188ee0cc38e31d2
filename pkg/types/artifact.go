// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of a PDF-to-Markdown conversion.
type ConversionStatus string

const (
	ConversionNone   ConversionStatus = "none"
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// ArtifactKind classifies a file produced by one of the stages.
type ArtifactKind string

const (
	ArtifactMarkdown ArtifactKind = "markdown"
	ArtifactChart    ArtifactKind = "chart"
	ArtifactDeck     ArtifactKind = "deck"
)

// Artifact describes one generated output file.
type Artifact struct {
	// RunID groups the artifacts written by one CLI invocation.
	RunID string `json:"run_id" yaml:"run_id"`

	// Kind is the artifact class.
	Kind ArtifactKind `json:"kind" yaml:"kind"`

	// Path is the output path as written.
	Path string `json:"path" yaml:"path"`

	// Bytes is the file size.
	Bytes int64 `json:"bytes" yaml:"bytes"`

	// SHA256 is the hex digest of the file contents.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// Command is the subcommand that produced the file (e.g. "charts").
	Command string `json:"command" yaml:"command"`

	// CreatedAt is when the artifact was recorded.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
