// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"slices"

	"github.com/pdiddy/hpl-deck/internal/container"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

// DefaultBackend is used when the configuration names none.
const DefaultBackend = types.BackendDocling

// New builds the converter selected by cfg.Backend. Container backends
// detect docker or podman and check their image up front.
func New(ctx context.Context, cfg types.ConversionConfig) (Converter, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = DefaultBackend
	}
	if !slices.Contains(types.Backends, backend) {
		return nil, fmt.Errorf("unknown conversion backend %q (want one of %v)", backend, types.Backends)
	}

	switch backend {
	case types.BackendDoclingServe:
		return NewServeConverter(cfg), nil
	case types.BackendPdftotext:
		return NewPdftotextConverter()
	case types.BackendNative:
		return NativeConverter{}, nil
	}

	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", backend, err)
	}
	if backend == types.BackendMarkitdown {
		return NewMarkitdownConverter(ctx, rt)
	}
	return NewDoclingConverter(ctx, rt)
}
