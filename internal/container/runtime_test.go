// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout io.Writer) error
	lastArgs      []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(_ context.Context, name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	m.lastArgs = args
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout)
	}
	return nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name: "neither available",
			exec: &mockExecutor{
				availableBins: map[string]bool{},
				runnableCmds:  map[string]bool{},
			},
			wantErr: true,
		},
		{
			name: "docker on PATH but info fails, podman works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(context.Background(), tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no container runtime available") {
					t.Errorf("error should mention no runtime available, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rt.Name() != tt.wantName {
				t.Errorf("got runtime %q, want %q", rt.Name(), tt.wantName)
			}
		})
	}
}

func TestImageExists(t *testing.T) {
	tests := []struct {
		name    string
		mkRT    func(*mockExecutor) Runtime
		image   string
		cmds    map[string]bool
		wantErr bool
	}{
		{
			name:  "docker image exists",
			mkRT:  func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			image: "docling:latest",
			cmds:  map[string]bool{"docker image inspect docling:latest": true},
		},
		{
			name:    "docker image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			image:   "docling:latest",
			wantErr: true,
		},
		{
			name:  "podman image exists",
			mkRT:  func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			image: "markitdown:latest",
			cmds:  map[string]bool{"podman image exists markitdown:latest": true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := tt.mkRT(&mockExecutor{runnableCmds: tt.cmds})
			err := rt.ImageExists(context.Background(), tt.image)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.image) {
					t.Errorf("error should mention image name, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRun(t *testing.T) {
	echo := func(name string, _ []string, stdin io.Reader, stdout io.Writer) error {
		data, _ := io.ReadAll(stdin)
		_, _ = stdout.Write([]byte(name + ": " + string(data)))
		return nil
	}
	tests := []struct {
		name     string
		mkRT     func(*mockExecutor) Runtime
		spec     Spec
		pipeFunc func(string, []string, io.Reader, io.Writer) error
		wantArgs []string
		wantOut  string
		wantErr  bool
	}{
		{
			name:     "docker pipes stdin to stdout",
			mkRT:     func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			spec:     Spec{Image: "markitdown:latest", Stdin: strings.NewReader("pdf")},
			pipeFunc: echo,
			wantArgs: []string{"run", "--rm", "-i", "markitdown:latest"},
			wantOut:  "docker: pdf",
		},
		{
			name:     "podman pipes stdin to stdout",
			mkRT:     func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			spec:     Spec{Image: "markitdown:latest", Stdin: strings.NewReader("pdf")},
			pipeFunc: echo,
			wantArgs: []string{"run", "--rm", "-i", "markitdown:latest"},
			wantOut:  "podman: pdf",
		},
		{
			name: "mounts and arguments without stdin",
			mkRT: func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			spec: Spec{
				Image: "docling:latest",
				Args:  []string{"--to", "md", "/in/a.pdf"},
				Mounts: []Mount{
					{Host: "/tmp/src", Container: "/in", ReadOnly: true},
					{Host: "/tmp/out", Container: "/out"},
				},
			},
			wantArgs: []string{
				"run", "--rm", "-v", "/tmp/src:/in:ro", "-v", "/tmp/out:/out",
				"docling:latest", "--to", "md", "/in/a.pdf",
			},
		},
		{
			name: "run failure returns wrapped error",
			mkRT: func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			spec: Spec{Image: "markitdown:latest"},
			pipeFunc: func(string, []string, io.Reader, io.Writer) error {
				return errors.New("container exited with code 1")
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{runPipedFunc: tt.pipeFunc}
			rt := tt.mkRT(exec)
			var out bytes.Buffer
			tt.spec.Stdout = &out
			err := rt.Run(context.Background(), tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.spec.Image) {
					t.Errorf("error should mention image, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(exec.lastArgs, tt.wantArgs) {
				t.Errorf("args = %q, want %q", exec.lastArgs, tt.wantArgs)
			}
			if got := out.String(); got != tt.wantOut {
				t.Errorf("got output %q, want %q", got, tt.wantOut)
			}
		})
	}
}

func TestRuntimeName(t *testing.T) {
	exec := &mockExecutor{}
	if got := newDockerRuntime(exec).Name(); got != "docker" {
		t.Errorf("docker runtime name = %q, want %q", got, "docker")
	}
	if got := newPodmanRuntime(exec).Name(); got != "podman" {
		t.Errorf("podman runtime name = %q, want %q", got, "podman")
	}
}
