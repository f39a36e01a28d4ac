// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs the browser-automation scraper agent image under
// docker or podman.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// maxStderr bounds how much agent stderr is kept for error messages.
const maxStderr = 2048

// RunSpec describes one agent container invocation.
type RunSpec struct {
	Image string

	// Env holds KEY=VALUE pairs. Values are handed to the runtime through
	// its own environment so they never appear on the command line.
	Env []string

	// Args are appended after the image name.
	Args []string
}

// Runtime provides the container operations the scraper agent needs.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available(ctx context.Context) bool

	// ImageExists returns nil when the image is present locally.
	ImageExists(ctx context.Context, image string) error

	// Run starts a throwaway container, feeding stdin and collecting stdout.
	// The container is killed when ctx is done.
	Run(ctx context.Context, spec RunSpec, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunPiped(ctx context.Context, name string, args, env []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (osExecutor) RunPiped(ctx context.Context, name string, args, env []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// runtime implements Runtime for docker and podman, which share a CLI and
// differ only in binary name and image-check subcommand.
type runtime struct {
	bin           string
	imageCheckCmd []string
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available(ctx context.Context) bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(ctx, r.bin, "info") == nil
}

func (r *runtime) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string{}, r.imageCheckCmd...), image)
	if err := r.exec.RunSilent(ctx, r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, spec RunSpec, stdin io.Reader, stdout io.Writer) error {
	args := runArgs(spec)
	var stderr bytes.Buffer
	err := r.exec.RunPiped(ctx, r.bin, args, spec.Env, stdin, stdout, &limitedWriter{buf: &stderr, max: maxStderr})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("running %s container %s: %w", r.bin, spec.Image, ctx.Err())
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return fmt.Errorf("running %s container %s: %w: %s", r.bin, spec.Image, err, msg)
	}
	return fmt.Errorf("running %s container %s: %w", r.bin, spec.Image, err)
}

// runArgs builds "run --rm -i -e KEY ... image args...". Only variable
// names are passed with -e so the runtime copies values from its own
// environment.
func runArgs(spec RunSpec) []string {
	args := []string{"run", "--rm", "-i"}
	for _, kv := range spec.Env {
		name, _, _ := strings.Cut(kv, "=")
		if name != "" {
			args = append(args, "-e", name)
		}
	}
	args = append(args, spec.Image)
	return append(args, spec.Args...)
}

type limitedWriter struct {
	buf *bytes.Buffer
	max int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if room := w.max - w.buf.Len(); room > 0 {
		if len(p) > room {
			w.buf.Write(p[:room])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}

func newDockerRuntime(exec executor) *runtime {
	return &runtime{bin: binDocker, imageCheckCmd: []string{"image", "inspect"}, exec: exec}
}

func newPodmanRuntime(exec executor) *runtime {
	return &runtime{bin: binPodman, imageCheckCmd: []string{"image", "exists"}, exec: exec}
}

// DetectRuntime tries docker first and falls back to podman.
func DetectRuntime(ctx context.Context) (Runtime, error) {
	return detectRuntime(ctx, osExecutor{})
}

func detectRuntime(ctx context.Context, exec executor) (Runtime, error) {
	for _, rt := range []*runtime{newDockerRuntime(exec), newPodmanRuntime(exec)} {
		if rt.Available(ctx) {
			return rt, nil
		}
	}
	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
