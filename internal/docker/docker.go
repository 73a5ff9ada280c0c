// Package docker wraps the docker CLI for the operations the deployment
// pipeline needs: availability probes, registry login, and buildx
// build-and-push. The CLI is used rather than the engine API because
// multi-architecture builds go through the buildx plugin.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/apex/log"
)

// Client executes docker commands through a resolved binary path.
type Client struct {
	bin string

	// Build output streams here; defaults to the process streams.
	Stdout *os.File
	Stderr *os.File
}

// BuildSpec describes a single buildx build-and-push invocation.
type BuildSpec struct {
	ContextDir string
	Platform   string
	Tags       []string
}

// Resolve locates the docker CLI. A missing binary is reported as a
// PrerequisiteError carrying installation instructions.
func Resolve() (*Client, error) {
	bin, err := exec.LookPath("docker")
	if err != nil {
		return nil, &PrerequisiteError{
			Tool:    "docker",
			Message: formatDockerMissing(),
		}
	}
	return &Client{bin: bin, Stdout: os.Stdout, Stderr: os.Stderr}, nil
}

// CheckDaemon verifies the engine daemon is reachable. `docker info` talks
// to the daemon, so a clean exit means the socket is up.
func (c *Client) CheckDaemon(ctx context.Context) error {
	out, err := c.capture(ctx, "info", "--format", "{{.ServerVersion}}")
	if err != nil {
		return &PrerequisiteError{
			Tool:    "docker daemon",
			Message: formatDaemonUnreachable(),
		}
	}
	log.Debugf("docker daemon reachable, server version %s", out)
	return nil
}

// CheckBuildx verifies the buildx plugin is installed, which is required
// for cross-platform builds.
func (c *Client) CheckBuildx(ctx context.Context) error {
	out, err := c.capture(ctx, "buildx", "version")
	if err != nil {
		return &PrerequisiteError{
			Tool:    "docker buildx",
			Message: formatBuildxMissing(),
		}
	}
	log.Debugf("buildx available: %s", out)
	return nil
}

// Login authenticates the engine against a registry. The password goes in
// over stdin so it never appears in the process table.
func (c *Client) Login(ctx context.Context, host, username, password string) error {
	cmd := exec.CommandContext(ctx, c.bin, "login", "--username", username, "--password-stdin", host)
	cmd.Stdin = strings.NewReader(password)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker login to %s failed: %w: %s", host, err, strings.TrimSpace(buf.String()))
	}
	log.Debugf("docker login to %s succeeded", host)
	return nil
}

// BuildAndPush runs a single buildx invocation that builds for the target
// platform, applies every tag in the spec, and pushes. Build output streams
// straight through so the user sees layer progress.
func (c *Client) BuildAndPush(ctx context.Context, spec BuildSpec) error {
	args := buildxArgs(spec)
	log.Debugf("running docker %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker buildx build failed: %w", err)
	}
	return nil
}

// buildxArgs constructs the argument list for BuildAndPush. Kept separate
// so the exact invocation can be asserted in tests.
func buildxArgs(spec BuildSpec) []string {
	args := []string{"buildx", "build", "--platform", spec.Platform}
	for _, tag := range spec.Tags {
		args = append(args, "-t", tag)
	}
	args = append(args, "--push", spec.ContextDir)
	return args
}

// capture runs a docker subcommand and returns its trimmed stdout.
func (c *Client) capture(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("docker %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
