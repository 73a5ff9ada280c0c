// Package git derives the default image tag from the working tree's
// source-control state.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ShortRevision returns the abbreviated commit hash of HEAD for the
// repository containing dir. It fails when git is not installed, dir is not
// inside a repository, or the repository has no commits; callers decide the
// fallback tag in that case.
func ShortRevision(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	rev := strings.TrimSpace(string(output))
	if rev == "" {
		return "", fmt.Errorf("git rev-parse returned no revision")
	}
	return rev, nil
}

// Dirty reports whether the working tree has uncommitted changes. Used only
// to warn that the derived tag may not match what gets built.
func Dirty(ctx context.Context, dir string) bool {
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "status", "--porcelain")
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) != ""
}
