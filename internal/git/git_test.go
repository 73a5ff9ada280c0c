package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitOrSkip(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "test"},
		{"commit", "--allow-empty", "-m", "initial"},
	} {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	return dir
}

func TestShortRevision(t *testing.T) {
	gitOrSkip(t)
	dir := initRepo(t)

	rev, err := ShortRevision(context.Background(), dir)
	require.NoError(t, err)
	assert.NotEmpty(t, rev)
	assert.GreaterOrEqual(t, len(rev), 7)
	assert.NotContains(t, rev, "\n")
}

func TestShortRevisionOutsideRepo(t *testing.T) {
	gitOrSkip(t)
	dir := t.TempDir()

	// GIT_CEILING_DIRECTORIES keeps rev-parse from walking up into any
	// repository that happens to contain the temp dir.
	t.Setenv("GIT_CEILING_DIRECTORIES", dir)

	_, err := ShortRevision(context.Background(), dir)
	assert.Error(t, err)
}

func TestDirty(t *testing.T) {
	gitOrSkip(t)
	dir := initRepo(t)

	assert.False(t, Dirty(context.Background(), dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("x"), 0644))
	assert.True(t, Dirty(context.Background(), dir))
}
