// Package testhelpers provides fixtures shared by gg's package tests: a
// real throwaway git repository and an in-memory provider double.
package testhelpers

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// GitRepo is a real, throwaway git repository rooted at Dir, created fresh
// for a single test.
type GitRepo struct {
	Dir string
	t   *testing.T
}

// NewGitRepo initializes an empty repository with a committer identity set,
// cleaned up automatically when the test ends.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	dir := t.TempDir()

	repo := &GitRepo{Dir: dir, t: t}
	repo.git("init", "-q", "-b", "main")
	repo.git("config", "user.name", "Test User")
	repo.git("config", "user.email", "test@example.com")
	repo.git("config", "commit.gpgsign", "false")
	return repo
}

// git runs a git subcommand in the repo, failing the test on error.
func (g *GitRepo) git(args ...string) string {
	g.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = g.Dir
	out, err := cmd.CombinedOutput()
	require.NoError(g.t, err, "git %v: %s", args, out)
	return string(out)
}

// Commit writes path with contents and commits it with message, returning
// the new commit's full SHA.
func (g *GitRepo) Commit(path, contents, message string) string {
	g.t.Helper()
	full := filepath.Join(g.Dir, path)
	require.NoError(g.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(g.t, os.WriteFile(full, []byte(contents), 0o644))
	g.git("add", path)
	g.git("commit", "-q", "-m", message)
	return g.RevParse("HEAD")
}

// RevParse resolves ref to a full SHA.
func (g *GitRepo) RevParse(ref string) string {
	g.t.Helper()
	out := g.git("rev-parse", ref)
	return trimNL(out)
}

// Branch creates a branch named name at HEAD without checking it out.
func (g *GitRepo) Branch(name string) {
	g.t.Helper()
	g.git("branch", name)
}

// Checkout switches to an existing branch.
func (g *GitRepo) Checkout(name string) {
	g.t.Helper()
	g.git("checkout", "-q", name)
}

func trimNL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
