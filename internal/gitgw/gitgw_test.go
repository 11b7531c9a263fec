package gitgw_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/testhelpers"
)

func TestOpenAndCurrentBranch(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	repo.Commit("README.md", "hello\n", "init")

	ctx := context.Background()
	r, err := gitgw.Open(ctx, repo.Dir)
	require.NoError(t, err)

	name, ok, err := r.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "main", name)
}

func TestStackCommitsLinear(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	repo.Commit("a.txt", "1", "base")
	base := repo.RevParse("HEAD")
	repo.Commit("b.txt", "2", "feature one")
	repo.Commit("c.txt", "3", "feature two")

	ctx := context.Background()
	r, err := gitgw.Open(ctx, repo.Dir)
	require.NoError(t, err)

	commits, err := r.StackCommits(ctx, base, "HEAD")
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "feature one", commits[0].Title)
	assert.Equal(t, "feature two", commits[1].Title)
}

func TestIsCleanDetectsDirtyState(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	repo.Commit("a.txt", "1", "base")

	ctx := context.Background()
	r, err := gitgw.Open(ctx, repo.Dir)
	require.NoError(t, err)

	clean, err := r.IsClean(ctx)
	require.NoError(t, err)
	assert.True(t, clean)

	require.NoError(t, os.WriteFile(repo.Dir+"/a.txt", []byte("2"), 0o644))
	clean, err = r.IsClean(ctx)
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestRewriteMessagesPreservesTreeUpdatesMessage(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	repo.Commit("a.txt", "1", "base")
	base := repo.RevParse("HEAD")
	oid := repo.Commit("b.txt", "2", "original title")

	ctx := context.Background()
	r, err := gitgw.Open(ctx, repo.Dir)
	require.NoError(t, err)

	newTip, err := r.RewriteMessages(ctx, base, []gitgw.RewriteEntry{
		{OID: oid, NewMessage: "original title\n\nGG-ID: c-abc1234"},
	})
	require.NoError(t, err)

	msg, err := r.CommitMessage(ctx, newTip)
	require.NoError(t, err)
	assert.Contains(t, msg, "GG-ID: c-abc1234")

	tree, err := r.Run(ctx, "rev-parse", newTip+"^{tree}")
	require.NoError(t, err)
	origTree, err := r.Run(ctx, "rev-parse", oid+"^{tree}")
	require.NoError(t, err)
	assert.Equal(t, origTree, tree)
}

func TestAcquireOperationLockFailsFastWhenHeld(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	repo.Commit("a.txt", "1", "base")
	gitDir := repo.Dir + "/.git"

	lock, err := gitgw.AcquireOperationLock(gitDir, "sync")
	require.NoError(t, err)
	defer lock.Release()

	_, err = gitgw.AcquireOperationLock(gitDir, "sync")
	assert.Error(t, err)
}
