package squashengine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/squashengine"
	"github.com/jonnii/gg/internal/stackmodel"
	"github.com/jonnii/gg/testhelpers"
)

func setup(t *testing.T) (*gitgw.Repo, *config.Config, *stackmodel.Stack) {
	t.Helper()
	repo := testhelpers.NewGitRepo(t)
	repo.Commit("a.txt", "1", "base")
	repo.Branch("alice/widget")
	repo.Checkout("alice/widget")
	repo.Commit("b.txt", "2", "first change")
	repo.Commit("c.txt", "3", "second change")

	ctx := context.Background()
	r, err := gitgw.Open(ctx, repo.Dir)
	require.NoError(t, err)

	cfg := config.New()
	cfg.Defaults.Base = "main"

	stack, err := stackmodel.Load(ctx, r, cfg, "alice/widget")
	require.NoError(t, err)
	return r, cfg, stack
}

func TestSquashRejectsCleanWorkingDirectory(t *testing.T) {
	repo, cfg, stack := setup(t)
	_, err := squashengine.Squash(context.Background(), repo, cfg, stack, false)
	assert.Error(t, err)
}

func TestSquashAmendsMiddleEntryAndRebasesAbove(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()

	require.NoError(t, repo.CheckoutDetached(ctx, stack.Entries[0].OID))
	reloaded, err := stackmodel.Load(ctx, repo, cfg, "alice/widget")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(), "b.txt"), []byte("2-edited"), 0o644))

	result, err := squashengine.Squash(ctx, repo, cfg, reloaded, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Len())
	assert.NotEqual(t, stack.Entries[0].OID, result.Entries[0].OID)

	branch, ok, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice/widget", branch)
}

func TestSquashAtTipNeedsNoRebase(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(), "c.txt"), []byte("3-edited"), 0o644))

	result, err := squashengine.Squash(ctx, repo, cfg, stack, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Len())
	assert.NotEqual(t, stack.Entries[1].OID, result.Entries[1].OID)
}
