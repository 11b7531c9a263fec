package syncengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/stackmodel"
	"github.com/jonnii/gg/internal/syncengine"
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

	// Sync pushes every entry branch, so give the fixture a bare "origin".
	remote := t.TempDir()
	_, err = r.Run(ctx, "init", "-q", "--bare", remote)
	require.NoError(t, err)
	_, err = r.Run(ctx, "remote", "add", "origin", remote)
	require.NoError(t, err)

	cfg := config.New()
	cfg.Defaults.Base = "main"

	stack, err := stackmodel.Load(ctx, r, cfg, "alice/widget")
	require.NoError(t, err)
	return r, cfg, stack
}

func TestFillGGIDsAddsTrailersToAllEntries(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()

	rewritten, err := syncengine.FillGGIDs(ctx, repo, cfg, stack)
	require.NoError(t, err)
	require.Len(t, rewritten.Entries, 2)
	for _, e := range rewritten.Entries {
		assert.True(t, e.HasGGID())
	}
	assert.Empty(t, rewritten.EntriesNeedingGGID())
}

func TestSyncCreatesEntryBranchesAndChainsBases(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()
	prov := testhelpers.NewMockProvider()

	resultStack, result, err := syncengine.Sync(ctx, repo, cfg, prov, stack, syncengine.Options{
		Remote:       "origin",
		AutoAddGGIDs: true,
	}, nil)
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	require.Len(t, prov.CreateOptions, 2)
	assert.Equal(t, "main", prov.CreateOptions[0].Base)
	assert.Equal(t, resultStack.EntryBranchName(resultStack.Entries[0]), prov.CreateOptions[1].Base)

	for i, e := range resultStack.Entries {
		num, ok := cfg.GetPRForEntry(stack.Name, e.GGID)
		require.True(t, ok)
		assert.Equal(t, result.Entries[i].PRNumber, num)
	}
}

func TestSyncUpdatesExistingOpenPR(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()
	prov := testhelpers.NewMockProvider()

	_, _, err := syncengine.Sync(ctx, repo, cfg, prov, stack, syncengine.Options{
		Remote:       "origin",
		AutoAddGGIDs: true,
	}, nil)
	require.NoError(t, err)

	reloaded, err := stackmodel.Load(ctx, repo, cfg, "alice/widget")
	require.NoError(t, err)

	_, result, err := syncengine.Sync(ctx, repo, cfg, prov, reloaded, syncengine.Options{
		Remote:       "origin",
		AutoAddGGIDs: true,
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Entries[0].WasCreate)
}

func TestSyncWithoutGGIDsRequiresConfirmationOrAuto(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()
	prov := testhelpers.NewMockProvider()

	_, _, err := syncengine.Sync(ctx, repo, cfg, prov, stack, syncengine.Options{Remote: "origin"}, func(needing []stackmodel.Entry) (bool, error) {
		return false, nil
	})
	assert.Error(t, err)
}
