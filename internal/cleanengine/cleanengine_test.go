package cleanengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonnii/gg/internal/cleanengine"
	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/provider"
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

	ctx := context.Background()
	r, err := gitgw.Open(ctx, repo.Dir)
	require.NoError(t, err)

	cfg := config.New()
	cfg.Defaults.Base = "main"

	stack, err := stackmodel.Load(ctx, r, cfg, "alice/widget")
	require.NoError(t, err)
	return r, cfg, stack
}

func TestCheckMergedFallsBackToAncestorCheck(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()

	status, err := cleanengine.CheckMerged(ctx, repo, cfg, nil, stack)
	require.NoError(t, err)
	assert.False(t, status.Merged)
	assert.False(t, status.Verified)

	require.NoError(t, repo.CheckoutBranch(ctx, "main"))
	_, err = repo.Run(ctx, "merge", "--ff-only", "alice/widget")
	require.NoError(t, err)

	status, err = cleanengine.CheckMerged(ctx, repo, cfg, nil, stack)
	require.NoError(t, err)
	assert.True(t, status.Merged)
	assert.False(t, status.Verified)
}

func TestCheckMergedUsesProviderWhenPRsMapped(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()
	prov := testhelpers.NewMockProvider()

	e := stack.Entries[0]
	e.GGID = "c-abcdefg"
	pr, err := prov.Create(ctx, provider.CreateOptions{Title: e.Title, Head: "entry", Base: "main"})
	require.NoError(t, err)
	cfg.SetPRForEntry(stack.Name, e.GGID, pr.Number)
	stack.Entries[0] = e
	stack.Entries[0].PRNumber = pr.Number

	status, err := cleanengine.CheckMerged(ctx, repo, cfg, prov, stack)
	require.NoError(t, err)
	assert.False(t, status.Merged)

	require.NoError(t, prov.Merge(ctx, pr.Number, false))
	status, err = cleanengine.CheckMerged(ctx, repo, cfg, prov, stack)
	require.NoError(t, err)
	assert.True(t, status.Merged)
	assert.True(t, status.Verified)
}

func TestCleanSkipsUnmergedStackWithoutForce(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()

	result, err := cleanengine.Clean(ctx, repo, cfg, stack, cleanengine.MergeStatus{Merged: false}, cleanengine.Options{})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
}

func TestCleanDeletesLocalBranchAndRemovesConfig(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()
	cfg.GetOrCreateStack(stack.Name)

	require.NoError(t, repo.CheckoutBranch(ctx, "main"))
	_, err := repo.Run(ctx, "merge", "--ff-only", "alice/widget")
	require.NoError(t, err)

	result, err := cleanengine.Clean(ctx, repo, cfg, stack, cleanengine.MergeStatus{Merged: true, Verified: false}, cleanengine.Options{Remote: "origin"})
	require.NoError(t, err)
	assert.Contains(t, result.DeletedLocalBranches, stack.BranchName())
	assert.Empty(t, result.DeletedRemoteBranches)

	_, ok := cfg.GetStack(stack.Name)
	assert.False(t, ok)
}
