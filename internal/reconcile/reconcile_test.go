package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/provider"
	"github.com/jonnii/gg/internal/reconcile"
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

func TestBuildPlanFindsCommitsMissingGGIDs(t *testing.T) {
	_, cfg, stack := setup(t)
	plan, err := reconcile.BuildPlan(context.Background(), cfg, nil, stack)
	require.NoError(t, err)
	assert.Len(t, plan.CommitsNeedingIDs, 2)
	assert.Empty(t, plan.PRsToMap)
	assert.False(t, plan.IsEmpty())
}

func TestBuildPlanFindsUnmappedPRsForEntriesWithGGIDs(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()

	filled, err := reconcile.ApplyGGIDs(ctx, repo, cfg, stack)
	require.NoError(t, err)

	prov := testhelpers.NewMockProvider()
	for _, e := range filled.Entries {
		entryBranch := filled.EntryBranchName(e)
		_, err := prov.Create(ctx, provider.CreateOptions{Title: e.Title, Head: entryBranch, Base: "main"})
		require.NoError(t, err)
	}

	plan, err := reconcile.BuildPlan(ctx, cfg, prov, filled)
	require.NoError(t, err)
	assert.Empty(t, plan.CommitsNeedingIDs)
	require.Len(t, plan.PRsToMap, 2)

	reconcile.ApplyMappings(cfg, filled.Name, plan.PRsToMap)
	for _, e := range filled.Entries {
		_, ok := cfg.GetPRForEntry(filled.Name, e.GGID)
		assert.True(t, ok)
	}
}

func TestBuildPlanSkipsAlreadyMappedEntries(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()

	filled, err := reconcile.ApplyGGIDs(ctx, repo, cfg, stack)
	require.NoError(t, err)

	prov := testhelpers.NewMockProvider()
	pr, err := prov.Create(ctx, provider.CreateOptions{Title: "x", Head: filled.EntryBranchName(filled.Entries[0]), Base: "main"})
	require.NoError(t, err)
	cfg.SetPRForEntry(filled.Name, filled.Entries[0].GGID, pr.Number)

	plan, err := reconcile.BuildPlan(ctx, cfg, prov, filled)
	require.NoError(t, err)
	require.Len(t, plan.PRsToMap, 1)
	assert.Equal(t, filled.Entries[1].GGID, plan.PRsToMap[0].GGID)
}

func TestPlanIsEmptyWhenNothingToDo(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()

	filled, err := reconcile.ApplyGGIDs(ctx, repo, cfg, stack)
	require.NoError(t, err)

	plan, err := reconcile.BuildPlan(ctx, cfg, testhelpers.NewMockProvider(), filled)
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
}
