package landengine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/provider"
	"github.com/jonnii/gg/internal/stackmodel"
	"github.com/jonnii/gg/testhelpers"
)

func setupSyncedStack(t *testing.T) (*gitgw.Repo, *config.Config, *stackmodel.Stack, *testhelpers.MockProvider) {
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
	prov := testhelpers.NewMockProvider()

	for i := range stack.Entries {
		e := &stack.Entries[i]
		e.GGID = "c-" + e.ShortSHA[:7]
		pr, err := prov.Create(ctx, provider.CreateOptions{Title: e.Title, Head: "entry-" + e.GGID, Base: "main"})
		require.NoError(t, err)
		e.PRNumber = pr.Number
		cfg.SetPRForEntry("widget", e.GGID, pr.Number)
		prov.ApprovedNums[pr.Number] = true
		prov.CIStatuses[pr.Number] = provider.CIStatusSuccess
	}

	return r, cfg, stack, prov
}

func TestLandSingleEntryWithoutAll(t *testing.T) {
	_, cfg, stack, prov := setupSyncedStack(t)
	result, err := Land(context.Background(), cfg, prov, stack, Options{Remote: "origin"})
	require.NoError(t, err)
	assert.Len(t, result.LandedGGIDs, 1)
	assert.Equal(t, stack.Entries[0].GGID, result.LandedGGIDs[0])

	// Landing entry 0 alone still rechains the later entry still open onto
	// the stack base, even without --all.
	later := prov.PRs[stack.Entries[1].PRNumber]
	require.NotNil(t, later)
	assert.Equal(t, stack.Base, later.BaseRef)
}

func TestLandAllMergesEverySequentially(t *testing.T) {
	_, cfg, stack, prov := setupSyncedStack(t)
	settleDelay = time.Millisecond

	result, err := Land(context.Background(), cfg, prov, stack, Options{Remote: "origin", LandAll: true})
	require.NoError(t, err)
	assert.Len(t, result.LandedGGIDs, 2)
	assert.Equal(t, []int{stack.Entries[0].PRNumber, stack.Entries[1].PRNumber}, prov.MergeCalls)
}

func TestLandStopsOnUnapprovedWithoutWait(t *testing.T) {
	_, cfg, stack, prov := setupSyncedStack(t)
	prov.ApprovedNums[stack.Entries[0].PRNumber] = false

	result, err := Land(context.Background(), cfg, prov, stack, Options{Remote: "origin"})
	require.NoError(t, err)
	assert.True(t, result.Stopped)
	assert.Empty(t, result.LandedGGIDs)
}

func TestLandWaitFailsFastOnCIFailure(t *testing.T) {
	_, cfg, stack, prov := setupSyncedStack(t)
	prov.CIStatuses[stack.Entries[0].PRNumber] = provider.CIStatusFailed

	result, err := Land(context.Background(), cfg, prov, stack, Options{Remote: "origin", Wait: true})
	require.NoError(t, err)
	assert.True(t, result.Stopped)
	assert.Contains(t, result.StopReason, "CI failed")
}
