package lintengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/lintengine"
	"github.com/jonnii/gg/internal/stackmodel"
	"github.com/jonnii/gg/testhelpers"
)

func setup(t *testing.T, lintCmds []string) (*gitgw.Repo, *config.Config, *stackmodel.Stack) {
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
	cfg.Defaults.Lint = lintCmds

	stack, err := stackmodel.Load(ctx, r, cfg, "alice/widget")
	require.NoError(t, err)
	return r, cfg, stack
}

func TestRunRequiresConfiguredLintCommands(t *testing.T) {
	repo, cfg, stack := setup(t, nil)
	_, err := lintengine.Run(context.Background(), repo, cfg, stack, lintengine.Options{})
	assert.Error(t, err)
}

func TestRunPassesWithoutChanges(t *testing.T) {
	repo, cfg, stack := setup(t, []string{"true"})
	ctx := context.Background()

	result, err := lintengine.Run(ctx, repo, cfg, stack, lintengine.Options{})
	require.NoError(t, err)
	assert.True(t, result.AllPassed)
	assert.Len(t, result.Results, 2)

	branch, ok, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice/widget", branch)
}

func TestRunReportsFailingCommand(t *testing.T) {
	repo, cfg, stack := setup(t, []string{"false"})
	result, err := lintengine.Run(context.Background(), repo, cfg, stack, lintengine.Options{})
	require.NoError(t, err)
	assert.False(t, result.AllPassed)
	for _, r := range result.Results {
		assert.False(t, r.Passed)
	}
}

func TestRunRespectsUntilPosition(t *testing.T) {
	repo, cfg, stack := setup(t, []string{"true"})
	result, err := lintengine.Run(context.Background(), repo, cfg, stack, lintengine.Options{UntilPosition: 1})
	require.NoError(t, err)
	assert.Len(t, result.Results, 1)
}
