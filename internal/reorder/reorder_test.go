package reorder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/reorder"
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
	repo.Commit("d.txt", "4", "third change")

	ctx := context.Background()
	r, err := gitgw.Open(ctx, repo.Dir)
	require.NoError(t, err)

	cfg := config.New()
	cfg.Defaults.Base = "main"

	stack, err := stackmodel.Load(ctx, r, cfg, "alice/widget")
	require.NoError(t, err)
	return r, cfg, stack
}

func TestParseOrderValidatesPermutation(t *testing.T) {
	positions, err := reorder.ParseOrder("3 1 2", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, positions)

	_, err = reorder.ParseOrder("1 1 2", 3)
	assert.Error(t, err)

	_, err = reorder.ParseOrder("1 2", 3)
	assert.Error(t, err)

	_, err = reorder.ParseOrder("1 2 9", 3)
	assert.Error(t, err)
}

func TestApplyReordersCommitsAndUpdatesBranch(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()

	originalTitles := []string{stack.Entries[0].Title, stack.Entries[1].Title, stack.Entries[2].Title}

	reordered, err := reorder.Apply(ctx, repo, cfg, stack, []int{3, 1, 2})
	require.NoError(t, err)
	require.Len(t, reordered.Entries, 3)

	assert.Equal(t, originalTitles[2], reordered.Entries[0].Title)
	assert.Equal(t, originalTitles[0], reordered.Entries[1].Title)
	assert.Equal(t, originalTitles[1], reordered.Entries[2].Title)
}

func TestApplyRejectsInvalidPermutation(t *testing.T) {
	repo, cfg, stack := setup(t)
	ctx := context.Background()

	_, err := reorder.Apply(ctx, repo, cfg, stack, []int{1, 1, 2})
	assert.Error(t, err)
}
