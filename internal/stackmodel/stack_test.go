package stackmodel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/ggid"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/stackmodel"
	"github.com/jonnii/gg/testhelpers"
)

func TestLoadBuildsEntriesAndCurrentPosition(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	repo.Commit("a.txt", "1", "base")
	repo.Branch("alice/widget")
	repo.Checkout("alice/widget")

	msg1 := ggid.InsertOrReplace("first change", ggid.Generate())
	repo.Commit("b.txt", "2", msg1)
	repo.Commit("c.txt", "3", "second change") // no GG-ID yet

	ctx := context.Background()
	r, err := gitgw.Open(ctx, repo.Dir)
	require.NoError(t, err)

	cfg := config.New()
	cfg.Defaults.Base = "main"

	stack, err := stackmodel.Load(ctx, r, cfg, "alice/widget")
	require.NoError(t, err)
	require.Len(t, stack.Entries, 2)

	assert.True(t, stack.Entries[0].HasGGID())
	assert.False(t, stack.Entries[1].HasGGID())
	assert.Equal(t, 2, stack.CurrentPosition)

	needing := stack.EntriesNeedingGGID()
	require.Len(t, needing, 1)
	assert.Equal(t, "second change", needing[0].Title)
}

func TestByPositionAndByGGID(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	repo.Commit("a.txt", "1", "base")
	repo.Branch("alice/widget")
	repo.Checkout("alice/widget")
	id := ggid.Generate()
	repo.Commit("b.txt", "2", ggid.InsertOrReplace("change one", id))

	ctx := context.Background()
	r, err := gitgw.Open(ctx, repo.Dir)
	require.NoError(t, err)
	cfg := config.New()
	cfg.Defaults.Base = "main"

	stack, err := stackmodel.Load(ctx, r, cfg, "alice/widget")
	require.NoError(t, err)

	e, ok := stack.ByPosition(1)
	require.True(t, ok)
	assert.Equal(t, "change one", e.Title)

	e2, ok := stack.ByGGID(id)
	require.True(t, ok)
	assert.Equal(t, e.OID, e2.OID)

	_, ok = stack.ByPosition(99)
	assert.False(t, ok)
}
