package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "gg", "config.json"))
	require.NoError(t, err)
	assert.True(t, cfg.Defaults.AutoAddGGIDs)
	assert.Empty(t, cfg.Stacks)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir)

	cfg := New()
	cfg.Defaults.Base = "main"
	cfg.Defaults.Provider = "github"
	cfg.SetPRForEntry("alice/feature", "c-abc1234", 42)

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "main", loaded.Defaults.Base)
	assert.Equal(t, "github", loaded.Defaults.Provider)
	num, ok := loaded.GetPRForEntry("alice/feature", "c-abc1234")
	require.True(t, ok)
	assert.Equal(t, 42, num)
}

func TestGetBaseForStackFallsBackToDefault(t *testing.T) {
	cfg := New()
	cfg.Defaults.Base = "main"
	assert.Equal(t, "main", cfg.GetBaseForStack("alice/feature"))

	sc := cfg.GetOrCreateStack("alice/feature")
	sc.Base = "develop"
	assert.Equal(t, "develop", cfg.GetBaseForStack("alice/feature"))
}

func TestLandWaitTimeoutDefaultsTo30(t *testing.T) {
	cfg := New()
	assert.Equal(t, 30, cfg.LandWaitTimeoutMinutes())

	timeout := 10
	cfg.Defaults.LandWaitTimeoutMinutes = &timeout
	assert.Equal(t, 10, cfg.LandWaitTimeoutMinutes())
}

func TestRemovePRForEntry(t *testing.T) {
	cfg := New()
	cfg.SetPRForEntry("alice/feature", "c-abc1234", 7)
	cfg.RemovePRForEntry("alice/feature", "c-abc1234")
	_, ok := cfg.GetPRForEntry("alice/feature", "c-abc1234")
	assert.False(t, ok)
}

func TestListAndRemoveStack(t *testing.T) {
	cfg := New()
	cfg.GetOrCreateStack("alice/feature")
	cfg.GetOrCreateStack("alice/other")
	assert.Len(t, cfg.ListStacks(), 2)

	cfg.RemoveStack("alice/feature")
	_, ok := cfg.GetStack("alice/feature")
	assert.False(t, ok)
}
