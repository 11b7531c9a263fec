// Package config manages gg's per-repository side-table: provider/base
// defaults, per-stack base overrides, the gg-id-to-PR-number map, and the
// worktree path for a checked-out stack. It is persisted as JSON at
// <common-git-dir>/gg/config.json, read-missing-returns-default like the
// repo config file a plain git tool keeps alongside .git.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jonnii/gg/internal/ggerrors"
)

// defaultLandWaitTimeoutMinutes is used when Defaults.LandWaitTimeoutMinutes is unset.
const defaultLandWaitTimeoutMinutes = 30

// Defaults holds repository-wide settings that apply unless a stack overrides them.
type Defaults struct {
	Provider               string   `json:"provider,omitempty"`
	Base                   string   `json:"base,omitempty"`
	BranchUsername         string   `json:"branch_username,omitempty"`
	Lint                   []string `json:"lint,omitempty"`
	AutoAddGGIDs           bool     `json:"auto_add_gg_ids"`
	LandWaitTimeoutMinutes *int     `json:"land_wait_timeout_minutes,omitempty"`
	LandAutoClean          bool     `json:"land_auto_clean"`
	SyncAutoLint           bool     `json:"sync_auto_lint"`
	SyncAutoRebase         bool     `json:"sync_auto_rebase"`
}

// StackConfig holds per-stack overrides and state: the base branch it was
// opened against, the gg-id to PR/MR number map, and an optional worktree path.
type StackConfig struct {
	Base         string         `json:"base,omitempty"`
	PRs          map[string]int `json:"prs,omitempty"`
	WorktreePath string         `json:"worktree_path,omitempty"`
}

// Config is the full gg/config.json document.
type Config struct {
	Defaults Defaults                `json:"defaults"`
	Stacks   map[string]*StackConfig `json:"stacks"`
}

// New returns a Config with the documented defaults (auto_add_gg_ids true,
// everything else unset or false).
func New() *Config {
	return &Config{
		Defaults: Defaults{AutoAddGGIDs: true},
		Stacks:   map[string]*StackConfig{},
	}
}

// Path returns the config file path given the repository's common git dir
// (the shared .git dir, not a worktree-private one).
func Path(commonGitDir string) string {
	return filepath.Join(commonGitDir, "gg", "config.json")
}

// Load reads the config at path. A missing file is not an error; it returns
// a fresh default Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, ggerrors.NewConfigError(path, err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, ggerrors.NewConfigError(path, err)
	}
	if cfg.Stacks == nil {
		cfg.Stacks = map[string]*StackConfig{}
	}
	return cfg, nil
}

// Save writes the config to path as indented JSON, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ggerrors.NewConfigError(path, err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return ggerrors.NewConfigError(path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ggerrors.NewConfigError(path, err)
	}
	return nil
}

// GetStack returns the stack config for name, if one exists.
func (c *Config) GetStack(name string) (*StackConfig, bool) {
	sc, ok := c.Stacks[name]
	return sc, ok
}

// GetOrCreateStack returns the stack config for name, creating and
// registering an empty one if it doesn't exist yet.
func (c *Config) GetOrCreateStack(name string) *StackConfig {
	if c.Stacks == nil {
		c.Stacks = map[string]*StackConfig{}
	}
	sc, ok := c.Stacks[name]
	if !ok {
		sc = &StackConfig{PRs: map[string]int{}}
		c.Stacks[name] = sc
	}
	if sc.PRs == nil {
		sc.PRs = map[string]int{}
	}
	return sc
}

// RemoveStack deletes the stack's config entry entirely.
func (c *Config) RemoveStack(name string) {
	delete(c.Stacks, name)
}

// ListStacks returns the names of all stacks with a config entry.
func (c *Config) ListStacks() []string {
	names := make([]string, 0, len(c.Stacks))
	for name := range c.Stacks {
		names = append(names, name)
	}
	return names
}

// GetBaseForStack resolves the base branch for stackName: a per-stack
// override if set, otherwise the repository default, otherwise "".
func (c *Config) GetBaseForStack(stackName string) string {
	if sc, ok := c.Stacks[stackName]; ok && sc.Base != "" {
		return sc.Base
	}
	return c.Defaults.Base
}

// GetPRForEntry returns the PR/MR number mapped to ggID within stackName.
func (c *Config) GetPRForEntry(stackName, ggID string) (int, bool) {
	sc, ok := c.Stacks[stackName]
	if !ok {
		return 0, false
	}
	num, ok := sc.PRs[ggID]
	return num, ok
}

// SetPRForEntry records the PR/MR number for ggID within stackName.
func (c *Config) SetPRForEntry(stackName, ggID string, number int) {
	sc := c.GetOrCreateStack(stackName)
	sc.PRs[ggID] = number
}

// RemovePRForEntry removes the PR/MR mapping for ggID within stackName, if present.
func (c *Config) RemovePRForEntry(stackName, ggID string) {
	sc, ok := c.Stacks[stackName]
	if !ok {
		return
	}
	delete(sc.PRs, ggID)
}

// LandWaitTimeoutMinutes returns the configured land --wait timeout, defaulting to 30.
func (c *Config) LandWaitTimeoutMinutes() int {
	if c.Defaults.LandWaitTimeoutMinutes != nil {
		return *c.Defaults.LandWaitTimeoutMinutes
	}
	return defaultLandWaitTimeoutMinutes
}

// LandAutoClean reports whether land should clean up without prompting after
// landing every entry in a stack.
func (c *Config) LandAutoClean() bool {
	return c.Defaults.LandAutoClean
}
