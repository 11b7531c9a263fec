// Package cli wires gg's engines up to cobra commands: flag parsing, repo
// and config discovery, provider resolution, and both the plain-text and
// --json rendering of each verb's result.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/ggerrors"
	"github.com/jonnii/gg/internal/output"
	"github.com/jonnii/gg/internal/provider"
	"github.com/jonnii/gg/internal/provider/github"
	"github.com/jonnii/gg/internal/provider/gitlab"
)

// app bundles the state almost every verb needs: an open repository, its
// config side-table, and a logger. Provider and username are resolved
// lazily since a handful of verbs (setup, completions, nav) never need them.
type app struct {
	ctx           context.Context
	repo          *gitgw.Repo
	cfg           *config.Config
	commonGitDir  string
	splog         *output.Splog
	jsonOutput    bool
}

// newApp opens the repository containing cwd (or GG_REPO_PATH if set) and
// loads its config.
func newApp(ctx context.Context, jsonOutput bool) (*app, error) {
	dir := os.Getenv("GG_REPO_PATH")
	repo, err := gitgw.Open(ctx, dir)
	if err != nil {
		return nil, err
	}
	commonGitDir, err := repo.CommonGitDir(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(config.Path(commonGitDir))
	if err != nil {
		return nil, err
	}
	return &app{
		ctx:          ctx,
		repo:         repo,
		cfg:          cfg,
		commonGitDir: commonGitDir,
		splog:        output.NewSplog(),
		jsonOutput:   jsonOutput,
	}, nil
}

// saveConfig persists any changes made to a.cfg.
func (a *app) saveConfig() error {
	return a.cfg.Save(config.Path(a.commonGitDir))
}

// resolveProvider detects which forge origin points at and builds a driver
// for it, honoring an explicit Defaults.Provider override first.
func (a *app) resolveProvider() (provider.Provider, error) {
	remoteURL, err := a.repo.RemoteURL(a.ctx, "origin")
	if err != nil {
		return nil, ggerrors.ErrProviderNotConfigured
	}

	kind, ok := provider.DetectKind(remoteURL)
	if a.cfg.Defaults.Provider != "" {
		kind = provider.Kind(a.cfg.Defaults.Provider)
		ok = true
	}
	if !ok {
		return nil, ggerrors.ErrProviderNotConfigured
	}

	owner, repoName, err := parseOwnerRepo(remoteURL)
	if err != nil {
		return nil, err
	}

	switch kind {
	case provider.KindGitHub:
		return github.New(owner, repoName)
	case provider.KindGitLab:
		return gitlab.New(owner+"/"+repoName, "")
	default:
		return nil, ggerrors.ErrProviderNotConfigured
	}
}

// parseOwnerRepo extracts "owner" and "repo" from an SSH or HTTPS git remote
// URL, e.g. git@github.com:owner/repo.git or https://github.com/owner/repo.
func parseOwnerRepo(remoteURL string) (owner, repoName string, err error) {
	s := remoteURL
	if idx := indexAny(s, ":"); idx >= 0 && !containsScheme(s) {
		s = s[idx+1:]
	} else if containsScheme(s) {
		if idx := indexAfterHost(s); idx >= 0 {
			s = s[idx:]
		}
	}
	s = trimSuffix(s, ".git")
	s = trimSuffix(s, "/")

	parts := splitLast2(s)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("could not parse owner/repo from remote %q", remoteURL)
	}
	return parts[0], parts[1], nil
}

func containsScheme(s string) bool {
	return hasPrefix(s, "http://") || hasPrefix(s, "https://") || hasPrefix(s, "ssh://")
}

func indexAfterHost(s string) int {
	schemeEnd := indexAny(s, "://")
	if schemeEnd < 0 {
		return -1
	}
	rest := s[schemeEnd+3:]
	slash := indexAny(rest, "/")
	if slash < 0 {
		return -1
	}
	return schemeEnd + 3 + slash + 1
}

func indexAny(s, sep string) int {
	for i := 0; i+len(sep) <= len(s); i++ {
		if s[i:i+len(sep)] == sep {
			return i
		}
	}
	return -1
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func trimSuffix(s, suffix string) string {
	if len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix {
		return s[:len(s)-len(suffix)]
	}
	return s
}

func splitLast2(s string) []string {
	// owner/repo is always the final two path segments.
	var segs []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '/' {
			if i > start {
				segs = append(segs, s[start:i])
			}
			start = i + 1
		}
	}
	if len(segs) < 2 {
		return segs
	}
	return segs[len(segs)-2:]
}

// resolveUsername resolves the branch-naming username: config override,
// then the provider's whoami, then falling back to git's user.name.
func (a *app) resolveUsername(prov provider.Provider) (string, error) {
	if a.cfg.Defaults.BranchUsername != "" {
		return a.cfg.Defaults.BranchUsername, nil
	}
	if prov != nil {
		if name, err := prov.Whoami(a.ctx); err == nil && name != "" {
			return name, nil
		}
	}
	name, err := a.repo.UserName(a.ctx)
	if err != nil || name == "" {
		return "", fmt.Errorf("could not determine username: set defaults.branch_username in gg config, or configure git user.name")
	}
	return name, nil
}

