package gitgw

import (
	"context"
	"strings"

	"github.com/jonnii/gg/internal/ggerrors"
)

// Repo wraps a Runner rooted at a discovered repository worktree.
type Repo struct {
	*Runner
}

// Open discovers the repository containing dir (or the process cwd if dir
// is empty) and returns a Repo rooted at its top-level worktree path.
func Open(ctx context.Context, dir string) (*Repo, error) {
	probe := NewRunner(dir)
	top, err := probe.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, ggerrors.ErrNotInRepo
	}
	return &Repo{Runner: NewRunner(top)}, nil
}

// CommonGitDir returns the repository's shared .git directory, which is the
// same path across all worktrees of a repository (unlike GitDir).
func (r *Repo) CommonGitDir(ctx context.Context) (string, error) {
	return r.Run(ctx, "rev-parse", "--path-format=absolute", "--git-common-dir")
}

// GitDir returns the git directory for the current worktree, which differs
// from CommonGitDir when operating inside a linked worktree.
func (r *Repo) GitDir(ctx context.Context) (string, error) {
	return r.Run(ctx, "rev-parse", "--path-format=absolute", "--git-dir")
}

// CurrentBranch returns the branch HEAD points to, or "" with ok=false when
// HEAD is detached.
func (r *Repo) CurrentBranch(ctx context.Context) (name string, ok bool, err error) {
	out, err := r.Run(ctx, "symbolic-ref", "--short", "-q", "HEAD")
	if err != nil {
		if _, err := r.Run(ctx, "rev-parse", "--verify", "-q", "HEAD"); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return out, true, nil
}

// Revision resolves ref to a full commit SHA.
func (r *Repo) Revision(ctx context.Context, ref string) (string, error) {
	return r.Run(ctx, "rev-parse", "--verify", ref+"^{commit}")
}

// ShortSHA returns the short form of a SHA.
func (r *Repo) ShortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// IsClean reports whether the working tree and index have no pending changes.
func (r *Repo) IsClean(ctx context.Context) (bool, error) {
	out, err := r.RunRaw(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

// IsAncestor reports whether ancestor is reachable from descendant.
func (r *Repo) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	_, err := r.Run(ctx, "merge-base", "--is-ancestor", ancestor, descendant)
	return err == nil, nil
}

// MergeBase returns the merge base of two refs.
func (r *Repo) MergeBase(ctx context.Context, ref1, ref2 string) (string, error) {
	return r.Run(ctx, "merge-base", ref1, ref2)
}

// UserName returns the configured git user.name.
func (r *Repo) UserName(ctx context.Context) (string, error) {
	return r.Run(ctx, "config", "user.name")
}

// FindBaseBranch tries common trunk names, preferring a local branch then
// the equivalent remote-tracking branch.
func (r *Repo) FindBaseBranch(ctx context.Context) (string, error) {
	candidates := []string{"main", "master", "trunk"}
	for _, name := range candidates {
		if _, err := r.Run(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+name); err == nil {
			return name, nil
		}
	}
	for _, name := range candidates {
		if _, err := r.Run(ctx, "show-ref", "--verify", "--quiet", "refs/remotes/origin/"+name); err == nil {
			return name, nil
		}
	}
	return "", ggerrors.ErrNoBaseBranch
}

// FetchPrune fetches and prunes remote-tracking refs for remote. Failures
// are non-fatal to the caller's overall operation, so errors are swallowed.
func (r *Repo) FetchPrune(ctx context.Context, remote string) {
	_, _ = r.Run(ctx, "fetch", "--prune", remote)
}

// RemoteURL returns the configured push/fetch URL for remote.
func (r *Repo) RemoteURL(ctx context.Context, remote string) (string, error) {
	return r.Run(ctx, "remote", "get-url", remote)
}
