// Package cleanengine tears down stacks that are fully merged: it deletes
// the local stack branch and its entry branches (and their remote
// counterparts, once merge state is verified), any worktree attached to the
// stack, and the stack's entry from config.
package cleanengine

import (
	"context"
	"fmt"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/provider"
	"github.com/jonnii/gg/internal/stackmodel"
)

// MergeStatus reports whether a stack is safe to clean.
type MergeStatus struct {
	Merged bool
	// Verified is true when Merged was established by asking the provider
	// about every entry's PR/MR state, rather than by the weaker
	// ancestor-of-base git fallback. Remote branch deletion is gated on
	// Verified: a squash or rebase merge leaves the local commit SHAs
	// unreachable from base even though the PRs genuinely merged, so the
	// ancestor check alone cannot be trusted to authorize deleting remotes.
	Verified bool
}

// CheckMerged determines whether stack is fully merged, preferring the
// provider's authoritative PR/MR state and falling back to an
// ancestor-of-base check (useful for local/manual merges, or when no
// provider is configured) that cannot itself verify remote branches.
func CheckMerged(ctx context.Context, repo *gitgw.Repo, cfg *config.Config, prov provider.Provider, stack *stackmodel.Stack) (MergeStatus, error) {
	stackCfg, hasCfg := cfg.GetStack(stack.Name)
	if hasCfg && len(stackCfg.PRs) > 0 && prov != nil {
		allMerged := true
		verified := true
		for _, num := range stackCfg.PRs {
			pr, err := prov.Get(ctx, num)
			if err != nil {
				verified = false
				allMerged = false
				break
			}
			if pr.State != provider.PRStateMerged {
				allMerged = false
			}
		}
		if allMerged {
			return MergeStatus{Merged: true, Verified: verified}, nil
		}
	}

	ancestor, err := isStackAncestorOfBase(ctx, repo, stack)
	if err != nil {
		return MergeStatus{}, err
	}
	return MergeStatus{Merged: ancestor, Verified: false}, nil
}

func isStackAncestorOfBase(ctx context.Context, repo *gitgw.Repo, stack *stackmodel.Stack) (bool, error) {
	branch := stack.BranchName()
	return repo.IsAncestor(ctx, branch, stack.Base)
}

// Options configures a clean run.
type Options struct {
	Remote         string
	RemoveWorktree bool // only consulted when the stack has a configured worktree
	SkipMergeCheck bool // clean even if not verified merged (force)
}

// Result reports what Clean did.
type Result struct {
	DeletedLocalBranches  []string
	DeletedRemoteBranches []string
	WorktreeRemoved       bool
	Skipped               bool
	SkipReason            string
}

// Clean deletes stack's branches (local always; remote only when merge
// state was Verified, or SkipMergeCheck is set), its worktree if opts asks
// for removal, and its entry from cfg.
func Clean(ctx context.Context, repo *gitgw.Repo, cfg *config.Config, stack *stackmodel.Stack, status MergeStatus, opts Options) (*Result, error) {
	if !status.Merged && !opts.SkipMergeCheck {
		return &Result{Skipped: true, SkipReason: fmt.Sprintf("stack %q has unmerged commits", stack.Name)}, nil
	}

	result := &Result{}

	if stackCfg, ok := cfg.GetStack(stack.Name); ok && stackCfg.WorktreePath != "" {
		if opts.RemoveWorktree {
			if err := repo.RemoveWorktree(ctx, stackCfg.WorktreePath); err != nil {
				return nil, fmt.Errorf("removing worktree %q: %w", stackCfg.WorktreePath, err)
			}
			stackCfg.WorktreePath = ""
			result.WorktreeRemoved = true
		}
	}

	branchName := stack.BranchName()
	allowRemoteDelete := status.Verified || opts.SkipMergeCheck

	if err := deleteBranchPair(ctx, repo, cfg, branchName, stack.Base, opts.Remote, allowRemoteDelete, result); err != nil {
		return nil, err
	}

	for _, e := range stack.Entries {
		if !e.HasGGID() {
			continue
		}
		entryBranch := stack.EntryBranchName(e)
		if err := deleteBranchPair(ctx, repo, cfg, entryBranch, stack.Base, opts.Remote, allowRemoteDelete, result); err != nil {
			return nil, err
		}
	}

	cfg.RemoveStack(stack.Name)
	return result, nil
}

func deleteBranchPair(ctx context.Context, repo *gitgw.Repo, cfg *config.Config, branch, base, remote string, allowRemoteDelete bool, result *Result) error {
	exists, err := repo.BranchExists(ctx, branch)
	if err != nil {
		return err
	}
	if exists {
		if current, ok, _ := repo.CurrentBranch(ctx); ok && current == branch {
			if err := repo.CheckoutBranch(ctx, base); err != nil {
				return fmt.Errorf("switching off %q before deleting it: %w", branch, err)
			}
		}
		if err := repo.DeleteBranch(ctx, branch, true); err == nil {
			result.DeletedLocalBranches = append(result.DeletedLocalBranches, branch)
		}
	}

	if allowRemoteDelete && remote != "" {
		if err := repo.DeleteRemoteBranch(ctx, remote, branch); err == nil {
			result.DeletedRemoteBranches = append(result.DeletedRemoteBranches, branch)
		}
	}
	return nil
}
