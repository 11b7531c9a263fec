// Package squashengine implements `gg sc`: folding the working tree's
// pending changes into the commit currently checked out within a stack,
// then rebasing any entries above it onto the amended commit.
package squashengine

import (
	"context"
	"fmt"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/ggerrors"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/stackmodel"
)

// Squash stages changes (tracked files only, or everything with all) and
// amends them into the commit at stack's current position.
func Squash(ctx context.Context, repo *gitgw.Repo, cfg *config.Config, stack *stackmodel.Stack, all bool) (*stackmodel.Stack, error) {
	entry, ok := stack.Current()
	if !ok {
		return nil, fmt.Errorf("HEAD is not on a commit in stack %q; use `gg mv` to detach onto one first", stack.Name)
	}

	clean, err := repo.IsClean(ctx)
	if err != nil {
		return nil, err
	}
	if clean {
		return nil, fmt.Errorf("nothing to squash; working directory is clean")
	}

	stageArgs := []string{"add", "-u"}
	if all {
		stageArgs = []string{"add", "-A"}
	}
	if _, err := repo.Run(ctx, stageArgs...); err != nil {
		return nil, fmt.Errorf("staging changes: %w", err)
	}
	if _, err := repo.Run(ctx, "commit", "--amend", "--no-edit"); err != nil {
		return nil, fmt.Errorf("amending commit: %w", err)
	}

	newHead, err := repo.Revision(ctx, "HEAD")
	if err != nil {
		return nil, err
	}

	branch := stack.BranchName()
	if entry.Position < stack.Len() {
		oldTip := stack.Entries[stack.Len()-1].OID
		if err := repo.ForceCreateBranch(ctx, branch, oldTip); err != nil {
			return nil, err
		}
		result, err := repo.RebaseOnto(ctx, branch, newHead, entry.OID)
		if err != nil {
			return nil, err
		}
		if result == gitgw.RebaseConflict {
			return nil, ggerrors.NewRebaseConflictError(branch, "resolve the conflict, then `gg continue`, or `gg abort` to undo the squash")
		}
	} else if _, attached, err := repo.CurrentBranch(ctx); err == nil && !attached {
		if err := repo.ForceCreateBranch(ctx, branch, newHead); err != nil {
			return nil, err
		}
		if err := repo.CheckoutBranch(ctx, branch); err != nil {
			return nil, err
		}
	}

	return stackmodel.Load(ctx, repo, cfg, branch)
}
