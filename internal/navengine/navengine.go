// Package navengine implements gg's stack navigation: moving the detached
// HEAD between entries by position, GG-ID, or SHA prefix, and auto-rebasing
// the rest of the stack when the user amends a commit while detached.
package navengine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jonnii/gg/internal/ggerrors"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/stackmodel"
)

// Hint is printed to the user after checking out an entry in detached HEAD,
// describing how to get back.
const Hint = "HEAD is now detached at this entry. Use `gg next`/`gg prev`/`gg last` to keep moving, or `gg mv <n>` to jump."

// ResolveTarget finds the entry target refers to within stack: an integer
// 1-indexed position, an exact GG-ID, or a unique commit SHA prefix, tried
// in that order.
func ResolveTarget(stack *stackmodel.Stack, target string) (stackmodel.Entry, error) {
	if pos, err := strconv.Atoi(target); err == nil {
		if e, ok := stack.ByPosition(pos); ok {
			return e, nil
		}
		return stackmodel.Entry{}, fmt.Errorf("position %d is out of range (stack has %d entries)", pos, stack.Len())
	}
	if e, ok := stack.ByGGID(target); ok {
		return e, nil
	}
	if e, ok := stack.ByShortSHAPrefix(target); ok {
		return e, nil
	}
	return stackmodel.Entry{}, fmt.Errorf("no entry in stack %q matches %q", stack.Name, target)
}

// checkoutEntry moves HEAD to entry's commit within stack. Reaching the tip
// entry attaches HEAD to the stack branch and clears any breadcrumb, since
// there's nothing left above to auto-rebase onto; anywhere else it's a
// detached checkout with a breadcrumb recording where we left from, so a
// later amend can be replayed onto the rest of the stack.
func checkoutEntry(ctx context.Context, repo *gitgw.Repo, stack *stackmodel.Stack, entry stackmodel.Entry) error {
	gitDir, err := repo.GitDir(ctx)
	if err != nil {
		return err
	}
	if entry.Position == stack.Len() {
		if err := repo.CheckoutBranch(ctx, stack.BranchName()); err != nil {
			return err
		}
		return ClearBreadcrumb(gitDir)
	}
	if err := SaveBreadcrumb(gitDir, Breadcrumb{
		StackBranch:   stack.BranchName(),
		SavedPosition: entry.Position - 1,
		OriginalOID:   entry.OID,
	}); err != nil {
		return err
	}
	return repo.CheckoutDetached(ctx, entry.OID)
}

// CheckAndRebaseIfModified inspects the worktree's breadcrumb and, if the
// user amended the commit it points at while HEAD was detached, replays
// that amend onto the rest of the stack via `git rebase --onto`. It returns
// true if a rebase was performed.
func CheckAndRebaseIfModified(ctx context.Context, repo *gitgw.Repo, stack *stackmodel.Stack) (bool, error) {
	gitDir, err := repo.GitDir(ctx)
	if err != nil {
		return false, err
	}

	b, ok, err := ReadBreadcrumb(gitDir)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if b.StackBranch != stack.BranchName() || b.SavedPosition >= stack.Len()-1 {
		_ = ClearBreadcrumb(gitDir)
		return false, nil
	}
	if stack.CurrentPosition != b.SavedPosition+1 {
		// The user already moved elsewhere; the breadcrumb is stale.
		_ = ClearBreadcrumb(gitDir)
		return false, nil
	}

	currentOID, err := repo.Revision(ctx, "HEAD")
	if err != nil {
		return false, err
	}
	if currentOID == b.OriginalOID {
		return false, nil
	}

	result, err := repo.RebaseOnto(ctx, b.StackBranch, currentOID, b.OriginalOID)
	if err != nil {
		return false, err
	}
	if result == gitgw.RebaseConflict {
		return false, ggerrors.NewRebaseConflictError(b.StackBranch, "")
	}

	_ = ClearBreadcrumb(gitDir)
	return true, nil
}

// MoveTo checks out the commit at target within stack, taking the "nav"
// operation lock and refusing if a rebase is already in progress.
func MoveTo(ctx context.Context, repo *gitgw.Repo, stack *stackmodel.Stack, target string) (stackmodel.Entry, error) {
	entry, err := ResolveTarget(stack, target)
	if err != nil {
		return stackmodel.Entry{}, err
	}
	if err := withNavLock(ctx, repo, func() error {
		return checkoutEntry(ctx, repo, stack, entry)
	}); err != nil {
		return stackmodel.Entry{}, err
	}
	return entry, nil
}

// First checks out the bottom-most entry of stack.
func First(ctx context.Context, repo *gitgw.Repo, stack *stackmodel.Stack) (stackmodel.Entry, error) {
	entry, ok := stack.First()
	if !ok {
		return stackmodel.Entry{}, fmt.Errorf("stack %q has no entries", stack.Name)
	}
	return entry, withNavLock(ctx, repo, func() error {
		return checkoutEntry(ctx, repo, stack, entry)
	})
}

// Last checks out the top-most entry of stack, first replaying any pending
// amend detected via CheckAndRebaseIfModified.
func Last(ctx context.Context, repo *gitgw.Repo, stack *stackmodel.Stack) (stackmodel.Entry, error) {
	return moveRespectingAmend(ctx, repo, stack, stack.Last)
}

// Next checks out the entry above CurrentPosition, first replaying any
// pending amend.
func Next(ctx context.Context, repo *gitgw.Repo, stack *stackmodel.Stack) (stackmodel.Entry, error) {
	return moveRespectingAmend(ctx, repo, stack, stack.Next)
}

// Prev checks out the entry below CurrentPosition.
func Prev(ctx context.Context, repo *gitgw.Repo, stack *stackmodel.Stack) (stackmodel.Entry, error) {
	entry, ok := stack.Prev()
	if !ok {
		return stackmodel.Entry{}, fmt.Errorf("already at the bottom of stack %q", stack.Name)
	}
	return entry, withNavLock(ctx, repo, func() error {
		return checkoutEntry(ctx, repo, stack, entry)
	})
}

func moveRespectingAmend(ctx context.Context, repo *gitgw.Repo, stack *stackmodel.Stack, pick func() (stackmodel.Entry, bool)) (stackmodel.Entry, error) {
	entry, ok := pick()
	if !ok {
		return stackmodel.Entry{}, fmt.Errorf("no entry to move to in stack %q", stack.Name)
	}
	err := withNavLock(ctx, repo, func() error {
		if _, err := CheckAndRebaseIfModified(ctx, repo, stack); err != nil {
			return err
		}
		return checkoutEntry(ctx, repo, stack, entry)
	})
	return entry, err
}

func withNavLock(ctx context.Context, repo *gitgw.Repo, fn func() error) error {
	if inProgress, err := repo.IsRebaseInProgress(ctx); err != nil {
		return err
	} else if inProgress {
		return ggerrors.ErrRebaseConflict
	}

	gitCommonDir, err := repo.CommonGitDir(ctx)
	if err != nil {
		return err
	}
	lock, err := gitgw.AcquireOperationLock(gitCommonDir, "nav")
	if err != nil {
		return err
	}
	defer lock.Release()

	return fn()
}
