package gitgw

import (
	"context"
	"os"
)

// RebaseResult is the outcome of a rebase attempt.
type RebaseResult int

const (
	// RebaseDone means the rebase completed without stopping.
	RebaseDone RebaseResult = iota
	// RebaseConflict means the rebase stopped on a conflict and needs
	// `gg continue` or `gg abort`.
	RebaseConflict
)

// RebaseOnto runs `git rebase --onto onto from branchName`. git checks out
// branchName and moves it to the rebased tip, so on success HEAD is attached
// to branchName.
func (r *Repo) RebaseOnto(ctx context.Context, branchName, onto, from string) (RebaseResult, error) {
	_, err := r.Run(ctx, "rebase", "--onto", onto, from, branchName)
	if err != nil {
		if inProgress, _ := r.IsRebaseInProgress(ctx); inProgress {
			return RebaseConflict, nil
		}
		return RebaseConflict, err
	}
	return RebaseDone, nil
}

// RebaseContinue resumes an in-progress rebase after conflicts are resolved
// and staged.
func (r *Repo) RebaseContinue(ctx context.Context) (RebaseResult, error) {
	_, err := r.RunWithEnv(ctx, []string{"GIT_EDITOR=true"}, "rebase", "--continue")
	if err != nil {
		if inProgress, _ := r.IsRebaseInProgress(ctx); inProgress {
			return RebaseConflict, nil
		}
		return RebaseConflict, err
	}
	return RebaseDone, nil
}

// RebaseAbort aborts an in-progress rebase, restoring the branch to its
// pre-rebase state.
func (r *Repo) RebaseAbort(ctx context.Context) error {
	_, err := r.Run(ctx, "rebase", "--abort")
	return err
}

// IsRebaseInProgress reports whether a rebase is currently underway, by
// checking for the directories git creates under the (per-worktree) git dir.
func (r *Repo) IsRebaseInProgress(ctx context.Context) (bool, error) {
	gitDir, err := r.GitDir(ctx)
	if err != nil {
		return false, err
	}
	for _, sub := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(gitDir + "/" + sub); err == nil {
			return true, nil
		}
	}
	return false, nil
}
