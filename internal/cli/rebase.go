package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/ggerrors"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/output"
)

func newRebaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebase [target]",
		Short: "Update the base branch and rebase the stack onto it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			lock, err := gitgw.AcquireOperationLock(a.commonGitDir, "rebase")
			if err != nil {
				return err
			}
			defer lock.Release()

			var target string
			if len(args) == 1 {
				target = args[0]
			}
			return runRebase(a, target)
		},
	}
	return cmd
}

func runRebase(a *app, target string) error {
	clean, err := a.repo.IsClean(a.ctx)
	if err != nil {
		return err
	}
	stashed := !clean
	if stashed {
		a.splog.Info("Auto-stashing uncommitted changes...")
		if _, err := a.repo.Run(a.ctx, "stash", "push", "-m", "gg-rebase-autostash"); err != nil {
			return fmt.Errorf("auto-stashing changes: %w", err)
		}
	}

	if target == "" {
		stack, err := loadCurrentStack(a)
		if err != nil {
			if stashed {
				_, _ = a.repo.Run(a.ctx, "stash", "pop")
			}
			return err
		}
		target = stack.Base
	}

	currentBranch, onBranch, _ := a.repo.CurrentBranch(a.ctx)

	a.splog.Info("Updating %s and rebasing stack...", target)
	a.repo.FetchPrune(a.ctx, "origin")

	if err := updateLocalBranch(a, target); err != nil {
		a.splog.Info("Warning: could not update local %s: %v", target, err)
		a.splog.Info("  Continuing with rebase onto origin/%s...", target)
	} else {
		a.splog.Info("%s Updated local %s to latest", output.ColorGood("->"), target)
	}

	if onBranch {
		_, _ = a.repo.Run(a.ctx, "checkout", currentBranch)
	}

	rebaseTarget := "origin/" + target
	_, rebaseErr := a.repo.Run(a.ctx, "rebase", rebaseTarget)
	if rebaseErr != nil {
		if inProgress, _ := a.repo.IsRebaseInProgress(a.ctx); inProgress {
			a.splog.Info("! Rebase conflict detected.")
			a.splog.Info("  Resolve conflicts, then run `gg continue`")
			a.splog.Info("  Or run `gg abort` to cancel the rebase")
			return ggerrors.NewRebaseConflictError(target, "")
		}
		if stashed {
			_, _ = a.repo.Run(a.ctx, "stash", "pop")
		}
		return rebaseErr
	}

	a.splog.Info("%s Rebased stack onto %s", output.ColorGood("OK"), target)
	if stashed {
		a.splog.Info("Restoring stashed changes...")
		if _, err := a.repo.Run(a.ctx, "stash", "pop"); err != nil {
			a.splog.Info("Warning: could not restore stashed changes: %v", err)
			a.splog.Info("  Your changes are in the stash. Run `git stash pop` manually.")
		}
	}
	return nil
}

// updateLocalBranch fast-forwards branch to match origin/branch, leaving the
// current checkout unchanged. Failure (branch missing, diverged, etc.) is
// non-fatal to the caller.
func updateLocalBranch(a *app, branch string) error {
	if exists, _ := a.repo.BranchExists(a.ctx, branch); !exists {
		return nil
	}
	remoteRef := "origin/" + branch
	if _, err := a.repo.Revision(a.ctx, remoteRef); err != nil {
		return nil
	}

	current, _, _ := a.repo.CurrentBranch(a.ctx)
	if err := a.repo.CheckoutBranch(a.ctx, branch); err != nil {
		return err
	}
	_, ffErr := a.repo.Run(a.ctx, "merge", "--ff-only", remoteRef)
	if current != "" {
		_, _ = a.repo.Run(a.ctx, "checkout", current)
	}
	return ffErr
}

func newContinueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "continue",
		Short: "Continue a paused rebase after resolving conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			inProgress, err := a.repo.IsRebaseInProgress(a.ctx)
			if err != nil {
				return err
			}
			if !inProgress {
				return ggerrors.ErrNoRebaseInProgress
			}
			clean, err := a.repo.IsClean(a.ctx)
			if err != nil {
				return err
			}
			if !clean {
				return fmt.Errorf("you have unstaged changes; stage them with `git add` before running `gg continue`")
			}

			result, err := a.repo.RebaseContinue(a.ctx)
			if err != nil {
				return err
			}
			if result == gitgw.RebaseConflict {
				a.splog.Info("! More conflicts detected. Resolve and run `gg continue` again.")
				return ggerrors.ErrRebaseConflict
			}
			a.splog.Info("%s Rebase continued successfully", output.ColorGood("OK"))
			return nil
		},
	}
}

func newAbortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abort",
		Short: "Abort a paused rebase",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			inProgress, err := a.repo.IsRebaseInProgress(a.ctx)
			if err != nil {
				return err
			}
			if !inProgress {
				return ggerrors.ErrNoRebaseInProgress
			}
			if err := a.repo.RebaseAbort(a.ctx); err != nil {
				return err
			}
			a.splog.Info("%s Rebase aborted", output.ColorGood("OK"))
			return nil
		},
	}
}
