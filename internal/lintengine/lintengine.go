// Package lintengine runs the repository's configured lint commands against
// each commit in a stack, folding any changes lint makes back into that
// commit and rebasing the rest of the stack onto the result.
package lintengine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/ggerrors"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/stackmodel"
)

// CommandResult reports one lint command's outcome against one commit.
type CommandResult struct {
	Command string
	Passed  bool
	Output  string // combined stderr+stdout, only populated on failure
}

// CommitResult reports every lint command's outcome against one commit.
type CommitResult struct {
	Position int
	SHA      string
	Title    string
	Passed   bool
	Commands []CommandResult
}

// Result summarizes a lint run.
type Result struct {
	Results   []CommitResult
	AllPassed bool
}

// Options configures a lint run.
type Options struct {
	// UntilPosition lints commits 1..UntilPosition (1-indexed, inclusive).
	// Zero means the whole stack.
	UntilPosition int
}

// Run checks out each targeted commit in turn, runs the configured lint
// commands against it, and if lint leaves the working tree dirty, amends the
// changes into that commit and rebases the remaining targeted commits onto
// the amended one. It restores the original branch/HEAD position when it
// returns, unless a rebase conflict is left in progress for the caller to
// resolve with `gg continue`/`gg abort`.
func Run(ctx context.Context, repo *gitgw.Repo, cfg *config.Config, stack *stackmodel.Stack, opts Options) (*Result, error) {
	if len(cfg.Defaults.Lint) == 0 {
		return nil, fmt.Errorf("no lint commands configured; run `gg setup` to configure them")
	}
	if clean, err := repo.IsClean(ctx); err != nil {
		return nil, err
	} else if !clean {
		return nil, ggerrors.ErrDirtyWorkingDirectory
	}
	if stack.IsEmpty() {
		return &Result{AllPassed: true}, nil
	}

	endPos := opts.UntilPosition
	if endPos == 0 {
		endPos = stack.Len()
	}
	if endPos > stack.Len() {
		return nil, fmt.Errorf("position %d is out of range (stack has %d commits)", endPos, stack.Len())
	}

	originalBranch, onBranch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	originalHead, err := repo.Revision(ctx, "HEAD")
	if err != nil {
		return nil, err
	}

	result, runErr := runOnCommits(ctx, repo, cfg, stack, endPos)

	if runErr != nil {
		if inProgress, _ := repo.IsRebaseInProgress(ctx); !inProgress {
			restoreOriginalPosition(ctx, repo, originalBranch, onBranch, originalHead)
		}
		return nil, runErr
	}

	if !onBranch {
		if err := repo.CheckoutDetached(ctx, originalHead); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func runOnCommits(ctx context.Context, repo *gitgw.Repo, cfg *config.Config, stack *stackmodel.Stack, endPos int) (*Result, error) {
	originalBranch, onBranch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	entries := stack.Entries
	hadChanges := false
	result := &Result{}

	for i := 0; i < endPos; i++ {
		entry := entries[i]

		if err := repo.CheckoutDetached(ctx, entry.OID); err != nil {
			return nil, err
		}

		commitPassed := true
		var cmdResults []CommandResult
		for _, cmd := range cfg.Defaults.Lint {
			passed, output, err := runLintCommand(ctx, repo.Dir(), cmd)
			if err != nil {
				return nil, err
			}
			if !passed {
				commitPassed = false
			}
			cmdResults = append(cmdResults, CommandResult{Command: cmd, Passed: passed, Output: output})
		}

		clean, err := repo.IsClean(ctx)
		if err != nil {
			return nil, err
		}
		if !clean {
			if _, err := repo.Run(ctx, "add", "-A"); err != nil {
				return nil, fmt.Errorf("staging lint changes: %w", err)
			}
			if _, err := repo.Run(ctx, "commit", "--amend", "--no-edit"); err != nil {
				return nil, fmt.Errorf("amending lint changes: %w", err)
			}
			hadChanges = true

			if i+1 < endPos {
				newHead, err := repo.Revision(ctx, "HEAD")
				if err != nil {
					return nil, err
				}
				oldTip := entries[endPos-1].OID
				targetBranch := stack.BranchName()
				if onBranch {
					targetBranch = originalBranch
				}

				if err := repo.ForceCreateBranch(ctx, targetBranch, oldTip); err != nil {
					return nil, err
				}
				rebaseResult, err := repo.RebaseOnto(ctx, targetBranch, newHead, entry.OID)
				if err != nil {
					return nil, err
				}
				if rebaseResult == gitgw.RebaseConflict {
					return nil, ggerrors.NewRebaseConflictError(targetBranch, "resolve the conflict, then `gg continue`, or `gg abort` to undo lint")
				}

				reloaded, err := stackmodel.Load(ctx, repo, cfg, stack.BranchName())
				if err != nil {
					return nil, err
				}
				entries = reloaded.Entries
			}
		}

		result.Results = append(result.Results, CommitResult{
			Position: entry.Position,
			SHA:      entry.OID,
			Title:    entry.Title,
			Passed:   commitPassed,
			Commands: cmdResults,
		})
	}

	result.AllPassed = allPassed(result.Results)

	if onBranch {
		if hadChanges {
			headOID, err := repo.Revision(ctx, "HEAD")
			if err != nil {
				return nil, err
			}
			if err := repo.ForceCreateBranch(ctx, originalBranch, headOID); err != nil {
				return nil, err
			}
		}
		if err := repo.CheckoutBranch(ctx, originalBranch); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func allPassed(results []CommitResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// runLintCommand runs cmd (a whole shell command line, e.g. "go vet ./...")
// in dir, reporting whether it exited zero and, when it didn't, its combined
// output.
func runLintCommand(ctx context.Context, dir, cmd string) (passed bool, output string, err error) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return true, "", nil
	}

	c := exec.CommandContext(ctx, fields[0], fields[1:]...)
	c.Dir = dir
	var buf bytes.Buffer
	c.Stdout = &buf
	c.Stderr = &buf

	runErr := c.Run()
	if runErr == nil {
		return true, "", nil
	}
	if _, ok := runErr.(*exec.ExitError); ok {
		return false, strings.TrimSpace(buf.String()), nil
	}
	return false, "", fmt.Errorf("running lint command %q: %w", cmd, runErr)
}

func restoreOriginalPosition(ctx context.Context, repo *gitgw.Repo, originalBranch string, onBranch bool, originalHead string) {
	if onBranch {
		_ = repo.CheckoutBranch(ctx, originalBranch)
		return
	}
	_ = repo.CheckoutDetached(ctx, originalHead)
}
