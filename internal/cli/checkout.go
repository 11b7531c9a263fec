package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/output"
	"github.com/jonnii/gg/internal/stackmodel"
)

func newCheckoutCmd() *cobra.Command {
	var base string
	var worktree string

	cmd := &cobra.Command{
		Use:     "co [stack-name]",
		Aliases: []string{"checkout", "sw", "switch"},
		Short:   "Create or switch to a stack",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			lock, err := gitgw.AcquireOperationLock(a.commonGitDir, "checkout")
			if err != nil {
				return err
			}
			defer lock.Release()

			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return runCheckout(a, name, base, worktree)
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "base branch for a newly created stack")
	cmd.Flags().StringVarP(&worktree, "worktree", "w", "", "open the stack in a new linked worktree at this path")
	return cmd
}

func runCheckout(a *app, name, base, worktreePath string) error {
	prov, _ := a.resolveProvider()
	username, err := a.resolveUsername(prov)
	if err != nil {
		return err
	}

	if name == "" {
		name, err = pickStack(a, username)
		if err != nil {
			return err
		}
	}

	sanitized := stackmodel.SanitizeName(name)
	if sanitized != name {
		a.splog.Info("Converted stack name to: %s", sanitized)
	}
	name = sanitized
	if name == "" {
		return fmt.Errorf("stack name cannot be empty")
	}

	branchName := stackmodel.FormatStackBranch(username, name)
	exists, err := a.repo.BranchExists(a.ctx, branchName)
	if err != nil {
		return err
	}

	target := branchName
	if !exists {
		entryBranch, err := findLocalEntryBranch(a.ctx, a.repo, username, name)
		if err != nil {
			return err
		}
		if entryBranch != "" {
			target = entryBranch
		} else {
			if err := createStackBranch(a, branchName, name, base); err != nil {
				return err
			}
			target = branchName
		}
	} else if base != "" {
		a.cfg.GetOrCreateStack(name).Base = base
		if err := a.saveConfig(); err != nil {
			return err
		}
	}

	if worktreePath != "" {
		if err := a.repo.AddWorktree(a.ctx, worktreePath, target); err != nil {
			return err
		}
		a.cfg.GetOrCreateStack(name).WorktreePath = worktreePath
		if err := a.saveConfig(); err != nil {
			return err
		}
	} else {
		if err := a.repo.CheckoutBranch(a.ctx, target); err != nil {
			return err
		}
	}

	if a.jsonOutput {
		output.PrintJSON(map[string]any{"version": output.OutputVersion, "co": map[string]any{"stack": name, "branch": target}})
		return nil
	}
	a.splog.Info("%s Switched to stack %s", output.ColorGood("OK"), output.ColorBranchName(name, true))
	return nil
}

func createStackBranch(a *app, branchName, name, base string) error {
	if base == "" {
		base = a.cfg.GetBaseForStack(name)
	}
	if base == "" {
		detected, err := a.repo.FindBaseBranch(a.ctx)
		if err != nil {
			return err
		}
		base = detected
	}

	baseOID, err := a.repo.Revision(a.ctx, base)
	if err != nil {
		return fmt.Errorf("could not resolve base %q: %w", base, err)
	}
	if err := a.repo.ForceCreateBranch(a.ctx, branchName, baseOID); err != nil {
		return err
	}
	a.cfg.GetOrCreateStack(name).Base = base
	return a.saveConfig()
}

// findLocalEntryBranch returns a local entry branch for username/name if one
// exists and the main stack branch doesn't, so `co` can recover a stack
// whose head branch was deleted but whose entries survive.
func findLocalEntryBranch(ctx context.Context, repo *gitgw.Repo, username, name string) (string, error) {
	branches, err := repo.AllBranchNames(ctx)
	if err != nil {
		return "", err
	}
	prefix := username + "/" + name + "--"
	for _, b := range branches {
		if strings.HasPrefix(b, prefix) {
			return b, nil
		}
	}
	return "", nil
}

// pickStack prompts the user to choose among their existing stacks when no
// name was given on the command line.
func pickStack(a *app, username string) (string, error) {
	names, err := listStackNames(a.ctx, a.repo, username)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no stacks found; use `gg co <stack-name>` to create one")
	}
	if !output.IsTTY() {
		return "", fmt.Errorf("no stack name given and stdin is not a terminal; pass one explicitly")
	}

	var choice string
	prompt := &survey.Select{Message: "Select a stack", Options: names}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return choice, nil
}

// listStackNames returns the distinct stack names visible to username, taken
// from local stack and entry branches; config entries are not consulted.
func listStackNames(ctx context.Context, repo *gitgw.Repo, username string) ([]string, error) {
	branches, err := repo.AllBranchNames(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var names []string
	for _, b := range branches {
		if u, name, ok := stackmodel.ParseStackBranch(b); ok && u == username {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		} else if u, name, _, ok := stackmodel.ParseEntryBranch(b); ok && u == username {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}
