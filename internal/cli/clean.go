package cli

import (
	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/cleanengine"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/output"
)

func newCleanCmd() *cobra.Command {
	var force, removeWorktree bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete a fully-merged stack's branches and config entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			lock, err := gitgw.AcquireOperationLock(a.commonGitDir, "clean")
			if err != nil {
				return err
			}
			defer lock.Release()

			stack, err := loadCurrentStack(a)
			if err != nil {
				return err
			}
			prov, _ := a.resolveProvider()

			status, err := cleanengine.CheckMerged(a.ctx, a.repo, a.cfg, prov, stack)
			if err != nil {
				return err
			}
			if !status.Merged && !force {
				if a.jsonOutput {
					output.PrintJSON(output.CleanResponse{Version: output.OutputVersion, Clean: output.CleanResultJ{Skipped: []string{stack.Name}}})
					return nil
				}
				a.splog.Info("%s stack %s has unmerged commits; pass --force to delete anyway", output.ColorWarn("Skipped:"), stack.Name)
				return nil
			}

			result, err := cleanengine.Clean(a.ctx, a.repo, a.cfg, stack, status, cleanengine.Options{
				Remote:         "origin",
				RemoveWorktree: removeWorktree,
				SkipMergeCheck: force,
			})
			if err != nil {
				return err
			}
			if err := a.saveConfig(); err != nil {
				return err
			}

			printCleanResult(a, stack.Name, result)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete even if not confirmed merged")
	cmd.Flags().BoolVar(&removeWorktree, "remove-worktree", true, "remove the stack's linked worktree, if any")
	return cmd
}

func printCleanResult(a *app, stackName string, result *cleanengine.Result) {
	if a.jsonOutput {
		cleaned := []string{}
		if !result.Skipped {
			cleaned = append(cleaned, stackName)
		}
		skipped := []string{}
		if result.Skipped {
			skipped = append(skipped, stackName)
		}
		output.PrintJSON(output.CleanResponse{Version: output.OutputVersion, Clean: output.CleanResultJ{Cleaned: cleaned, Skipped: skipped}})
		return
	}
	if result.Skipped {
		a.splog.Info("%s %s", output.ColorWarn("Skipped:"), result.SkipReason)
		return
	}
	a.splog.Info("%s Cleaned stack %s", output.ColorGood("OK"), stackName)
	for _, b := range result.DeletedLocalBranches {
		a.splog.Info("  deleted local branch %s", b)
	}
	for _, b := range result.DeletedRemoteBranches {
		a.splog.Info("  deleted remote branch %s", b)
	}
}
