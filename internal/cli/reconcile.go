package cli

import (
	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/output"
	"github.com/jonnii/gg/internal/reconcile"
)

func newReconcileCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recover GG-IDs and PR mappings for a stack pushed without `gg sync`",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			lock, err := gitgw.AcquireOperationLock(a.commonGitDir, "reconcile")
			if err != nil {
				return err
			}
			defer lock.Release()

			stack, err := loadCurrentStack(a)
			if err != nil {
				return err
			}

			p, provErr := a.resolveProvider()
			if provErr != nil {
				p = nil
			}

			plan, err := reconcile.BuildPlan(a.ctx, a.cfg, p, stack)
			if err != nil {
				return err
			}
			if plan.IsEmpty() {
				a.splog.Info("Nothing to reconcile for stack %s", stack.Name)
				return nil
			}

			if !dryRun {
				if len(plan.CommitsNeedingIDs) > 0 {
					stack, err = reconcile.ApplyGGIDs(a.ctx, a.repo, a.cfg, stack)
					if err != nil {
						return err
					}
					plan, err = reconcile.BuildPlan(a.ctx, a.cfg, p, stack)
					if err != nil {
						return err
					}
				}
				reconcile.ApplyMappings(a.cfg, stack.Name, plan.PRsToMap)
				if err := a.saveConfig(); err != nil {
					return err
				}
			}

			printReconcilePlan(a, plan, dryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without modifying anything")
	return cmd
}

func printReconcilePlan(a *app, plan *reconcile.Plan, dryRun bool) {
	if a.jsonOutput {
		output.PrintJSON(map[string]any{
			"version": output.OutputVersion,
			"reconcile": map[string]any{
				"commits_needing_ids": len(plan.CommitsNeedingIDs),
				"prs_to_map":          len(plan.PRsToMap),
				"dry_run":             dryRun,
			},
		})
		return
	}
	verb := "Found"
	if !dryRun {
		verb = "Fixed"
	}
	a.splog.Info("%s %d commit(s) missing GG-IDs, %d PR mapping(s)", verb, len(plan.CommitsNeedingIDs), len(plan.PRsToMap))
}
