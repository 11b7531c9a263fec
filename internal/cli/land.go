package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/landengine"
	"github.com/jonnii/gg/internal/output"
)

func newLandCmd() *cobra.Command {
	var all, squash, wait bool

	cmd := &cobra.Command{
		Use:     "land",
		Aliases: []string{"merge"},
		Short:   "Merge the ready entries in the stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			lock, err := gitgw.AcquireOperationLock(a.commonGitDir, "land")
			if err != nil {
				return err
			}
			defer lock.Release()

			stack, err := loadCurrentStack(a)
			if err != nil {
				return err
			}
			prov, err := a.resolveProvider()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(a.ctx, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			a.ctx = ctx

			opts := landengine.Options{
				LandAll:        all,
				Squash:         squash,
				Wait:           wait,
				Remote:         "origin",
				TimeoutMinutes: a.cfg.LandWaitTimeoutMinutes(),
			}
			result, err := landengine.Land(a.ctx, a.cfg, prov, stack, opts)
			if err != nil {
				return err
			}
			if err := a.saveConfig(); err != nil {
				return err
			}

			printLandResult(a, result)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "land every ready entry, not just the first")
	cmd.Flags().BoolVarP(&squash, "squash", "s", false, "squash-merge each entry")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "wait for CI and approval before merging")
	return cmd
}

func printLandResult(a *app, result *landengine.Result) {
	if a.jsonOutput {
		output.PrintJSON(output.LandResponse{
			Version: output.OutputVersion,
			Land: output.LandResultJ{
				Landed:     result.LandedGGIDs,
				Stopped:    result.Stopped,
				StopReason: result.StopReason,
			},
		})
		return
	}
	for _, id := range result.LandedGGIDs {
		a.splog.Info("%s Landed %s", output.ColorGood("OK"), id)
	}
	if result.Stopped {
		a.splog.Info("%s %s", output.ColorWarn("Stopped:"), result.StopReason)
	}
}
