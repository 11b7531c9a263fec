package cli

import (
	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/output"
	"github.com/jonnii/gg/internal/stackmodel"
	"github.com/jonnii/gg/internal/syncengine"
)

func newSyncCmd() *cobra.Command {
	var draft, force, hardForce bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Publish the stack as a chain of entry branches and PRs/MRs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			lock, err := gitgw.AcquireOperationLock(a.commonGitDir, "sync")
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

			confirm := func(needing []stackmodel.Entry) (bool, error) {
				if force || !output.IsTTY() {
					return true, nil
				}
				return output.Confirm("Add GG-ID trailers to the commits missing them?", true), nil
			}

			opts := syncengine.Options{
				Remote:       "origin",
				Draft:        draft,
				HardForce:    hardForce,
				AutoAddGGIDs: a.cfg.Defaults.AutoAddGGIDs,
			}
			_, result, err := syncengine.Sync(a.ctx, a.repo, a.cfg, prov, stack, opts, confirm)
			if err != nil {
				return err
			}
			if err := a.saveConfig(); err != nil {
				return err
			}

			printSyncResult(a, result)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&draft, "draft", "d", false, "open new PRs/MRs as drafts")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "don't prompt before adding GG-ID trailers")
	cmd.Flags().BoolVar(&hardForce, "hard-force", false, "push with --force instead of --force-with-lease")
	return cmd
}

func printSyncResult(a *app, result *syncengine.Result) {
	if a.jsonOutput {
		entries := make([]output.SyncEntryJSON, 0, len(result.Entries))
		for _, e := range result.Entries {
			entries = append(entries, output.SyncEntryJSON{GGID: e.GGID, PRNumber: e.PRNumber, URL: e.PRURL, WasCreate: e.WasCreate})
		}
		output.PrintJSON(output.SyncResponse{Version: output.OutputVersion, Sync: entries})
		return
	}
	for _, e := range result.Entries {
		verb := "Updated"
		if e.WasCreate {
			verb = "Created"
		}
		a.splog.Info("%s %s PR #%d for %s: %s", output.ColorGood("OK"), verb, e.PRNumber, e.GGID, e.PRURL)
	}
}
