package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/output"
	"github.com/jonnii/gg/internal/stackmodel"
)

func newLsCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the commits in the current stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			return runLs(a, refresh)
		},
	}

	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "query the provider for fresh PR/CI status")
	return cmd
}

func runLs(a *app, refresh bool) error {
	stack, err := loadCurrentStack(a)
	if err != nil {
		return err
	}

	if refresh {
		prov, err := a.resolveProvider()
		if err == nil {
			if err := stack.RefreshPRInfo(a.ctx, prov); err != nil {
				return err
			}
		}
	}

	if a.jsonOutput {
		entries := make([]output.LsEntryJSON, 0, stack.Len())
		for _, e := range stack.Entries {
			entries = append(entries, output.LsEntryJSON{
				Position:  e.Position,
				SHA:       e.ShortSHA,
				Title:     e.Title,
				GGID:      e.GGID,
				PRNumber:  e.PRNumber,
				Status:    stackmodel.StatusDisplay(e),
				IsCurrent: e.Position == stack.CurrentPosition,
			})
		}
		output.PrintJSON(output.LsResponse{Version: output.OutputVersion, Ls: entries})
		return nil
	}

	if stack.IsEmpty() {
		a.splog.Info("Stack %s is empty", stack.BranchName())
		return nil
	}
	for i := stack.Len() - 1; i >= 0; i-- {
		e := stack.Entries[i]
		fmt.Println(output.FormatEntryLine(e, e.Position == stack.CurrentPosition))
	}
	return nil
}
