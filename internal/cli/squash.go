package cli

import (
	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/output"
	"github.com/jonnii/gg/internal/squashengine"
)

func newSquashCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "sc",
		Aliases: []string{"squash"},
		Short:   "Squash working tree changes into the current commit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			stack, err := loadCurrentStack(a)
			if err != nil {
				return err
			}
			result, err := squashengine.Squash(a.ctx, a.repo, a.cfg, stack, all)
			if err != nil {
				return err
			}

			if a.jsonOutput {
				output.PrintJSON(map[string]any{"version": output.OutputVersion, "sc": map[string]any{"stack": result.Name}})
				return nil
			}
			head, _ := result.Current()
			a.splog.Info("%s Squashed to: [%d] %s %s", output.ColorGood("OK"), head.Position, output.ColorDim(head.ShortSHA), head.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "stage untracked files too, not just tracked changes")
	return cmd
}
