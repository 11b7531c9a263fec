package cli

import (
	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/output"
	"github.com/jonnii/gg/internal/reorder"
)

func newReorderCmd() *cobra.Command {
	var order string

	cmd := &cobra.Command{
		Use:   "reorder",
		Short: "Reorder the commits in the current stack",
		Long: `Reorder rewrites the stack's commit order. With --order, give a
space-separated permutation of 1..N (bottom to top). Without it, an editor
opens a scratch file listing the current order to rearrange.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			stack, err := loadCurrentStack(a)
			if err != nil {
				return err
			}

			var positions []int
			if order != "" {
				positions, err = reorder.ParseOrder(order, stack.Len())
			} else {
				positions, err = reorder.PromptForOrder(stack)
			}
			if err != nil {
				return err
			}

			result, err := reorder.Apply(a.ctx, a.repo, a.cfg, stack, positions)
			if err != nil {
				return err
			}

			if a.jsonOutput {
				output.PrintJSON(map[string]any{"version": output.OutputVersion, "reorder": map[string]any{"stack": result.Name, "order": positions}})
				return nil
			}
			a.splog.Info("%s Reordered stack %s", output.ColorGood("OK"), output.ColorBranchName(result.Name, true))
			return nil
		},
	}

	cmd.Flags().StringVar(&order, "order", "", `explicit order as a space-separated permutation, e.g. "3 1 2"`)
	return cmd
}
