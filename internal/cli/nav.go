package cli

import (
	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/navengine"
	"github.com/jonnii/gg/internal/output"
	"github.com/jonnii/gg/internal/stackmodel"
)

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "mv <position|gg-id|sha>",
		Aliases: []string{"move"},
		Short:   "Move to a specific commit in the stack",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			stack, err := loadCurrentStack(a)
			if err != nil {
				return err
			}
			entry, err := navengine.MoveTo(a.ctx, a.repo, stack, args[0])
			if err != nil {
				return err
			}
			reportMoved(a, entry, stack)
			return nil
		},
	}
}

func newFirstCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "first",
		Short: "Move to the bottom-most commit in the stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			stack, err := loadCurrentStack(a)
			if err != nil {
				return err
			}
			entry, err := navengine.First(a.ctx, a.repo, stack)
			if err != nil {
				return err
			}
			reportMoved(a, entry, stack)
			return nil
		},
	}
}

func newLastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Move to the stack head",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			stack, err := loadCurrentStack(a)
			if err != nil {
				return err
			}
			entry, err := navengine.Last(a.ctx, a.repo, stack)
			if err != nil {
				return err
			}
			reportMoved(a, entry, stack)
			return nil
		},
	}
}

func newPrevCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "prev",
		Aliases: []string{"previous"},
		Short:   "Move to the previous commit in the stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			stack, err := loadCurrentStack(a)
			if err != nil {
				return err
			}
			entry, err := navengine.Prev(a.ctx, a.repo, stack)
			if err != nil {
				return err
			}
			reportMoved(a, entry, stack)
			return nil
		},
	}
}

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Move to the next commit in the stack, or the stack head",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}
			stack, err := loadCurrentStack(a)
			if err != nil {
				return err
			}
			entry, err := navengine.Next(a.ctx, a.repo, stack)
			if err != nil {
				return err
			}
			reportMoved(a, entry, stack)
			return nil
		},
	}
}

func reportMoved(a *app, e stackmodel.Entry, stack *stackmodel.Stack) {
	if a.jsonOutput {
		output.PrintJSON(map[string]any{
			"version": output.OutputVersion,
			"mv":      map[string]any{"position": e.Position, "sha": e.ShortSHA, "title": e.Title},
		})
		return
	}
	a.splog.Info("%s Moved to: [%d] %s %s", output.ColorGood("OK"), e.Position, output.ColorDim(e.ShortSHA), e.Title)
	if e.Position < stack.Len() {
		a.splog.Info("  %s", navengine.Hint)
	}
}
