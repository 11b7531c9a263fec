package cli

import (
	"github.com/spf13/cobra"

	"github.com/jonnii/gg/internal/lintengine"
	"github.com/jonnii/gg/internal/output"
)

func newLintCmd() *cobra.Command {
	var until int

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Run configured lint commands against the commits in the stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), jsonOutput)
			if err != nil {
				return err
			}

			stack, err := loadCurrentStack(a)
			if err != nil {
				return err
			}

			result, err := lintengine.Run(a.ctx, a.repo, a.cfg, stack, lintengine.Options{UntilPosition: until})
			if err != nil {
				return err
			}

			printLintResult(a, result)
			if !result.AllPassed {
				return errLintFailed
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&until, "until", 0, "lint only commits 1..N (default: the whole stack)")
	return cmd
}

func printLintResult(a *app, result *lintengine.Result) {
	if a.jsonOutput {
		results := make([]output.LintCommitResultJ, 0, len(result.Results))
		for _, r := range result.Results {
			commands := make([]output.LintCommandResultJ, 0, len(r.Commands))
			for _, c := range r.Commands {
				commands = append(commands, output.LintCommandResultJ{Command: c.Command, Passed: c.Passed, Output: c.Output})
			}
			results = append(results, output.LintCommitResultJ{
				Position: r.Position,
				SHA:      r.SHA,
				Title:    r.Title,
				Passed:   r.Passed,
				Commands: commands,
			})
		}
		output.PrintJSON(output.LintResponse{
			Version: output.OutputVersion,
			Lint:    output.LintResultJ{Results: results, AllPassed: result.AllPassed},
		})
		return
	}

	for _, r := range result.Results {
		status := output.ColorGood("OK")
		if !r.Passed {
			status = output.ColorBad("FAIL")
		}
		a.splog.Info("%s [%d] %s %s", status, r.Position, r.SHA, r.Title)
		for _, c := range r.Commands {
			if c.Passed {
				continue
			}
			a.splog.Info("  %s: %s", c.Command, c.Output)
		}
	}
}

var errLintFailed = &lintFailedError{}

type lintFailedError struct{}

func (e *lintFailedError) Error() string { return "lint failed against one or more commits" }
