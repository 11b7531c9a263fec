package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// jsonOutput is set by the root command's persistent --json flag and read
// by every verb when deciding how to render its result and any error.
var jsonOutput bool

// NewRootCmd assembles gg's cobra command tree.
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "gg",
		Short:   "gg is a stacked-diffs workflow engine: one branch per commit, one PR per branch",
		Version: version,
		Long: `gg manages a stack of commits as a chain of entry branches and pull/merge
requests, so a long-running feature can be reviewed and landed one commit at
a time instead of as one big PR.

Version: ` + version + `
Commit:  ` + commit + `
Date:    ` + date,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON instead of text")

	rootCmd.AddCommand(newCheckoutCmd())
	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newLandCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newRebaseCmd())
	rootCmd.AddCommand(newContinueCmd())
	rootCmd.AddCommand(newAbortCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newFirstCmd())
	rootCmd.AddCommand(newLastCmd())
	rootCmd.AddCommand(newPrevCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newSquashCmd())
	rootCmd.AddCommand(newReorderCmd())
	rootCmd.AddCommand(newAbsorbCmd())
	rootCmd.AddCommand(newReconcileCmd())
	rootCmd.AddCommand(newLintCmd())
	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newCompletionsCmd())

	return rootCmd
}

// Execute runs the root command and reports a single-line error on failure,
// as either plain text or (with --json) {"version":1,"error":"..."}.
func Execute(version, commit, date string) int {
	cmd := NewRootCmd(version, commit, date)
	if err := cmd.Execute(); err != nil {
		if jsonOutput {
			fmt.Printf(`{"version":1,"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return 1
	}
	return 0
}
