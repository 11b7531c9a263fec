package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newAbsorbCmd exists so the verb appears in `gg --help` and shell
// completions, matching the full command surface, but the hunk-absorption
// algorithm itself (matching working-tree hunks to the stack commit that
// introduced the surrounding lines) is out of scope here.
func newAbsorbCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "absorb",
		Short: "Fold working-tree hunks into the stack commits that introduced them (not implemented)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("gg absorb is not implemented: automatic hunk-to-commit absorption is out of scope; use `gg sc` to squash into the checked-out commit instead")
		},
	}
}
