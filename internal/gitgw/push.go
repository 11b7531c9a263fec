package gitgw

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonnii/gg/internal/ggerrors"
)

// PushBranch pushes branchName to remote. By default it uses
// --force-with-lease (safe: fails if the remote moved since it was last
// fetched); hardForce escalates to a plain --force, which must be an
// explicit, user-requested opt-in at the call site.
func (r *Repo) PushBranch(ctx context.Context, remote, branchName string, hardForce bool) error {
	args := []string{"push"}
	if hardForce {
		args = append(args, "--force")
	} else {
		args = append(args, "--force-with-lease")
	}
	args = append(args, remote, branchName)

	_, err := r.Run(ctx, args...)
	if err != nil {
		if strings.Contains(err.Error(), "stale info") || strings.Contains(err.Error(), "rejected") {
			return fmt.Errorf("%w: %s", ggerrors.ErrStaleRemoteInfo, branchName)
		}
		return err
	}
	return nil
}

// DeleteRemoteBranch deletes branchName on remote.
func (r *Repo) DeleteRemoteBranch(ctx context.Context, remote, branchName string) error {
	_, err := r.Run(ctx, "push", remote, "--delete", branchName)
	return err
}
