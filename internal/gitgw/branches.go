package gitgw

import "context"

// BranchExists reports whether a local branch by that name exists.
func (r *Repo) BranchExists(ctx context.Context, name string) (bool, error) {
	_, err := r.Run(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil, nil
}

// ForceCreateBranch creates or replaces the local branch name pointing at oid.
// When name is the checked-out branch (which `git branch -f` refuses to move),
// it is moved with `git reset --keep`, carrying the working tree along.
func (r *Repo) ForceCreateBranch(ctx context.Context, name, oid string) error {
	if current, attached, err := r.CurrentBranch(ctx); err == nil && attached && current == name {
		_, err := r.Run(ctx, "reset", "--keep", oid)
		return err
	}
	_, err := r.Run(ctx, "branch", "-f", name, oid)
	return err
}

// DeleteBranch removes a local branch. If force is false, git refuses to
// delete a branch that isn't fully merged.
func (r *Repo) DeleteBranch(ctx context.Context, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := r.Run(ctx, "branch", flag, name)
	return err
}

// CheckoutBranch switches the working tree to an existing local branch.
func (r *Repo) CheckoutBranch(ctx context.Context, name string) error {
	_, err := r.Run(ctx, "checkout", name)
	return err
}

// CheckoutDetached checks out rev without attaching to any branch.
func (r *Repo) CheckoutDetached(ctx context.Context, rev string) error {
	_, err := r.Run(ctx, "checkout", "--detach", rev)
	return err
}

// AllBranchNames lists every local branch name.
func (r *Repo) AllBranchNames(ctx context.Context) ([]string, error) {
	return r.RunLines(ctx, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
}
