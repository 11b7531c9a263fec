package cli

import (
	"github.com/jonnii/gg/internal/ggerrors"
	"github.com/jonnii/gg/internal/navengine"
	"github.com/jonnii/gg/internal/stackmodel"
)

// loadCurrentStack resolves which stack HEAD belongs to: the stack branch
// itself when attached to one, the breadcrumb's stack branch when HEAD is
// detached inside a `gg mv`/`gg first` navigation, or an entry branch's
// stack when attached directly to one of those.
func loadCurrentStack(a *app) (*stackmodel.Stack, error) {
	branchName, err := currentStackBranch(a)
	if err != nil {
		return nil, err
	}
	return stackmodel.Load(a.ctx, a.repo, a.cfg, branchName)
}

func currentStackBranch(a *app) (string, error) {
	branch, attached, err := a.repo.CurrentBranch(a.ctx)
	if err != nil {
		return "", err
	}
	if attached {
		if _, _, ok := stackmodel.ParseStackBranch(branch); ok {
			return branch, nil
		}
		if username, name, _, ok := stackmodel.ParseEntryBranch(branch); ok {
			return stackmodel.FormatStackBranch(username, name), nil
		}
		return "", ggerrors.ErrNotOnStack
	}

	gitDir, err := a.repo.GitDir(a.ctx)
	if err != nil {
		return "", err
	}
	b, ok, err := navengine.ReadBreadcrumb(gitDir)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ggerrors.ErrNotOnStack
	}
	return b.StackBranch, nil
}

