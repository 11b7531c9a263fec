// Package syncengine publishes a stack as a chain of entry branches and
// pull/merge requests: it fills in any missing GG-ID trailers, force-pushes
// one branch per commit, and creates or updates one PR/MR per entry with
// base branches chained entry-to-entry.
package syncengine

import (
	"context"
	"fmt"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/ggid"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/provider"
	"github.com/jonnii/gg/internal/stackmodel"
)

// Options configures a sync run.
type Options struct {
	Remote       string
	Draft        bool
	HardForce    bool // escalate the entry-branch push from --force-with-lease to --force
	AutoAddGGIDs bool // fill in missing GG-IDs without asking
}

// ConfirmFunc is called when entries need GG-IDs and AutoAddGGIDs is false;
// it should ask the user and return their answer.
type ConfirmFunc func(needing []stackmodel.Entry) (bool, error)

// EntryResult reports what sync did for one entry.
type EntryResult struct {
	GGID      string
	PRNumber  int
	PRURL     string
	WasCreate bool
}

// Result summarizes a completed sync.
type Result struct {
	Entries []EntryResult
}

// FillGGIDs rewrites every commit in the stack's range so each has a GG-ID
// trailer, leaving already-tagged commits untouched apart from re-parenting,
// force-updates the stack branch to the rewritten tip, and returns the
// reloaded stack.
func FillGGIDs(ctx context.Context, repo *gitgw.Repo, cfg *config.Config, stack *stackmodel.Stack) (*stackmodel.Stack, error) {
	entries := make([]gitgw.RewriteEntry, len(stack.Entries))
	for i, e := range stack.Entries {
		message := e.Message
		if !e.HasGGID() {
			message = ggid.InsertOrReplace(e.Message, ggid.Generate())
		}
		entries[i] = gitgw.RewriteEntry{OID: e.OID, NewMessage: message}
	}

	newTip, err := repo.RewriteMessages(ctx, stack.Base, entries)
	if err != nil {
		return nil, err
	}
	if err := repo.ForceCreateBranch(ctx, stack.BranchName(), newTip); err != nil {
		return nil, err
	}

	return stackmodel.Load(ctx, repo, cfg, stack.BranchName())
}

// Sync fills in missing GG-IDs (auto or via confirm, per opts/confirm), then
// publishes the stack: force-creating and pushing one branch per entry and
// creating or updating its PR/MR, chaining bases entry-to-entry. It returns
// the (possibly reloaded) stack and a summary of what was done.
func Sync(ctx context.Context, repo *gitgw.Repo, cfg *config.Config, prov provider.Provider, stack *stackmodel.Stack, opts Options, confirm ConfirmFunc) (*stackmodel.Stack, *Result, error) {
	needing := stack.EntriesNeedingGGID()
	if len(needing) > 0 {
		proceed := opts.AutoAddGGIDs
		if !proceed {
			var err error
			proceed, err = confirm(needing)
			if err != nil {
				return nil, nil, err
			}
		}
		if !proceed {
			return nil, nil, fmt.Errorf("cannot sync without GG-IDs")
		}

		rewritten, err := FillGGIDs(ctx, repo, cfg, stack)
		if err != nil {
			return nil, nil, err
		}
		stack = rewritten
	}

	result := &Result{}
	target := stack.Base

	for _, e := range stack.Entries {
		entryBranch := stack.EntryBranchName(e)

		if err := repo.ForceCreateBranch(ctx, entryBranch, e.OID); err != nil {
			return nil, nil, err
		}
		if err := repo.PushBranch(ctx, opts.Remote, entryBranch, opts.HardForce); err != nil {
			return nil, nil, err
		}

		er := EntryResult{GGID: e.GGID}

		if e.HasPR() {
			pr, err := prov.Get(ctx, e.PRNumber)
			if err != nil {
				return nil, nil, err
			}
			if pr.State != provider.PRStateMerged && pr.State != provider.PRStateClosed {
				if err := prov.UpdateBase(ctx, e.PRNumber, target); err != nil {
					return nil, nil, err
				}
			}
			er.PRNumber = e.PRNumber
			er.PRURL = pr.URL
		} else {
			pr, err := prov.Create(ctx, provider.CreateOptions{
				Title: ggid.Strip(e.Title),
				Body:  describePR(stack.Name, e),
				Head:  entryBranch,
				Base:  target,
				Draft: opts.Draft,
			})
			if err != nil {
				return nil, nil, err
			}
			cfg.SetPRForEntry(stack.Name, e.GGID, pr.Number)
			er.PRNumber = pr.Number
			er.PRURL = pr.URL
			er.WasCreate = true
		}

		result.Entries = append(result.Entries, er)
		target = entryBranch
	}

	return stack, result, nil
}

func describePR(stackName string, e stackmodel.Entry) string {
	return fmt.Sprintf("Part of stack `%s`\n\nCommit: %s", stackName, e.ShortSHA)
}
