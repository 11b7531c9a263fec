// Package reconcile recovers stacks that were pushed without gg sync: it
// finds commits still missing a GG-ID and existing PRs/MRs for entry
// branches that config hasn't mapped yet, so a plain `git push` workflow
// can be folded back into gg's bookkeeping.
package reconcile

import (
	"context"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/provider"
	"github.com/jonnii/gg/internal/stackmodel"
	"github.com/jonnii/gg/internal/syncengine"
)

// CommitInfo names one commit still missing a GG-ID trailer.
type CommitInfo struct {
	ShortSHA string
	Title    string
}

// PRMapping is a PR/MR discovered for an entry branch that config hasn't
// recorded yet.
type PRMapping struct {
	GGID     string
	Branch   string
	PRNumber int
}

// Plan is what reconcile would do, computed without mutating anything.
type Plan struct {
	CommitsNeedingIDs []CommitInfo
	PRsToMap          []PRMapping
}

// IsEmpty reports whether there is nothing to reconcile.
func (p Plan) IsEmpty() bool {
	return len(p.CommitsNeedingIDs) == 0 && len(p.PRsToMap) == 0
}

// BuildPlan inspects stack and, when prov is non-nil, queries it for
// existing PRs/MRs on entry branches that aren't yet mapped in cfg. Passing
// a nil prov (as a dry run might, before the provider's CLI is confirmed
// authenticated) skips PR discovery and reports only the missing GG-IDs.
func BuildPlan(ctx context.Context, cfg *config.Config, prov provider.Provider, stack *stackmodel.Stack) (*Plan, error) {
	plan := &Plan{}

	for _, e := range stack.Entries {
		if !e.HasGGID() {
			plan.CommitsNeedingIDs = append(plan.CommitsNeedingIDs, CommitInfo{
				ShortSHA: e.ShortSHA,
				Title:    e.Title,
			})
		}
	}

	if prov == nil {
		return plan, nil
	}

	mappings, err := findUnmappedPRs(ctx, cfg, prov, stack)
	if err != nil {
		return nil, err
	}
	plan.PRsToMap = mappings
	return plan, nil
}

func findUnmappedPRs(ctx context.Context, cfg *config.Config, prov provider.Provider, stack *stackmodel.Stack) ([]PRMapping, error) {
	var mappings []PRMapping

	for _, e := range stack.Entries {
		if !e.HasGGID() {
			continue
		}
		if _, ok := cfg.GetPRForEntry(stack.Name, e.GGID); ok {
			continue
		}

		entryBranch := stack.EntryBranchName(e)
		prs, err := prov.ListForBranch(ctx, entryBranch)
		if err != nil {
			// A single branch lookup failing shouldn't abort reconciliation
			// of the rest of the stack.
			continue
		}
		if len(prs) == 0 {
			continue
		}

		mappings = append(mappings, PRMapping{
			GGID:     e.GGID,
			Branch:   entryBranch,
			PRNumber: prs[0].Number,
		})
	}

	return mappings, nil
}

// ApplyGGIDs fills in every missing GG-ID (via syncengine.FillGGIDs) and
// returns the reloaded stack.
func ApplyGGIDs(ctx context.Context, repo *gitgw.Repo, cfg *config.Config, stack *stackmodel.Stack) (*stackmodel.Stack, error) {
	return syncengine.FillGGIDs(ctx, repo, cfg, stack)
}

// ApplyMappings records each PR/MR mapping from the plan into cfg.
func ApplyMappings(cfg *config.Config, stackName string, mappings []PRMapping) {
	for _, m := range mappings {
		cfg.SetPRForEntry(stackName, m.GGID, m.PRNumber)
	}
}
