// Package landengine implements gg's serial stack-merge loop: landing one
// entry at a time (or the whole stack with --all), optionally waiting for
// CI and approval, using a GitLab merge train when one is enabled, and
// rechaining later entries' bases after each merge.
package landengine

import (
	"context"
	"fmt"
	"time"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/provider"
	"github.com/jonnii/gg/internal/stackmodel"
)

// pollInterval matches how often land checks CI/approval while waiting.
// It is a var (not const) so tests can shrink it.
var pollInterval = 10 * time.Second

// settleDelay is a short pause between merges in an --all run, giving the
// provider time to settle webhooks/merge-queue state before the next poll.
// It is a var (not const) so tests can shrink it.
var settleDelay = 2 * time.Second

// Options configures a land run.
type Options struct {
	LandAll   bool
	Squash    bool
	Wait      bool
	Remote    string
	TimeoutMinutes int
}

// Result summarizes a completed (or partially completed) land run.
type Result struct {
	LandedGGIDs []string
	Stopped     bool
	StopReason  string
}

// Land walks stack's entries from the bottom, merging each that's ready.
// With Wait it polls CI/approval before merging; without LandAll it stops
// after the first merge (or the first entry that isn't ready). ctx
// cancellation (e.g. from an interrupt signal) stops the wait loop cleanly.
func Land(ctx context.Context, cfg *config.Config, prov provider.Provider, stack *stackmodel.Stack, opts Options) (*Result, error) {
	if err := stack.RefreshPRInfo(ctx, prov); err != nil {
		return nil, err
	}

	trainsEnabled, err := prov.MergeTrainsEnabled(ctx)
	if err != nil {
		trainsEnabled = false
	}

	timeout := time.Duration(opts.TimeoutMinutes) * time.Minute
	if opts.TimeoutMinutes == 0 {
		timeout = time.Duration(cfg.LandWaitTimeoutMinutes()) * time.Minute
	}

	result := &Result{}

	for i := range stack.Entries {
		e := &stack.Entries[i]

		switch e.PRState {
		case provider.PRStateMerged:
			result.LandedGGIDs = append(result.LandedGGIDs, e.GGID)
			continue
		case provider.PRStateClosed, provider.PRStateDraft:
			result.Stopped = true
			result.StopReason = fmt.Sprintf("entry %s is %s", e.ShortSHA, e.PRState)
			return result, nil
		}

		if !e.HasPR() {
			result.Stopped = true
			result.StopReason = fmt.Sprintf("entry %s has not been synced yet", e.ShortSHA)
			return result, nil
		}

		if opts.Wait {
			if err := waitForReady(ctx, prov, e.PRNumber, !opts.LandAll, timeout); err != nil {
				result.Stopped = true
				result.StopReason = err.Error()
				return result, nil
			}
		} else if !opts.LandAll {
			approved, err := prov.CheckApproved(ctx, e.PRNumber)
			if err != nil {
				return nil, err
			}
			if !approved {
				result.Stopped = true
				result.StopReason = fmt.Sprintf("entry %s is not approved yet", e.ShortSHA)
				return result, nil
			}
		}

		if err := mergeEntry(ctx, prov, trainsEnabled, e.PRNumber, opts.Squash); err != nil {
			return nil, err
		}

		cfg.RemovePRForEntry(stack.Name, e.GGID)
		result.LandedGGIDs = append(result.LandedGGIDs, e.GGID)

		if err := rechainLaterEntries(ctx, cfg, prov, stack, i); err != nil {
			return nil, err
		}

		if opts.LandAll {
			select {
			case <-ctx.Done():
				result.Stopped = true
				result.StopReason = "interrupted"
				return result, nil
			case <-time.After(settleDelay):
			}
			continue
		}
		break
	}

	return result, nil
}

// mergeEntry merges a single PR/MR, preferring the merge train (with a
// direct-merge fallback on failure) when one is enabled.
func mergeEntry(ctx context.Context, prov provider.Provider, trainsEnabled bool, number int, squash bool) error {
	if trainsEnabled {
		if err := prov.AddToMergeTrain(ctx, number, squash); err == nil {
			return nil
		}
	}
	return prov.Merge(ctx, number, squash)
}

// rechainLaterEntries repoints every later entry that still has an open
// PR/MR mapped in config at the stack's base, since the entry directly
// below them was just merged away.
func rechainLaterEntries(ctx context.Context, cfg *config.Config, prov provider.Provider, stack *stackmodel.Stack, mergedIndex int) error {
	for j := mergedIndex + 1; j < len(stack.Entries); j++ {
		later := stack.Entries[j]
		if !later.HasPR() {
			continue
		}
		if err := prov.UpdateBase(ctx, later.PRNumber, stack.Base); err != nil {
			return err
		}
	}
	return nil
}
