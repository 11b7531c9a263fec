package landengine

import (
	"context"
	"fmt"
	"time"

	"github.com/jonnii/gg/internal/provider"
)

// waitForReady polls a PR/MR's CI status (and, when requireApproval
// is set, its approval state) until both are satisfied, a CI failure/cancellation is
// observed, the timeout elapses, or ctx is canceled.
func waitForReady(ctx context.Context, prov provider.Provider, number int, requireApproval bool, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		ci, err := prov.GetCIStatus(ctx, number)
		if err != nil {
			return err
		}
		switch ci {
		case provider.CIStatusFailed:
			return fmt.Errorf("CI failed for PR #%d", number)
		case provider.CIStatusCanceled:
			return fmt.Errorf("CI was canceled for PR #%d", number)
		}

		ciReady := ci == provider.CIStatusSuccess || ci == provider.CIStatusUnknown
		approvalReady := true
		if requireApproval {
			approvalReady, err = prov.CheckApproved(ctx, number)
			if err != nil {
				return err
			}
		}

		if ciReady && approvalReady {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for PR #%d to become ready", number)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
