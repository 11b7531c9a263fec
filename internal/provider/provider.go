// Package provider abstracts over the hosted code-review services gg talks
// to (GitHub, GitLab) behind one interface, so the sync/land/clean/reconcile
// engines never branch on which forge a repository uses.
package provider

import "context"

// Kind identifies which forge a Provider talks to.
type Kind string

const (
	// KindGitHub identifies the GitHub driver.
	KindGitHub Kind = "github"
	// KindGitLab identifies the GitLab driver.
	KindGitLab Kind = "gitlab"
)

// PRState is the lifecycle state of a pull/merge request.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateDraft  PRState = "draft"
	PRStateMerged PRState = "merged"
	PRStateClosed PRState = "closed"
)

// CIStatus is the aggregate status of a PR/MR's checks.
type CIStatus string

const (
	CIStatusUnknown  CIStatus = "unknown"
	CIStatusPending  CIStatus = "pending"
	CIStatusRunning  CIStatus = "running"
	CIStatusSuccess  CIStatus = "success"
	CIStatusFailed   CIStatus = "failed"
	CIStatusCanceled CIStatus = "canceled"
)

// ciStatusRank orders statuses from most to least urgent for combining
// several checks into one aggregate: failed beats running beats pending
// beats canceled beats success beats unknown.
var ciStatusRank = map[CIStatus]int{
	CIStatusFailed:   0,
	CIStatusRunning:  1,
	CIStatusPending:  2,
	CIStatusCanceled: 3,
	CIStatusSuccess:  4,
	CIStatusUnknown:  5,
}

// CombineCIStatus reduces a set of individual check statuses to one overall
// status using the failed > running > pending > canceled > success > unknown
// precedence order.
func CombineCIStatus(statuses []CIStatus) CIStatus {
	if len(statuses) == 0 {
		return CIStatusUnknown
	}
	best := statuses[0]
	for _, s := range statuses[1:] {
		if ciStatusRank[s] < ciStatusRank[best] {
			best = s
		}
	}
	return best
}

// PullRequest is the provider-neutral view of a PR (GitHub) or MR (GitLab).
type PullRequest struct {
	Number   int
	State    PRState
	Title    string
	HeadRef  string
	BaseRef  string
	URL      string
	Approved bool
	CI       CIStatus
}

// CreateOptions describes a new PR/MR to open.
type CreateOptions struct {
	Title string
	Body  string
	Head  string
	Base  string
	Draft bool
}

// Provider is gg's uniform driver over a forge's pull/merge request API.
type Provider interface {
	// Kind identifies which forge this driver talks to.
	Kind() Kind

	// CheckInstalled verifies the provider's companion CLI (gh/glab) is on PATH.
	CheckInstalled(ctx context.Context) error

	// CheckAuthenticated verifies the companion CLI has a valid session.
	CheckAuthenticated(ctx context.Context) error

	// Whoami returns the authenticated username, used to derive branch prefixes.
	Whoami(ctx context.Context) (string, error)

	// Create opens a new PR/MR and returns it.
	Create(ctx context.Context, opts CreateOptions) (*PullRequest, error)

	// Get fetches a PR/MR by number.
	Get(ctx context.Context, number int) (*PullRequest, error)

	// UpdateBase changes the base branch a PR/MR targets.
	UpdateBase(ctx context.Context, number int, base string) error

	// Merge merges a PR/MR. squash requests a squash merge where supported.
	Merge(ctx context.Context, number int, squash bool) error

	// CheckApproved reports whether a PR/MR has the review approvals it needs to merge.
	CheckApproved(ctx context.Context, number int) (bool, error)

	// GetCIStatus returns the combined CI status for a PR/MR.
	GetCIStatus(ctx context.Context, number int) (CIStatus, error)

	// ListForBranch returns PRs/MRs whose head is branchName, most recent first.
	ListForBranch(ctx context.Context, branchName string) ([]*PullRequest, error)

	// MergeTrainsEnabled reports whether this provider/repository supports
	// merge trains (GitLab only; always false for GitHub).
	MergeTrainsEnabled(ctx context.Context) (bool, error)

	// AddToMergeTrain enqueues a PR/MR onto the merge train.
	AddToMergeTrain(ctx context.Context, number int, squash bool) error
}

// DetectKind infers the provider from a remote URL, matching on the
// well-known hostnames. An unrecognized remote is not defaulted to either
// forge; the caller must treat it as unconfigured.
func DetectKind(remoteURL string) (Kind, bool) {
	switch {
	case containsHost(remoteURL, "github.com"):
		return KindGitHub, true
	case containsHost(remoteURL, "gitlab.com"):
		return KindGitLab, true
	default:
		return "", false
	}
}

func containsHost(url, host string) bool {
	for i := 0; i+len(host) <= len(url); i++ {
		if url[i:i+len(host)] == host {
			return true
		}
	}
	return false
}
