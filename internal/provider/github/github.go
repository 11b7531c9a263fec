// Package github implements provider.Provider against GitHub using
// google/go-github, authenticated via a personal access token from
// GH_TOKEN/GITHUB_TOKEN (mirroring gh's own env var precedence).
package github

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	gogithub "github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/jonnii/gg/internal/ggerrors"
	"github.com/jonnii/gg/internal/provider"
)

// Provider drives PR operations against a single owner/repo on GitHub.
type Provider struct {
	client *gogithub.Client
	owner  string
	repo   string
}

// New builds a Provider for owner/repo, authenticating with the first of
// GH_TOKEN or GITHUB_TOKEN that is set.
func New(owner, repo string) (*Provider, error) {
	token := os.Getenv("GH_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, ggerrors.NewProviderCLIError("github", ggerrors.ProviderCLINotAuthenticated, "GH_TOKEN/GITHUB_TOKEN not set")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)

	return &Provider{
		client: gogithub.NewClient(httpClient),
		owner:  owner,
		repo:   repo,
	}, nil
}

// Kind identifies this driver as GitHub.
func (p *Provider) Kind() provider.Kind { return provider.KindGitHub }

// CheckInstalled verifies the gh CLI is on PATH; CheckAuthenticated relies on
// it, while every other operation here goes through the API client.
func (p *Provider) CheckInstalled(ctx context.Context) error {
	if _, err := exec.LookPath("gh"); err != nil {
		return ggerrors.NewProviderCLIError("github", ggerrors.ProviderCLINotInstalled, "")
	}
	return nil
}

// CheckAuthenticated verifies gh has a valid session.
func (p *Provider) CheckAuthenticated(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "gh", "auth", "status")
	if out, err := cmd.CombinedOutput(); err != nil {
		return ggerrors.NewProviderCLIError("github", ggerrors.ProviderCLINotAuthenticated, string(out))
	}
	return nil
}

// Whoami returns the authenticated GitHub login.
func (p *Provider) Whoami(ctx context.Context) (string, error) {
	user, _, err := p.client.Users.Get(ctx, "")
	if err != nil {
		return "", err
	}
	return user.GetLogin(), nil
}

// Create opens a new pull request.
func (p *Provider) Create(ctx context.Context, opts provider.CreateOptions) (*provider.PullRequest, error) {
	pr, _, err := p.client.PullRequests.Create(ctx, p.owner, p.repo, &gogithub.NewPullRequest{
		Title: gogithub.String(opts.Title),
		Body:  gogithub.String(opts.Body),
		Head:  gogithub.String(opts.Head),
		Base:  gogithub.String(opts.Base),
		Draft: gogithub.Bool(opts.Draft),
	})
	if err != nil {
		return nil, err
	}
	return fromGithubPR(pr), nil
}

// Get fetches a pull request by number.
func (p *Provider) Get(ctx context.Context, number int) (*provider.PullRequest, error) {
	pr, _, err := p.client.PullRequests.Get(ctx, p.owner, p.repo, number)
	if err != nil {
		return nil, err
	}
	return fromGithubPR(pr), nil
}

// UpdateBase changes a pull request's base branch.
func (p *Provider) UpdateBase(ctx context.Context, number int, base string) error {
	_, _, err := p.client.PullRequests.Edit(ctx, p.owner, p.repo, number, &gogithub.PullRequest{
		Base: &gogithub.PullRequestBranch{Ref: gogithub.String(base)},
	})
	return err
}

// Merge merges a pull request, using squash merge when requested.
func (p *Provider) Merge(ctx context.Context, number int, squash bool) error {
	method := "merge"
	if squash {
		method = "squash"
	}
	_, _, err := p.client.PullRequests.Merge(ctx, p.owner, p.repo, number, "", &gogithub.PullRequestOptions{
		MergeMethod: method,
	})
	return err
}

// CheckApproved reports whether any review on the pull request is an approval.
func (p *Provider) CheckApproved(ctx context.Context, number int) (bool, error) {
	reviews, _, err := p.client.PullRequests.ListReviews(ctx, p.owner, p.repo, number, nil)
	if err != nil {
		return false, err
	}
	for _, r := range reviews {
		if r.GetState() == "APPROVED" {
			return true, nil
		}
	}
	return false, nil
}

// GetCIStatus returns the combined status of the pull request's check runs.
func (p *Provider) GetCIStatus(ctx context.Context, number int) (provider.CIStatus, error) {
	pr, _, err := p.client.PullRequests.Get(ctx, p.owner, p.repo, number)
	if err != nil {
		return provider.CIStatusUnknown, err
	}

	checks, _, err := p.client.Checks.ListCheckRunsForRef(ctx, p.owner, p.repo, pr.GetHead().GetSHA(), nil)
	if err != nil {
		return provider.CIStatusUnknown, err
	}
	if checks.GetTotal() == 0 {
		return provider.CIStatusUnknown, nil
	}

	statuses := make([]provider.CIStatus, 0, len(checks.CheckRuns))
	for _, c := range checks.CheckRuns {
		statuses = append(statuses, fromCheckRun(c))
	}
	return provider.CombineCIStatus(statuses), nil
}

// ListForBranch returns pull requests in any state whose head is branchName.
func (p *Provider) ListForBranch(ctx context.Context, branchName string) ([]*provider.PullRequest, error) {
	prs, _, err := p.client.PullRequests.List(ctx, p.owner, p.repo, &gogithub.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", p.owner, branchName),
		State: "all",
	})
	if err != nil {
		return nil, err
	}
	out := make([]*provider.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, fromGithubPR(pr))
	}
	return out, nil
}

// MergeTrainsEnabled is always false: GitHub has no merge-train concept.
func (p *Provider) MergeTrainsEnabled(ctx context.Context) (bool, error) {
	return false, nil
}

// AddToMergeTrain is unsupported on GitHub; callers should fall back to Merge.
func (p *Provider) AddToMergeTrain(ctx context.Context, number int, squash bool) error {
	return fmt.Errorf("github has no merge train support")
}

func fromGithubPR(pr *gogithub.PullRequest) *provider.PullRequest {
	state := provider.PRStateOpen
	switch {
	case pr.GetMerged():
		state = provider.PRStateMerged
	case pr.GetState() == "closed":
		state = provider.PRStateClosed
	case pr.GetDraft():
		state = provider.PRStateDraft
	}
	return &provider.PullRequest{
		Number:  pr.GetNumber(),
		State:   state,
		Title:   pr.GetTitle(),
		HeadRef: pr.GetHead().GetRef(),
		BaseRef: pr.GetBase().GetRef(),
		URL:     pr.GetHTMLURL(),
	}
}

func fromCheckRun(c *gogithub.CheckRun) provider.CIStatus {
	switch strings.ToLower(c.GetStatus()) {
	case "queued":
		return provider.CIStatusPending
	case "in_progress":
		return provider.CIStatusRunning
	}
	switch strings.ToLower(c.GetConclusion()) {
	case "success", "neutral", "skipped":
		return provider.CIStatusSuccess
	case "cancelled":
		return provider.CIStatusCanceled
	case "failure", "timed_out", "action_required":
		return provider.CIStatusFailed
	default:
		return provider.CIStatusUnknown
	}
}

// OwnerRepoFromRemote splits a "git@github.com:owner/repo.git" or
// "https://github.com/owner/repo" remote URL into owner and repo.
func OwnerRepoFromRemote(remoteURL string) (owner, repo string, ok bool) {
	s := strings.TrimSuffix(remoteURL, ".git")
	s = strings.TrimSuffix(s, "/")
	idx := strings.LastIndex(s, "github.com")
	if idx < 0 {
		return "", "", false
	}
	rest := s[idx+len("github.com"):]
	rest = strings.TrimPrefix(rest, ":")
	rest = strings.TrimPrefix(rest, "/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
