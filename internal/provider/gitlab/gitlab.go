// Package gitlab implements provider.Provider against GitLab using
// xanzy/go-gitlab, authenticated via a personal access token from
// GITLAB_TOKEN (mirroring glab's own env var).
package gitlab

import (
	"context"
	"os"
	"os/exec"
	"strings"

	gogitlab "github.com/xanzy/go-gitlab"

	"github.com/jonnii/gg/internal/ggerrors"
	"github.com/jonnii/gg/internal/provider"
)

// Provider drives MR operations against a single project on GitLab.
type Provider struct {
	client    *gogitlab.Client
	projectID string
}

// New builds a Provider for projectPath (e.g. "group/subgroup/project"),
// authenticating with GITLAB_TOKEN. baseURL may be empty for gitlab.com.
func New(projectPath, baseURL string) (*Provider, error) {
	token := os.Getenv("GITLAB_TOKEN")
	if token == "" {
		return nil, ggerrors.NewProviderCLIError("gitlab", ggerrors.ProviderCLINotAuthenticated, "GITLAB_TOKEN not set")
	}

	var opts []gogitlab.ClientOptionFunc
	if baseURL != "" {
		opts = append(opts, gogitlab.WithBaseURL(baseURL))
	}
	client, err := gogitlab.NewClient(token, opts...)
	if err != nil {
		return nil, err
	}

	return &Provider{client: client, projectID: projectPath}, nil
}

// Kind identifies this driver as GitLab.
func (p *Provider) Kind() provider.Kind { return provider.KindGitLab }

// CheckInstalled verifies the glab CLI is on PATH; CheckAuthenticated relies
// on it, while every other operation here goes through the API client.
func (p *Provider) CheckInstalled(ctx context.Context) error {
	if _, err := exec.LookPath("glab"); err != nil {
		return ggerrors.NewProviderCLIError("gitlab", ggerrors.ProviderCLINotInstalled, "")
	}
	return nil
}

// CheckAuthenticated verifies glab has a valid session.
func (p *Provider) CheckAuthenticated(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "glab", "auth", "status")
	if out, err := cmd.CombinedOutput(); err != nil {
		return ggerrors.NewProviderCLIError("gitlab", ggerrors.ProviderCLINotAuthenticated, string(out))
	}
	return nil
}

// Whoami returns the authenticated GitLab username.
func (p *Provider) Whoami(ctx context.Context) (string, error) {
	user, _, err := p.client.Users.CurrentUser(gogitlab.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// Create opens a new merge request.
func (p *Provider) Create(ctx context.Context, opts provider.CreateOptions) (*provider.PullRequest, error) {
	mr, _, err := p.client.MergeRequests.CreateMergeRequest(p.projectID, &gogitlab.CreateMergeRequestOptions{
		Title:        gogitlab.Ptr(titleFor(opts)),
		Description:  gogitlab.Ptr(opts.Body),
		SourceBranch: gogitlab.Ptr(opts.Head),
		TargetBranch: gogitlab.Ptr(opts.Base),
	}, gogitlab.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return fromGitlabMR(mr), nil
}

func titleFor(opts provider.CreateOptions) string {
	if opts.Draft {
		return "Draft: " + opts.Title
	}
	return opts.Title
}

// Get fetches a merge request by IID.
func (p *Provider) Get(ctx context.Context, number int) (*provider.PullRequest, error) {
	mr, _, err := p.client.MergeRequests.GetMergeRequest(p.projectID, number, nil, gogitlab.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return fromGitlabMR(mr), nil
}

// UpdateBase changes a merge request's target branch.
func (p *Provider) UpdateBase(ctx context.Context, number int, base string) error {
	_, _, err := p.client.MergeRequests.UpdateMergeRequest(p.projectID, number, &gogitlab.UpdateMergeRequestOptions{
		TargetBranch: gogitlab.Ptr(base),
	}, gogitlab.WithContext(ctx))
	return err
}

// Merge merges a merge request, requesting a squash when asked.
func (p *Provider) Merge(ctx context.Context, number int, squash bool) error {
	_, _, err := p.client.MergeRequests.AcceptMergeRequest(p.projectID, number, &gogitlab.AcceptMergeRequestOptions{
		Squash: gogitlab.Ptr(squash),
	}, gogitlab.WithContext(ctx))
	return err
}

// CheckApproved reports whether the merge request has met its approval rules.
func (p *Provider) CheckApproved(ctx context.Context, number int) (bool, error) {
	approvals, _, err := p.client.MergeRequestApprovals.GetApprovalState(p.projectID, number, gogitlab.WithContext(ctx))
	if err != nil {
		return false, err
	}
	for _, rule := range approvals.Rules {
		if len(rule.ApprovedBy) < rule.ApprovalsRequired {
			return false, nil
		}
	}
	return true, nil
}

// GetCIStatus returns the combined status of the merge request's latest pipeline.
func (p *Provider) GetCIStatus(ctx context.Context, number int) (provider.CIStatus, error) {
	mr, _, err := p.client.MergeRequests.GetMergeRequest(p.projectID, number, &gogitlab.GetMergeRequestsOptions{}, gogitlab.WithContext(ctx))
	if err != nil {
		return provider.CIStatusUnknown, err
	}
	if mr.Pipeline == nil {
		return provider.CIStatusUnknown, nil
	}
	return fromPipelineStatus(mr.Pipeline.Status), nil
}

// ListForBranch returns merge requests whose source branch is branchName.
func (p *Provider) ListForBranch(ctx context.Context, branchName string) ([]*provider.PullRequest, error) {
	mrs, _, err := p.client.MergeRequests.ListProjectMergeRequests(p.projectID, &gogitlab.ListProjectMergeRequestsOptions{
		SourceBranch: gogitlab.Ptr(branchName),
	}, gogitlab.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]*provider.PullRequest, 0, len(mrs))
	for _, mr := range mrs {
		out = append(out, fromGitlabMR(mr))
	}
	return out, nil
}

// MergeTrainsEnabled reports whether this project has merge trains turned on.
func (p *Provider) MergeTrainsEnabled(ctx context.Context) (bool, error) {
	project, _, err := p.client.Projects.GetProject(p.projectID, nil, gogitlab.WithContext(ctx))
	if err != nil {
		return false, err
	}
	return project.MergeTrainsEnabled, nil
}

// AddToMergeTrain enqueues a merge request onto the project's merge train.
func (p *Provider) AddToMergeTrain(ctx context.Context, number int, squash bool) error {
	_, _, err := p.client.MergeTrains.AddMergeRequestToMergeTrain(p.projectID, number, &gogitlab.AddMergeRequestToMergeTrainOptions{
		Squash: gogitlab.Ptr(squash),
	}, gogitlab.WithContext(ctx))
	return err
}

func fromGitlabMR(mr *gogitlab.MergeRequest) *provider.PullRequest {
	state := provider.PRStateOpen
	switch {
	case mr.State == "merged":
		state = provider.PRStateMerged
	case mr.State == "closed":
		state = provider.PRStateClosed
	case mr.Draft || mr.WorkInProgress:
		state = provider.PRStateDraft
	}
	return &provider.PullRequest{
		Number:  mr.IID,
		State:   state,
		Title:   mr.Title,
		HeadRef: mr.SourceBranch,
		BaseRef: mr.TargetBranch,
		URL:     mr.WebURL,
	}
}

func fromPipelineStatus(status string) provider.CIStatus {
	switch strings.ToLower(status) {
	case "success":
		return provider.CIStatusSuccess
	case "failed":
		return provider.CIStatusFailed
	case "canceled", "cancelled":
		return provider.CIStatusCanceled
	case "running":
		return provider.CIStatusRunning
	case "pending", "created", "waiting_for_resource", "preparing", "scheduled":
		return provider.CIStatusPending
	default:
		return provider.CIStatusUnknown
	}
}

// ProjectPathFromRemote splits a "git@gitlab.com:group/project.git" or
// "https://gitlab.com/group/project" remote URL into its project path.
func ProjectPathFromRemote(remoteURL string) (string, bool) {
	s := strings.TrimSuffix(remoteURL, ".git")
	s = strings.TrimSuffix(s, "/")
	idx := strings.LastIndex(s, "gitlab.com")
	if idx < 0 {
		return "", false
	}
	rest := s[idx+len("gitlab.com"):]
	rest = strings.TrimPrefix(rest, ":")
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return "", false
	}
	return rest, true
}
