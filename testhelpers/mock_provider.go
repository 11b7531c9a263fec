package testhelpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonnii/gg/internal/provider"
)

// MockProvider is an in-memory provider.Provider double for engine tests
// that need to exercise create/update/merge flows without a network call.
type MockProvider struct {
	mu            sync.Mutex
	nextNumber    int
	PRs           map[int]*provider.PullRequest
	ApprovedNums  map[int]bool
	CIStatuses    map[int]provider.CIStatus
	MergeTrains   bool
	InstalledErr  error
	AuthErr       error
	WhoamiName    string
	MergeCalls    []int
	TrainCalls    []int
	CreateOptions []provider.CreateOptions
}

// NewMockProvider returns an empty MockProvider ready to use.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		nextNumber:   1,
		PRs:          map[int]*provider.PullRequest{},
		ApprovedNums: map[int]bool{},
		CIStatuses:   map[int]provider.CIStatus{},
		WhoamiName:   "octocat",
	}
}

func (m *MockProvider) Kind() provider.Kind { return provider.KindGitHub }

func (m *MockProvider) CheckInstalled(ctx context.Context) error     { return m.InstalledErr }
func (m *MockProvider) CheckAuthenticated(ctx context.Context) error { return m.AuthErr }
func (m *MockProvider) Whoami(ctx context.Context) (string, error)   { return m.WhoamiName, nil }

func (m *MockProvider) Create(ctx context.Context, opts provider.CreateOptions) (*provider.PullRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateOptions = append(m.CreateOptions, opts)
	num := m.nextNumber
	m.nextNumber++
	pr := &provider.PullRequest{
		Number:  num,
		State:   provider.PRStateOpen,
		Title:   opts.Title,
		HeadRef: opts.Head,
		BaseRef: opts.Base,
		URL:     fmt.Sprintf("https://example.invalid/pr/%d", num),
	}
	if opts.Draft {
		pr.State = provider.PRStateDraft
	}
	m.PRs[num] = pr
	return pr, nil
}

func (m *MockProvider) Get(ctx context.Context, number int) (*provider.PullRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.PRs[number]
	if !ok {
		return nil, fmt.Errorf("no such PR %d", number)
	}
	return pr, nil
}

func (m *MockProvider) UpdateBase(ctx context.Context, number int, base string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.PRs[number]
	if !ok {
		return fmt.Errorf("no such PR %d", number)
	}
	pr.BaseRef = base
	return nil
}

func (m *MockProvider) Merge(ctx context.Context, number int, squash bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.PRs[number]
	if !ok {
		return fmt.Errorf("no such PR %d", number)
	}
	pr.State = provider.PRStateMerged
	m.MergeCalls = append(m.MergeCalls, number)
	return nil
}

func (m *MockProvider) CheckApproved(ctx context.Context, number int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ApprovedNums[number], nil
}

func (m *MockProvider) GetCIStatus(ctx context.Context, number int) (provider.CIStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.CIStatuses[number]
	if !ok {
		return provider.CIStatusUnknown, nil
	}
	return status, nil
}

func (m *MockProvider) ListForBranch(ctx context.Context, branchName string) ([]*provider.PullRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*provider.PullRequest
	for _, pr := range m.PRs {
		if pr.HeadRef == branchName {
			out = append(out, pr)
		}
	}
	return out, nil
}

func (m *MockProvider) MergeTrainsEnabled(ctx context.Context) (bool, error) {
	return m.MergeTrains, nil
}

func (m *MockProvider) AddToMergeTrain(ctx context.Context, number int, squash bool) error {
	m.mu.Lock()
	m.TrainCalls = append(m.TrainCalls, number)
	m.mu.Unlock()
	return m.Merge(ctx, number, squash)
}
