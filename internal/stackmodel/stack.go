// Package stackmodel materializes the ordered commit stack on a branch into
// the Entry/Stack view every gg engine (nav, sync, land, clean, ...)
// operates on.
package stackmodel

import (
	"context"
	"fmt"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/ggid"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/provider"
)

// Entry is one commit in a stack, enriched with its GG-ID and (once synced)
// its PR/MR state.
type Entry struct {
	OID      string
	ShortSHA string
	Title    string
	Message  string
	GGID     string // "" until synced
	Position int    // 1-indexed, bottom of the stack is 1

	PRNumber int // 0 means not yet published
	PRState  provider.PRState
	Approved bool
	CI       provider.CIStatus
}

// HasGGID reports whether this entry's commit has been given a GG-ID yet.
func (e Entry) HasGGID() bool { return e.GGID != "" }

// HasPR reports whether this entry has been published as a PR/MR.
func (e Entry) HasPR() bool { return e.PRNumber != 0 }

// Stack is the ordered view of a stack branch's commits, from the base up.
type Stack struct {
	Name            string
	Username        string
	Base            string
	Entries         []Entry
	CurrentPosition int // 1-indexed; 0 means HEAD isn't on any entry

	repo *gitgw.Repo
	cfg  *config.Config
}

// BranchName returns the stack's own branch: username/name.
func (s *Stack) BranchName() string {
	return FormatStackBranch(s.Username, s.Name)
}

// EntryBranchName returns the derived branch name for one of this stack's entries.
func (s *Stack) EntryBranchName(e Entry) string {
	return FormatEntryBranch(s.Username, s.Name, e.GGID)
}

// Len returns the number of commits in the stack.
func (s *Stack) Len() int { return len(s.Entries) }

// IsEmpty reports whether the stack has no commits above its base.
func (s *Stack) IsEmpty() bool { return len(s.Entries) == 0 }

// EntriesNeedingGGID returns the entries that have not yet been given a GG-ID.
func (s *Stack) EntriesNeedingGGID() []Entry {
	var out []Entry
	for _, e := range s.Entries {
		if !e.HasGGID() {
			out = append(out, e)
		}
	}
	return out
}

// SyncedCount returns how many entries already have a GG-ID.
func (s *Stack) SyncedCount() int {
	n := 0
	for _, e := range s.Entries {
		if e.HasGGID() {
			n++
		}
	}
	return n
}

// ByPosition returns the 1-indexed entry, or ok=false if out of range.
func (s *Stack) ByPosition(pos int) (Entry, bool) {
	if pos < 1 || pos > len(s.Entries) {
		return Entry{}, false
	}
	return s.Entries[pos-1], true
}

// ByGGID returns the entry with the given GG-ID, if any.
func (s *Stack) ByGGID(id string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.GGID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// ByShortSHAPrefix returns the entry whose OID starts with prefix, if exactly one matches.
func (s *Stack) ByShortSHAPrefix(prefix string) (Entry, bool) {
	var match Entry
	count := 0
	for _, e := range s.Entries {
		if len(prefix) <= len(e.OID) && e.OID[:len(prefix)] == prefix {
			match = e
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return Entry{}, false
}

// Current returns the entry at CurrentPosition, if HEAD is on one.
func (s *Stack) Current() (Entry, bool) {
	return s.ByPosition(s.CurrentPosition)
}

// First returns the bottom-most entry.
func (s *Stack) First() (Entry, bool) { return s.ByPosition(1) }

// Last returns the top-most entry.
func (s *Stack) Last() (Entry, bool) { return s.ByPosition(len(s.Entries)) }

// Prev returns the entry one below CurrentPosition.
func (s *Stack) Prev() (Entry, bool) { return s.ByPosition(s.CurrentPosition - 1) }

// Next returns the entry one above CurrentPosition.
func (s *Stack) Next() (Entry, bool) { return s.ByPosition(s.CurrentPosition + 1) }

// Load resolves the stack named by branchName (a "username/stack" branch,
// which need not be checked out) from the repository, enriching entries
// from cfg's PR map and computing CurrentPosition from the repository's
// actual HEAD.
func Load(ctx context.Context, repo *gitgw.Repo, cfg *config.Config, branchName string) (*Stack, error) {
	username, name, ok := ParseStackBranch(branchName)
	if !ok {
		return nil, fmt.Errorf("%q is not a stack branch (expected username/stack-name)", branchName)
	}

	base := cfg.GetBaseForStack(name)
	if base == "" {
		detected, err := repo.FindBaseBranch(ctx)
		if err != nil {
			return nil, err
		}
		base = detected
	}

	commits, err := repo.StackCommits(ctx, base, branchName)
	if err != nil {
		return nil, err
	}

	stack := &Stack{
		Name:     name,
		Username: username,
		Base:     base,
		repo:     repo,
		cfg:      cfg,
	}

	for i, c := range commits {
		entry := Entry{
			OID:      c.OID,
			ShortSHA: repo.ShortSHA(c.OID),
			Title:    c.Title,
			Message:  c.Message,
			Position: i + 1,
		}
		if id, ok := ggid.Extract(c.Message); ok {
			entry.GGID = id
			if num, ok := cfg.GetPRForEntry(name, id); ok {
				entry.PRNumber = num
			}
		}
		stack.Entries = append(stack.Entries, entry)
	}

	headOID, err := repo.Revision(ctx, "HEAD")
	if err == nil {
		for _, e := range stack.Entries {
			if e.OID == headOID {
				stack.CurrentPosition = e.Position
				break
			}
		}
	}

	return stack, nil
}

// RefreshPRInfo queries p for every entry that has a PR/MR number and
// updates its state, approval, and CI status in place.
func (s *Stack) RefreshPRInfo(ctx context.Context, p provider.Provider) error {
	for i := range s.Entries {
		e := &s.Entries[i]
		if !e.HasPR() {
			continue
		}
		pr, err := p.Get(ctx, e.PRNumber)
		if err != nil {
			return err
		}
		e.PRState = pr.State

		approved, err := p.CheckApproved(ctx, e.PRNumber)
		if err != nil {
			return err
		}
		e.Approved = approved

		ci, err := p.GetCIStatus(ctx, e.PRNumber)
		if err != nil {
			return err
		}
		e.CI = ci
	}
	return nil
}

// StatusDisplay returns a short human label for an entry's lifecycle state.
func StatusDisplay(e Entry) string {
	switch {
	case e.PRState == provider.PRStateMerged:
		return "merged"
	case e.PRState == provider.PRStateClosed:
		return "closed"
	case e.PRState == provider.PRStateDraft:
		return "draft"
	case e.Approved:
		return "approved"
	case e.HasPR():
		return "open"
	default:
		return "not pushed"
	}
}
