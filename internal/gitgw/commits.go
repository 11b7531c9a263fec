package gitgw

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonnii/gg/internal/ggerrors"
)

// Commit is a single commit in a stack's range, oldest first.
type Commit struct {
	OID     string
	Title   string
	Message string
}

// StackCommits walks the commits reachable from tip but not from base, in
// oldest-first order, and returns an error if any of them is a merge commit
// (stacks must be a single linear line of commits).
func (r *Repo) StackCommits(ctx context.Context, base, tip string) ([]Commit, error) {
	// %H=oid, then parent count via %P, separated by unit separators, commits by RS.
	const sep = "\x1f"
	const rs = "\x1e"
	format := strings.Join([]string{"%H", "%P", "%B"}, sep) + rs
	out, err := r.RunRaw(ctx, "log", "--reverse", "--format="+format, base+".."+tip)
	if err != nil {
		return nil, err
	}

	var commits []Commit
	for _, rec := range strings.Split(out, rs) {
		rec = strings.Trim(rec, "\n")
		if rec == "" {
			continue
		}
		parts := strings.SplitN(rec, sep, 3)
		if len(parts) != 3 {
			continue
		}
		oid := strings.TrimSpace(parts[0])
		parents := strings.Fields(parts[1])
		message := strings.Trim(parts[2], "\n")

		if len(parents) > 1 {
			return nil, fmt.Errorf("%w: %s", ggerrors.ErrMergeCommitInStack, r.ShortSHA(oid))
		}

		commits = append(commits, Commit{
			OID:     oid,
			Title:   firstLine(message),
			Message: message,
		})
	}
	return commits, nil
}

func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return message[:idx]
	}
	return message
}

// CommitMessage returns the full message of oid.
func (r *Repo) CommitMessage(ctx context.Context, oid string) (string, error) {
	return r.RunRaw(ctx, "log", "-1", "--format=%B", oid)
}

// RewriteEntry describes how to rebuild one commit in RewriteMessages.
type RewriteEntry struct {
	OID        string
	NewMessage string // if equal to the original, the commit is only reparented
}

// RewriteMessages rebuilds the linear range (base, tip] with messages from
// entries (oldest first, one per original commit) and returns the new tip
// OID. Author and committer identity and dates are preserved from each
// original commit, and each new commit keeps its original commit's tree;
// only the message and the parent change, and parents cascade from whichever
// ancestor was rewritten. This avoids an interactive editor entirely by
// working directly in terms of commit-tree plumbing.
func (r *Repo) RewriteMessages(ctx context.Context, base string, entries []RewriteEntry) (string, error) {
	parent := base
	for _, entry := range entries {
		tree, err := r.Run(ctx, "rev-parse", entry.OID+"^{tree}")
		if err != nil {
			return "", err
		}

		env, err := authorEnv(ctx, r, entry.OID)
		if err != nil {
			return "", err
		}

		newOID, err := r.runWithEnvAndInput(ctx, env, entry.NewMessage, "commit-tree", tree, "-p", parent, "-F", "-")
		if err != nil {
			return "", err
		}
		parent = strings.TrimSpace(newOID)
	}
	return parent, nil
}

func authorEnv(ctx context.Context, r *Repo, oid string) ([]string, error) {
	out, err := r.RunRaw(ctx, "log", "-1", "--format=%an\x1f%ae\x1f%aI\x1f%cn\x1f%ce\x1f%cI", oid)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(strings.TrimSpace(out), "\x1f")
	if len(parts) != 6 {
		return nil, fmt.Errorf("unexpected author log format for %s", oid)
	}
	return []string{
		"GIT_AUTHOR_NAME=" + parts[0],
		"GIT_AUTHOR_EMAIL=" + parts[1],
		"GIT_AUTHOR_DATE=" + parts[2],
		"GIT_COMMITTER_NAME=" + parts[3],
		"GIT_COMMITTER_EMAIL=" + parts[4],
		"GIT_COMMITTER_DATE=" + parts[5],
	}, nil
}
