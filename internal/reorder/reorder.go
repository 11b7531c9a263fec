// Package reorder implements gg's stack reordering: replaying a stack's
// commits in a new order via an interactive-rebase-style todo list, driven
// either by an explicit order string or by the user's editor.
package reorder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jonnii/gg/internal/config"
	"github.com/jonnii/gg/internal/gitgw"
	"github.com/jonnii/gg/internal/stackmodel"
)

// ParseOrder parses an explicit order string like "3 1 2" into 1-indexed
// positions, validating it's a permutation of 1..n.
func ParseOrder(order string, n int) ([]int, error) {
	fields := strings.Fields(order)
	if len(fields) != n {
		return nil, fmt.Errorf("order must name exactly %d position(s), got %d", n, len(fields))
	}

	seen := make(map[int]bool, n)
	positions := make([]int, n)
	for i, f := range fields {
		pos, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid position %q", f)
		}
		if pos < 1 || pos > n || seen[pos] {
			return nil, fmt.Errorf("position %d is out of range or repeated", pos)
		}
		seen[pos] = true
		positions[i] = pos
	}
	return positions, nil
}

// PromptForOrder opens $GIT_SEQUENCE_EDITOR (falling back to $EDITOR, then
// "vi") on a scratch file listing the stack's current order, one position
// per line, and parses back whatever order the user leaves behind.
func PromptForOrder(stack *stackmodel.Stack) ([]int, error) {
	f, err := os.CreateTemp("", "gg-reorder-*.txt")
	if err != nil {
		return nil, err
	}
	defer os.Remove(f.Name())

	var b strings.Builder
	for _, e := range stack.Entries {
		fmt.Fprintf(&b, "%d %s\n", e.Position, e.Title)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return nil, err
	}
	f.Close()

	editor := firstNonEmpty(os.Getenv("GIT_SEQUENCE_EDITOR"), os.Getenv("EDITOR"), "vi")
	cmd := exec.Command("sh", "-c", editor+" \"$1\"", "--", f.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("editor failed: %w", err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		return nil, err
	}

	var positions []int
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("could not parse position from line %q", line)
		}
		positions = append(positions, pos)
	}
	if err := validatePermutation(positions, len(stack.Entries)); err != nil {
		return nil, err
	}
	return positions, nil
}

func validatePermutation(positions []int, n int) error {
	if len(positions) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(positions))
	}
	seen := make(map[int]bool, n)
	for _, p := range positions {
		if p < 1 || p > n || seen[p] {
			return fmt.Errorf("position %d is out of range or repeated", p)
		}
		seen[p] = true
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Apply rewrites the stack branch's commits in the order given by
// positions (1-indexed positions into stack.Entries, oldest-desired-first)
// and force-updates the branch ref to the new tip.
func Apply(ctx context.Context, repo *gitgw.Repo, cfg *config.Config, stack *stackmodel.Stack, positions []int) (*stackmodel.Stack, error) {
	if err := validatePermutation(positions, len(stack.Entries)); err != nil {
		return nil, err
	}

	entries := make([]gitgw.RewriteEntry, len(positions))
	for i, pos := range positions {
		e := stack.Entries[pos-1]
		entries[i] = gitgw.RewriteEntry{OID: e.OID, NewMessage: e.Message}
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
