// Package ggerrors provides sentinel errors and typed error values for gg.
// Use errors.Is() and errors.As() to check for specific conditions.
package ggerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNotInRepo indicates the current directory is not inside a git repository.
	ErrNotInRepo = errors.New("not inside a git repository")

	// ErrNoBaseBranch indicates no base branch could be determined for a stack.
	ErrNoBaseBranch = errors.New("no base branch configured or detected")

	// ErrNotOnStack indicates HEAD is not on a recognized stack or entry branch.
	ErrNotOnStack = errors.New("not currently on a stack")

	// ErrDirtyWorkingDirectory indicates uncommitted changes block the operation.
	ErrDirtyWorkingDirectory = errors.New("working directory has uncommitted changes")

	// ErrMergeCommitInStack indicates a merge commit was found between base and tip.
	ErrMergeCommitInStack = errors.New("merge commit found in stack range")

	// ErrProviderNotConfigured indicates no PR/MR provider could be detected for the remote.
	ErrProviderNotConfigured = errors.New("no provider configured for this remote")

	// ErrRebaseConflict indicates a rebase operation stopped on a conflict.
	ErrRebaseConflict = errors.New("rebase conflict")

	// ErrNoRebaseInProgress indicates there is no rebase to continue or abort.
	ErrNoRebaseInProgress = errors.New("no rebase in progress")

	// ErrLockBusy indicates another gg operation already holds the lock.
	ErrLockBusy = errors.New("another gg operation is already running")

	// ErrStaleRemoteInfo indicates a force-with-lease push was rejected because the
	// remote branch moved since it was last observed.
	ErrStaleRemoteInfo = errors.New("remote branch changed since last seen, refusing to overwrite")
)

// StackNotFoundError indicates a named stack has no config entry and no matching branch.
type StackNotFoundError struct {
	Name string
}

func (e *StackNotFoundError) Error() string {
	return fmt.Sprintf("stack %q not found", e.Name)
}

// Is reports whether target is a *StackNotFoundError, ignoring the name.
func (e *StackNotFoundError) Is(target error) bool {
	_, ok := target.(*StackNotFoundError)
	return ok
}

// NewStackNotFoundError creates a new StackNotFoundError.
func NewStackNotFoundError(name string) *StackNotFoundError {
	return &StackNotFoundError{Name: name}
}

// MissingGGIDError indicates a commit in the stack range has no GG-ID trailer yet.
type MissingGGIDError struct {
	Subject string
}

func (e *MissingGGIDError) Error() string {
	return fmt.Sprintf("commit %q has no GG-ID trailer", e.Subject)
}

func (e *MissingGGIDError) Is(target error) bool {
	_, ok := target.(*MissingGGIDError)
	return ok
}

// NewMissingGGIDError creates a new MissingGGIDError.
func NewMissingGGIDError(subject string) *MissingGGIDError {
	return &MissingGGIDError{Subject: subject}
}

// ProviderCLIError wraps a failure from a provider's companion CLI (gh/glab),
// distinguishing "not installed" from "not authenticated" from a generic failure.
type ProviderCLIError struct {
	Provider string // "github" or "gitlab"
	Kind     ProviderCLIErrorKind
	Detail   string
}

// ProviderCLIErrorKind enumerates why a provider CLI call failed.
type ProviderCLIErrorKind int

const (
	// ProviderCLINotInstalled means the companion binary was not found on PATH.
	ProviderCLINotInstalled ProviderCLIErrorKind = iota
	// ProviderCLINotAuthenticated means the binary ran but reported no valid session.
	ProviderCLINotAuthenticated
	// ProviderCLIFailed means the call failed for another reason.
	ProviderCLIFailed
)

func (e *ProviderCLIError) Error() string {
	switch e.Kind {
	case ProviderCLINotInstalled:
		return fmt.Sprintf("%s CLI is not installed", e.Provider)
	case ProviderCLINotAuthenticated:
		return fmt.Sprintf("%s CLI is not authenticated", e.Provider)
	default:
		return fmt.Sprintf("%s CLI failed: %s", e.Provider, e.Detail)
	}
}

// NewProviderCLIError creates a new ProviderCLIError.
func NewProviderCLIError(provider string, kind ProviderCLIErrorKind, detail string) *ProviderCLIError {
	return &ProviderCLIError{Provider: provider, Kind: kind, Detail: detail}
}

// RebaseConflictError carries the branch and git's conflict output.
type RebaseConflictError struct {
	BranchName string
	Message    string
}

func (e *RebaseConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rebase conflict on %s: %s", e.BranchName, e.Message)
	}
	return fmt.Sprintf("rebase conflict on %s", e.BranchName)
}

func (e *RebaseConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// NewRebaseConflictError creates a new RebaseConflictError.
func NewRebaseConflictError(branchName, message string) *RebaseConflictError {
	return &RebaseConflictError{BranchName: branchName, Message: message}
}

// GitCommandError represents a failed git subprocess invocation.
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("%s command failed: %s %v", e.Command, e.Command, e.Args)
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError.
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{Command: command, Args: args, Stdout: stdout, Stderr: stderr, Err: err}
}

// ConfigError wraps a failure reading or writing the gg config side-table.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error at %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(path string, err error) *ConfigError {
	return &ConfigError{Path: path, Err: err}
}
