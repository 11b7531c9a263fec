package gitgw

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/jonnii/gg/internal/ggerrors"
)

// OperationLock guards one named family of mutating gg operations (sync,
// land, nav, clean, ...) against concurrent invocation from a second process
// against the same repository.
type OperationLock struct {
	fl *flock.Flock
}

// AcquireOperationLock takes the named lock file commonGitDir/gg/<name>.lock.
// It fails fast with ggerrors.ErrLockBusy if another process already holds it,
// rather than blocking.
func AcquireOperationLock(commonGitDir, name string) (*OperationLock, error) {
	dir := filepath.Join(commonGitDir, "gg")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fl := flock.New(filepath.Join(dir, name+".lock"))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ggerrors.ErrLockBusy, name)
	}
	return &OperationLock{fl: fl}, nil
}

// Release gives up the lock. It is safe to call Release more than once and
// is intended to run under defer on every exit path of the caller.
func (l *OperationLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}

// tryAgainInterval is how long a caller that wants to poll rather than fail
// fast should wait between AcquireOperationLock attempts. gg itself always
// fails fast; this is exposed for tests that want a short, deterministic wait.
const tryAgainInterval = 50 * time.Millisecond
