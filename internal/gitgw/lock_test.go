package gitgw

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonnii/gg/internal/ggerrors"
)

func TestAcquireOperationLockFailsFastWhenHeld(t *testing.T) {
	dir := t.TempDir()

	first, err := AcquireOperationLock(dir, "sync")
	require.NoError(t, err)
	defer first.Release()

	_, err = AcquireOperationLock(dir, "sync")
	assert.True(t, errors.Is(err, ggerrors.ErrLockBusy))
}

func TestAcquireOperationLockSucceedsAfterRetryOnceReleased(t *testing.T) {
	dir := t.TempDir()

	first, err := AcquireOperationLock(dir, "sync")
	require.NoError(t, err)

	go func() {
		time.Sleep(tryAgainInterval)
		_ = first.Release()
	}()

	deadline := time.Now().Add(10 * tryAgainInterval)
	var second *OperationLock
	for time.Now().Before(deadline) {
		second, err = AcquireOperationLock(dir, "sync")
		if err == nil {
			break
		}
		if !errors.Is(err, ggerrors.ErrLockBusy) {
			require.NoError(t, err)
		}
		time.Sleep(tryAgainInterval)
	}

	require.NoError(t, err)
	require.NotNil(t, second)
	defer second.Release()
}
