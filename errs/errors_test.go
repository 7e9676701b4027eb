package errs

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvalidTransitionErrorUnwrapsToSentinel(t *testing.T) {
	err := &InvalidTransitionError{CurrentStatus: "trashed", Event: "publish"}
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Contains(t, err.Error(), "trashed")
	assert.Contains(t, err.Error(), "publish")
}

func TestRetentionExpiredErrorCarriesExpiry(t *testing.T) {
	expiry := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := &RetentionExpiredError{ExpiredAt: expiry}
	assert.True(t, errors.Is(err, ErrRetentionExpired))
	assert.Contains(t, err.Error(), "2024-03-01")
}

func TestStorageErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &StorageError{Op: "commit article", Cause: cause}
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.Contains(t, err.Error(), "commit article")
	assert.Contains(t, err.Error(), "connection refused")

	wrapped := fmt.Errorf("sweep: %w", err)
	assert.True(t, errors.Is(wrapped, ErrStorageUnavailable))
}
