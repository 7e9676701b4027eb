// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested article or version does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied indicates a failed ownership or capability check.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidTransition indicates the requested event is not legal from
	// the article's current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrRetentionExpired indicates a restore attempted past the retention window.
	ErrRetentionExpired = errors.New("retention window expired")

	// ErrStaleState indicates optimistic concurrency failure (the article
	// changed between read and commit). Never retried inside the core.
	ErrStaleState = errors.New("stale state")

	// ErrStorageUnavailable indicates a transient infrastructure failure (retryable).
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// InvalidTransitionError reports the current status and the rejected event so
// callers can explain the failure rather than guessing from a boolean.
type InvalidTransitionError struct {
	CurrentStatus string
	Event         string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s article in status %q", e.Event, e.CurrentStatus)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// RetentionExpiredError carries the instant the retention window closed.
type RetentionExpiredError struct {
	ExpiredAt time.Time
}

func (e *RetentionExpiredError) Error() string {
	return fmt.Sprintf("retention window expired at %s", e.ExpiredAt.Format(time.RFC3339))
}

func (e *RetentionExpiredError) Unwrap() error { return ErrRetentionExpired }

// StorageError wraps a driver error so sweepers can detect retryable failures
// with errors.Is while the cause stays visible in logs.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error { return ErrStorageUnavailable }
