package repositories

import (
	"errors"

	"gorm.io/gorm"

	"lifecycle-cms/errs"
)

// translate maps gorm/driver errors onto the domain error kinds: missing rows
// become ErrNotFound, everything else is a retryable storage failure.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrNotFound
	}
	return &errs.StorageError{Op: op, Cause: err}
}
