package services

import (
	"errors"
	"fmt"
)

// ErrCampaignNotFound is returned by campaign reads when no campaign with the
// given id exists.
var ErrCampaignNotFound = errors.New("campaign not found")

// ValidationError reports a malformed or missing request field. It is raised
// before any write happens, so a caller seeing one can assume no side effect
// took place.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps a failed store operation. The donation write and the
// campaign upsert are independent atomic operations, so a StorageError from
// the upsert can leave an already-persisted donation behind; that window is
// accepted and reconciled out of band.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
