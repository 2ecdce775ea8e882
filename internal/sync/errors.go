// internal/sync/errors.go
package sync

import "errors"

var (
	// ErrNotSyncable indicates a sync was requested for a series without a
	// usable catalog reference.
	ErrNotSyncable = errors.New("series has no usable external reference")

	// ErrBadRequest indicates an unrecognized collection kind or a
	// malformed collection URL.
	ErrBadRequest = errors.New("bad request")
)
