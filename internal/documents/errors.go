package documents

import "errors"

var (
	// ErrNotFound is returned when no document exists for the requested ID.
	ErrNotFound = errors.New("document not found")

	// ErrUnauthorized is returned when the caller does not own the document.
	// Handlers reply with the same 404 as ErrNotFound so that IDs cannot be
	// probed across accounts.
	ErrUnauthorized = errors.New("document not owned by caller")

	// ErrPersist is returned when the database write fails after a
	// successful extraction. The uploaded blob has already been rolled back
	// when this error is seen.
	ErrPersist = errors.New("failed to persist document")

	// ErrUpload is returned when the blob store write fails.
	ErrUpload = errors.New("failed to store uploaded file")
)
