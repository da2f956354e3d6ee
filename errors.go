package s3presign

import "errors"

var (
	// ErrEmptyObjectKey is returned when a batch contains an empty object
	// key. Nothing is signed in that case.
	ErrEmptyObjectKey = errors.New("object keys must be non-empty")

	// ErrExpiresOutOfRange is returned when the expiry is outside the
	// 1 second to 7 day window S3 accepts.
	ErrExpiresOutOfRange = errors.New("expires must be between 1 second and 7 days")
)
