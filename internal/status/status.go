package status

import "errors"

var (
	ErrValidation         = errors.New("validation: invalid input")
	ErrUnauthorized       = errors.New("auth: unauthorized")
	ErrNotFound           = errors.New("store: record not found")
	ErrPackageNotFound    = errors.New("booking: Package not found")
	ErrSubmissionInFlight = errors.New("submission: a request with this key is still being processed")
	ErrInvalidStatus      = errors.New("status: unsupported status value")
	ErrUnsupportedBucket  = errors.New("upload: unsupported bucket")
)

// IsPermanent reports whether retrying err cannot change the outcome.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPackageNotFound) ||
		errors.Is(err, ErrInvalidStatus)
}
