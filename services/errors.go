package services

import "errors"

// Failure taxonomy shared by the services. Controllers translate these into
// status codes at the boundary; anything not in this list is treated as an
// internal failure and surfaced opaquely.
var (
	// ErrNotFound: the referenced event id does not exist (or is not the
	// expected activity type for the operation).
	ErrNotFound = errors.New("event not found")

	// ErrInvalidPortion: consumption fraction outside [0.2, 1.0].
	ErrInvalidPortion = errors.New("portion_consumed must be between 0.2 and 1.0")

	// ErrInsufficientData: a derivation has nothing to report. Not a caller
	// mistake; the dashboard simply has nothing to show.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrExternalService: the analysis collaborator failed or returned
	// output we could not parse. Never retried; vision calls are not cheap.
	ErrExternalService = errors.New("image analysis failed")
)
