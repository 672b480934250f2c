package lifecycle

import "errors"

// Domain errors returned by Store operations. All are caller precondition
// violations, never transient failures, so none are retried internally.
var (
	ErrPlotNotFound       = errors.New("plot not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrMissingBookingInfo = errors.New("booking information is required for this status change")
	ErrDuplicatePhone     = errors.New("phone number already has a booking on this plot")
	ErrValidation         = errors.New("validation failed")
)
