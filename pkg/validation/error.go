package validation

import "errors"

// ErrInvalidConfiguration is matched by every *ValidationError through
// errors.Is.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ValidationError is the aggregated failure returned when a configuration
// does not match its schema. Error returns the complete report.
type ValidationError struct {
	Header string
	Result Result

	text string
}

func newValidationError(header string, res Result) *ValidationError {
	return &ValidationError{
		Header: header,
		Result: res,
		text:   Format(header, res.Groups),
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.text
}

// Is reports whether target is ErrInvalidConfiguration.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// Violations returns the top-level violations in report order.
func (e *ValidationError) Violations() []Violation {
	return e.Result.Violations()
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidationError extracts the *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
