package params

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField indicates a required parameter is absent.
	ErrMissingField = errors.New("required parameter is missing")

	// ErrPositiveClassRequired indicates the positive class label is absent.
	ErrPositiveClassRequired = errors.New("model parameters must define the label of the positive class")

	// ErrInvalidField indicates a parameter is present but unusable.
	ErrInvalidField = errors.New("invalid parameter")
)

// ConfigurationError reports a problem with the model parameters. Field is
// the dotted path of the offending entry, if known.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func missing(field string) error {
	return &ConfigurationError{Field: field, Err: ErrMissingField}
}

func invalid(field string, format string, args ...any) error {
	return &ConfigurationError{
		Field: field,
		Err:   fmt.Errorf("%w: %s", ErrInvalidField, fmt.Sprintf(format, args...)),
	}
}
