package rpc

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMissingPathParameter     = errors.New("missing path parameter")
	ErrInvalidPathParameterType = errors.New("invalid path parameter type")
	ErrNoBaseContext            = errors.New("no base path to resolve the request URL against")
	ErrInvalidTemplate          = errors.New("invalid path template")
	ErrUnsupportedMethod        = errors.New("unsupported HTTP method")
)

// MissingPathParameterError reports a placeholder whose field is absent or
// null in the request parameters.
type MissingPathParameterError struct {
	Path FieldPath
}

func (e *MissingPathParameterError) Error() string {
	return "missing path parameter: " + e.Path.String()
}

func (e *MissingPathParameterError) Is(target error) bool {
	return target == ErrMissingPathParameter
}

// InvalidPathParameterTypeError reports a placeholder bound to a value that
// is not a string.
type InvalidPathParameterTypeError struct {
	Path FieldPath
	// Type is the JSON type name of the offending value.
	Type string
	// Value is the offending value.
	Value Value
}

func (e *InvalidPathParameterTypeError) Error() string {
	return fmt.Sprintf("path parameter %q must be a string, received %s which is %q", e.Path, e.Value, e.Type)
}

func (e *InvalidPathParameterTypeError) Is(target error) bool {
	return target == ErrInvalidPathParameterType
}
