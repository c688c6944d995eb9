package errors

import "errors"

// Re-exports so callers importing this package don't also need the standard
// library errors package.

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// IsKind reports whether err carries a ConvertError of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce ConvertError
	return As(err, &ce) && ce.Kind == kind
}
