package nevra

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every ParseError via errors.Is
var ErrParse = errors.New("nevra parse error")

// ParseError reports an identifier that cannot be split into its NEVRA
// components
type ParseError struct {
	// Input is the offending identifier
	Input string
	// Expected is the delimiter that was missing, or 0 when a component
	// was present but invalid
	Expected byte
	// Reason describes an invalid component
	Reason string
}

// Error returns a human-readable error message
func (e *ParseError) Error() string {
	if e.Expected != 0 {
		return fmt.Sprintf("invalid package identifier %q: missing %q delimiter", e.Input, e.Expected)
	}
	return fmt.Sprintf("invalid package identifier %q: %s", e.Input, e.Reason)
}

// Is makes errors.Is(err, ErrParse) true for any ParseError
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
