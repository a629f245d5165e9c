package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrPackageParse ErrorType = iota
	ErrManifest
	ErrSignature
	ErrFileOp
	ErrInvalidConfig
	ErrListing
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrPackageParse:
		return "PackageParse"
	case ErrManifest:
		return "Manifest"
	case ErrSignature:
		return "Signature"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrListing:
		return "Listing"
	default:
		return "Unknown"
	}
}

// ComposeDiffError represents an error while comparing composes
type ComposeDiffError struct {
	Type ErrorType
	File string
	Err  error
}

// Error implements the error interface
func (e *ComposeDiffError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.File, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *ComposeDiffError) Unwrap() error {
	return e.Err
}
