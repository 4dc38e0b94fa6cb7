package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidValue indicates a setting holds a value of the wrong type
	// or outside its allowed range.
	ErrInvalidValue = errors.New("invalid setting value")

	// ErrSettingNotFound indicates the setting path doesn't exist.
	ErrSettingNotFound = errors.New("setting not found")
)

// ValueError describes an invalid value for a setting.
type ValueError struct {
	// Path is the setting path.
	Path string
	// Value is the rejected value.
	Value any
	// Message describes what was expected.
	Message string
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is reports ValueError as ErrInvalidValue.
func (e *ValueError) Is(target error) bool {
	return target == ErrInvalidValue
}
