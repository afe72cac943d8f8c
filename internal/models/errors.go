package models

import (
	"errors"
	"fmt"
)

// Sentinel errors matched through errors.Is on the typed errors below
var (
	ErrMissingField  = errors.New("missing field")
	ErrPatternMatch  = errors.New("pattern match failed")
	ErrConfiguration = errors.New("configuration error")
)

// MissingFieldError is returned when an expected event field is absent or the
// payload could not be decoded at all
type MissingFieldError struct {
	Field string
	Err   error
}

func (e *MissingFieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("missing field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("missing field %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return e.Err
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// PatternMatchError is returned when no export task identifier can be
// extracted from a source ARN
type PatternMatchError struct {
	Input   string
	Pattern string
}

func (e *PatternMatchError) Error() string {
	return fmt.Sprintf("no match for %s in %q", e.Pattern, e.Input)
}

func (e *PatternMatchError) Is(target error) bool {
	return target == ErrPatternMatch
}

// ConfigurationError is returned when a required environment value is absent
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("required configuration %s is not set", e.Key)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
