package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Is(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	mf := &MissingFieldError{Field: FieldSourceArn, Err: cause}

	assert.ErrorIs(t, mf, ErrMissingField)
	assert.ErrorIs(t, mf, cause)
	assert.Contains(t, mf.Error(), "Source ARN")

	wrapped := fmt.Errorf("handle event: %w", &PatternMatchError{Input: "x:Y", Pattern: ExportTaskIDPattern})
	assert.ErrorIs(t, wrapped, ErrPatternMatch)
	assert.NotErrorIs(t, wrapped, ErrMissingField)

	cfgErr := &ConfigurationError{Key: "SNS_ARN"}
	assert.ErrorIs(t, cfgErr, ErrConfiguration)
	assert.Equal(t, "required configuration SNS_ARN is not set", cfgErr.Error())
}
