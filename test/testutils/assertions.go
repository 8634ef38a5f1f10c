// Package testutils provides custom assertions for testing
package testutils

import (
	"testing"

	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertAppError fails unless err is an AppError carrying code
func AssertAppError(t testing.TB, err error, code errors.ErrorCode, msgAndArgs ...interface{}) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	assert.Equal(t, code, errors.GetCode(err), msgAndArgs...)
}

// AssertInvalidFields fails unless err is a validation failure naming
// exactly fields, in any order
func AssertInvalidFields(t testing.TB, err error, fields ...string) {
	t.Helper()
	AssertAppError(t, err, errors.CodeValidationFailed)

	problems, ok := errors.ValidationErrorsOf(err)
	require.True(t, ok, "expected field errors in %v", err)
	assert.ElementsMatch(t, fields, problems.Fields())
}
