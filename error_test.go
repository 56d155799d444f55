package ftml_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/ftml"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := ftml.Errorf(ftml.ENOTFOUND, "module %q not found", "m1")

	assert.Equal(t, ftml.ENOTFOUND, ftml.ErrorCode(err))
	assert.Equal(t, "module \"m1\" not found", ftml.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ftml.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ftml.ErrorMessage(nil))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("lookup: %w", ftml.Errorf(ftml.EINVALID, "bad uri"))

	assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err))
	assert.Equal(t, "bad uri", ftml.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk on fire")

	assert.Equal(t, ftml.EINTERNAL, ftml.ErrorCode(err))
	assert.Equal(t, "Internal error.", ftml.ErrorMessage(err))
}
