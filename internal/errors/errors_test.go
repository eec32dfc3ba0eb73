package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesAppErrorCode(t *testing.T) {
	base := InvalidInput("bad vote value")
	wrapped := Wrap(base, "while decoding request")

	assert.Equal(t, CodeInvalidInput, GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "while decoding request")
	assert.True(t, errors.Is(wrapped, base))
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("disk full"), "writing report")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "disk full")
}

func TestWrap_NilStaysNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
	assert.NoError(t, Wrapf(nil, "ignored %d", 1))
}

func TestWrapf_FormatsMessage(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("permission denied"), "writing HTML report to %s", "out.html")

	require.Error(t, wrapped)
	assert.Contains(t, wrapped.Error(), "out.html")
	assert.Contains(t, wrapped.Error(), "permission denied")
}

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(IngestError("vote file not found", nil)))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
	assert.False(t, IsAppError(nil))
}

func TestGetCode_UnknownForPlainErrors(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
	assert.Equal(t, CodeConfigInvalid, GetCode(ConfigInvalid("PORT missing")))
}
