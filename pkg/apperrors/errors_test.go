package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfUnwrapsNestedErrors(t *testing.T) {
	err := fmt.Errorf("handler: %w", ErrPostNotFound)
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeUnknown, CodeOf(nil))
}

func TestMessageOfHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "Post not found", MessageOf(ErrPostNotFound))
	assert.Equal(t, "Something went wrong", MessageOf(errors.New("dial tcp: refused")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(CodeDependencyFailed, "Something went wrong while uploading image", cause)
	assert.Equal(t, CodeDependencyFailed, CodeOf(err))
	assert.ErrorIs(t, err, cause)
}
