package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StageError
		want string
	}{
		{
			name: "without wrapped error",
			err:  New(ErrCopy, "copy failed"),
			want: "[COPY_FAILED] copy failed",
		},
		{
			name: "with wrapped error",
			err:  Wrap(fmt.Errorf("disk full"), ErrArchive, "archiving app"),
			want: "[ARCHIVE_FAILED] archiving app: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCopy, "no-op"))
	assert.Nil(t, Wrapf(nil, ErrCopy, "no-op %d", 1))
}

func TestUnwrap(t *testing.T) {
	inner := fmt.Errorf("permission denied")
	err := Wrap(inner, ErrStaleCleanup, "removing default_app")
	assert.True(t, errors.Is(err, inner))
}

func TestIsMatchesOnCode(t *testing.T) {
	err := Wrapf(fmt.Errorf("boom"), ErrHook, "post-copy hook")
	assert.True(t, errors.Is(err, New(ErrHook, "anything")))
	assert.False(t, errors.Is(err, New(ErrPrune, "anything")))
}

func TestIsErrorCode(t *testing.T) {
	err := New(ErrRelocate, "moving to final path")
	assert.True(t, IsErrorCode(err, ErrRelocate))
	assert.False(t, IsErrorCode(err, ErrStagingMove))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrRelocate))

	// wrapped in a plain error, the code still surfaces via errors.As
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsErrorCode(wrapped, ErrRelocate))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrPrune, GetErrorCode(New(ErrPrune, "prune")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrHook, "hook failed").WithDetail("phase", "PreHooksDone")
	assert.Equal(t, "PreHooksDone", err.Details["phase"])
}
