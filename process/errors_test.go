package process

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsComparesByKindOnly(t *testing.T) {
	t.Parallel()

	e1 := newError("read", KindWouldBlock, 11, errors.New("eagain"))
	e2 := newError("write", KindWouldBlock, 0, nil)
	assert.True(t, errors.Is(e1, e2))
	assert.True(t, errors.Is(e1, ErrWouldBlock))
	assert.False(t, errors.Is(e1, ErrBrokenPipe))
}

func TestErrorUnwrapExposesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	e := newError("write", KindIO, 5, cause)
	assert.Equal(t, cause, errors.Unwrap(e))
}

func TestErrorStringIncludesOpAndKind(t *testing.T) {
	t.Parallel()

	e := newError("start", KindLaunchFailed, 2, errors.New("no such file"))
	s := e.Error()
	assert.Contains(t, s, "start")
	assert.Contains(t, s, "launch failed")
	assert.Contains(t, s, "no such file")
}

func TestErrorKindStringCoversAllValues(t *testing.T) {
	t.Parallel()

	kinds := []ErrorKind{
		KindInvalidArgument, KindLaunchFailed, KindNotAvailable,
		KindWouldBlock, KindBrokenPipe, KindIO, KindUnknown,
	}
	for _, k := range kinds {
		assert.NotEmpty(t, k.String())
	}
}

func TestIsBrokenPipeOnlyMatchesBrokenPipeKind(t *testing.T) {
	t.Parallel()

	assert.True(t, isBrokenPipe(newError("write", KindBrokenPipe, 32, nil)))
	assert.False(t, isBrokenPipe(newError("write", KindIO, 5, nil)))
	assert.False(t, isBrokenPipe(nil))
	assert.False(t, isBrokenPipe(errors.New("plain")))
}
