package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroOptionsInheritsAllStreams(t *testing.T) {
	t.Parallel()

	var opts Options
	assert.Equal(t, Inherit, opts.Stdin.Mode)
	assert.Equal(t, Inherit, opts.Stdout.Mode)
	assert.Equal(t, Inherit, opts.Stderr.Mode)
	assert.False(t, opts.ParentNonblock)
	assert.False(t, opts.OverlappedIO)
	assert.False(t, opts.ClearEnv)
	assert.Empty(t, opts.Env)
	assert.Empty(t, opts.Dir)
}

func TestExitStatusSuccess(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		es   *ExitStatus
		want bool
	}{
		{"nil", nil, false},
		{"zero exit", &ExitStatus{ExitCode: 0}, true},
		{"nonzero exit", &ExitStatus{ExitCode: 1}, false},
		{"signaled with zero code", &ExitStatus{ExitCode: 0, Signaled: true, Signal: 9}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.es.Success())
		})
	}
}
