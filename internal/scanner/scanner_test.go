package scanner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOSMode(t *testing.T) {
	for in, want := range map[string]OSMode{
		"windows": Windows,
		"Windows": Windows,
		"WIN":     Windows,
		"linux":   Linux,
		" Linux ": Linux,
	} {
		got, err := ParseOSMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOSMode("darwin")
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestStatusOf(t *testing.T) {
	match := &DeviceMatch{Address: "10.0.0.1"}
	notFound := &LaunchError{Kind: LaunchNotFound}

	tests := []struct {
		name    string
		outcome ProcessOutcome
		match   *DeviceMatch
		want    Status
	}{
		{"clean exit with match", ProcessOutcome{ExitCode: 0}, match, StatusSuccess},
		{"clean exit without match", ProcessOutcome{ExitCode: 0}, nil, StatusDeviceNotFound},
		{"non-zero exit", ProcessOutcome{ExitCode: 3}, nil, StatusProcessError},
		{"non-zero exit ignores match", ProcessOutcome{ExitCode: 1}, match, StatusProcessError},
		{"launch error", ProcessOutcome{ExitCode: NoExitCode, LaunchError: notFound}, nil, StatusProcessError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.outcome, tt.match))
		})
	}
}

func TestLaunchErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&LaunchError{Kind: LaunchFailure, Path: "/x", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "/x")

	var le *LaunchError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "launch_failure", le.Kind.String())
}
