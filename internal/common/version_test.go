package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionLessThan(t *testing.T) {
	for _, tc := range []struct {
		a, b     string
		expected bool
	}{
		{"7.5", "8.0", true},
		{"8.0", "7.5", false},
		{"9", "9.1", true},
		{"9.0", "9", false},
		{"9.1", "9.10", true},
		{"10.0", "9.2", false},
	} {
		assert.Equal(t, tc.expected, VersionLessThan(tc.a, tc.b), "%s < %s", tc.a, tc.b)
	}
}

func TestVersionLessThanPanics(t *testing.T) {
	assert.Panics(t, func() { VersionLessThan("nine", "9.0") })
}

func TestVersionMatches(t *testing.T) {
	for _, tc := range []struct {
		v        string
		expected bool
	}{
		{"6.5", false},
		{"8.0", false},
		{"9.0", true},
		{"9.1", true},
		{"10.0", true},
	} {
		ok, err := VersionMatches(tc.v, ">= 9.0")
		require.NoError(t, err)
		assert.Equal(t, tc.expected, ok, tc.v)
	}

	_, err := VersionMatches("9.0", "bogus")
	assert.Error(t, err)
	_, err = VersionMatches("x", ">= 9.0")
	assert.Error(t, err)
}
