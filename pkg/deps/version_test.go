package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depprobe/depprobe/pkg/errors"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.2", "1.2.0", 0},
		{"1.2.0", "1.2", 0},
		{"1.0.0", "2.0.0", -1},
		{"2.0.0", "1.0.0", 1},
		{"1.10", "1.9", 1},
		{"0.29.2", "0.29", 1},
		{"1.2.3-rc1", "1.2.3", 1},
		{"1_2_3", "1.2.3", 0},
		{"1.2-b", "1.2-a", 1},
	}
	for _, tt := range tests {
		got := CompareVersions(tt.a, tt.b)
		assert.Equal(t, tt.want, got, "CompareVersions(%q, %q)", tt.a, tt.b)
	}
}

func TestCheckRequirement(t *testing.T) {
	tests := []struct {
		version string
		req     string
		want    bool
	}{
		{"1.2.3", ">=1.0", true},
		{"1.2.3", ">=2.0", false},
		{"1.2.3", "<=1.2.3", true},
		{"1.2.3", "<1.2.3", false},
		{"1.2.3", ">1.2", true},
		{"1.2.3", "=1.2.3", true},
		{"1.2.3", "==1.2.3", true},
		{"1.2.3", "!=1.2.3", false},
		{"1.2.3", "!=1.2.4", true},
		// A bare version means exact equality.
		{"1.2.3", "1.2.3", true},
		{"1.2.4", "1.2.3", false},
	}
	for _, tt := range tests {
		got, err := CheckRequirement(tt.version, tt.req)
		require.NoError(t, err, "CheckRequirement(%q, %q)", tt.version, tt.req)
		assert.Equal(t, tt.want, got, "CheckRequirement(%q, %q)", tt.version, tt.req)
	}
}

func TestCheckRequirementInvalid(t *testing.T) {
	for _, req := range []string{"", ">=", ">= "} {
		_, err := CheckRequirement("1.0", req)
		require.Error(t, err, "req %q", req)
		assert.True(t, errors.IsFatal(err), "req %q should be a fatal option error", req)
	}
}

func TestCompareMany(t *testing.T) {
	ok, unmet, met, err := CompareMany("1.5.0", []string{">=1.0", "<2.0", "!=1.5.0"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"!=1.5.0"}, unmet)
	assert.Equal(t, []string{">=1.0", "<2.0"}, met)

	ok, unmet, met, err = CompareMany("1.5.0", []string{">=1.0", "<2.0"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, unmet)
	assert.Len(t, met, 2)

	ok, _, _, err = CompareMany("1.5.0", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
