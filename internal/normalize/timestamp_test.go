package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 5, 4, 14, 3, 22, 0, time.UTC)
	tests := []struct {
		name string
		in   string
	}{
		{"plain", "2024-05-04T14:03:22"},
		{"space separated", "2024-05-04 14:03:22"},
		{"truncated millis", "2024-05-04T14:03:22.12"},
		{"long fraction not rounded", "2024-05-04T14:03:22.999999"},
		{"fraction with zone", "2024-05-04T14:03:22.5Z"},
		{"rfc3339", "2024-05-04T14:03:22Z"},
		{"offset", "2024-05-04T08:03:22-06:00"},
		{"fraction with offset", "2024-05-04T16:03:22.5+02:00"},
		{"long fraction with negative offset", "2024-05-04T08:03:22.999999-06:00"},
		{"whitespace", "  2024-05-04T14:03:22  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseTimestamp_FractionKeepsOffset(t *testing.T) {
	plain, err := ParseTimestamp("2024-01-02T10:00:00+02:00")
	require.NoError(t, err)
	fractional, err := ParseTimestamp("2024-01-02T10:00:00.5+02:00")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), plain)
	assert.Equal(t, plain, fractional)
}

func TestParseTimestamp_DateOnly(t *testing.T) {
	got, err := ParseTimestamp("2024-01-21")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), got)
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "2024/05/04", "14:03:22", ".123"} {
		_, err := ParseTimestamp(in)
		assert.Error(t, err, "input %q", in)
	}
}
