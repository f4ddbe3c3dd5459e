package ops

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnlockAfter(t *testing.T) {
	tests := []struct {
		in   string
		want Offset
	}{
		{"90m", Offset{Clock: 90 * time.Minute}},
		{"2d", Offset{Days: 2}},
		{"1w", Offset{Days: 7}},
		{"1y2mo3d4h", Offset{Years: 1, Months: 2, Days: 3, Clock: 4 * time.Hour}},
		{" 1H30M ", Offset{Clock: 90 * time.Minute}},
		{"45s", Offset{Clock: 45 * time.Second}},
		{"0d", Offset{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUnlockAfter(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnlockAfter_Invalid(t *testing.T) {
	for _, in := range []string{"", "d", "10", "5x", "-1d", "1.5h"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseUnlockAfter(in)
			assert.Error(t, err)
		})
	}
}

func TestOffset_From(t *testing.T) {
	base := time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)
	got := Offset{Months: 1, Clock: time.Hour}.From(base)
	// AddDate normalizes Feb 31 to Mar 3.
	assert.Equal(t, time.Date(2025, 3, 3, 13, 0, 0, 0, time.UTC), got)
}
