package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("RFC3339", func(t *testing.T) {
		got, err := parseMatchTime("2024-06-01T18:00:00+02:00", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC), got)
	})

	t.Run("relative duration", func(t *testing.T) {
		got, err := parseMatchTime("in 2 hours", now)
		require.NoError(t, err)
		assert.Equal(t, now.Add(2*time.Hour), got)
	})

	t.Run("tomorrow evening", func(t *testing.T) {
		got, err := parseMatchTime("tomorrow 6pm", now)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Day())
		assert.Equal(t, 18, got.Hour())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := parseMatchTime("   ", now)
		assert.Error(t, err)
	})

	t.Run("not a time", func(t *testing.T) {
		_, err := parseMatchTime("whenever", now)
		assert.Error(t, err)
	})
}
