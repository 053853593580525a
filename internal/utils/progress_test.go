package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressBarTo(t *testing.T) {
	t.Run("renders to writer", func(t *testing.T) {
		var buf bytes.Buffer
		bar := NewProgressBarTo(&buf, 2, DescExtracting)

		require.NoError(t, bar.Add(1))
		require.NoError(t, bar.Finish())
		assert.Contains(t, buf.String(), DescExtracting)
		assert.Equal(t, int64(2), bar.GetMax64())
	})

	t.Run("nil writer is silent", func(t *testing.T) {
		bar := NewProgressBarTo(nil, 3, DescProcessing)

		require.NotNil(t, bar)
		assert.NotPanics(t, func() {
			_ = bar.Add(3)
			_ = bar.Finish()
		})
		assert.Equal(t, int64(3), bar.State().CurrentNum)
	})

	t.Run("unknown total spins", func(t *testing.T) {
		bar := NewProgressBarTo(&bytes.Buffer{}, -1, DescProcessing)

		assert.NotPanics(t, func() {
			_ = bar.Add(1)
			_ = bar.Add(5)
			_ = bar.Finish()
		})
	})
}
