package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelMap(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order", func(t *testing.T) {
		docs := []string{"c.source.md", "a.source.md", "b.source.md"}

		out, err := ParallelMap(context.Background(), docs, 3, func(_ context.Context, doc string) (string, error) {
			return strings.TrimSuffix(doc, ".source.md") + ".md", nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"c.md", "a.md", "b.md"}, out)
	})

	t.Run("bounds concurrency", func(t *testing.T) {
		var running, peak atomic.Int32
		items := make([]int, 20)

		_, err := ParallelMap(context.Background(), items, 2, func(context.Context, int) (struct{}, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			return struct{}{}, nil
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("joins every failure", func(t *testing.T) {
		errA := errors.New("write a.md")
		errC := errors.New("write c.md")

		out, err := ParallelMap(context.Background(), []string{"a", "b", "c"}, 0, func(_ context.Context, s string) (int, error) {
			switch s {
			case "a":
				return 0, errA
			case "c":
				return 0, errC
			}
			return len(s), nil
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errC)
		assert.Equal(t, []int{0, 1, 0}, out)
	})

	t.Run("cancelled context skips pending items", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32
		items := make([]int, 50)
		for i := range items {
			items[i] = i
		}

		out, err := ParallelMap(ctx, items, 1, func(_ context.Context, i int) (string, error) {
			calls.Add(1)
			if i == 1 {
				cancel()
			}
			return fmt.Sprint(i), nil
		})
		require.NoError(t, err)
		assert.Len(t, out, 50)
		assert.Less(t, calls.Load(), int32(50))
		assert.Empty(t, out[49])
	})

	t.Run("empty input", func(t *testing.T) {
		out, err := ParallelMap(context.Background(), nil, 4, func(context.Context, int) (int, error) {
			t.Fatal("fn called for empty input")
			return 0, nil
		})
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}
