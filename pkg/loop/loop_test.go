package loop_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oceandatatools/sealog-relay/pkg/loop"
)

func TestStart(t *testing.T) {
	t.Run("it repeats the task until it breaks", func(t *testing.T) {
		ctx := context.Background()

		actual, err := loop.Start(
			ctx, 0, func(_ context.Context, v int) (int, loop.Next) {
				v += 1
				if 10 <= v {
					return v, loop.Break(nil)
				}
				return v, loop.Continue(0)
			},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if actual != 10 {
			t.Errorf("expected 10, got %d", actual)
		}
	})

	t.Run("it returns the error passed to Break along with the last value", func(t *testing.T) {
		ctx := context.Background()
		expectedErr := errors.New("expected error")

		actual, err := loop.Start(
			ctx, "", func(_ context.Context, v string) (string, loop.Next) {
				return v + "x", loop.Break(expectedErr)
			},
		)
		if !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}
		if actual != "x" {
			t.Errorf("expected last value %q, got %q", "x", actual)
		}
	})

	t.Run("it stops with ctx.Err when the context gets done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		ran := 0
		actual, err := loop.Start(
			ctx, 0, func(_ context.Context, v int) (int, loop.Next) {
				ran += 1
				if ran == 3 {
					cancel()
				}
				return v + 1, loop.Continue(time.Millisecond)
			},
		)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
		if actual != 3 {
			t.Errorf("expected 3 cycles, got %d", actual)
		}
	})

	t.Run("it does not start the task when the context is already done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ran := false
		_, err := loop.Start(
			ctx, 0, func(_ context.Context, v int) (int, loop.Next) {
				ran = true
				return v, loop.Break(nil)
			},
		)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
		if ran {
			t.Error("task should not run")
		}
	})

	t.Run("WithTimeout sets a deadline per cycle", func(t *testing.T) {
		ctx := context.Background()

		_, err := loop.Start(
			ctx, 0, func(cctx context.Context, v int) (int, loop.Next) {
				if _, ok := cctx.Deadline(); !ok {
					return v, loop.Break(errors.New("no deadline is set"))
				}
				return v, loop.Break(nil)
			},
			loop.WithTimeout(time.Second),
		)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
