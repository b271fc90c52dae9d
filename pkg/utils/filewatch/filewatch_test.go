package filewatch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oceandatatools/sealog-relay/pkg/utils/filewatch"
)

func TestUntilChangeContext(t *testing.T) {
	t.Run("when a watched file is written, it cancels the context", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(target, []byte("a: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		ctx, cancel, err := filewatch.UntilChangeContext(context.Background(), target)
		if err != nil {
			t.Fatal(err)
		}
		defer cancel()

		if err := os.WriteFile(target, []byte("a: 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		select {
		case <-ctx.Done():
			// ok
		case <-time.After(3 * time.Second):
			t.Error("context is not canceled")
		}
	})

	t.Run("when nothing changes, the context stays alive", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(target, []byte("a: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		ctx, cancel, err := filewatch.UntilChangeContext(context.Background(), target)
		if err != nil {
			t.Fatal(err)
		}
		defer cancel()

		select {
		case <-ctx.Done():
			t.Errorf("context is canceled: %v", context.Cause(ctx))
		case <-time.After(100 * time.Millisecond):
			// ok
		}
	})

	t.Run("when the target does not exist, it returns an error", func(t *testing.T) {
		dir := t.TempDir()

		_, _, err := filewatch.UntilChangeContext(
			context.Background(), filepath.Join(dir, "no-such-file"),
		)
		if err == nil {
			t.Error("expected an error")
		}
	})
}
