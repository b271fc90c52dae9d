package transfer_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/oceandatatools/sealog-relay/pkg/cmp"
	"github.com/oceandatatools/sealog-relay/pkg/transfer"
)

func TestRsync_Args(t *testing.T) {
	t.Run("it builds a minimal invocation", func(t *testing.T) {
		r := transfer.New("warehouse@10.0.0.5:/mnt/soi_data01/sealog")

		got := r.Args("/data/sealog-export/FK240101")
		want := []string{
			"-trimv", "--delete",
			"-e", "ssh",
			"/data/sealog-export/FK240101/",
			"warehouse@10.0.0.5:/mnt/soi_data01/sealog",
		}
		if !cmp.SliceEq(got, want) {
			t.Errorf("args:\n got  %v\n want %v", got, want)
		}
	})

	t.Run("it wires ssh key, dry run and extra args", func(t *testing.T) {
		r := transfer.New(
			"warehouse@10.0.0.5:/mnt/soi_data01/sealog",
			transfer.WithSSHKey("/home/sealog/.ssh/id_rsa"),
			transfer.WithDryRun(),
			transfer.WithExtraArgs("--bwlimit=10000"),
		)

		got := r.Args("/data/sealog-export/FK240101/")
		want := []string{
			"-trimv", "--delete", "--dry-run",
			"-e", "ssh -i /home/sealog/.ssh/id_rsa",
			"--bwlimit=10000",
			"/data/sealog-export/FK240101/",
			"warehouse@10.0.0.5:/mnt/soi_data01/sealog",
		}
		if !cmp.SliceEq(got, want) {
			t.Errorf("args:\n got  %v\n want %v", got, want)
		}
	})
}

func TestRsync_Push(t *testing.T) {
	quiet := log.New(io.Discard, "", 0)

	t.Run("it invokes rsync with the built args", func(t *testing.T) {
		gotName := ""
		gotArgs := []string{}
		r := transfer.New(
			"warehouse@10.0.0.5:/mnt/soi_data01/sealog",
			transfer.WithLogger(quiet),
			transfer.WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
				gotName = name
				gotArgs = args
				return []byte("sent 42 bytes"), nil
			}),
		)

		if err := r.Push(context.Background(), "/data/sealog-export/FK240101"); err != nil {
			t.Fatalf("Push: %s", err)
		}
		if gotName != "rsync" {
			t.Errorf("command: got %s, want rsync", gotName)
		}
		if !cmp.SliceEq(gotArgs, r.Args("/data/sealog-export/FK240101")) {
			t.Errorf("unexpected args: %v", gotArgs)
		}
	})

	t.Run("it reports a failing rsync", func(t *testing.T) {
		boom := errors.New("exit status 23")
		r := transfer.New(
			"warehouse@10.0.0.5:/mnt/soi_data01/sealog",
			transfer.WithLogger(quiet),
			transfer.WithRunner(func(context.Context, string, ...string) ([]byte, error) {
				return []byte("rsync: connection refused"), boom
			}),
		)

		err := r.Push(context.Background(), "/data/sealog-export/FK240101")
		if !errors.Is(err, boom) {
			t.Errorf("expected the runner error, got %v", err)
		}
	})
}
