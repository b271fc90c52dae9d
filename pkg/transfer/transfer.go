// Package transfer pushes finished export trees to the data warehouse
// with rsync over ssh.
package transfer

import (
	"context"
	"log"
	"os/exec"
	"strings"

	"github.com/oceandatatools/sealog-relay/pkg/xerrors"
)

// Runner executes one external command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

type Rsync struct {
	dest      string
	sshKey    string
	extraArgs []string
	dryRun    bool
	logger    *log.Logger
	run       Runner
}

type Option func(*Rsync) *Rsync

func WithSSHKey(path string) Option {
	return func(r *Rsync) *Rsync {
		r.sshKey = path
		return r
	}
}

func WithExtraArgs(args ...string) Option {
	return func(r *Rsync) *Rsync {
		r.extraArgs = append(r.extraArgs, args...)
		return r
	}
}

// WithDryRun makes Push pass --dry-run, so rsync reports what it would
// send without writing anything at the destination.
func WithDryRun() Option {
	return func(r *Rsync) *Rsync {
		r.dryRun = true
		return r
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Rsync) *Rsync {
		r.logger = logger
		return r
	}
}

// WithRunner replaces the command runner. For tests.
func WithRunner(run Runner) Option {
	return func(r *Rsync) *Rsync {
		r.run = run
		return r
	}
}

// New builds an Rsync pushing to dest, an rsync destination like
// "warehouse@10.0.0.5:/mnt/soi_data01/sealog".
func New(dest string, options ...Option) *Rsync {
	r := &Rsync{dest: dest, logger: log.Default(), run: defaultRunner}
	for _, option := range options {
		r = option(r)
	}
	return r
}

// Args is the rsync argv (without the leading "rsync") used to push
// srcDir. Exposed so callers can log or test the exact invocation.
func (r *Rsync) Args(srcDir string) []string {
	args := []string{"-trimv", "--delete"}
	if r.dryRun {
		args = append(args, "--dry-run")
	}
	ssh := "ssh"
	if r.sshKey != "" {
		ssh = "ssh -i " + r.sshKey
	}
	args = append(args, "-e", ssh)
	args = append(args, r.extraArgs...)

	// trailing slash: sync the contents of srcDir into dest, not
	// srcDir itself
	src := strings.TrimRight(srcDir, "/") + "/"
	return append(args, src, r.dest)
}

// Push syncs srcDir into the destination.
func (r *Rsync) Push(ctx context.Context, srcDir string) error {
	args := r.Args(srcDir)
	r.logger.Printf("rsync %s", strings.Join(args, " "))

	out, err := r.run(ctx, "rsync", args...)
	if len(out) != 0 {
		r.logger.Printf("%s", out)
	}
	if err != nil {
		return xerrors.Wrapf(err, "rsync to %s failed", r.dest)
	}
	return nil
}
