package xerrors_test

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/oceandatatools/sealog-relay/pkg/xerrors"
)

type rootErr struct{}

func (rootErr) Error() string {
	return "root error for test"
}

func makeError(message string) error {
	return xerrors.New(message)
}

func TestNew(t *testing.T) {
	t.Run("it knows the location where it was created", func(t *testing.T) {
		testee := makeError("test error")
		message := testee.Error()

		_, thisFile, _, _ := runtime.Caller(0)

		if !strings.Contains(message, "makeError") {
			t.Errorf("it does not know the function name: %s", message)
		}
		if !strings.Contains(message, thisFile) {
			t.Errorf("it does not know the file (%s): %s", thisFile, message)
		}
	})
}

func TestWrap(t *testing.T) {
	t.Run("it supports the errors protocol", func(t *testing.T) {
		root := rootErr{}

		err := xerrors.Wrap(fmt.Errorf("%w", fmt.Errorf("%w", root)))

		if !errors.Is(err, root) {
			t.Error("it does not support unwrapping")
		}
	})

	t.Run("Wrapf keeps its note in the message", func(t *testing.T) {
		err := xerrors.Wrapf(rootErr{}, "while doing %s", "something")

		if !strings.Contains(err.Error(), "while doing something") {
			t.Errorf("note is lost: %s", err.Error())
		}
	})
}

func TestSafe(t *testing.T) {
	t.Run("it passes nil through", func(t *testing.T) {
		if err := xerrors.Safe(nil); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("it wraps non-nil errors", func(t *testing.T) {
		err := xerrors.Safe(rootErr{})
		if !errors.Is(err, rootErr{}) {
			t.Error("wrapped error lost its cause")
		}
	})
}
