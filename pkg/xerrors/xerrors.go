// Error wrapper which records where it was created.
//
// Usage:
//
//	wrapped := xerrors.Wrap(err)
//
// The wrapped error remembers filename, line and function name of the
// call site, so that error messages read as a trail of marks:
//
//	@ feed.(*Subscriber).dial "feed/subscriber.go" l42 <- dial tcp ...
package xerrors

import (
	"errors"
	"fmt"
	"runtime"
)

type CallerError struct {
	file     string
	line     int
	funcname string
	note     string
	err      error
}

func (e *CallerError) File() string {
	return e.file
}

func (e *CallerError) Line() int {
	return e.line
}

func (e *CallerError) Error() string {
	if e.note == "" {
		return fmt.Sprintf(`@ %s "%s" l%d <- %s`, e.funcname, e.file, e.line, e.err.Error())
	}
	return fmt.Sprintf(`@ %s "%s" l%d (%s) <- %s`, e.funcname, e.file, e.line, e.note, e.err.Error())
}

func (e *CallerError) Unwrap() error {
	return e.err
}

// New creates an error which knows its own birthplace.
func New(text string) error {
	return wrap("", errors.New(text), 1)
}

// Wrap marks err with the location of the caller.
//
// If err is nil, Wrap panics; wrap errors, not successes.
func Wrap(err error) error {
	return wrap("", err, 1)
}

// Wrapf is Wrap with an extra formatted note.
func Wrapf(err error, format string, args ...any) error {
	return wrap(fmt.Sprintf(format, args...), err, 1)
}

// Safe wraps err only if it is non-nil.
func Safe(err error) error {
	if err == nil {
		return nil
	}
	return wrap("", err, 1)
}

func wrap(note string, err error, depth int) error {
	if err == nil {
		panic("xerrors: cannot wrap nil")
	}

	file := "(unknown file)"
	line := -1
	funcname := "(unknown function)"

	if pc, f, l, ok := runtime.Caller(depth + 1); ok {
		file, line = f, l
		if fn := runtime.FuncForPC(pc); fn != nil {
			funcname = fn.Name()
		}
	}

	return &CallerError{
		file:     file,
		line:     line,
		funcname: funcname,
		note:     note,
		err:      err,
	}
}
