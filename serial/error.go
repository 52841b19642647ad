package serial

import (
	"fmt"
	"syscall"
)

// Error wraps a lower-level cause with a short, situational message,
// the same shape as the teacher's Error type; Unwrap lets callers still
// match against the wrapped syscall/io error with errors.Is/As.
type Error struct {
	msg string
	err error
}

func (e Error) Error() string {
	if e.msg != "" {
		if e.err != nil {
			return e.msg + ": " + e.err.Error()
		}
		return e.msg
	}
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

func (e Error) Unwrap() error {
	return e.err
}

func wrapErr(msg string, e error) error {
	if e == nil {
		return nil
	}
	return Error{msg: msg, err: e}
}

// PortOpenError is returned by Open when the device node cannot be opened.
type PortOpenError struct{ Error }

// PortConfigError is returned by Open when termios attributes cannot be
// read from or written to the device.
type PortConfigError struct{ Error }

// UnsupportedBaudError is returned by Open for any baud not in {9600,115200}.
type UnsupportedBaudError struct{ Error }

// ShortWriteError is returned by Write when the OS accepted fewer bytes
// than were given to it.
type ShortWriteError struct{ Error }

func newPortOpenError(path string, err error) error {
	return PortOpenError{Error{msg: fmt.Sprintf("open %s", path), err: err}}
}

func newPortConfigError(msg string, err error) error {
	return PortConfigError{Error{msg: msg, err: err}}
}

func newUnsupportedBaudError(baud Baud) error {
	return UnsupportedBaudError{Error{msg: fmt.Sprintf("unsupported baud rate %d", baud)}}
}

func newShortWriteError(want, got int) error {
	return ShortWriteError{Error{msg: fmt.Sprintf("wanted to write %d bytes, wrote %d", want, got)}}
}

var ErrClosed = Error{msg: "port already closed", err: syscall.EBADF}
