//go:build linux || darwin || freebsd

package term

import (
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

// enterCbreak turns off echo and canonical input and makes reads return
// immediately. Pending input is discarded. The returned func restores the
// previous state.
func enterCbreak(fd int) (func() error, error) {
	old, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, xerrors.Errorf("get termios: %w", err)
	}

	state := *old
	state.Lflag &^= unix.ECHO | unix.ICANON
	state.Cc[unix.VMIN] = 0
	state.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermiosFlush, &state); err != nil {
		return nil, xerrors.Errorf("set termios: %w", err)
	}

	return func() error {
		return unix.IoctlSetTermios(fd, ioctlSetTermiosFlush, old)
	}, nil
}
