//go:build !linux && !darwin && !freebsd

package term

import (
	xterm "golang.org/x/term"
)

// enterCbreak falls back to full raw mode where termios is unavailable.
func enterCbreak(fd int) (func() error, error) {
	old, err := xterm.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error {
		return xterm.Restore(fd, old)
	}, nil
}
