//go:build !windows

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// withRawTerminal disables canonical mode and echo on stdin for the
// duration of fn, restoring whatever termios settings were in place
// beforehand even if fn panics. The BIOS REPL's single-rune menu reads
// (fmt.Scanf("%c")) read cleaner without a line-buffered terminal.
func withRawTerminal(fn func()) {
	fd := int(os.Stdin.Fd())

	orig, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		fn()
		return
	}
	defer unix.IoctlSetTermios(fd, ioctlSetTermios, orig)

	raw := *orig
	raw.Lflag &^= unix.ICANON | unix.ECHO
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		fn()
		return
	}

	fn()
}
