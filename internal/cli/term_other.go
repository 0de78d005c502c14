//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

// IsTerminal reports false; colored output must be requested explicitly.
func IsTerminal(fd uintptr) bool { return false }
