//go:build linux || darwin

package cache

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// identity returns the cache key for the file at path: device, inode,
// size and mtime, enough to detect any in-place modification.
func identity(path string) (string, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", false
	}
	return fmt.Sprintf("%d:%d:%d:%d", st.Dev, st.Ino, st.Size, st.Mtim.Nano()), true
}
