//go:build !linux && !darwin

package cache

// Stat identity is not implemented for this platform; the cache
// degrades to a no-op.
func identity(path string) (string, bool) {
	return "", false
}
