package dirsum

import (
	"errors"

	"github.com/dirsum/dirsum/internal/scan"
)

var (
	// ErrInvalidConfig wraps every configuration error reported before
	// any filesystem access: unknown algorithm, malformed pattern,
	// unsupported entry property, invalid jobs or chunk size.
	ErrInvalidConfig = errors.New("dirsum: invalid configuration")

	// ErrEmptyRoot is returned when the root directory has no included
	// content and empty directories are not selected.
	ErrEmptyRoot = errors.New("dirsum: nothing to hash")

	// ErrDigestMismatch is returned by Verify when the recomputed
	// digest differs from the recorded one.
	ErrDigestMismatch = errors.New("dirsum: digest mismatch")
)

// PathNotAccessibleError reports an included path that could not be
// read. Excluded paths never trigger it: filters apply before access.
type PathNotAccessibleError = scan.PathError

// CyclicLinkError reports a symlink cycle found while cyclic links are
// not allowed. It names the closing link and the ancestor it resolves
// to, for the first branch that reached the cycle.
type CyclicLinkError = scan.CyclicLinkError
