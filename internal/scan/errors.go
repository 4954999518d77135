package scan

import (
	"errors"
	"fmt"
)

// ErrNotDirectory is the cause reported when the traversal root does
// not exist or is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// PathError reports a path that was selected for hashing but could not
// be accessed (listing or read failure). Path is relative to the
// traversal root, except for root-level failures where it is the path
// as given by the caller.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path not accessible: %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// CyclicLinkError reports a symlink that resolves to a directory
// already being visited on the active branch. Path is the relative
// path of the closing link, Target the relative path under which the
// ancestor was first reached ("" for the root).
type CyclicLinkError struct {
	Path   string
	Target string
}

func (e *CyclicLinkError) Error() string {
	target := e.Target
	if target == "" {
		target = "."
	}
	return fmt.Sprintf("cyclic link: %s resolves to %s, an ancestor on the same branch", e.Path, target)
}
