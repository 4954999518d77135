// Package scan walks a directory tree into an in-memory Dir tree,
// applying inclusion filters and symlink policy as it goes.
//
// Traversal is logical: symlinks are classified by what they resolve
// to. Cycles introduced by directory symlinks are detected per branch
// with resolved real paths, so a link is only cyclic when it resolves
// to a directory the current branch is still inside of. Sibling links
// to a shared directory are not cycles.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

// Matcher filters relative paths during traversal. Implementations
// receive slash-form paths relative to the root.
type Matcher interface {
	// IncludeFile reports whether the file at rel is selected.
	IncludeFile(rel string) bool
	// EnterDir reports whether traversal may descend into rel.
	EnterDir(rel string) bool
}

// Options configures a Walk. Matcher must be non-nil.
type Options struct {
	Matcher Matcher

	// LinkedDirs and LinkedFiles control whether symlinks resolving to
	// directories and regular files are followed or dropped.
	LinkedDirs  bool
	LinkedFiles bool

	// EmptyDirs keeps directories with no included content in the
	// tree. When false they are pruned, including directories whose
	// entire content was filtered out.
	EmptyDirs bool

	// AllowCycles substitutes cyclic nodes instead of failing the walk
	// with a CyclicLinkError.
	AllowCycles bool
}

type frame struct {
	dir     *Dir
	parent  *Dir
	entries []os.DirEntry
	next    int
	added   bool // this frame registered dir's identity in visiting
}

// Walk scans the tree rooted at root and returns it with filters and
// symlink policy applied. Entries that are neither directories nor
// regular files, and symlinks that cannot be resolved, are dropped
// silently. The root must exist and be a directory.
func Walk(ctx context.Context, root string, opts Options) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &PathError{Path: root, Err: err}
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, &PathError{Path: root, Err: err}
	}
	info, err := os.Stat(real)
	if err != nil {
		return nil, &PathError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &PathError{Path: root, Err: ErrNotDirectory}
	}

	rootDir := &Dir{Path: Path{Rel: "", Real: real, Name: filepath.Base(real)}}

	// visiting maps the real path of every directory on the active
	// branch to the relative path it was first reached under. The root
	// stays registered for the whole walk.
	visiting := make(map[string]string)
	var stack []*frame

	push := func(d *Dir, parent *Dir) error {
		entries, err := os.ReadDir(d.Path.Real)
		if err != nil {
			rel := d.Path.Rel
			if rel == "" {
				rel = root
			}
			return &PathError{Path: rel, Err: err}
		}
		f := &frame{dir: d, parent: parent, entries: entries}
		if _, ok := visiting[d.Path.Real]; !ok {
			visiting[d.Path.Real] = d.Path.Rel
			f.added = true
		}
		stack = append(stack, f)
		return nil
	}

	if err := push(rootDir, nil); err != nil {
		return nil, err
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f := stack[len(stack)-1]

		if f.next >= len(f.entries) {
			// Directory finished: unregister from the branch and
			// attach to the parent unless pruned as empty.
			if f.added {
				delete(visiting, f.dir.Path.Real)
			}
			stack = stack[:len(stack)-1]
			if f.parent != nil && (opts.EmptyDirs || !f.dir.Empty()) {
				f.parent.Dirs = append(f.parent.Dirs, f.dir)
			}
			continue
		}

		entry := f.entries[f.next]
		f.next++

		name := entry.Name()
		rel := childRel(f.dir.Path.Rel, name)
		full := filepath.Join(f.dir.Path.Real, name)
		isLink := entry.Type()&fs.ModeSymlink != 0

		var isDir, isFile bool
		realPath := full
		if isLink {
			target, err := os.Stat(full)
			if err != nil {
				// Broken link.
				continue
			}
			realPath, err = filepath.EvalSymlinks(full)
			if err != nil {
				continue
			}
			isDir = target.IsDir()
			isFile = target.Mode().IsRegular()
		} else {
			isDir = entry.IsDir()
			isFile = entry.Type().IsRegular()
		}

		child := Path{Rel: rel, Real: realPath, Name: name, IsLink: isLink}

		switch {
		case isDir:
			if isLink && !opts.LinkedDirs {
				continue
			}
			if !opts.Matcher.EnterDir(rel) {
				continue
			}
			if isLink {
				if target, ok := visiting[realPath]; ok {
					if !opts.AllowCycles {
						return nil, &CyclicLinkError{Path: rel, Target: target}
					}
					f.dir.Dirs = append(f.dir.Dirs, &Dir{Path: child, Cyclic: true, CycleTarget: target})
					continue
				}
			}
			if err := push(&Dir{Path: child}, f.dir); err != nil {
				return nil, err
			}
		case isFile:
			if isLink && !opts.LinkedFiles {
				continue
			}
			if !opts.Matcher.IncludeFile(rel) {
				continue
			}
			f.dir.Files = append(f.dir.Files, child)
		}
	}

	return rootDir, nil
}

func childRel(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
