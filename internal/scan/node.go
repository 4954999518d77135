package scan

import "sort"

// Path locates one filesystem entry: its slash-form path relative to
// the traversal root ("" for the root itself), its fully resolved
// absolute path on disk, its base name, and whether the entry itself
// is a symlink.
type Path struct {
	Rel    string
	Real   string
	Name   string
	IsLink bool
}

// Dir is one included directory in a scanned tree. Dirs and Files hold
// the included children in listing order.
//
// Cyclic marks a directory symlink that resolved to an ancestor on the
// branch that reached it; CycleTarget is that ancestor's relative
// path. Cyclic nodes carry no children.
type Dir struct {
	Path  Path
	Dirs  []*Dir
	Files []Path

	Cyclic      bool
	CycleTarget string
}

// Empty reports whether the directory has no included content. Cyclic
// nodes count as content: the link is part of the tree even though it
// is never descended into.
func (d *Dir) Empty() bool {
	return !d.Cyclic && len(d.Dirs) == 0 && len(d.Files) == 0
}

// Leaves returns the leaf paths of the tree in sorted order: files as
// their relative path, and childless or cyclic directories as the
// relative path with a trailing "/." marker.
func (d *Dir) Leaves() []string {
	out := []string{}
	d.appendLeaves(&out)
	sort.Strings(out)
	return out
}

func (d *Dir) appendLeaves(out *[]string) {
	if d.Cyclic || d.Empty() {
		if d.Path.Rel == "" {
			*out = append(*out, ".")
		} else {
			*out = append(*out, d.Path.Rel+"/.")
		}
		return
	}
	for _, sub := range d.Dirs {
		sub.appendLeaves(out)
	}
	for _, f := range d.Files {
		*out = append(*out, f.Rel)
	}
}
