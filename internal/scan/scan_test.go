package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	t    *testing.T
	root string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, root: t.TempDir()}
}

func (f *fixture) file(rel, content string) *fixture {
	f.t.Helper()
	path := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0644))
	return f
}

func (f *fixture) dir(rel string) *fixture {
	f.t.Helper()
	require.NoError(f.t, os.MkdirAll(filepath.Join(f.root, filepath.FromSlash(rel)), 0755))
	return f
}

// link creates a symlink at rel with the given target content, which
// is interpreted relative to the link's directory as usual.
func (f *fixture) link(rel, target string) *fixture {
	f.t.Helper()
	path := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(f.t, os.Symlink(filepath.FromSlash(target), path))
	return f
}

type includeAll struct{}

func (includeAll) IncludeFile(string) bool { return true }
func (includeAll) EnterDir(string) bool    { return true }

type funcMatcher struct {
	file func(string) bool
	dir  func(string) bool
}

func (m funcMatcher) IncludeFile(rel string) bool { return m.file(rel) }
func (m funcMatcher) EnterDir(rel string) bool    { return m.dir(rel) }

func walkOptions() Options {
	return Options{Matcher: includeAll{}, LinkedDirs: true, LinkedFiles: true}
}

func findDir(d *Dir, rel string) *Dir {
	if d.Path.Rel == rel {
		return d
	}
	for _, sub := range d.Dirs {
		if found := findDir(sub, rel); found != nil {
			return found
		}
	}
	return nil
}

func TestWalkBasic(t *testing.T) {
	t.Parallel()

	f := newFixture(t).file("f1", "a").file("d1/f2", "b").dir("d2")

	tree, err := Walk(context.Background(), f.root, walkOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"d1/f2", "f1"}, tree.Leaves())

	opts := walkOptions()
	opts.EmptyDirs = true
	tree, err = Walk(context.Background(), f.root, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"d1/f2", "d2/.", "f1"}, tree.Leaves())
}

func TestWalkRootMissing(t *testing.T) {
	t.Parallel()

	_, err := Walk(context.Background(), filepath.Join(t.TempDir(), "missing"), walkOptions())

	var perr *PathError
	require.ErrorAs(t, err, &perr)
}

func TestWalkRootNotDirectory(t *testing.T) {
	t.Parallel()

	f := newFixture(t).file("f1", "a")

	_, err := Walk(context.Background(), filepath.Join(f.root, "f1"), walkOptions())
	require.ErrorIs(t, err, ErrNotDirectory)
}

func TestWalkSymlinkPolicies(t *testing.T) {
	t.Parallel()

	f := newFixture(t).
		file("f1", "a").
		file("d1/f2", "b").
		link("link_to_f", "f1").
		link("link_to_d", "d1")

	cases := []struct {
		name        string
		linkedDirs  bool
		linkedFiles bool
		want        []string
	}{
		{"both followed", true, true, []string{"d1/f2", "f1", "link_to_d/f2", "link_to_f"}},
		{"no linked files", true, false, []string{"d1/f2", "f1", "link_to_d/f2"}},
		{"no linked dirs", false, true, []string{"d1/f2", "f1", "link_to_f"}},
		{"no links at all", false, false, []string{"d1/f2", "f1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := walkOptions()
			opts.LinkedDirs = tc.linkedDirs
			opts.LinkedFiles = tc.linkedFiles

			tree, err := Walk(context.Background(), f.root, opts)
			require.NoError(t, err)
			require.Equal(t, tc.want, tree.Leaves())
		})
	}
}

func TestWalkBrokenLinkSkipped(t *testing.T) {
	t.Parallel()

	f := newFixture(t).file("f1", "a").link("broken", "missing")

	tree, err := Walk(context.Background(), f.root, walkOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"f1"}, tree.Leaves())
}

func TestWalkLinkChainResolved(t *testing.T) {
	t.Parallel()

	f := newFixture(t).file("f1", "a").link("l1", "f1").link("l2", "l1")

	tree, err := Walk(context.Background(), f.root, walkOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"f1", "l1", "l2"}, tree.Leaves())

	// All three entries resolve to the same real file.
	require.Len(t, tree.Files, 3)
	require.Equal(t, tree.Files[0].Real, tree.Files[1].Real)
	require.Equal(t, tree.Files[0].Real, tree.Files[2].Real)
	require.False(t, tree.Files[0].IsLink)
	require.True(t, tree.Files[1].IsLink)
	require.True(t, tree.Files[2].IsLink)
}

func TestWalkCycleToRoot(t *testing.T) {
	t.Parallel()

	f := newFixture(t).link("d1/link_back", "..")

	_, err := Walk(context.Background(), f.root, walkOptions())

	var cerr *CyclicLinkError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "d1/link_back", cerr.Path)
	require.Equal(t, "", cerr.Target)
}

func TestWalkCycleToRootAllowed(t *testing.T) {
	t.Parallel()

	f := newFixture(t).link("d1/link_back", "..")

	opts := walkOptions()
	opts.AllowCycles = true

	tree, err := Walk(context.Background(), f.root, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"d1/link_back/."}, tree.Leaves())

	node := findDir(tree, "d1/link_back")
	require.NotNil(t, node)
	require.True(t, node.Cyclic)
	require.Equal(t, "", node.CycleTarget)
	require.False(t, node.Empty())
}

func TestWalkSiblingLinksNotCyclic(t *testing.T) {
	t.Parallel()

	f := newFixture(t).file("t/f1", "a").link("l1", "t").link("l2", "t")

	tree, err := Walk(context.Background(), f.root, walkOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"l1/f1", "l2/f1", "t/f1"}, tree.Leaves())
}

// Two entangled cycles: A/B/toA and A/C/toA close back to A, and D
// reaches the same structure through its own link, so the same
// physical cycle must re-resolve relative to the D branch.
func cyclicFixture(t *testing.T) *fixture {
	return newFixture(t).
		link("A/B/toA", "..").
		link("A/C/toA", "..").
		link("D/toB", "../A/B")
}

func TestWalkCycleReportsFirstBranch(t *testing.T) {
	t.Parallel()

	f := cyclicFixture(t)

	_, err := Walk(context.Background(), f.root, walkOptions())

	var cerr *CyclicLinkError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "A/B/toA", cerr.Path)
	require.Equal(t, "A", cerr.Target)
}

func TestWalkCycleScopedPerBranch(t *testing.T) {
	t.Parallel()

	f := cyclicFixture(t)

	opts := walkOptions()
	opts.AllowCycles = true

	tree, err := Walk(context.Background(), f.root, opts)
	require.NoError(t, err)

	for rel, target := range map[string]string{
		"A/B/toA":         "A",
		"A/C/toA":         "A",
		"D/toB/toA/B/toA": "D/toB/toA",
		"D/toB/toA/C/toA": "D/toB/toA",
	} {
		node := findDir(tree, rel)
		require.NotNil(t, node, rel)
		require.True(t, node.Cyclic, rel)
		require.Equal(t, target, node.CycleTarget, rel)
	}

	require.Equal(t, []string{
		"A/B/toA/.",
		"A/C/toA/.",
		"D/toB/toA/B/toA/.",
		"D/toB/toA/C/toA/.",
	}, tree.Leaves())
}

func TestWalkFilterBeforeAccess(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks are not enforced for root")
	}

	f := newFixture(t).file("locked/secret", "s").file("open/f", "a")

	locked := filepath.Join(f.root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	// Included: the listing failure surfaces.
	_, err := Walk(context.Background(), f.root, walkOptions())
	var perr *PathError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "locked", perr.Path)

	// Excluded: never opened, no error.
	opts := walkOptions()
	opts.Matcher = funcMatcher{
		file: func(string) bool { return true },
		dir:  func(rel string) bool { return rel != "locked" },
	}
	tree, err := Walk(context.Background(), f.root, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"open/f"}, tree.Leaves())
}

func TestWalkPrunesFilteredEmptyDirs(t *testing.T) {
	t.Parallel()

	f := newFixture(t).file("d1/f.log", "x").file("d2/f.txt", "y")

	opts := walkOptions()
	opts.Matcher = funcMatcher{
		file: func(rel string) bool { return !strings.HasSuffix(rel, ".log") },
		dir:  func(string) bool { return true },
	}

	tree, err := Walk(context.Background(), f.root, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"d2/f.txt"}, tree.Leaves())

	opts.EmptyDirs = true
	tree, err = Walk(context.Background(), f.root, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"d1/.", "d2/f.txt"}, tree.Leaves())
}

func TestWalkCancelled(t *testing.T) {
	t.Parallel()

	f := newFixture(t).file("f1", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Walk(ctx, f.root, walkOptions())
	require.True(t, errors.Is(err, context.Canceled))
}
