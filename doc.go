// Package dirsum computes deterministic, platform-independent digests
// of directory trees.
//
// A tree's digest is built bottom-up: every included entry renders to
// a descriptor of its selected properties (file content digest, name,
// symlink marker), each directory joins its children's sorted
// descriptors and hashes the result, and the root's digest is the
// DIRHASH. Equal trees hash equal on any OS, with any worker count;
// any included difference changes the digest.
//
// Basic usage:
//
//	sum, _ := dirsum.Compute(ctx, "path/to/tree")
//	fmt.Println(sum.Dirhash)
//
//	// Stronger algorithm, parallel hashing
//	sum, _ = dirsum.Compute(ctx, "path/to/tree",
//	    dirsum.WithAlgorithm("sha256"),
//	    dirsum.WithJobs(8))
//
//	// Filtering
//	sum, _ = dirsum.Compute(ctx, "path/to/tree",
//	    dirsum.WithMatch("*.go"),
//	    dirsum.WithIgnore("vendor/"),
//	    dirsum.WithIgnoreHidden(true))
//
//	// See what would be hashed
//	paths, _ := dirsum.List(ctx, "path/to/tree", dirsum.WithIgnoreHidden(true))
//
// Record and verify:
//
//	sum.WriteFile("tree.dirsum.json")
//
//	recorded, _ := dirsum.ReadFile("tree.dirsum.json")
//	if err := recorded.Verify(ctx, "path/to/tree"); errors.Is(err, dirsum.ErrDigestMismatch) {
//	    // tree changed
//	}
//
// Symlinks are followed by default. Cycles fail with a CyclicLinkError
// unless WithAllowCyclicLinks(true) replaces the cyclic link with a
// placeholder derived from its target, keeping the digest well-defined
// and location-independent.
package dirsum
