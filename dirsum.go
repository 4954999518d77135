package dirsum

import (
	"context"
	"fmt"
	"hash"

	"github.com/dirsum/dirsum/internal/hasher"
	"github.com/dirsum/dirsum/internal/scan"
)

// DirSum is the result of Compute: the tree digest together with the
// full configuration needed to reproduce it.
type DirSum struct {
	Dirhash   string    `json:"dirhash"`
	Algorithm string    `json:"algorithm"`
	Filtering Filtering `json:"filtering"`
	Protocol  Protocol  `json:"protocol"`
	Version   string    `json:"version"`
}

// Filtering records which entries were selected for hashing.
// MatchPatterns is the composed pattern list, ignore patterns folded
// in as negations.
type Filtering struct {
	MatchPatterns []string `json:"match_patterns"`
	LinkedDirs    bool     `json:"linked_dirs"`
	LinkedFiles   bool     `json:"linked_files"`
	EmptyDirs     bool     `json:"empty_dirs"`
}

// Protocol records how selected entries were reduced to the digest.
type Protocol struct {
	EntryProperties  []string `json:"entry_properties"`
	AllowCyclicLinks bool     `json:"allow_cyclic_links"`
}

// Compute hashes the directory tree rooted at root.
//
// The digest is a pure function of the included entries' selected
// properties: two trees with equal content hash equal regardless of
// location, traversal order or worker count. Configuration errors are
// reported before any filesystem access and wrap ErrInvalidConfig.
func Compute(ctx context.Context, root string, opts ...Option) (*DirSum, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return computeSum(ctx, root, o)
}

func computeSum(ctx context.Context, root string, o *Options) (*DirSum, error) {
	p, err := newPlan(o)
	if err != nil {
		return nil, err
	}

	tree, err := scan.Walk(ctx, root, p.walkOptions())
	if err != nil {
		return nil, err
	}
	if !o.EmptyDirs && tree.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrEmptyRoot, root)
	}

	// Without the data property no file content is ever read.
	var digests map[string]string
	if p.includeData {
		items := collectFiles(tree)
		o.Logger.Debug("scan complete", "files", len(items))
		digests, err = p.hashFiles(ctx, items)
		if err != nil {
			return nil, err
		}
	}

	sum := &DirSum{
		Dirhash:   p.treeDigest(tree, digests),
		Algorithm: p.algorithmName(),
		Filtering: Filtering{
			MatchPatterns: p.patterns,
			LinkedDirs:    o.LinkedDirs,
			LinkedFiles:   o.LinkedFiles,
			EmptyDirs:     o.EmptyDirs,
		},
		Protocol: Protocol{
			EntryProperties:  p.properties(),
			AllowCyclicLinks: o.AllowCyclicLinks,
		},
		Version: Version,
	}
	o.Logger.Debug("computed", "dirhash", sum.Dirhash, "algorithm", sum.Algorithm)
	return sum, nil
}

// List returns the relative paths that Compute would include under the
// same options, sorted: files as-is and leaf directories (childless or
// cyclic links) with a trailing "/." marker. An empty tree yields an
// empty list, not an error.
func List(ctx context.Context, root string, opts ...Option) ([]string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	p, err := newPlan(o)
	if err != nil {
		return nil, err
	}

	tree, err := scan.Walk(ctx, root, p.walkOptions())
	if err != nil {
		return nil, err
	}
	if !o.EmptyDirs && tree.Empty() {
		return []string{}, nil
	}
	return tree.Leaves(), nil
}

// Algorithms returns the names accepted by WithAlgorithm, sorted.
// The guaranteed baseline is md5, sha1, sha224, sha256, sha384 and
// sha512; sha3 and blake3 variants ship with the default registry.
func Algorithms() []string {
	return hasher.Algorithms()
}

// RegisterAlgorithm adds a named hash algorithm usable with
// WithAlgorithm, for this process. Registered names take part in
// records and digest cache keying like the built-in ones.
func RegisterAlgorithm(name string, factory func() hash.Hash) {
	hasher.Register(name, factory)
}
