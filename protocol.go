package dirsum

import (
	"fmt"
	"hash"
	"path"
	"sort"
	"strings"

	"github.com/dirsum/dirsum/internal/hasher"
	"github.com/dirsum/dirsum/internal/match"
	"github.com/dirsum/dirsum/internal/scan"
)

// Version is the digest protocol revision implemented by this package.
// Two runs agree on a digest only when they agree on the revision.
const Version = "1.0.0"

// Descriptor separators. Property values can never contain them: entry
// names cannot contain NUL on any supported filesystem and every other
// value is a hex digest or a fixed literal.
const (
	propertySeparator = "\x00"
	entrySeparator    = "\x00\x00"
)

// dirhash is the implicit directory property carrying the child
// digest. It is not selectable and cannot be turned off.
const propertyDirhash = "dirhash"

// plan is a validated, executable form of Options. Everything that can
// be rejected is rejected here, before any filesystem access.
type plan struct {
	opts     *Options
	factory  func() hash.Hash
	patterns []string
	matcher  *match.Matcher

	includeData bool
	includeName bool
	includeLink bool
}

func newPlan(o *Options) (*plan, error) {
	p := &plan{opts: o}

	if o.Jobs < 1 {
		return nil, fmt.Errorf("%w: jobs must be positive, got %d", ErrInvalidConfig, o.Jobs)
	}
	if o.ChunkSize < 1 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, o.ChunkSize)
	}

	if o.HasherFactory != nil {
		p.factory = o.HasherFactory
	} else {
		factory, err := hasher.New(o.Algorithm)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		p.factory = factory
	}

	for _, prop := range o.Properties {
		switch prop {
		case PropertyData:
			p.includeData = true
		case PropertyName:
			p.includeName = true
		case PropertyIsLink:
			p.includeLink = true
		default:
			return nil, fmt.Errorf("%w: unsupported entry property %q", ErrInvalidConfig, prop)
		}
	}
	if !p.includeData && !p.includeName {
		return nil, fmt.Errorf("%w: at least one of %q and %q must be selected", ErrInvalidConfig, PropertyData, PropertyName)
	}

	p.patterns = match.Patterns(o.Match, o.Ignore, o.IgnoreExtensions, o.IgnoreHidden)
	matcher, err := match.New(p.patterns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	p.matcher = matcher

	return p, nil
}

func (p *plan) walkOptions() scan.Options {
	return scan.Options{
		Matcher:     p.matcher,
		LinkedDirs:  p.opts.LinkedDirs,
		LinkedFiles: p.opts.LinkedFiles,
		EmptyDirs:   p.opts.EmptyDirs,
		AllowCycles: p.opts.AllowCyclicLinks,
	}
}

// properties returns the selected entry properties in canonical form.
func (p *plan) properties() []string {
	props := make([]string, 0, 3)
	if p.includeData {
		props = append(props, PropertyData)
	}
	if p.includeLink {
		props = append(props, PropertyIsLink)
	}
	if p.includeName {
		props = append(props, PropertyName)
	}
	return props
}

func (p *plan) hashString(s string) string {
	return hasher.SumString(p.factory, s)
}

// algorithmName is the name recorded in results and used to key the
// digest cache. It is empty when a custom factory was given without an
// explicit algorithm name.
func (p *plan) algorithmName() string {
	if p.opts.HasherFactory != nil && !p.opts.algorithmNamed {
		return ""
	}
	return p.opts.Algorithm
}

// treeDigest computes the digest of a scanned directory bottom-up:
// each child entry renders to its descriptor, the sorted descriptors
// join into the directory descriptor, and its hash is the digest.
// Cyclic nodes resolve to the hash of the relative path from the link
// to its target instead.
func (p *plan) treeDigest(d *scan.Dir, digests map[string]string) string {
	if d.Cyclic {
		return p.hashString(relFromLink(d.Path.Rel, d.CycleTarget))
	}
	entries := make([]string, 0, len(d.Dirs)+len(d.Files))
	for _, sub := range d.Dirs {
		entries = append(entries, p.entryDescriptor(sub.Path, p.treeDigest(sub, digests), true))
	}
	for _, f := range d.Files {
		entries = append(entries, p.entryDescriptor(f, digests[f.Real], false))
	}
	sort.Strings(entries)
	return p.hashString(strings.Join(entries, entrySeparator))
}

// entryDescriptor renders one child entry as its sorted
// "property:value" pairs joined by the property separator.
func (p *plan) entryDescriptor(ent scan.Path, digest string, isDir bool) string {
	props := make([]string, 0, 3)
	if isDir {
		props = append(props, propertyDirhash+":"+digest)
	} else if p.includeData {
		props = append(props, PropertyData+":"+digest)
	}
	if p.includeName {
		props = append(props, PropertyName+":"+ent.Name)
	}
	if p.includeLink && ent.IsLink {
		props = append(props, PropertyIsLink+":true")
	}
	sort.Strings(props)
	return strings.Join(props, propertySeparator)
}

// relFromLink returns the slash-form relative path from the closing
// link's parent directory to the cycle target. Both arguments are
// clean paths relative to the root.
func relFromLink(linkRel, targetRel string) string {
	base := path.Dir(linkRel)
	if base == "." {
		base = ""
	}
	bseg := splitPath(base)
	tseg := splitPath(targetRel)
	common := 0
	for common < len(bseg) && common < len(tseg) && bseg[common] == tseg[common] {
		common++
	}
	parts := make([]string, 0, len(bseg)-common+len(tseg)-common)
	for range bseg[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, tseg[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
