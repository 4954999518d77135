package dirsum

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// SumFileSuffix is the conventional name suffix for serialized DirSum
// documents.
const SumFileSuffix = ".dirsum.json"

// WriteFile serializes the DirSum to path as indented JSON. A DirSum
// computed with an unnamed custom hasher has no algorithm to record
// and is refused, since nothing could verify it later.
func (s *DirSum) WriteFile(path string) error {
	if s.Algorithm == "" {
		return fmt.Errorf("%w: result of an unnamed custom hasher cannot be persisted", ErrInvalidConfig)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ReadFile loads a DirSum document. Documents recorded under a
// different protocol revision are rejected: their digests are not
// comparable to anything this package computes.
func ReadFile(path string) (*DirSum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s DirSum
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("dirsum: parse %s: %w", path, err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w: document version %q, this build implements %q", ErrInvalidConfig, s.Version, Version)
	}
	if s.Dirhash == "" || s.Algorithm == "" {
		return nil, fmt.Errorf("%w: document %s has no dirhash or algorithm", ErrInvalidConfig, path)
	}
	return &s, nil
}

// Verify recomputes the digest of root under the recorded
// configuration and compares it to the recorded one, returning
// ErrDigestMismatch (carrying both digests) when they differ.
//
// Extra options are applied on top of the recorded configuration.
// They are meant for operational knobs such as jobs, cache and logger;
// overriding anything recorded changes what is being verified.
func (s *DirSum) Verify(ctx context.Context, root string, opts ...Option) error {
	o := defaultOptions()
	o.Algorithm = s.Algorithm
	o.Match = s.Filtering.MatchPatterns
	o.LinkedDirs = s.Filtering.LinkedDirs
	o.LinkedFiles = s.Filtering.LinkedFiles
	o.EmptyDirs = s.Filtering.EmptyDirs
	o.Properties = s.Protocol.EntryProperties
	o.AllowCyclicLinks = s.Protocol.AllowCyclicLinks
	for _, opt := range opts {
		opt(o)
	}

	got, err := computeSum(ctx, root, o)
	if err != nil {
		return err
	}
	if got.Dirhash != s.Dirhash {
		return fmt.Errorf("%w: recorded %s, computed %s", ErrDigestMismatch, s.Dirhash, got.Dirhash)
	}
	return nil
}
