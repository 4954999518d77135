package dirsum

import (
	"hash"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Entry properties selectable via WithProperties. Directory entries
// always carry their child digest; is_link only ever appears on
// symlink entries.
const (
	PropertyData   = "data"
	PropertyName   = "name"
	PropertyIsLink = "is_link"
)

// DefaultChunkSize is the read buffer size used when streaming file
// content into the hasher.
const DefaultChunkSize = 1 << 20

// Options configures Compute, List and Verify.
type Options struct {
	Algorithm        string
	HasherFactory    func() hash.Hash
	Match            []string
	Ignore           []string
	IgnoreExtensions []string
	IgnoreHidden     bool
	LinkedDirs       bool
	LinkedFiles      bool
	EmptyDirs        bool
	Properties       []string
	AllowCyclicLinks bool
	ChunkSize        int
	Jobs             int
	CacheDir         string
	Logger           *log.Logger

	// algorithmNamed distinguishes an explicit WithAlgorithm from the
	// default, so a custom hasher factory is not silently recorded
	// under a name it does not implement.
	algorithmNamed bool
}

// Option is a functional option for configuring a run.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Algorithm:   "md5",
		LinkedDirs:  true,
		LinkedFiles: true,
		Properties:  []string{PropertyData, PropertyName},
		ChunkSize:   DefaultChunkSize,
		Jobs:        1,
		Logger:      log.New(io.Discard),
	}
}

// WithAlgorithm selects the hash algorithm by registry name.
func WithAlgorithm(name string) Option {
	return func(o *Options) {
		o.Algorithm = name
		o.algorithmNamed = true
	}
}

// WithHasherFactory overrides the registry lookup with a custom hash
// constructor. The algorithm name is still used for records and cache
// keying, so pair this with WithAlgorithm when the result is written
// out or cached. Without an explicit name the result carries an empty
// Algorithm, cannot be persisted and bypasses the digest cache.
func WithHasherFactory(factory func() hash.Hash) Option {
	return func(o *Options) { o.HasherFactory = factory }
}

// WithMatch sets the match patterns. Unset defaults to everything
// (`*`); an explicit empty list matches nothing.
func WithMatch(patterns ...string) Option {
	return func(o *Options) { o.Match = patterns }
}

// WithIgnore sets patterns excluded even when matched, appended as
// negations after the match patterns.
func WithIgnore(patterns ...string) Option {
	return func(o *Options) { o.Ignore = patterns }
}

// WithIgnoreExtensions excludes files by extension, with or without
// the leading dot.
func WithIgnoreExtensions(extensions ...string) Option {
	return func(o *Options) { o.IgnoreExtensions = extensions }
}

// WithIgnoreHidden excludes hidden files and directories.
func WithIgnoreHidden(v bool) Option {
	return func(o *Options) { o.IgnoreHidden = v }
}

// WithLinkedDirs controls whether symlinks to directories are
// followed. On by default.
func WithLinkedDirs(v bool) Option {
	return func(o *Options) { o.LinkedDirs = v }
}

// WithLinkedFiles controls whether symlinks to files are included. On
// by default.
func WithLinkedFiles(v bool) Option {
	return func(o *Options) { o.LinkedFiles = v }
}

// WithEmptyDirs includes directories with no included content.
func WithEmptyDirs(v bool) Option {
	return func(o *Options) { o.EmptyDirs = v }
}

// WithProperties selects the entry properties fed into the digest:
// PropertyData, PropertyName, PropertyIsLink. At least one of data and
// name must be selected.
func WithProperties(properties ...string) Option {
	return func(o *Options) { o.Properties = properties }
}

// WithAllowCyclicLinks resolves symlink cycles to a placeholder digest
// instead of failing the run.
func WithAllowCyclicLinks(v bool) Option {
	return func(o *Options) { o.AllowCyclicLinks = v }
}

// WithChunkSize sets the file read buffer size.
func WithChunkSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.ChunkSize = n
		}
	}
}

// WithJobs sets the number of parallel file hashing workers.
func WithJobs(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Jobs = n
		}
	}
}

// WithCacheDir enables the persistent digest cache in dir.
func WithCacheDir(dir string) Option {
	return func(o *Options) { o.CacheDir = dir }
}

// WithLogger sets the diagnostics logger. Silent by default.
func WithLogger(logger *log.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// DefaultCacheDir returns the conventional digest cache location.
func DefaultCacheDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "dirsum")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "dirsum")
	}
	return ".dirsum"
}
