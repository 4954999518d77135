// Package hasher maintains the named hash algorithm registry and the
// digest helpers built on it.
//
// All digests are lowercase hex. Algorithms are addressed by name so
// that a recorded digest document can be re-verified with the exact
// function that produced it.
package hasher

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"sync"

	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Guaranteed is the set of algorithm names available on every build.
var Guaranteed = []string{"md5", "sha1", "sha224", "sha256", "sha384", "sha512"}

var (
	mu       sync.RWMutex
	registry = map[string]func() hash.Hash{
		"md5":      md5.New,
		"sha1":     sha1.New,
		"sha224":   sha256.New224,
		"sha256":   sha256.New,
		"sha384":   sha512.New384,
		"sha512":   sha512.New,
		"sha3-256": sha3.New256,
		"sha3-384": sha3.New384,
		"sha3-512": sha3.New512,
		"blake3":   func() hash.Hash { return blake3.New(32, nil) },
	}
)

// New returns the factory registered under name.
func New(name string) (func() hash.Hash, error) {
	mu.RLock()
	defer mu.RUnlock()
	factory, ok := registry[name]
	if !ok {
		known := make([]string, 0, len(registry))
		for n := range registry {
			known = append(known, n)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown algorithm %q (known: %v)", name, known)
	}
	return factory, nil
}

// Register adds a caller-provided algorithm to the registry,
// overwriting any previous entry under the same name.
func Register(name string, factory func() hash.Hash) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = factory
}

// Algorithms returns the registered algorithm names, sorted.
func Algorithms() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SumString returns the hex digest of s.
func SumString(factory func() hash.Hash, s string) string {
	h := factory()
	io.WriteString(h, s)
	return hex.EncodeToString(h.Sum(nil))
}

// SumFile returns the hex digest of the file's content, streamed in
// chunkSize reads. Cancellation is checked between chunks.
func SumFile(ctx context.Context, factory func() hash.Hash, path string, chunkSize int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := factory()
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
