package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// skipWithoutIdentity skips tests on platforms where stat identity is
// unavailable and the cache is a no-op.
func skipWithoutIdentity(t *testing.T, path string) {
	t.Helper()
	if _, ok := identity(path); !ok {
		t.Skip("no stat identity on this platform")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeFile(t, t.TempDir(), "f", "content")
	skipWithoutIdentity(t, file)

	c, err := Open(dir, "md5")
	require.NoError(t, err)
	require.Equal(t, 0, c.Len())

	_, ok := c.Lookup(file)
	require.False(t, ok)

	c.Store(file, "digest-1")
	digest, ok := c.Lookup(file)
	require.True(t, ok)
	require.Equal(t, "digest-1", digest)

	require.NoError(t, c.Save())

	reopened, err := Open(dir, "md5")
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())
	digest, ok = reopened.Lookup(file)
	require.True(t, ok)
	require.Equal(t, "digest-1", digest)
}

func TestPerAlgorithmFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeFile(t, t.TempDir(), "f", "content")
	skipWithoutIdentity(t, file)

	c, err := Open(dir, "md5")
	require.NoError(t, err)
	c.Store(file, "digest-1")
	require.NoError(t, c.Save())

	other, err := Open(dir, "sha256")
	require.NoError(t, err)
	_, ok := other.Lookup(file)
	require.False(t, ok)
}

func TestInvalidationOnModification(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeFile(t, t.TempDir(), "f", "content")
	skipWithoutIdentity(t, file)

	c, err := Open(dir, "md5")
	require.NoError(t, err)
	c.Store(file, "digest-1")
	require.NoError(t, c.Save())

	// Same size, different mtime: the identity must change.
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(file, later, later))

	reopened, err := Open(dir, "md5")
	require.NoError(t, err)
	_, ok := reopened.Lookup(file)
	require.False(t, ok)
}

func TestCorruptCacheReset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeFile(t, t.TempDir(), "f", "content")
	skipWithoutIdentity(t, file)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "md5.json.zst"), []byte("not zstd"), 0644))

	c, err := Open(dir, "md5")
	require.Error(t, err)
	require.NotNil(t, c)
	require.Equal(t, 0, c.Len())

	// Still usable after the reset.
	c.Store(file, "digest-1")
	require.NoError(t, c.Save())

	reopened, err := Open(dir, "md5")
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())
}

func TestSaveOnlyWhenDirty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	c, err := Open(dir, "md5")
	require.NoError(t, err)
	require.NoError(t, c.Save())

	_, err = os.Stat(filepath.Join(dir, "md5.json.zst"))
	require.True(t, os.IsNotExist(err))
}

func TestSaveCreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "cache")
	file := writeFile(t, t.TempDir(), "f", "content")
	skipWithoutIdentity(t, file)

	c, err := Open(dir, "sha256")
	require.NoError(t, err)
	c.Store(file, "digest-1")
	require.NoError(t, c.Save())

	_, err = os.Stat(filepath.Join(dir, "sha256.json.zst"))
	require.NoError(t, err)
}
