package index

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestPutGet_RoundTrip(t *testing.T) {
	t.Parallel()
	ix := openTestIndex(t)

	want := &Module{
		Name:        "sale",
		Root:        "/addons",
		Dir:         "/addons/sale",
		Depends:     []string{"base", "mail"},
		Hash:        "abc",
		LastScanned: time.Now().Truncate(time.Second),
	}
	require.NoError(t, ix.Put(want))

	got, err := ix.Get("sale")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Depends, got.Depends)
	assert.Equal(t, want.Dir, got.Dir)

	missing, err := ix.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPut_ReplacesExisting(t *testing.T) {
	t.Parallel()
	ix := openTestIndex(t)

	require.NoError(t, ix.Put(&Module{Name: "sale", Root: "/a", Dir: "/a/sale"}))
	require.NoError(t, ix.Put(&Module{Name: "sale", Root: "/b", Dir: "/b/sale", Depends: []string{"base"}}))

	got, err := ix.Get("sale")
	require.NoError(t, err)
	assert.Equal(t, "/b/sale", got.Dir)
	assert.Equal(t, []string{"base"}, got.Depends)

	n, err := ix.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetadata(t *testing.T) {
	t.Parallel()
	ix := openTestIndex(t)

	v, err := ix.GetMetadata("missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, ix.SetMetadata("k", "v1"))
	require.NoError(t, ix.SetMetadata("k", "v2"))
	v, err = ix.GetMetadata("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestScan_IndexesModulesFirstRootWins(t *testing.T) {
	t.Parallel()
	rootA := t.TempDir()
	rootB := t.TempDir()

	writeModule(t, rootA, "sale", `{"depends": ["base", "mail"]}`)
	writeModule(t, rootB, "sale", `{"depends": ["base"]}`)
	writeModule(t, rootB, "crm", `{"depends": ["base"]}`)
	// A plain directory is not a module.
	require.NoError(t, os.MkdirAll(filepath.Join(rootA, "docs"), 0o755))

	ix := openTestIndex(t)
	n, err := Scan(ix, []string{rootA, rootB}, log.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	sale, err := ix.Get("sale")
	require.NoError(t, err)
	assert.Equal(t, rootA, sale.Root)
	assert.Equal(t, []string{"base", "mail"}, sale.Depends)

	roots, err := ix.BuiltFrom()
	require.NoError(t, err)
	assert.Equal(t, []string{rootA, rootB}, roots)

	all, err := ix.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "crm", all[0].Name) // ordered by name
}

func TestScan_MalformedManifestIndexedWithoutDeps(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeModule(t, root, "broken", `{"depends": ["base"`)

	ix := openTestIndex(t)
	n, err := Scan(ix, []string{root}, log.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	m, err := ix.Get("broken")
	require.NoError(t, err)
	assert.Empty(t, m.Depends)
}

func TestResolve_ChecksModuleStillExists(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	dir := writeModule(t, root, "sale", `{}`)

	ix := openTestIndex(t)
	_, err := Scan(ix, []string{root}, log.New(io.Discard))
	require.NoError(t, err)

	got, ok := ix.Resolve("sale")
	require.True(t, ok)
	assert.Equal(t, dir, got)

	// Stale index entry: module removed from disk.
	require.NoError(t, os.RemoveAll(dir))
	_, ok = ix.Resolve("sale")
	assert.False(t, ok)
}

func writeModule(t *testing.T, root, name, manifest string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "__manifest__.py"), []byte(manifest), 0o644))
	return dir
}
