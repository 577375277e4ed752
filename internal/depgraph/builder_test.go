package depgraph

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odev-tools/addonctx/internal/manifest"
)

// fakeRepo resolves every listed module to a fake path and serves canned
// dependency lists.
type fakeRepo struct {
	depends map[string][]string
}

func (f *fakeRepo) Resolve(name string) (string, bool) {
	if _, ok := f.depends[name]; !ok {
		return "", false
	}
	return "/addons/" + name, true
}

func (f *fakeRepo) read(dir string) (manifest.Manifest, error) {
	for name, deps := range f.depends {
		if dir == "/addons/"+name {
			raw := make([]any, len(deps))
			for i, d := range deps {
				raw[i] = d
			}
			return manifest.Manifest{"depends": raw}, nil
		}
	}
	return nil, fmt.Errorf("no manifest in %s", dir)
}

func newTestBuilder(repo *fakeRepo) *Builder {
	return NewBuilder(repo,
		WithManifestFunc(repo.read),
		WithLogger(log.New(io.Discard)),
	)
}

func TestBuild_DepthOneStopsExpansion(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{depends: map[string][]string{
		"sale": {"base", "mail"},
		"base": {},
		"mail": {"base"},
	}}

	g := newTestBuilder(repo).Build([]string{"sale"}, 1)

	assert.ElementsMatch(t, []string{"sale", "base", "mail"}, g.Nodes())
	assert.True(t, g.HasEdge("base", "sale"))
	assert.True(t, g.HasEdge("mail", "sale"))
	// base and mail sit at the depth cutoff: their own dependencies are not
	// traversed, so mail→base is absent.
	assert.False(t, g.HasEdge("base", "mail"))
}

func TestBuild_UnboundedFollowsTransitives(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{depends: map[string][]string{
		"website_sale": {"sale", "website"},
		"sale":         {"base", "mail"},
		"website":      {"base"},
		"mail":         {"base"},
		"base":         {},
	}}

	g := newTestBuilder(repo).Build([]string{"website_sale"}, -1)

	assert.Equal(t, 5, g.Len())
	assert.True(t, g.HasEdge("base", "mail"))
	assert.True(t, g.HasEdge("mail", "sale"))

	order, hasCycle := g.TopoSort()
	require.False(t, hasCycle)
	assert.Equal(t, "website_sale", order[len(order)-1])
}

func TestBuild_MissingModuleStaysALeafNode(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{depends: map[string][]string{
		"my_module": {"ghost"},
	}}

	g := newTestBuilder(repo).Build([]string{"my_module"}, -1)

	// ghost is referenced, so it is a node, but it has no outgoing expansion.
	assert.True(t, g.Has("ghost"))
	assert.Equal(t, []string{"my_module"}, g.Dependents("ghost"))
	assert.Empty(t, g.Dependencies("ghost"))
}

func TestBuild_SeedAlsoReachedAsDependency(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{depends: map[string][]string{
		"sale": {"mail"},
		"mail": {"base"},
		"base": {},
	}}

	// mail is both a seed (depth 0) and a dependency of sale. FIFO order
	// dequeues it at depth 0 first, so its dependencies are expanded even
	// with maxDepth 1.
	g := newTestBuilder(repo).Build([]string{"mail", "sale"}, 1)

	assert.True(t, g.HasEdge("base", "mail"))
	assert.True(t, g.HasEdge("mail", "sale"))
}

func TestBuild_CyclicManifestsDoNotCrash(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{depends: map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}}

	g := newTestBuilder(repo).Build([]string{"a"}, -1)
	order, hasCycle := g.TopoSort()
	assert.True(t, hasCycle)
	assert.ElementsMatch(t, []string{"a", "b"}, order)
}

func TestBuild_ManifestReadFailureIsNonFatal(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{depends: map[string][]string{"broken": {}}}
	b := NewBuilder(repo,
		WithManifestFunc(func(string) (manifest.Manifest, error) {
			return nil, fmt.Errorf("syntax error")
		}),
		WithLogger(log.New(io.Discard)),
	)

	g := b.Build([]string{"broken"}, -1)
	assert.Equal(t, []string{"broken"}, g.Nodes())
}
