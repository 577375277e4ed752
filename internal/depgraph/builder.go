package depgraph

import (
	"fmt"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/odev-tools/addonctx/internal/addons"
	"github.com/odev-tools/addonctx/internal/manifest"
)

// manifestCacheSize bounds the per-builder manifest cache. A full Odoo
// community+enterprise checkout is ~2500 modules; a traversal touches far
// fewer.
const manifestCacheSize = 512

// Resolver locates a module directory by name.
type Resolver interface {
	Resolve(name string) (string, bool)
}

// ManifestFunc reads the manifest of the module at dir. The default
// implementation probes the known manifest file names and parses the literal
// dictionary.
type ManifestFunc func(dir string) (manifest.Manifest, error)

// Builder constructs dependency graphs by walking manifests breadth-first
// from a seed set. A Builder is safe to reuse across builds; manifests read
// once are served from an LRU cache.
type Builder struct {
	resolver Resolver
	read     ManifestFunc
	logger   *log.Logger
	cache    *lru.Cache[string, manifest.Manifest]
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithManifestFunc overrides how manifests are read.
func WithManifestFunc(read ManifestFunc) BuilderOption {
	return func(b *Builder) { b.read = read }
}

// WithLogger sets the logger used for traversal warnings.
func WithLogger(logger *log.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a Builder resolving modules through r.
func NewBuilder(r Resolver, opts ...BuilderOption) *Builder {
	b := &Builder{
		resolver: r,
		read:     readModuleManifest,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.cache, _ = lru.New[string, manifest.Manifest](manifestCacheSize)
	return b
}

// readModuleManifest is the default ManifestFunc.
func readModuleManifest(dir string) (manifest.Manifest, error) {
	path, ok := addons.ManifestPath(dir)
	if !ok {
		return nil, fmt.Errorf("no manifest in %s", dir)
	}
	return manifest.Read(path)
}

// workItem pairs a queued module with the depth it was first reached at.
type workItem struct {
	name  string
	depth int
}

// Build walks dependencies breadth-first from seeds (at depth 0) and returns
// the resulting graph. maxDepth < 0 means unbounded; otherwise modules at
// depth >= maxDepth are added as nodes but not expanded. Each module is
// processed exactly once, at the shallowest depth it is dequeued (FIFO order
// guarantees shallowest-first). Unresolved modules and unreadable manifests
// are logged and contribute no outgoing edges; they never abort the build.
func (b *Builder) Build(seeds []string, maxDepth int) *Graph {
	g := New()
	queue := make([]workItem, 0, len(seeds))
	for _, name := range seeds {
		queue = append(queue, workItem{name: name, depth: 0})
	}
	processed := make(map[string]struct{}, len(seeds))

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if _, done := processed[item.name]; done {
			continue
		}
		processed[item.name] = struct{}{}
		g.AddNode(item.name)

		if maxDepth >= 0 && item.depth >= maxDepth {
			continue
		}

		dir, ok := b.resolver.Resolve(item.name)
		if !ok {
			b.logger.Warn("module not found in addon roots", "module", item.name)
			continue
		}

		m, err := b.readManifest(item.name, dir)
		if err != nil {
			b.logger.Warn("unreadable manifest", "module", item.name, "err", err)
			continue
		}

		for _, dep := range m.Depends() {
			g.AddEdge(dep, item.name)
			if _, done := processed[dep]; !done {
				queue = append(queue, workItem{name: dep, depth: item.depth + 1})
			}
		}
	}

	return g
}

func (b *Builder) readManifest(name, dir string) (manifest.Manifest, error) {
	if m, ok := b.cache.Get(name); ok {
		return m, nil
	}
	m, err := b.read(dir)
	if err != nil {
		return nil, err
	}
	b.cache.Add(name, m)
	return m, nil
}
