package addonctx

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/odev-tools/addonctx/internal/addons"
	"github.com/odev-tools/addonctx/internal/depgraph"
	"github.com/odev-tools/addonctx/internal/extract"
)

// DefaultExclude is the foundation-module set skipped during extraction.
// These ship with every Odoo installation and are assumed already known to
// the consumer, so re-extracting them only wastes context space.
var DefaultExclude = []string{"base", "web", "mail", "utm"}

// Engine orchestrates the addonctx pipeline: module resolution, dependency
// graph construction, ordering, and context extraction.
type Engine struct {
	resolver depgraph.Resolver
	builder  *depgraph.Builder
	logger   *log.Logger
	exclude  map[string]struct{}
	override string
	maxDepth int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithExclude replaces the excluded foundation-module set.
func WithExclude(names ...string) Option {
	return func(e *Engine) {
		e.exclude = make(map[string]struct{}, len(names))
		for _, n := range names {
			e.exclude[n] = struct{}{}
		}
	}
}

// WithOverrideModule names a module under active development whose model
// files are included whole even without matching analysis hints.
func WithOverrideModule(name string) Option {
	return func(e *Engine) { e.override = name }
}

// WithMaxDepth bounds dependency traversal. Modules first reached at the
// given depth become graph leaves. Negative means unbounded, the default.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) { e.maxDepth = depth }
}

// WithResolver replaces the filesystem resolver, e.g. with a prebuilt
// module index.
func WithResolver(r depgraph.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// New creates an Engine resolving modules across roots, in order.
func New(roots []string, opts ...Option) *Engine {
	e := &Engine{
		resolver: addons.NewResolver(roots...),
		logger:   log.Default(),
		maxDepth: -1,
	}
	WithExclude(DefaultExclude...)(e)
	for _, opt := range opts {
		opt(e)
	}
	e.builder = depgraph.NewBuilder(e.resolver, depgraph.WithLogger(e.logger))
	return e
}

// Graph builds the dependency graph reachable from seeds, honoring the
// engine's depth bound.
func (e *Engine) Graph(seeds []string) *Graph {
	return e.builder.Build(seeds, e.maxDepth)
}

// Order returns the modules reachable from seeds in install order. When the
// graph contains a cycle, hasCycle is true and the order degrades to the
// graph's insertion order.
func (e *Engine) Order(seeds []string) (order []string, hasCycle bool) {
	return e.Graph(seeds).TopoSort()
}

// Extract builds and orders the dependency graph from seeds, then runs the
// category extractors over each module, appending matches to a fresh
// bundle. Excluded and unresolved modules are skipped. All file-level
// failures are logged and skipped; extraction always runs to completion.
func (e *Engine) Extract(seeds []string, analysis *Analysis) *Bundle {
	order, hasCycle := e.Order(seeds)
	if hasCycle {
		e.logger.Error("circular dependency detected, context may be incomplete")
	}
	return e.ExtractModules(order, analysis)
}

// ExtractModules runs extraction over an already-ordered module list. Most
// callers want Extract; this entry point exists for callers that computed
// (or amended) the order themselves.
func (e *Engine) ExtractModules(orderedModules []string, analysis *Analysis) *Bundle {
	if analysis == nil {
		analysis = &Analysis{}
	}
	bundle := &Bundle{}
	summary := newSummary()

	e.logger.Info("gathering context", "modules", strings.Join(orderedModules, ", "))

	for _, module := range orderedModules {
		if _, skip := e.exclude[module]; skip {
			continue
		}
		dir, ok := e.resolver.Resolve(module)
		if !ok {
			e.logger.Warn("no path for module, skipping extraction", "module", module)
			continue
		}

		ctx := &extract.Context{
			Module:   module,
			Dir:      dir,
			Analysis: analysis,
			Override: e.override,
			Bundle:   bundle,
			Logger:   e.logger,
		}
		for _, ex := range extract.Extractors() {
			before := bundle.Len()
			if err := ex.Extract(ctx); err != nil {
				e.logger.Warn("category extraction failed",
					"module", module, "category", ex.Name(), "err", err)
			}
			summary.record(module, ex.Name(), bundle.Artifacts()[before:])
		}
	}

	e.logger.Debug("context summary", "report", summary.String())
	return bundle
}

// poRefRe matches gettext source references of the form
// "#: code:path/to/file:42".
var poRefRe = regexp.MustCompile(`#: code:(.*?):\d+`)

// GatherPO bundles the source files referenced by PO file content. Paths of
// the form addons/<module>/<rest> are resolved through the engine's addon
// roots; each referenced file is included once, in first-reference order.
// Unresolvable references are logged and skipped.
func (e *Engine) GatherPO(poContent string) *Bundle {
	bundle := &Bundle{}
	seen := make(map[string]struct{})
	var modules []string

	for _, m := range poRefRe.FindAllStringSubmatch(poContent, -1) {
		ref := m[1]
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		parts := strings.Split(ref, "/")
		if len(parts) < 3 || parts[0] != "addons" {
			e.logger.Warn("unrecognized context file reference", "path", ref)
			continue
		}
		module := parts[1]
		dir, ok := e.resolver.Resolve(module)
		if !ok {
			e.logger.Warn("could not find context file", "path", ref)
			continue
		}

		full := filepath.Join(dir, filepath.Join(parts[2:]...))
		content, err := os.ReadFile(full)
		if err != nil {
			e.logger.Warn("could not read context file", "path", ref, "err", err)
			continue
		}
		bundle.Append(ref, string(content))
		modules = append(modules, module)
	}

	e.logger.Info("gathered context from translation references",
		"files", bundle.Len(), "modules", strings.Join(dedup(modules), ", "))
	return bundle
}

// summary accumulates per-module, per-category extraction counts for the
// observability report.
type summary struct {
	modules []string
	stats   map[string]map[string]categoryStats
}

type categoryStats struct {
	items, lines, chars int
}

func newSummary() *summary {
	return &summary{stats: make(map[string]map[string]categoryStats)}
}

func (s *summary) record(module, category string, appended []extract.Artifact) {
	if len(appended) == 0 {
		return
	}
	if _, ok := s.stats[module]; !ok {
		s.stats[module] = make(map[string]categoryStats)
		s.modules = append(s.modules, module)
	}
	st := s.stats[module][category]
	for _, a := range appended {
		st.items++
		st.lines += strings.Count(a.Content, "\n") + 1
		st.chars += len(a.Content)
	}
	s.stats[module][category] = st
}

func (s *summary) String() string {
	var sb strings.Builder
	var totalItems, totalLines, totalChars int

	for _, module := range s.modules {
		fmt.Fprintf(&sb, "%s:\n", module)
		categories := make([]string, 0, len(s.stats[module]))
		for c := range s.stats[module] {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			st := s.stats[module][c]
			fmt.Fprintf(&sb, "  %s: %d item(s), %d line(s), %d char(s)\n",
				c, st.items, st.lines, st.chars)
			totalItems += st.items
			totalLines += st.lines
			totalChars += st.chars
		}
	}
	fmt.Fprintf(&sb, "total: %d item(s), %d line(s), %d char(s)",
		totalItems, totalLines, totalChars)
	return sb.String()
}

func dedup(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
