// Package addonctx locates Odoo modules across multiple addon roots,
// reconstructs their declared dependency graph, and slices their sources
// into the minimal set of fragments relevant to a development task. The
// result is an ordered bundle of (path, content) artifacts ready to feed a
// reasoning service.
//
// # Pipeline
//
// addonctx operates in three phases:
//
//  1. Resolve: each module name is looked up across an ordered list of
//     addon roots; the first root containing a directory with a manifest
//     wins. Manifests are parsed structurally (tree-sitter), never executed.
//
//  2. Graph: a breadth-first walk over manifest "depends" declarations
//     builds a directed graph (dependency → dependent), optionally bounded
//     by depth. A topological sort yields the install order; cycles degrade
//     to an unordered module list instead of failing.
//
//  3. Extract: for each module in order, category extractors (manifest,
//     models, views, controllers, assets, security, reports, website
//     templates, data) append matching fragments to the bundle, filtered by
//     an analysis specification of model names, routes, asset paths and
//     template ids.
//
// # Usage
//
// Create an Engine over the addon roots, then build graphs or extract
// context:
//
//	e := addonctx.New([]string{"/srv/odoo/addons", "/srv/enterprise"})
//
//	g := e.Graph([]string{"sale"})
//	order, hasCycle := g.TopoSort()
//
//	analysis, err := addonctx.ParseAnalysis(specJSON)
//	if err != nil { ... }
//	bundle := e.Extract([]string{"sale"}, analysis)
//	for _, artifact := range bundle.Artifacts() { ... }
//
// Extraction is shallow and best-effort: files are matched with
// structural patterns, not a full Odoo interpreter, and every per-file
// failure is logged and skipped so a single broken file never aborts the
// pipeline.
package addonctx
