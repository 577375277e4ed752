// Package extract slices Odoo module sources into the minimal set of
// fragments relevant to a development task. Each category (models, views,
// controllers, ...) has its own extractor; the engine runs them in a fixed
// order per module and appends every match to a shared bundle. Extraction is
// shallow and best-effort: files are matched by structural patterns, not by
// interpreting Odoo's module system, and any single file's read or parse
// failure is logged and skipped, never fatal.
package extract

import (
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Context carries the per-module inputs shared by every extractor.
type Context struct {
	// Module is the technical module name, Dir its resolved directory.
	Module string
	Dir    string

	// Analysis filters what each category keeps. Never mutated.
	Analysis *Analysis

	// Override names a module under active development whose model files are
	// force-included even without matching analysis hints.
	Override string

	// Bundle receives matches. Extractors only append.
	Bundle *Bundle

	Logger *log.Logger
}

// artifactPath namespaces a file path inside the module directory as
// module/relative, with forward slashes regardless of platform.
func (c *Context) artifactPath(file string) string {
	rel, err := filepath.Rel(c.Dir, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	return path.Join(c.Module, filepath.ToSlash(rel))
}

// appendFile reads file and appends it verbatim to the bundle. Read failures
// are logged and swallowed.
func (c *Context) appendFile(file string) {
	content, err := os.ReadFile(file)
	if err != nil {
		c.Logger.Warn("skipping unreadable file", "module", c.Module, "file", file, "err", err)
		return
	}
	c.Bundle.Append(c.artifactPath(file), string(content))
}

// Extractor is one category extraction pass. Extractors share the Context
// contract and are independent of each other.
type Extractor interface {
	// Name is the category label used in summaries.
	Name() string
	// Extract appends this category's matches for the module to ctx.Bundle.
	// Implementations handle their own per-file failures; a returned error
	// means the whole category pass failed and is logged by the caller.
	Extract(ctx *Context) error
}

// Extractors returns the category extractors in the fixed per-module
// emission order: manifest, models, views, controllers, assets, security,
// reports, website templates, data files.
func Extractors() []Extractor {
	return []Extractor{
		manifestExtractor{},
		modelsExtractor{},
		viewsExtractor{},
		controllersExtractor{},
		assetsExtractor{},
		securityExtractor{},
		reportsExtractor{},
		websiteExtractor{},
		dataExtractor{},
	}
}
