package extract

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// manifestExtractor always includes the module's manifest verbatim when one
// exists. The manifest anchors every other fragment: it names the module and
// declares what the rest of the bundle hangs off.
type manifestExtractor struct{}

func (manifestExtractor) Name() string { return "manifests" }

func (manifestExtractor) Extract(c *Context) error {
	for _, name := range []string{"__manifest__.py", "__openerp__.py"} {
		p := filepath.Join(c.Dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			c.appendFile(p)
			return nil
		}
	}
	return nil
}

// modelsExtractor slices model files down to the class blocks that declare
// or extend a requested model. Only files imported by models/__init__.py are
// considered: unimported files are not loaded by Odoo and would be noise.
type modelsExtractor struct{}

func (modelsExtractor) Name() string { return "models" }

var initImportRe = regexp.MustCompile(`^\s*from\s+\.\s+import\s+([\w, ]+)`)

func (modelsExtractor) Extract(c *Context) error {
	modelsDir := filepath.Join(c.Dir, "models")
	initSrc, err := os.ReadFile(filepath.Join(modelsDir, "__init__.py"))
	if err != nil {
		return nil // no models package
	}

	wanted := c.Analysis.ModelNames()
	if len(wanted) == 0 && c.Module != c.Override {
		return nil
	}

	for _, file := range importedFiles(modelsDir, string(initSrc)) {
		src, err := os.ReadFile(file)
		if err != nil {
			c.Logger.Warn("skipping unreadable model file", "module", c.Module, "file", file, "err", err)
			continue
		}
		if len(wanted) == 0 {
			// Override module with no specific models requested: keep the
			// whole file, it is under active development.
			c.Bundle.Append(c.artifactPath(file), string(src))
			continue
		}
		for _, block := range Blocks(string(src)) {
			if block.Matches(wanted) {
				c.Bundle.Append(c.artifactPath(file), block.Text)
			}
		}
	}
	return nil
}

// importedFiles maps "from . import a, b" statements to existing .py files
// under dir, preserving import order.
func importedFiles(dir, initSrc string) []string {
	var files []string
	for _, line := range strings.Split(initSrc, "\n") {
		m := initImportRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, name := range strings.Split(m[1], ",") {
			p := filepath.Join(dir, strings.TrimSpace(name)+".py")
			if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
				files = append(files, p)
			}
		}
	}
	return files
}

// viewsExtractor keeps every XML file containing at least one ir.ui.view
// record for a requested model. Whole files are kept: view inheritance makes
// partial view fragments useless out of context.
type viewsExtractor struct{}

func (viewsExtractor) Name() string { return "views" }

func (viewsExtractor) Extract(c *Context) error {
	wanted := c.Analysis.ViewModels()
	if len(wanted) == 0 {
		return nil
	}
	return matchXMLFiles(c, "ir.ui.view", wanted)
}

// controllersExtractor keeps controller files declaring a requested route.
type controllersExtractor struct{}

func (controllersExtractor) Name() string { return "controllers" }

var (
	routeRe     = regexp.MustCompile(`@http\.route\(\s*['"]([^'"]+)['"]`)
	routeListRe = regexp.MustCompile(`@http\.route\(\s*\[([^\]]+)\]`)
)

func (controllersExtractor) Extract(c *Context) error {
	wanted := c.Analysis.Routes()
	if len(wanted) == 0 {
		return nil
	}
	controllersDir := filepath.Join(c.Dir, "controllers")
	if info, err := os.Stat(controllersDir); err != nil || !info.IsDir() {
		return nil
	}

	return walkFiles(controllersDir, ".py", func(file string) {
		src, err := os.ReadFile(file)
		if err != nil {
			c.Logger.Warn("skipping unreadable controller", "module", c.Module, "file", file, "err", err)
			return
		}
		routes := captureAll(routeRe, string(src))
		for _, list := range routeListRe.FindAllStringSubmatch(string(src), -1) {
			routes = append(routes, captureAll(quotedRe, list[1])...)
		}
		for _, route := range routes {
			if _, ok := wanted[route]; ok {
				c.Bundle.Append(c.artifactPath(file), string(src))
				return
			}
		}
	})
}

// assetsExtractor resolves requested asset paths against the module. The
// direct module-relative path is tried first (stripping a leading
// /moduleName/ prefix, the form asset bundles use); on a miss it falls back
// to a filename search across the module tree and keeps the first match in
// lexicographic walk order.
type assetsExtractor struct{}

func (assetsExtractor) Name() string { return "assets" }

func (assetsExtractor) Extract(c *Context) error {
	for _, asset := range c.Analysis.Assets {
		rel := asset["file_path"]
		if rel == "" {
			continue
		}
		rel = strings.TrimPrefix(rel, "/"+c.Module+"/")

		direct := filepath.Join(c.Dir, filepath.FromSlash(rel))
		if info, err := os.Stat(direct); err == nil && info.Mode().IsRegular() {
			c.appendFile(direct)
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(c.Dir), "**/"+path.Base(rel))
		if err != nil || len(matches) == 0 {
			c.Logger.Warn("asset not found", "module", c.Module, "path", asset["file_path"])
			continue
		}
		c.appendFile(filepath.Join(c.Dir, filepath.FromSlash(matches[0])))
	}
	return nil
}

// securityExtractor includes every access-rule file directly inside
// security/ verbatim.
type securityExtractor struct{}

func (securityExtractor) Name() string { return "security" }

func (securityExtractor) Extract(c *Context) error {
	return includeDirFiles(c, "security", ".csv", ".xml")
}

// reportsExtractor matches ir.actions.report records the same way views are
// matched.
type reportsExtractor struct{}

func (reportsExtractor) Name() string { return "reports" }

func (reportsExtractor) Extract(c *Context) error {
	wanted := c.Analysis.ReportModels()
	if len(wanted) == 0 {
		return nil
	}
	return matchXMLFiles(c, "ir.actions.report", wanted)
}

// websiteExtractor keeps XML files defining a requested website template.
type websiteExtractor struct{}

func (websiteExtractor) Name() string { return "website" }

func (websiteExtractor) Extract(c *Context) error {
	ids := c.Analysis.TemplateIDs()
	if len(ids) == 0 {
		return nil
	}
	return walkFiles(c.Dir, ".xml", func(file string) {
		src, err := os.ReadFile(file)
		if err != nil {
			return
		}
		if ok, err := hasMatchingTemplate(src, ids); err == nil && ok {
			c.Bundle.Append(c.artifactPath(file), string(src))
		}
	})
}

// dataExtractor includes every data file directly inside data/ verbatim.
type dataExtractor struct{}

func (dataExtractor) Name() string { return "data" }

func (dataExtractor) Extract(c *Context) error {
	return includeDirFiles(c, "data", ".xml", ".csv")
}

// matchXMLFiles walks the module for XML files containing a matching record
// and appends them whole. Malformed XML is skipped silently.
func matchXMLFiles(c *Context, recordModel string, wanted map[string]struct{}) error {
	return walkFiles(c.Dir, ".xml", func(file string) {
		src, err := os.ReadFile(file)
		if err != nil {
			return
		}
		if ok, err := hasMatchingRecord(src, recordModel, wanted); err == nil && ok {
			c.Bundle.Append(c.artifactPath(file), string(src))
		}
	})
}

// includeDirFiles appends every file with one of the extensions directly
// inside the named subdirectory (no recursion), in directory order.
func includeDirFiles(c *Context, subdir string, exts ...string) error {
	entries, err := os.ReadDir(filepath.Join(c.Dir, subdir))
	if err != nil {
		return nil // directory absent
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		for _, ext := range exts {
			if strings.HasSuffix(entry.Name(), ext) {
				c.appendFile(filepath.Join(c.Dir, subdir, entry.Name()))
				break
			}
		}
	}
	return nil
}

// walkFiles visits every file under root with the given extension in
// lexicographic order.
func walkFiles(root, ext string, visit func(file string)) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, skip
		}
		if !d.IsDir() && strings.HasSuffix(p, ext) {
			visit(p)
		}
		return nil
	})
}
