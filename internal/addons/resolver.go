// Package addons locates Odoo modules across an ordered list of addon roots.
package addons

import (
	"os"
	"path/filepath"
)

// manifestNames are the files whose presence marks a directory as an Odoo
// module, in the order they are probed. __openerp__.py is the pre-10.0 name
// and still appears in older community modules.
var manifestNames = []string{"__manifest__.py", "__openerp__.py"}

// Resolver finds module directories by probing an ordered list of addon
// roots. The first root containing a valid module wins, so root order is a
// tie-break policy: with the same roots and the same filesystem state,
// Resolve always returns the same path.
type Resolver struct {
	roots []string
}

// NewResolver creates a Resolver over the given roots. Root order is
// significant and preserved.
func NewResolver(roots ...string) *Resolver {
	return &Resolver{roots: append([]string(nil), roots...)}
}

// Roots returns the addon roots in search order.
func (r *Resolver) Roots() []string {
	return append([]string(nil), r.roots...)
}

// Resolve returns the directory of the named module, searching roots in
// order. The boolean is false when no root contains a valid module with
// that name.
func (r *Resolver) Resolve(name string) (string, bool) {
	for _, root := range r.roots {
		dir := filepath.Join(root, name)
		if IsModuleDir(dir) {
			return dir, true
		}
	}
	return "", false
}

// IsModuleDir reports whether dir exists and contains a recognizable
// manifest file.
func IsModuleDir(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	_, ok := ManifestPath(dir)
	return ok
}

// ManifestPath returns the path of the module's manifest file, probing the
// known manifest names in order.
func ManifestPath(dir string) (string, bool) {
	for _, name := range manifestNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}
