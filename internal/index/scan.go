package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/odev-tools/addonctx/internal/addons"
	"github.com/odev-tools/addonctx/internal/manifest"
)

// rootsKey is the metadata entry recording which roots the index was built
// from, so callers can detect a configuration change.
const rootsKey = "addon_roots"

// Scan rebuilds the index from the given addon roots. Root order is the
// resolver's tie-break policy: a module present in several roots is recorded
// from the first one. Modules whose manifest cannot be parsed are indexed
// with no dependencies and a warning. Returns the number of indexed modules.
func Scan(ix *Index, roots []string, logger *log.Logger) (int, error) {
	if err := ix.Clear(); err != nil {
		return 0, err
	}

	seen := make(map[string]struct{})
	count := 0
	now := time.Now()

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			logger.Warn("skipping unreadable addon root", "root", root, "err", err)
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			if _, dup := seen[name]; dup {
				continue
			}
			dir := filepath.Join(root, name)
			manifestPath, ok := addons.ManifestPath(dir)
			if !ok {
				continue
			}
			seen[name] = struct{}{}

			content, err := os.ReadFile(manifestPath)
			if err != nil {
				logger.Warn("unreadable manifest", "module", name, "err", err)
				continue
			}

			var depends []string
			if m, err := manifest.Parse(content); err != nil {
				logger.Warn("malformed manifest, indexing without dependencies",
					"module", name, "err", err)
			} else {
				depends = m.Depends()
			}

			err = ix.Put(&Module{
				Name:        name,
				Root:        root,
				Dir:         dir,
				Depends:     depends,
				Hash:        HashManifest(content),
				LastScanned: now,
			})
			if err != nil {
				return count, err
			}
			count++
		}
	}

	rootsJSON, err := json.Marshal(roots)
	if err != nil {
		return count, fmt.Errorf("encode roots: %w", err)
	}
	if err := ix.SetMetadata(rootsKey, string(rootsJSON)); err != nil {
		return count, err
	}
	return count, nil
}

// BuiltFrom returns the addon roots the index was last scanned from.
func (ix *Index) BuiltFrom() ([]string, error) {
	raw, err := ix.GetMetadata(rootsKey)
	if err != nil || raw == "" {
		return nil, err
	}
	var roots []string
	if err := json.Unmarshal([]byte(raw), &roots); err != nil {
		return nil, fmt.Errorf("decode roots: %w", err)
	}
	return roots, nil
}

// Resolve serves the graph builder's resolver contract from the index,
// verifying the recorded directory still looks like a module so a stale
// index degrades to "not found" rather than a bad path.
func (ix *Index) Resolve(name string) (string, bool) {
	m, err := ix.Get(name)
	if err != nil || m == nil {
		return "", false
	}
	if !addons.IsModuleDir(m.Dir) {
		return "", false
	}
	return m.Dir, true
}
