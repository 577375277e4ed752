package extract

// Artifact is a single named text fragment in a context bundle. Path is
// namespaced as moduleName/relativePath.
type Artifact struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Bundle is an ordered, append-only collection of artifacts. Insertion order
// is significant: earlier files establish context for later ones. Paths are
// not required to be unique. The extraction engine only appends; the bundle
// is owned by the caller that receives it.
type Bundle struct {
	artifacts []Artifact
}

// Append adds an artifact at the end of the bundle.
func (b *Bundle) Append(path, content string) {
	b.artifacts = append(b.artifacts, Artifact{Path: path, Content: content})
}

// Artifacts returns the artifacts in insertion order. The returned slice is
// the bundle's backing storage; callers must not mutate it while still
// appending.
func (b *Bundle) Artifacts() []Artifact {
	return b.artifacts
}

// Len returns the number of artifacts.
func (b *Bundle) Len() int { return len(b.artifacts) }
