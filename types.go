package addonctx

import (
	"github.com/odev-tools/addonctx/internal/depgraph"
	"github.com/odev-tools/addonctx/internal/extract"
)

// Bundle is the ordered, append-only collection of context artifacts
// produced by extraction. See the extract package for semantics.
type Bundle = extract.Bundle

// Artifact is one (path, content) entry of a Bundle.
type Artifact = extract.Artifact

// Analysis is the structured hint set driving extraction.
type Analysis = extract.Analysis

// Criterion is one flat key-value record inside an analysis category.
type Criterion = extract.Criterion

// Graph is the directed module dependency graph.
type Graph = depgraph.Graph

// ParseAnalysis decodes an analysis specification from JSON.
func ParseAnalysis(data []byte) (*Analysis, error) {
	return extract.ParseAnalysis(data)
}
