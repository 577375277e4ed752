package llm

import (
	"google.golang.org/genai"

	"github.com/odev-tools/addonctx/internal/extract"
)

// File is one source artifact attached to a prompt.
type File struct {
	Path    string
	Content string
}

// Prompt accumulates a system message, free-form user text, and file
// artifacts, and renders them into the request shape the completion client
// sends. Part order is preserved: earlier files establish context for later
// ones, so callers append bundle artifacts in bundle order.
type Prompt struct {
	system string
	parts  []promptPart
}

type promptPart struct {
	text string
	file *File
}

// SetSystem sets the system message.
func (p *Prompt) SetSystem(content string) { p.system = content }

// System returns the system message, "" when unset.
func (p *Prompt) System() string { return p.system }

// AddText appends free-form user text.
func (p *Prompt) AddText(content string) {
	p.parts = append(p.parts, promptPart{text: content})
}

// AddFile appends a file artifact.
func (p *Prompt) AddFile(path, content string) {
	p.parts = append(p.parts, promptPart{file: &File{Path: path, Content: content}})
}

// AddBundle appends every artifact of an extraction bundle in bundle order.
func (p *Prompt) AddBundle(b *extract.Bundle) {
	for _, a := range b.Artifacts() {
		p.AddFile(a.Path, a.Content)
	}
}

// Len returns the number of user parts.
func (p *Prompt) Len() int { return len(p.parts) }

// Contents renders the user parts as a single user turn. Each file becomes
// a "File: <path>" header part followed by its content, so the model can
// attribute code to files.
func (p *Prompt) Contents() []*genai.Content {
	if len(p.parts) == 0 {
		return nil
	}
	parts := make([]*genai.Part, 0, 2*len(p.parts))
	for _, part := range p.parts {
		if part.file != nil {
			parts = append(parts,
				&genai.Part{Text: "File: " + part.file.Path},
				&genai.Part{Text: part.file.Content},
			)
			continue
		}
		parts = append(parts, &genai.Part{Text: part.text})
	}
	return []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
}

// systemInstruction renders the system message for the request config, nil
// when unset.
func (p *Prompt) systemInstruction() *genai.Content {
	if p.system == "" {
		return nil
	}
	return &genai.Content{Parts: []*genai.Part{{Text: p.system}}}
}
