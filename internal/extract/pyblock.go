package extract

import (
	"regexp"
	"strings"
)

// Block is one class declaration block sliced out of a Python source file,
// together with the model names it declares (_name) or extends (_inherit).
type Block struct {
	Text     string
	Names    []string
	Inherits []string
}

var (
	classRe       = regexp.MustCompile(`^(\s*)class\s+.*:`)
	nameAssignRe  = regexp.MustCompile(`_name\s*=\s*['"]([^'"]+)['"]`)
	inheritRe     = regexp.MustCompile(`_inherit\s*=\s*['"]([^'"]+)['"]`)
	inheritListRe = regexp.MustCompile(`_inherit\s*=\s*\[([^\]]+)\]`)
	quotedRe      = regexp.MustCompile(`['"]([^'"]+)['"]`)
)

// Blocks slices src into class declaration blocks by indentation: a block
// starts at a line matching the class keyword and extends until the next
// non-blank line at the same or lower indentation. This is a heuristic
// substitute for a real Python parser, good enough for the flat class
// layout of Odoo model files, and kept behind this narrow interface so it
// can be replaced by a syntax-tree extractor without touching the rest.
func Blocks(src string) []Block {
	lines := strings.Split(src, "\n")
	var blocks []Block

	i := 0
	for i < len(lines) {
		m := classRe.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}
		indent := len(m[1])
		blockLines := []string{lines[i]}

		j := i + 1
		for j < len(lines) {
			line := lines[j]
			if strings.TrimSpace(line) != "" && leadingSpaces(line) <= indent {
				break
			}
			blockLines = append(blockLines, line)
			j++
		}

		text := strings.Join(blockLines, "\n")
		blocks = append(blocks, Block{
			Text:     text,
			Names:    captureAll(nameAssignRe, text),
			Inherits: inheritedModels(text),
		})
		i = j
	}
	return blocks
}

// Matches reports whether the block declares or extends any of the wanted
// model names.
func (b Block) Matches(wanted map[string]struct{}) bool {
	for _, n := range b.Names {
		if _, ok := wanted[n]; ok {
			return true
		}
	}
	for _, n := range b.Inherits {
		if _, ok := wanted[n]; ok {
			return true
		}
	}
	return false
}

// inheritedModels collects _inherit targets in both the single-string and
// list-valued assignment forms.
func inheritedModels(text string) []string {
	names := captureAll(inheritRe, text)
	for _, list := range inheritListRe.FindAllStringSubmatch(text, -1) {
		names = append(names, captureAll(quotedRe, list[1])...)
	}
	return names
}

func captureAll(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

func leadingSpaces(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}
