// Package manifest reads Odoo module manifests (__manifest__.py) without
// executing Python. The file is parsed with tree-sitter's Python grammar and
// only the literal structure of its single dictionary is evaluated: strings,
// numbers, booleans, None, lists, tuples, and nested dicts. Anything else
// (function calls, comprehensions, names) makes the read fail instead of
// silently producing wrong data.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrNoLiteral is returned when the file contains no top-level dictionary
// literal to read.
var ErrNoLiteral = errors.New("manifest: no dictionary literal found")

// Manifest is the decoded manifest mapping. Values are Go equivalents of the
// Python literals: string, int64, float64, bool, nil, []any, Manifest.
type Manifest map[string]any

// Depends returns the declared dependency names, preserving manifest order.
// Non-string entries are ignored.
func (m Manifest) Depends() []string {
	raw, ok := m["depends"].([]any)
	if !ok {
		return nil
	}
	deps := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			deps = append(deps, s)
		}
	}
	return deps
}

// Name returns the manifest's "name" entry, or "" when absent.
func (m Manifest) Name() string {
	s, _ := m["name"].(string)
	return s
}

// Read parses the manifest file at path. Missing, unreadable, and malformed
// files all return a nil Manifest and an error; callers treat that as "no
// dependencies, no content".
func Read(path string) (Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// Parse evaluates the first top-level dictionary literal in src.
func Parse(src []byte) (Manifest, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	dict := findTopLevelDict(tree.RootNode())
	if dict == nil {
		return nil, ErrNoLiteral
	}

	val, err := evalLiteral(dict, src)
	if err != nil {
		return nil, err
	}
	m, ok := val.(Manifest)
	if !ok {
		return nil, ErrNoLiteral
	}
	return m, nil
}

// findTopLevelDict returns the first dictionary expression directly under the
// module node. Comments and docstrings before the dict are skipped.
func findTopLevelDict(root *sitter.Node) *sitter.Node {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "expression_statement" {
			continue
		}
		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			if expr := stmt.NamedChild(j); expr.Type() == "dictionary" {
				return expr
			}
		}
	}
	return nil
}

// evalLiteral converts a literal node into its Go value. Non-literal nodes
// produce an error naming the offending node type.
func evalLiteral(node *sitter.Node, src []byte) (any, error) {
	switch node.Type() {
	case "string", "concatenated_string":
		return evalString(node, src)
	case "integer":
		text := strings.ReplaceAll(node.Content(src), "_", "")
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q", node.Content(src))
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(node.Content(src), 64)
		if err != nil {
			return nil, fmt.Errorf("bad float %q", node.Content(src))
		}
		return f, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "none":
		return nil, nil
	case "unary_operator":
		inner := node.NamedChild(0)
		if inner == nil || !strings.HasPrefix(node.Content(src), "-") {
			return nil, fmt.Errorf("non-literal expression %q", node.Content(src))
		}
		val, err := evalLiteral(inner, src)
		if err != nil {
			return nil, err
		}
		switch v := val.(type) {
		case int64:
			return -v, nil
		case float64:
			return -v, nil
		}
		return nil, fmt.Errorf("non-numeric negation %q", node.Content(src))
	case "list", "tuple", "set":
		items := make([]any, 0, node.NamedChildCount())
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "comment" {
				continue
			}
			v, err := evalLiteral(child, src)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case "dictionary":
		dict := make(Manifest, node.NamedChildCount())
		for i := 0; i < int(node.NamedChildCount()); i++ {
			pair := node.NamedChild(i)
			switch pair.Type() {
			case "comment":
				continue
			case "pair":
			default:
				return nil, fmt.Errorf("unexpected %s in dictionary", pair.Type())
			}
			keyNode := pair.ChildByFieldName("key")
			valNode := pair.ChildByFieldName("value")
			if keyNode == nil || valNode == nil {
				return nil, errors.New("malformed dictionary pair")
			}
			key, err := evalLiteral(keyNode, src)
			if err != nil {
				return nil, err
			}
			keyStr, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("non-string dictionary key %q", keyNode.Content(src))
			}
			val, err := evalLiteral(valNode, src)
			if err != nil {
				return nil, err
			}
			dict[keyStr] = val
		}
		return dict, nil
	case "ERROR":
		return nil, fmt.Errorf("syntax error near %q", truncate(node.Content(src), 40))
	default:
		return nil, fmt.Errorf("non-literal expression %q (%s)", truncate(node.Content(src), 40), node.Type())
	}
}

// evalString decodes a Python string literal, including implicit
// concatenation of adjacent literals.
func evalString(node *sitter.Node, src []byte) (string, error) {
	if node.Type() == "concatenated_string" {
		var sb strings.Builder
		for i := 0; i < int(node.NamedChildCount()); i++ {
			part, err := evalString(node.NamedChild(i), src)
			if err != nil {
				return "", err
			}
			sb.WriteString(part)
		}
		return sb.String(), nil
	}

	text := node.Content(src)

	// Strip string prefixes (r, u, b, f and combinations).
	raw := false
	for len(text) > 0 {
		c := text[0]
		if c == '\'' || c == '"' {
			break
		}
		if c == 'r' || c == 'R' {
			raw = true
		}
		text = text[1:]
	}

	// Strip matching quotes, triple or single.
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(text, q) && strings.HasSuffix(text, q) && len(text) >= 2*len(q) {
			text = text[len(q) : len(text)-len(q)]
			break
		}
	}

	if raw {
		return text, nil
	}
	return unescape(text), nil
}

// unescape handles the escape sequences that actually occur in manifests.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\', '\'', '"':
			sb.WriteByte(s[i])
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
