package executor

import (
	"strings"

	language "github.com/hanpama/gqlcompose/internal/language"
)

// SelectedFieldNames returns the field paths selected beneath the task's field.
// Paths are dot-delimited for nested selections ("avatar", "avatar.url") and
// appear in depth-first order of first appearance. Fragments are flattened
// regardless of their type condition, aliases are ignored, and meta fields
// starting with "__" are skipped.
func (t ResolveTask) SelectedFieldNames() []string {
	seen := make(map[string]bool)
	var out []string
	visited := make(map[string]bool)
	var walk func(prefix string, set language.SelectionSet)
	walk = func(prefix string, set language.SelectionSet) {
		for _, selection := range set {
			switch sel := selection.(type) {
			case *language.Field:
				if strings.HasPrefix(sel.Name, "__") {
					continue
				}
				name := sel.Name
				if prefix != "" {
					name = prefix + "." + sel.Name
				}
				if !seen[name] {
					seen[name] = true
					out = append(out, name)
				}
				walk(name, sel.SelectionSet)
			case *language.InlineFragment:
				walk(prefix, sel.SelectionSet)
			case *language.FragmentSpread:
				if t.Document == nil || visited[prefix+"/"+sel.Name] {
					continue
				}
				visited[prefix+"/"+sel.Name] = true
				if def := getFragmentDefinition(t.Document, sel.Name); def != nil {
					walk(prefix, def.SelectionSet)
				}
			}
		}
	}
	walk("", mergeSelectionSets(t.Fields))
	if out == nil {
		return []string{}
	}
	return out
}
