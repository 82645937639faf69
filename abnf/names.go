package abnf

import "strings"

// reserved holds the AST navigation names that a lowered production name
// must not collide with, so that a grammar's "text" or "children" rule
// cannot be confused with the tree-walking operations of that name.
var reserved = map[string]bool{
	"children":        true,
	"countchildren":   true,
	"firstchildnamed": true,
	"lastchild":       true,
	"depth":           true,
	"len":             true,
	"text":            true,
	"stripped":        true,
}

// normalizeName lowercases a rulename and replaces "-" with "_", ABNF's
// rulename separator having no equivalent in a Go-side production map
// key. A rulename that collides with a reserved navigation name is
// prefixed, keeping the rest of the name intact for error messages.
func normalizeName(raw string) string {
	n := strings.ToLower(raw)
	n = strings.ReplaceAll(n, "-", "_")
	if reserved[n] {
		n = "p_" + n
	}
	return n
}
