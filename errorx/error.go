// Package errorx holds the error types shared across the grammar, engine,
// and ABNF compiler packages.
package errorx

import "fmt"

// GrammarError reports a malformed grammar element detected at construction
// time: a missing child, an empty alternation, an invalid regular
// expression, or a reversed code point range.
type GrammarError struct {
	Op     string
	Detail string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("grammar construction error in %s: %s", e.Op, e.Detail)
}

// LeftRecursionError is raised when the engine observes a goal already
// in progress at the same index, i.e. a production whose first obligation
// is to match itself without consuming input.
type LeftRecursionError struct {
	Goal  string
	Index int
}

func (e *LeftRecursionError) Error() string {
	return fmt.Sprintf("left recursion detected in production %q at index %d; rewrite it as right recursion or repetition", e.Goal, e.Index)
}

// UndefinedProductionError is raised when a reference names a production
// that the grammar never defines.
type UndefinedProductionError struct {
	Name string
}

func (e *UndefinedProductionError) Error() string {
	return fmt.Sprintf("reference to undefined production %q", e.Name)
}

// InvalidSourceError reports that ABNF source text did not parse as a
// rulelist. Index is the farthest position the bootstrap grammar reached
// before giving up, which is usually close to the actual mistake.
type InvalidSourceError struct {
	Index int
	Near  string
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid ABNF source at byte %d, near %q", e.Index, e.Near)
}

// UnsupportedNumericLiteralError reports a %x/%d/%b literal whose base or
// shape the lowering step does not recognize.
type UnsupportedNumericLiteralError struct {
	Text string
}

func (e *UnsupportedNumericLiteralError) Error() string {
	return fmt.Sprintf("unsupported numeric literal %q", e.Text)
}
