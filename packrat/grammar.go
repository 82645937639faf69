package packrat

import (
	"fmt"

	"github.com/kanreki/pegrat/element"
	"github.com/kanreki/pegrat/errorx"
)

// Grammar is a mapping from production name to production body. It is
// immutable once handed to an Engine: productions are added only while
// the grammar is being built, either by the ABNF compiler or through a
// Builder.
type Grammar struct {
	productions map[string]*element.Element
	order       []string
}

// NewGrammar returns an empty grammar ready for Define calls.
func NewGrammar() *Grammar {
	return &Grammar{productions: map[string]*element.Element{}}
}

// Define adds a production. It is an error to define the same name twice
// or to give it a nil body.
func (g *Grammar) Define(name string, body *element.Element) error {
	if name == "" {
		return &errorx.GrammarError{Op: "define", Detail: "a production needs a non-empty name"}
	}
	if body == nil {
		return &errorx.GrammarError{Op: "define", Detail: fmt.Sprintf("production %q has no body", name)}
	}
	if _, exists := g.productions[name]; exists {
		return &errorx.GrammarError{Op: "define", Detail: fmt.Sprintf("production %q is already defined", name)}
	}
	g.productions[name] = body
	g.order = append(g.order, name)
	return nil
}

// Extend adds body as another alternative of an existing production,
// used to lower ABNF's "=/" incremental-alternatives operator. It is an
// error to extend a name that has not been defined yet.
func (g *Grammar) Extend(name string, body *element.Element) error {
	existing, ok := g.productions[name]
	if !ok {
		return &errorx.GrammarError{Op: "extend", Detail: fmt.Sprintf("production %q has no prior definition to extend", name)}
	}
	merged, err := element.NewChoice(existing, body)
	if err != nil {
		return err
	}
	g.productions[name] = merged
	return nil
}

// Lookup returns the body of a named production.
func (g *Grammar) Lookup(name string) (*element.Element, bool) {
	e, ok := g.productions[name]
	return e, ok
}

// Names returns production names in definition order.
func (g *Grammar) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}
