package packrat

import "github.com/kanreki/pegrat/element"

// Builder accumulates productions into a Grammar, the programmatic
// counterpart to compiling ABNF source. Embedders call Define for each
// production, composing bodies out of Seq, Alt, Many, Some, Opt, Lit,
// Neg, Pos, Eof, and Ref; the result is a grammar of identical shape to
// one the ABNF compiler would have produced.
//
// There is no missing-method hook here: a reference to another
// production is always spelled out with Ref, keeping grammar
// construction and parsing state separate.
type Builder struct {
	g   *Grammar
	err error
}

// NewBuilder returns a Builder over an empty grammar.
func NewBuilder() *Builder {
	return &Builder{g: NewGrammar()}
}

// Define adds a production to the grammar under construction. The first
// error encountered by any Define call is sticky and is returned by
// Grammar.
func (b *Builder) Define(name string, body *element.Element) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.g.Define(name, body); err != nil {
		b.err = err
	}
	return b
}

// Grammar finalizes the builder, returning the first construction error
// encountered, if any.
func (b *Builder) Grammar() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.g, nil
}

// Seq requires every child to match in order.
func Seq(children ...*element.Element) *element.Element {
	e, err := element.NewSequence(children...)
	if err != nil {
		panic(err)
	}
	return e
}

// Alt tries children in order and commits to the first match.
func Alt(children ...*element.Element) *element.Element {
	e, err := element.NewChoice(children...)
	if err != nil {
		panic(err)
	}
	return e
}

// One is an alias for Alt.
func One(children ...*element.Element) *element.Element {
	return Alt(children...)
}

// Many matches child zero or more times.
func Many(child *element.Element) *element.Element {
	e, err := element.NewRepetition(child, 0, element.Unbounded)
	if err != nil {
		panic(err)
	}
	return e
}

// Some matches child one or more times.
func Some(child *element.Element) *element.Element {
	e, err := element.NewRepetition(child, 1, element.Unbounded)
	if err != nil {
		panic(err)
	}
	return e
}

// Opt matches child zero or one time.
func Opt(child *element.Element) *element.Element {
	e, err := element.NewRepetition(child, 0, 1)
	if err != nil {
		panic(err)
	}
	return e
}

// Lit builds a case-sensitive string literal. With more than one value it
// sugars to a prioritized alternation of string literals, in the order
// given.
func Lit(values ...string) *element.Element {
	if len(values) == 0 {
		panic("packrat: lit needs at least one value")
	}
	if len(values) == 1 {
		return element.NewLiteralString(values[0])
	}
	lits := make([]*element.Element, len(values))
	for i, v := range values {
		lits[i] = element.NewLiteralString(v)
	}
	return Alt(lits...)
}

// LitRegex builds a literal from an anchored regular expression.
func LitRegex(pattern string) *element.Element {
	e, err := element.NewLiteralRegex(pattern)
	if err != nil {
		panic(err)
	}
	return e
}

// Neg is negative lookahead.
func Neg(child *element.Element) *element.Element {
	e, err := element.NewNegative(child)
	if err != nil {
		panic(err)
	}
	return e
}

// Pos is positive lookahead.
func Pos(child *element.Element) *element.Element {
	e, err := element.NewPositive(child)
	if err != nil {
		panic(err)
	}
	return e
}

// Eof matches the end of input.
func Eof() *element.Element {
	return element.NewEOF()
}

// Ref creates a reference to a production defined elsewhere in the
// grammar, dispatched through the engine so memoization applies.
func Ref(name string) *element.Element {
	e, err := element.NewReference(name)
	if err != nil {
		panic(err)
	}
	return e
}
